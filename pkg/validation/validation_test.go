package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/datasmith-io/datasmith/pkg/pagination"
)

type openInput struct {
	Path string `json:"path" validate:"required,filepath_ext"`
}

type pageInput struct {
	DatasetID string `json:"dataset_id" validate:"required"`
	Rows      int    `json:"rows" validate:"gte=0"`
	Cursor    string `json:"cursor" validate:"omitempty,cursor"`
}

func TestValidateStruct_FilepathExt(t *testing.T) {
	require.Empty(t, ValidateStruct(openInput{Path: "/data/menu.csv"}))
	require.Empty(t, ValidateStruct(openInput{Path: "/data/menu.XLSX"}))

	msg := ValidateStruct(openInput{Path: "/data/menu.txt"})
	require.Contains(t, msg, "VALIDATION")
	require.Contains(t, msg, ".csv, .xlsx, .xlsm")

	msg = ValidateStruct(openInput{})
	require.Equal(t, "VALIDATION: path is required", msg)
}

func TestValidateStruct_Cursor(t *testing.T) {
	tok, err := pagination.EncodeCursor(pagination.Cursor{Did: "ds-1", Off: 0, Ps: 5})
	require.NoError(t, err)
	require.Empty(t, ValidateStruct(pageInput{DatasetID: "ds-1", Cursor: tok}))

	msg := ValidateStruct(pageInput{DatasetID: "ds-1", Cursor: "not-a-cursor"})
	require.Contains(t, msg, "CURSOR_INVALID")

	// Empty cursor passes with omitempty.
	require.Empty(t, ValidateStruct(pageInput{DatasetID: "ds-1"}))
}

func TestValidateStruct_NumericBounds(t *testing.T) {
	msg := ValidateStruct(pageInput{DatasetID: "ds-1", Rows: -1})
	require.Equal(t, "VALIDATION: rows must satisfy gte=0", msg)
}
