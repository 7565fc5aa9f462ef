// Package transform implements column-level cleaning operations: filling
// missing values, converting column kinds, and min-max normalization.
package transform

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"github.com/datasmith-io/datasmith/internal/dataset"
)

// ErrNotConvertible indicates a column entry that cannot be converted to the
// requested kind.
var ErrNotConvertible = errors.New("transform: value not convertible")

// kindAliases maps user-facing type names onto value kinds.
var kindAliases = map[string]dataset.Kind{
	"int":     dataset.KindNumber,
	"float":   dataset.KindNumber,
	"number":  dataset.KindNumber,
	"numeric": dataset.KindNumber,
	"str":     dataset.KindText,
	"string":  dataset.KindText,
	"text":    dataset.KindText,
	"bool":    dataset.KindBool,
	"boolean": dataset.KindBool,
}

// FillMissing replaces missing cells of a column with the given value.
// Finding no missing cells is an explicit no-op.
func FillMissing(t *dataset.Table, column, value string) (string, *dataset.Table, error) {
	ci, err := t.ColumnIndex(column)
	if err != nil {
		return "", nil, err
	}
	missing := 0
	for _, row := range t.Rows {
		if row[ci].IsMissing() {
			missing++
		}
	}
	if missing == 0 {
		return fmt.Sprintf("No missing values found in column %q", column), nil, nil
	}
	fill := dataset.Parse(value)
	out := t.Clone()
	for i := range out.Rows {
		if out.Rows[i][ci].IsMissing() {
			out.Rows[i][ci] = fill
		}
	}
	return fmt.Sprintf("Filled %d missing values in %q with %q", missing, column, value), out, nil
}

// ConvertColumn converts every cell of a column to the requested kind.
// Aliases like "int", "str", "boolean" resolve to the canonical kinds. A
// cell that does not convert aborts the whole operation.
func ConvertColumn(t *dataset.Table, column, kind string) (string, *dataset.Table, error) {
	ci, err := t.ColumnIndex(column)
	if err != nil {
		return "", nil, err
	}
	target, ok := kindAliases[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return "", nil, fmt.Errorf("transform: unknown type %q (use one of: int, float, str, bool)", kind)
	}
	out := t.Clone()
	for i := range out.Rows {
		v := out.Rows[i][ci]
		if v.IsMissing() {
			continue
		}
		converted, err := convert(v, target)
		if err != nil {
			return "", nil, fmt.Errorf("failed to convert column %q to %q: row %d: %w", column, kind, i+1, err)
		}
		out.Rows[i][ci] = converted
	}
	return fmt.Sprintf("Converted column %q to %s", column, target), out, nil
}

func convert(v dataset.Value, target dataset.Kind) (dataset.Value, error) {
	switch target {
	case dataset.KindNumber:
		f, err := cast.ToFloat64E(v.String())
		if err != nil {
			return dataset.Missing(), fmt.Errorf("%w: %q to number", ErrNotConvertible, v.String())
		}
		return dataset.Number(f), nil
	case dataset.KindBool:
		b, err := cast.ToBoolE(v.String())
		if err != nil {
			return dataset.Missing(), fmt.Errorf("%w: %q to bool", ErrNotConvertible, v.String())
		}
		return dataset.Bool(b), nil
	default:
		return dataset.Text(v.String()), nil
	}
}

// NormalizeColumn rescales a numeric column to [0,1] with min-max
// normalization. Non-numeric entries abort the operation; a constant column
// is an explicit no-op since the scale would divide by zero.
func NormalizeColumn(t *dataset.Table, column string) (string, *dataset.Table, error) {
	ci, err := t.ColumnIndex(column)
	if err != nil {
		return "", nil, err
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, row := range t.Rows {
		v := row[ci]
		if v.IsMissing() {
			continue
		}
		f, ok := v.AsFloat()
		if !ok {
			return "", nil, fmt.Errorf("transform: column %q contains non-numeric value %q at row %d", column, v.String(), i+1)
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if math.IsInf(lo, 1) {
		return fmt.Sprintf("Column %q has no values to normalize", column), nil, nil
	}
	if lo == hi {
		return fmt.Sprintf("All values in column %q are the same (%v), normalization not performed", column, lo), nil, nil
	}
	out := t.Clone()
	for i := range out.Rows {
		v := out.Rows[i][ci]
		if v.IsMissing() {
			continue
		}
		f, _ := v.AsFloat()
		out.Rows[i][ci] = dataset.Number((f - lo) / (hi - lo))
	}
	return fmt.Sprintf("Normalized column %q using min-max normalization (range: 0-1)", column), out, nil
}

// ColumnInfo describes one column's kind distribution and basic statistics.
type ColumnInfo struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	NonNull int      `json:"non_null_count"`
	Null    int      `json:"null_count"`
	Unique  int      `json:"unique_count"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Mean    *float64 `json:"mean,omitempty"`
	Std     *float64 `json:"std,omitempty"`
}

// DescribeColumn collects info for one named column.
func DescribeColumn(t *dataset.Table, column string) (ColumnInfo, error) {
	col, err := t.Column(column)
	if err != nil {
		return ColumnInfo{}, err
	}
	info := ColumnInfo{Name: column, Kind: dominantKind(col).String()}
	uniq := make(map[string]struct{})
	var nums []float64
	for _, v := range col {
		if v.IsMissing() {
			info.Null++
			continue
		}
		info.NonNull++
		uniq[v.String()] = struct{}{}
		if f, ok := v.AsFloat(); ok {
			nums = append(nums, f)
		}
	}
	info.Unique = len(uniq)
	if len(nums) > 0 && len(nums) == info.NonNull {
		lo, hi, sum := nums[0], nums[0], 0.0
		for _, f := range nums {
			lo = math.Min(lo, f)
			hi = math.Max(hi, f)
			sum += f
		}
		mean := sum / float64(len(nums))
		variance := 0.0
		for _, f := range nums {
			variance += (f - mean) * (f - mean)
		}
		std := 0.0
		if len(nums) > 1 {
			std = math.Sqrt(variance / float64(len(nums)-1))
		}
		info.Min, info.Max, info.Mean, info.Std = &lo, &hi, &mean, &std
	}
	return info, nil
}

// dominantKind picks the most common non-missing kind in a column.
func dominantKind(col []dataset.Value) dataset.Kind {
	counts := map[dataset.Kind]int{}
	for _, v := range col {
		if !v.IsMissing() {
			counts[v.Kind()]++
		}
	}
	best, bestN := dataset.KindMissing, 0
	for k, n := range counts {
		if n > bestN {
			best, bestN = k, n
		}
	}
	return best
}
