package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cursor is the canonical, opaque pagination token (pre-encoding) with short
// field names to minimize payload size. It is serialized to minified JSON and
// encoded with URL-safe base64. Cursors page row-wise through dataset
// previews and filter results.
//
// Fields:
//   - v:    version of the cursor schema
//   - did:  dataset handle ID
//   - off:  row offset from the start of the results
//   - ps:   page size in rows
//   - iat:  issued-at timestamp (unix seconds)
//   - col:  optional condition column (filter previews)
//   - cond: optional condition string (filter previews)
type Cursor struct {
	V    int    `json:"v"`
	Did  string `json:"did"`
	Off  int    `json:"off"`
	Ps   int    `json:"ps"`
	Iat  int64  `json:"iat"`
	Col  string `json:"col,omitempty"`
	Cond string `json:"cond,omitempty"`
}

// EncodeCursor serializes and encodes the cursor as URL-safe base64 (without padding).
func EncodeCursor(c Cursor) (string, error) {
	if err := validate(&c); err != nil {
		return "", err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor decodes a URL-safe base64 token and parses the JSON cursor.
func DecodeCursor(token string) (*Cursor, error) {
	t := strings.TrimSpace(token)
	if t == "" {
		return nil, errors.New("cursor: empty token")
	}
	data, err := base64.RawURLEncoding.DecodeString(t)
	if err != nil {
		return nil, fmt.Errorf("cursor: invalid base64: %w", err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("cursor: invalid json: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate performs structural checks and defaulting.
func validate(c *Cursor) error {
	if c.V <= 0 {
		c.V = 1
	}
	if c.Iat == 0 {
		c.Iat = time.Now().Unix()
	}
	if strings.TrimSpace(c.Did) == "" {
		return errors.New("cursor: did (dataset id) required")
	}
	if c.Off < 0 {
		return errors.New("cursor: off must be >= 0")
	}
	if c.Ps <= 0 {
		return errors.New("cursor: ps must be > 0")
	}
	return nil
}

// NextOffset computes the next offset after returning n rows.
func NextOffset(curr, n int) int {
	if curr < 0 {
		curr = 0
	}
	if n <= 0 {
		return curr
	}
	return curr + n
}
