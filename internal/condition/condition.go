// Package condition turns a human-supplied filter string like "> 500" or
// "!= Active" into a boolean row mask over one column of a dataset table.
// The grammar is deliberately tiny: operator? whitespace* operand.
package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op is a comparison operator parsed from a condition string.
type Op string

const (
	OpEq Op = "=="
	OpNe Op = "!="
	OpGt Op = ">"
	OpLt Op = "<"
	OpGe Op = ">="
	OpLe Op = "<="
)

// operators in scan order: two-character tokens must be checked before their
// one-character prefixes, so ">=" wins over ">" at the same position.
var operators = []Op{OpGe, OpLe, OpEq, OpNe, OpGt, OpLt}

// Ordering reports whether the operator compares by numeric order rather
// than equality.
func (o Op) Ordering() bool {
	switch o {
	case OpGt, OpLt, OpGe, OpLe:
		return true
	}
	return false
}

// Condition is the structured form of a parsed condition string.
type Condition struct {
	Op      Op
	Operand string
}

// ErrBadOperand indicates an operand that cannot be parsed as a number where
// an ordering comparison demands one. The whole operation fails; callers must
// leave their table unchanged.
var ErrBadOperand = errors.New("condition: operand is not numeric")

// Parse splits a free-text condition into (operator, operand). The first
// operator occurrence in the string wins, matched longest-first. A string
// with no operator is an equality check against its trimmed text. One layer
// of matching surrounding quotes is stripped from the operand. Parse never
// fails: a malformed string degrades to an equality check against the
// literal text.
//
// Known ambiguity, kept on purpose: operand text containing an
// operator-like character (e.g. a value "a<b") splits at that character
// when no explicit operator precedes it.
func Parse(raw string) Condition {
	s := strings.TrimSpace(raw)
	for i := 0; i < len(s); i++ {
		for _, op := range operators {
			if strings.HasPrefix(s[i:], string(op)) {
				operand := strings.TrimSpace(s[i+len(op):])
				return Condition{Op: op, Operand: unquote(operand)}
			}
		}
	}
	return Condition{Op: OpEq, Operand: unquote(s)}
}

// unquote strips one layer of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// NumericOperand interprets the operand as a number. The second return is
// false when the operand has no numeric reading.
func (c Condition) NumericOperand() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(c.Operand), 64)
	return f, err == nil
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s", c.Op, c.Operand)
}
