package condition

import (
	"fmt"

	"github.com/datasmith-io/datasmith/internal/dataset"
)

// Mask is a per-row boolean sequence marking which rows match a condition.
type Mask []bool

// Count returns the number of matching rows.
func (m Mask) Count() int {
	n := 0
	for _, b := range m {
		if b {
			n++
		}
	}
	return n
}

// Invert returns the complement mask.
func (m Mask) Invert() Mask {
	out := make(Mask, len(m))
	for i, b := range m {
		out[i] = !b
	}
	return out
}

// Apply parses a condition string and evaluates it against every value of the
// named column, producing a mask whose length equals the table's row count.
//
// Equality operators use the dual comparison rule: when the operand parses as
// a number, a row matches if its native value equals the operand numerically
// OR its text form equals the operand's text form. The OR is intentional —
// the same filter works whether the column stores numbers or their textual
// representation. A non-numeric operand compares text forms only.
//
// Ordering operators coerce the column to numeric; entries that do not
// coerce never match. A non-numeric operand is a caller error and fails the
// whole operation with ErrBadOperand.
func Apply(t *dataset.Table, column, raw string) (Mask, error) {
	cond := Parse(raw)
	return Evaluate(t, column, cond)
}

// Evaluate computes the mask for an already-parsed condition.
func Evaluate(t *dataset.Table, column string, cond Condition) (Mask, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}

	if cond.Op.Ordering() {
		operand, ok := cond.NumericOperand()
		if !ok {
			return nil, fmt.Errorf("%w: %q requires a numeric operand, got %q", ErrBadOperand, cond.Op, cond.Operand)
		}
		mask := make(Mask, len(col))
		for i, v := range col {
			f, valid := v.AsFloat()
			if !valid {
				continue
			}
			switch cond.Op {
			case OpGt:
				mask[i] = f > operand
			case OpLt:
				mask[i] = f < operand
			case OpGe:
				mask[i] = f >= operand
			case OpLe:
				mask[i] = f <= operand
			}
		}
		return mask, nil
	}

	operandNum, numeric := cond.NumericOperand()
	mask := make(Mask, len(col))
	for i, v := range col {
		var match bool
		if numeric {
			// Dual rule: native numeric equality OR text-form equality
			// against the operand exactly as written.
			if f, ok := v.AsFloat(); ok && f == operandNum {
				match = true
			}
			if !match && v.String() == cond.Operand {
				match = true
			}
		} else {
			match = !v.IsMissing() && v.String() == cond.Operand
		}
		if cond.Op == OpNe {
			match = !match
		}
		mask[i] = match
	}
	return mask, nil
}
