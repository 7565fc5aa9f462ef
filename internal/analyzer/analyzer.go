// Package analyzer computes read-only statistics over a dataset table:
// missing-value audits, summary statistics, outlier detection, frequency
// counts, and duplicate detection. Results are JSON-friendly structs with
// numeric fields rounded to 4 decimals.
package analyzer

import (
	"fmt"
	"math"
	"sort"

	"github.com/datasmith-io/datasmith/config"
	"github.com/datasmith-io/datasmith/internal/dataset"
)

// numericColumn extracts the coercible float values of a column, skipping
// missing and non-numeric entries.
func numericColumn(t *dataset.Table, ci int) []float64 {
	var out []float64
	for _, row := range t.Rows {
		if f, ok := row[ci].AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out
}

// isNumericColumn reports whether every non-missing cell coerces to a number
// and at least one does.
func isNumericColumn(t *dataset.Table, ci int) bool {
	seen := false
	for _, row := range t.Rows {
		v := row[ci]
		if v.IsMissing() {
			continue
		}
		if _, ok := v.AsFloat(); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// MissingReport lists columns that contain missing values.
type MissingReport struct {
	Message        string         `json:"message"`
	MissingColumns map[string]int `json:"missing_columns"`
	TotalMissing   int            `json:"total_missing,omitempty"`
}

// MissingColumns identifies columns with missing values.
func MissingColumns(t *dataset.Table) MissingReport {
	missing := map[string]int{}
	total := 0
	for ci, name := range t.Columns {
		n := 0
		for _, row := range t.Rows {
			if row[ci].IsMissing() {
				n++
			}
		}
		if n > 0 {
			missing[name] = n
			total += n
		}
	}
	if len(missing) == 0 {
		return MissingReport{Message: "No missing values found in any columns", MissingColumns: missing}
	}
	return MissingReport{
		Message:        fmt.Sprintf("Found missing values in %d columns", len(missing)),
		MissingColumns: missing,
		TotalMissing:   total,
	}
}

// AveragesReport carries per-column means for the numeric subset of the
// requested columns.
type AveragesReport struct {
	Message    string             `json:"message"`
	Averages   map[string]float64 `json:"column_averages"`
	NonNumeric []string           `json:"non_numeric_columns,omitempty"`
}

// ColumnAverages computes means for the requested columns, skipping (and
// reporting) non-numeric ones.
func ColumnAverages(t *dataset.Table, columns []string) (AveragesReport, error) {
	for _, c := range columns {
		if _, err := t.ColumnIndex(c); err != nil {
			return AveragesReport{}, err
		}
	}
	rep := AveragesReport{Averages: map[string]float64{}}
	for _, c := range columns {
		ci, _ := t.ColumnIndex(c)
		if !isNumericColumn(t, ci) {
			rep.NonNumeric = append(rep.NonNumeric, c)
			continue
		}
		rep.Averages[c] = round4(mean(numericColumn(t, ci)))
	}
	rep.Message = fmt.Sprintf("Calculated averages for %d numeric columns", len(rep.Averages))
	if len(rep.NonNumeric) > 0 {
		rep.Message += fmt.Sprintf(" (%d non-numeric columns skipped)", len(rep.NonNumeric))
	}
	return rep, nil
}

// ColumnStats holds summary statistics for one numeric column.
type ColumnStats struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Missing  int     `json:"missing_values"`
	Q1       float64 `json:"q1,omitempty"`
	Q3       float64 `json:"q3,omitempty"`
	IQR      float64 `json:"iqr,omitempty"`
	Skewness float64 `json:"skewness,omitempty"`
	Kurtosis float64 `json:"kurtosis,omitempty"`
}

// BasicStats summarizes every numeric column: count, mean, median, std,
// min, max, and missing counts.
func BasicStats(t *dataset.Table) map[string]ColumnStats {
	out := map[string]ColumnStats{}
	for ci, name := range t.Columns {
		if !isNumericColumn(t, ci) {
			continue
		}
		xs := numericColumn(t, ci)
		if len(xs) == 0 {
			continue
		}
		missing := 0
		for _, row := range t.Rows {
			if row[ci].IsMissing() {
				missing++
			}
		}
		lo, hi := xs[0], xs[0]
		for _, x := range xs {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
		out[name] = ColumnStats{
			Count:   len(xs),
			Mean:    round4(mean(xs)),
			Median:  round4(median(xs)),
			Std:     round4(finite(std(xs))),
			Min:     round4(lo),
			Max:     round4(hi),
			Missing: missing,
		}
	}
	return out
}

// DeepStats extends BasicStats with quartiles, IQR, skewness, and kurtosis.
// Columns with fewer than two values are skipped: the spread estimators are
// undefined there.
func DeepStats(t *dataset.Table) map[string]ColumnStats {
	out := map[string]ColumnStats{}
	for name, s := range BasicStats(t) {
		if s.Count < 2 {
			continue
		}
		ci, _ := t.ColumnIndex(name)
		xs := numericColumn(t, ci)
		q1 := quantile(xs, 0.25)
		q3 := quantile(xs, 0.75)
		s.Q1 = round4(q1)
		s.Q3 = round4(q3)
		s.IQR = round4(q3 - q1)
		s.Skewness = round4(finite(skewness(xs)))
		s.Kurtosis = round4(finite(kurtosis(xs)))
		out[name] = s
	}
	return out
}

// ColumnOutliers describes z-score outliers found in one column.
type ColumnOutliers struct {
	Count      int       `json:"outlier_count"`
	Rows       []int     `json:"outlier_rows"`
	Values     []float64 `json:"outlier_values"`
	Percentage float64   `json:"percentage"`
}

// OutliersZScore flags entries whose absolute z-score exceeds the threshold.
// Row numbers are 1-based to match the editing tools.
func OutliersZScore(t *dataset.Table, threshold float64) map[string]ColumnOutliers {
	if threshold <= 0 {
		threshold = 3.0
	}
	out := map[string]ColumnOutliers{}
	for ci, name := range t.Columns {
		if !isNumericColumn(t, ci) {
			continue
		}
		var xs []float64
		var rowNums []int
		for ri, row := range t.Rows {
			if f, ok := row[ci].AsFloat(); ok {
				xs = append(xs, f)
				rowNums = append(rowNums, ri+1)
			}
		}
		if len(xs) == 0 {
			continue
		}
		zs := zscores(xs)
		var co ColumnOutliers
		for i, z := range zs {
			if math.Abs(z) > threshold {
				co.Count++
				co.Rows = append(co.Rows, rowNums[i])
				co.Values = append(co.Values, round4(xs[i]))
			}
		}
		if co.Count > 0 {
			co.Percentage = round4(float64(co.Count) / float64(len(xs)) * 100)
			out[name] = co
		}
	}
	return out
}

// FrequencyReport holds value counts for one column, truncated to the top
// slice when the column has many distinct values.
type FrequencyReport struct {
	Message     string             `json:"message"`
	Column      string             `json:"column"`
	Unique      int                `json:"total_unique_values"`
	NonMissing  int                `json:"total_non_missing"`
	Missing     int                `json:"missing_values"`
	Frequencies map[string]int     `json:"frequencies"`
	Percentages map[string]float64 `json:"percentages"`
	Truncated   bool               `json:"truncated"`
}

// FrequencyCounts tallies distinct values of a column. Columns with more
// than config.DefaultFrequencyTruncateAt distinct values report only the
// top config.DefaultFrequencyTopN.
func FrequencyCounts(t *dataset.Table, column string) (FrequencyReport, error) {
	ci, err := t.ColumnIndex(column)
	if err != nil {
		return FrequencyReport{}, err
	}
	counts := map[string]int{}
	missing, nonMissing := 0, 0
	for _, row := range t.Rows {
		v := row[ci]
		if v.IsMissing() {
			missing++
			continue
		}
		nonMissing++
		counts[v.String()]++
	}
	rep := FrequencyReport{
		Column:     column,
		Unique:     len(counts),
		NonMissing: nonMissing,
		Missing:    missing,
	}

	type kv struct {
		k string
		n int
	}
	ordered := make([]kv, 0, len(counts))
	for k, n := range counts {
		ordered = append(ordered, kv{k, n})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].n != ordered[j].n {
			return ordered[i].n > ordered[j].n
		}
		return ordered[i].k < ordered[j].k
	})

	keep := ordered
	if len(ordered) > config.DefaultFrequencyTruncateAt {
		keep = ordered[:config.DefaultFrequencyTopN]
		rep.Truncated = true
		rep.Message = fmt.Sprintf("Column %q has %d unique values (showing top %d)", column, len(counts), config.DefaultFrequencyTopN)
	} else {
		rep.Message = fmt.Sprintf("Frequency analysis for column %q", column)
	}
	rep.Frequencies = make(map[string]int, len(keep))
	rep.Percentages = make(map[string]float64, len(keep))
	for _, e := range keep {
		rep.Frequencies[e.k] = e.n
		if nonMissing > 0 {
			rep.Percentages[e.k] = round4(float64(e.n) / float64(nonMissing) * 100)
		}
	}
	return rep, nil
}

// DuplicateReport summarizes exact-duplicate rows.
type DuplicateReport struct {
	Message       string  `json:"message"`
	TotalRows     int     `json:"total_rows"`
	DuplicateRows int     `json:"duplicate_rows"`
	UniqueRows    int     `json:"unique_rows"`
	Percentage    float64 `json:"duplication_percentage"`
	HasDuplicates bool    `json:"has_duplicates"`
}

// DuplicateRows counts rows whose every cell matches an earlier row.
func DuplicateRows(t *dataset.Table) DuplicateReport {
	seen := map[string]struct{}{}
	dups := 0
	for _, row := range t.Rows {
		key := ""
		for _, v := range row {
			key += v.String() + "\x1f"
		}
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	rep := DuplicateReport{
		Message:       fmt.Sprintf("Found %d duplicate rows out of %d total rows", dups, t.RowCount()),
		TotalRows:     t.RowCount(),
		DuplicateRows: dups,
		UniqueRows:    t.RowCount() - dups,
		HasDuplicates: dups > 0,
	}
	if t.RowCount() > 0 {
		rep.Percentage = round4(float64(dups) / float64(t.RowCount()) * 100)
	}
	return rep
}

// Overview is the comprehensive dataset description: shape, per-kind column
// lists, missing-value summary, and numeric statistics.
type Overview struct {
	Rows           int                    `json:"rows"`
	Columns        int                    `json:"columns"`
	ColumnNames    []string               `json:"column_names"`
	NumericColumns []string               `json:"numeric_columns"`
	TextColumns    []string               `json:"text_columns"`
	MissingValues  map[string]int         `json:"missing_values"`
	TotalMissing   int                    `json:"total_missing"`
	NumericStats   map[string]ColumnStats `json:"numeric_stats"`
}

// Describe builds the full dataset overview.
func Describe(t *dataset.Table) Overview {
	ov := Overview{
		Rows:          t.RowCount(),
		Columns:       len(t.Columns),
		ColumnNames:   append([]string(nil), t.Columns...),
		MissingValues: map[string]int{},
		NumericStats:  BasicStats(t),
	}
	for ci, name := range t.Columns {
		if isNumericColumn(t, ci) {
			ov.NumericColumns = append(ov.NumericColumns, name)
		} else {
			ov.TextColumns = append(ov.TextColumns, name)
		}
		n := 0
		for _, row := range t.Rows {
			if row[ci].IsMissing() {
				n++
			}
		}
		if n > 0 {
			ov.MissingValues[name] = n
			ov.TotalMissing += n
		}
	}
	return ov
}
