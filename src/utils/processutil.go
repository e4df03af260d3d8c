package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// HasColumn reports whether the dataframe carries a column of this name.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// ToFloat parses a raw survey cell. Empty cells and the survey's
// "Missing"/"NA" markers become NaN rather than parse errors.
func ToFloat(s string) float64 {
	if IsMissing(s) {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FloatRecords converts a whole column to floats via ToFloat.
func FloatRecords(df dataframe.DataFrame, col string) []float64 {
	records := df.Col(col).Records()
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = ToFloat(r)
	}
	return out
}

// IsMissing reports whether a raw cell holds no usable value. The
// survey writes several refusal markers, "Missing/Refused" among them.
func IsMissing(s string) bool {
	s = strings.TrimSpace(s)
	switch s {
	case "", "NA", "N/A", "NaN":
		return true
	}
	return strings.HasPrefix(s, "Missing")
}

// FormatFloat renders a float the way the csv output expects; NaN
// becomes an empty cell.
func FormatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SaveToExcel writes a dataframe into a single-sheet xlsx workbook.
func SaveToExcel(df dataframe.DataFrame, filePath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"

	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx, colName := range colNames {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			val := df.Col(colName).Val(rowIdx)
			// missing numeric cells become empty cells, not "NaN" text
			if fv, ok := val.(float64); ok {
				if math.IsNaN(fv) {
					f.SetCellValue(sheetName, cell, FormatFloat(fv))
					continue
				}
			}
			f.SetCellValue(sheetName, cell, val)
		}
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}
