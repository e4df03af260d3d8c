package processor

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/utils"
)

// Cleaning rules repair missing or invalid values in place of a column
// without ever dropping rows. Each rule parses the raw column to floats
// ("Missing" and empty cells become NaN), repairs, and writes the column
// back as a numeric series. A rule naming an absent column fails fast
// with a schema error.

// ImputeMean replaces missing values with the mean of the observed ones.
// For columns without outliers (incomes). Returns the repaired frame and
// the number of imputed cells; the column mean is unchanged by the fill.
func ImputeMean(df dataframe.DataFrame, dataset, col string) (dataframe.DataFrame, int, error) {
	if err := RequireColumns(df, dataset, col); err != nil {
		return df, 0, err
	}
	vals := utils.FloatRecords(df, col)
	return fillNaN(df, col, vals, utils.Mean(vals))
}

// ImputeMedian replaces missing values with the median of the observed
// ones. For columns with outliers (trip distances, durations): the
// median is unchanged by its own fill, so the rule is idempotent.
func ImputeMedian(df dataframe.DataFrame, dataset, col string) (dataframe.DataFrame, int, error) {
	if err := RequireColumns(df, dataset, col); err != nil {
		return df, 0, err
	}
	vals := utils.FloatRecords(df, col)
	return fillNaN(df, col, vals, utils.Median(vals))
}

// FillZero replaces missing values with zero. For counts and day flags
// whose absence means "none", not "unknown" (a person without trips has
// zero trips; a person without a job has zero WFH days).
func FillZero(df dataframe.DataFrame, dataset string, cols ...string) (dataframe.DataFrame, int, error) {
	total := 0
	for _, col := range cols {
		if err := RequireColumns(df, dataset, col); err != nil {
			return df, total, err
		}
		vals := utils.FloatRecords(df, col)
		var n int
		df, n, _ = fillNaN(df, col, vals, 0)
		total += n
	}
	return df, total, nil
}

// ClampNegative raises negative values to zero. Negative distances are
// reporting artifacts, not travel.
func ClampNegative(df dataframe.DataFrame, dataset, col string) (dataframe.DataFrame, int, error) {
	if err := RequireColumns(df, dataset, col); err != nil {
		return df, 0, err
	}
	vals := utils.FloatRecords(df, col)
	clamped := 0
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
			clamped++
		}
	}
	df = df.Mutate(series.New(vals, series.Float, col))
	return df, clamped, df.Error()
}

func fillNaN(df dataframe.DataFrame, col string, vals []float64, fill float64) (dataframe.DataFrame, int, error) {
	filled := 0
	for i, v := range vals {
		if math.IsNaN(v) {
			vals[i] = fill
			filled++
		}
	}
	df = df.Mutate(series.New(vals, series.Float, col))
	return df, filled, df.Error()
}
