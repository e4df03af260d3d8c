package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TravelSurveyAnalytics/src/utils"
)

func tripRecords() [][]string {
	return [][]string{
		{"tripid", "persid", "startime", "arrtime", "travtime", "cumdist", "destpurp1", "linkmode"},
		{"T1", "P1", "480", "510", "30", "-3.2", "Work Related", "Train"},    // 08:00 departure
		{"T2", "P1", "1080", "1110", "30", "5", "Social", "Vehicle Driver"}, // 18:00 departure
		{"T3", "P2", "720", "735", "15", "Missing", "Education", "Walking"}, // 12:00 departure
		{"T4", "P2", "1320", "1350", "8", "15", "At Home", "Spaceship"},     // 22:00 departure
	}
}

func TestTripProcess(t *testing.T) {
	tp := NewTripProcessor(testDataConfig())
	out, err := tp.Process(rawFrame(tripRecords()))
	require.NoError(t, err)

	assert.Equal(t, []float64{8, 18, 12, 22}, utils.FloatRecords(out, "start_hour"))

	assert.Equal(t, []string{"1", "0", "0", "0"}, out.Col("is_morning_peak").Records())
	assert.Equal(t, []string{"0", "1", "0", "0"}, out.Col("is_evening_peak").Records())
	// peak means morning or evening
	assert.Equal(t, []string{"1", "1", "0", "0"}, out.Col("is_peak_hour").Records())

	assert.Equal(t, []string{
		"Morning Peak (6-9]", "Evening Peak (15-19]", "Afternoon (12-15]", "Late Night (22-24]",
	}, out.Col("time_of_day").Records())

	// -3.2 is clamped before binning, the missing cell takes the median
	// of the cleaned column [0, 5, 15]
	assert.Equal(t, 1, tp.ClampedDistances)
	assert.Equal(t, 1, tp.ImputedDistances)
	assert.Equal(t, []float64{0, 5, 5, 15}, utils.FloatRecords(out, "cumdist"))
	assert.Equal(t, []string{
		"Short (0-10]", "Short (0-10]", "Short (0-10]", "Medium (10-20]",
	}, out.Col("distance_category").Records())

	assert.Equal(t, []string{"Mandatory", "Discretionary", "Mandatory", "Home"},
		out.Col("purpose_category").Records())
	assert.Equal(t, []string{"Public", "Private", "Active", "Other"},
		out.Col("mode_category").Records())

	assert.Equal(t, 0, tp.ImputedDurations)
	assert.Equal(t, []string{
		"Long (20-40]", "Long (20-40]", "Medium (10-20]", "Short (0-10]",
	}, out.Col("duration_category").Records())
}

func TestTripProcessMissingColumn(t *testing.T) {
	df := rawFrame([][]string{{"tripid", "persid"}, {"T1", "P1"}})

	_, err := NewTripProcessor(testDataConfig()).Process(df)
	assert.ErrorIs(t, err, ErrMissingColumn)
}
