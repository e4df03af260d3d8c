package processor

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TravelSurveyAnalytics/src/utils"
)

func summaryPersons() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{"P1", "P2"}, series.String, "persid"),
		series.New([]string{"H1", "H1"}, series.String, "hhid"),
		series.New([]float64{2, 0}, series.Float, "total_wfh_days"),
	)
}

func summaryTrips(order []int) dataframe.DataFrame {
	persid := []string{"P1", "P1", "P1"}
	tripid := []string{"T1", "T2", "T3"}
	cumdist := []float64{5, 15, 10}
	travtime := []float64{10, 20, 30}
	isPeak := []int{1, 0, 1}
	purp := []string{"Work Related", "Social", "Education"}

	p := make([]string, len(order))
	tr := make([]string, len(order))
	cd := make([]float64, len(order))
	tt := make([]float64, len(order))
	pk := make([]int, len(order))
	pu := make([]string, len(order))
	for i, idx := range order {
		p[i], tr[i], cd[i], tt[i], pk[i], pu[i] =
			persid[idx], tripid[idx], cumdist[idx], travtime[idx], isPeak[idx], purp[idx]
	}

	return dataframe.New(
		series.New(p, series.String, "persid"),
		series.New(tr, series.String, "tripid"),
		series.New(cd, series.Float, "cumdist"),
		series.New(tt, series.Float, "travtime"),
		series.New(pk, series.Int, "is_peak_hour"),
		series.New(pu, series.String, "destpurp1"),
	)
}

func TestPersonTripSummary(t *testing.T) {
	out, err := PersonTripSummary(summaryPersons(), summaryTrips([]int{0, 1, 2}), testDataConfig())
	require.NoError(t, err)
	require.Equal(t, 2, out.Nrow())

	// sorted by person id, so P1 first
	assert.Equal(t, []string{"P1", "P2"}, out.Col("persid").Records())

	assert.Equal(t, []float64{3, 0}, utils.FloatRecords(out, "total_trips"))
	assert.Equal(t, []float64{30, 0}, utils.FloatRecords(out, "total_distance"))
	assert.Equal(t, []float64{60, 0}, utils.FloatRecords(out, "total_travel_time"))
	assert.Equal(t, []float64{2, 0}, utils.FloatRecords(out, "total_peak_hour_trips"))
	assert.Equal(t, []float64{1, 0}, utils.FloatRecords(out, "work_trips"))
	assert.Equal(t, []float64{1, 0}, utils.FloatRecords(out, "edu_trips"))

	assert.InDelta(t, 2.0/3.0, utils.FloatRecords(out, "peak_hour_ratio")[0], 1e-9)
	assert.Equal(t, 10.0, utils.FloatRecords(out, "avg_trip_distance")[0])
	assert.Equal(t, 20.0, utils.FloatRecords(out, "avg_trip_duration")[0])

	// a person without trips keeps the row with zero metrics
	assert.Equal(t, 0.0, utils.FloatRecords(out, "peak_hour_ratio")[1])
}

func TestPersonTripSummaryIgnoresRowOrder(t *testing.T) {
	a, err := PersonTripSummary(summaryPersons(), summaryTrips([]int{0, 1, 2}), testDataConfig())
	require.NoError(t, err)
	b, err := PersonTripSummary(summaryPersons(), summaryTrips([]int{2, 0, 1}), testDataConfig())
	require.NoError(t, err)

	assert.Equal(t, a.Records(), b.Records())
}

func TestPersonTripSummaryNoTripsAtAll(t *testing.T) {
	out, err := PersonTripSummary(summaryPersons(), dataframe.New(), testDataConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, out.Nrow())
	assert.Equal(t, []float64{0, 0}, utils.FloatRecords(out, "total_trips"))
	assert.Equal(t, []float64{0, 0}, utils.FloatRecords(out, "work_trips"))
}

func TestHouseholdSummary(t *testing.T) {
	personTrips := dataframe.New(
		series.New([]string{"P1", "P2", "P3"}, series.String, "persid"),
		series.New([]string{"H1", "H1", "H2"}, series.String, "hhid"),
		series.New([]float64{2, 0, 3}, series.Float, "total_wfh_days"),
		series.New([]float64{3, 0, 1}, series.Float, "total_trips"),
		series.New([]float64{30, 0, 5}, series.Float, "total_distance"),
	)
	households := dataframe.New(
		series.New([]string{"H1", "H2"}, series.String, "hhid"),
		series.New([]float64{0.5, 2}, series.Float, "vehicle_per_person"),
		series.New([]int{1, 0}, series.Int, "has_young_children"),
		series.New([]int{0, 0}, series.Int, "has_teenagers"),
	)

	out, err := HouseholdSummary(personTrips, households, testDataConfig())
	require.NoError(t, err)
	require.Equal(t, 2, out.Nrow())

	assert.Equal(t, []string{"H1", "H2"}, out.Col("hhid").Records())
	assert.Equal(t, []float64{2, 1}, utils.FloatRecords(out, "persons_count"))
	assert.Equal(t, []float64{2, 3}, utils.FloatRecords(out, "household_wfh_days"))
	assert.Equal(t, []float64{3, 1}, utils.FloatRecords(out, "household_trips"))
	assert.Equal(t, []float64{30, 5}, utils.FloatRecords(out, "household_distance"))
	assert.Equal(t, []float64{0.5, 2}, utils.FloatRecords(out, "vehicle_per_person"))
}
