package processor

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/utils"
)

// tripMetricCols are the per-person trip summary columns. Every person
// has a defined value for each of them after aggregation, zero when the
// person has no recorded trips.
var tripMetricCols = []string{
	"total_trips",
	"total_distance",
	"total_travel_time",
	"total_peak_hour_trips",
	"work_trips",
	"edu_trips",
	"peak_hour_ratio",
	"avg_trip_distance",
	"avg_trip_duration",
}

// PersonTripSummary rolls the processed trips up to one row per person
// and joins the metrics onto the processed persons table. Only
// order-independent reducers are used (count, sum), so shuffling the
// trip rows cannot change the result; the output is sorted by person id.
func PersonTripSummary(persons, trips dataframe.DataFrame, dcfg *config.DataConfig) (dataframe.DataFrame, error) {
	persidCol := dcfg.Col("persid")
	tripidCol := dcfg.Col("tripid")
	purpCol := dcfg.Col("destpurp1")

	if err := RequireColumns(persons, "persons", persidCol); err != nil {
		return persons, err
	}

	if trips.Nrow() == 0 {
		return zeroMetrics(persons), nil
	}
	if err := RequireColumns(trips, "trips", persidCol, tripidCol, purpCol,
		dcfg.Col("cumdist"), dcfg.Col("travtime"), "is_peak_hour"); err != nil {
		return persons, err
	}

	groups := trips.GroupBy(persidCol)
	if groups.Err != nil {
		return persons, groups.Err
	}
	summary := groups.Aggregation(
		[]dataframe.AggregationType{
			dataframe.Aggregation_COUNT,
			dataframe.Aggregation_SUM,
			dataframe.Aggregation_SUM,
			dataframe.Aggregation_SUM,
		},
		[]string{tripidCol, dcfg.Col("cumdist"), dcfg.Col("travtime"), "is_peak_hour"},
	)
	if summary.Error() != nil {
		return persons, summary.Error()
	}
	summary = summary.
		Rename("total_trips", tripidCol+"_COUNT").
		Rename("total_distance", dcfg.Col("cumdist")+"_SUM").
		Rename("total_travel_time", dcfg.Col("travtime")+"_SUM").
		Rename("total_peak_hour_trips", "is_peak_hour_SUM")

	// per-purpose trip counts
	var err error
	summary, err = joinPurposeCount(summary, trips, dcfg, "purpose_work", "work_trips")
	if err != nil {
		return persons, err
	}
	summary, err = joinPurposeCount(summary, trips, dcfg, "purpose_education", "edu_trips")
	if err != nil {
		return persons, err
	}
	summary, _, err = FillZero(summary, "trip summary", "work_trips", "edu_trips")
	if err != nil {
		return persons, err
	}

	summary = withTripRatios(summary)
	if summary.Error() != nil {
		return persons, summary.Error()
	}

	// persons without trips keep their row and get the zero defaults
	personTrips := persons.LeftJoin(summary, persidCol)
	if personTrips.Error() != nil {
		return persons, personTrips.Error()
	}
	personTrips, _, err = FillZero(personTrips, "person trip summary", tripMetricCols...)
	if err != nil {
		return persons, err
	}

	personTrips = personTrips.Arrange(dataframe.Sort(persidCol))
	return personTrips, personTrips.Error()
}

// joinPurposeCount left joins a per-person count of trips whose purpose
// is in the named category set, as column name.
func joinPurposeCount(summary, trips dataframe.DataFrame, dcfg *config.DataConfig, categorySet, name string) (dataframe.DataFrame, error) {
	persidCol := dcfg.Col("persid")
	tripidCol := dcfg.Col("tripid")
	purposes := dcfg.CategorySet(categorySet)

	filtered := trips.Filter(dataframe.F{
		Colname:    dcfg.Col("destpurp1"),
		Comparator: series.In,
		Comparando: purposes,
	})
	if filtered.Error() != nil {
		return summary, filtered.Error()
	}
	if filtered.Nrow() == 0 {
		zeros := make([]float64, summary.Nrow())
		return summary.Mutate(series.New(zeros, series.Float, name)), nil
	}

	groups := filtered.GroupBy(persidCol)
	if groups.Err != nil {
		return summary, groups.Err
	}
	counts := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_COUNT},
		[]string{tripidCol},
	)
	if counts.Error() != nil {
		return summary, counts.Error()
	}
	counts = counts.Rename(name, tripidCol+"_COUNT")

	joined := summary.LeftJoin(counts, persidCol)
	return joined, joined.Error()
}

// withTripRatios adds the derived per-person ratios. A person with no
// trips divides by zero; those ratios are defined as 0, not an error.
func withTripRatios(summary dataframe.DataFrame) dataframe.DataFrame {
	totals := utils.FloatRecords(summary, "total_trips")
	peaks := utils.FloatRecords(summary, "total_peak_hour_trips")
	dists := utils.FloatRecords(summary, "total_distance")
	times := utils.FloatRecords(summary, "total_travel_time")

	peakRatio := make([]float64, len(totals))
	avgDist := make([]float64, len(totals))
	avgTime := make([]float64, len(totals))
	for i, t := range totals {
		if t == 0 {
			continue
		}
		peakRatio[i] = peaks[i] / t
		avgDist[i] = dists[i] / t
		avgTime[i] = times[i] / t
	}

	summary = summary.Mutate(series.New(peakRatio, series.Float, "peak_hour_ratio"))
	summary = summary.Mutate(series.New(avgDist, series.Float, "avg_trip_distance"))
	return summary.Mutate(series.New(avgTime, series.Float, "avg_trip_duration"))
}

// zeroMetrics gives every person the zero-filled trip metrics when no
// trips were recorded at all.
func zeroMetrics(persons dataframe.DataFrame) dataframe.DataFrame {
	zeros := make([]float64, persons.Nrow())
	out := persons
	for _, col := range tripMetricCols {
		out = out.Mutate(series.New(zeros, series.Float, col))
	}
	return out
}

// HouseholdSummary rolls the person-trip summary up to one row per
// household and joins the household level ratios and indicators on.
func HouseholdSummary(personTrips, households dataframe.DataFrame, dcfg *config.DataConfig) (dataframe.DataFrame, error) {
	hhidCol := dcfg.Col("hhid")
	persidCol := dcfg.Col("persid")

	if err := RequireColumns(personTrips, "person trip summary",
		hhidCol, persidCol, "total_wfh_days", "total_trips", "total_distance"); err != nil {
		return personTrips, err
	}
	if err := RequireColumns(households, "households",
		hhidCol, "vehicle_per_person", "has_young_children", "has_teenagers"); err != nil {
		return households, err
	}

	groups := personTrips.GroupBy(hhidCol)
	if groups.Err != nil {
		return personTrips, groups.Err
	}
	summary := groups.Aggregation(
		[]dataframe.AggregationType{
			dataframe.Aggregation_COUNT,
			dataframe.Aggregation_SUM,
			dataframe.Aggregation_SUM,
			dataframe.Aggregation_SUM,
		},
		[]string{persidCol, "total_wfh_days", "total_trips", "total_distance"},
	)
	if summary.Error() != nil {
		return personTrips, summary.Error()
	}
	summary = summary.
		Rename("persons_count", persidCol+"_COUNT").
		Rename("household_wfh_days", "total_wfh_days_SUM").
		Rename("household_trips", "total_trips_SUM").
		Rename("household_distance", "total_distance_SUM")

	features := households.Select([]string{hhidCol, "vehicle_per_person", "has_young_children", "has_teenagers"})
	if features.Error() != nil {
		return households, features.Error()
	}
	out := summary.InnerJoin(features, hhidCol)
	if out.Error() != nil {
		return out, out.Error()
	}
	out = out.Arrange(dataframe.Sort(hhidCol))
	return out, out.Error()
}
