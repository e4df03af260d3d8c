package processor

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/utils"
)

// TripProcessor derives the trip level features: clock hours from the
// minutes-from-midnight columns, peak indicators, the seven time-of-day
// periods, cleaned distance and duration with their categories, and the
// purpose and mode groupings.
type TripProcessor struct {
	Dcfg *config.DataConfig

	// counts from the last run, for the run report
	ImputedDistances int
	ImputedDurations int
	ClampedDistances int
}

func NewTripProcessor(dcfg *config.DataConfig) *TripProcessor {
	return &TripProcessor{Dcfg: dcfg}
}

func (tp *TripProcessor) Process(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	dcfg := tp.Dcfg
	required := []string{
		dcfg.Col("tripid"),
		dcfg.Col("persid"),
		dcfg.Col("startime"),
		dcfg.Col("arrtime"),
		dcfg.Col("travtime"),
		dcfg.Col("cumdist"),
		dcfg.Col("destpurp1"),
		dcfg.Col("linkmode"),
	}
	if err := RequireColumns(df, "trips", required...); err != nil {
		return df, err
	}

	// minutes from midnight to hours
	startHours := minutesToHours(utils.FloatRecords(df, dcfg.Col("startime")))
	arrHours := minutesToHours(utils.FloatRecords(df, dcfg.Col("arrtime")))
	df = df.Mutate(series.New(startHours, series.Float, "start_hour"))
	df = df.Mutate(series.New(arrHours, series.Float, "arr_hour"))

	// peak indicators on the departure hour
	peak := dcfg.Peak
	morning := make([]int, len(startHours))
	evening := make([]int, len(startHours))
	isPeak := make([]int, len(startHours))
	for i, h := range startHours {
		if h >= peak.MorningStart && h <= peak.MorningEnd {
			morning[i] = 1
		}
		if h >= peak.EveningStart && h <= peak.EveningEnd {
			evening[i] = 1
		}
		if morning[i] == 1 || evening[i] == 1 {
			isPeak[i] = 1
		}
	}
	df = df.Mutate(series.New(morning, series.Int, "is_morning_peak"))
	df = df.Mutate(series.New(evening, series.Int, "is_evening_peak"))
	df = df.Mutate(series.New(isPeak, series.Int, "is_peak_hour"))

	spec, err := dcfg.Bin("time_of_day")
	if err != nil {
		return df, err
	}
	timeOfDay, err := Cut(arrHours, spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(timeOfDay, series.String, "time_of_day"))

	// distance: clamp reporting artifacts, then median imputation, then
	// the fixed bins
	distCol := dcfg.Col("cumdist")
	df, tp.ClampedDistances, err = ClampNegative(df, "trips", distCol)
	if err != nil {
		return df, err
	}
	df, tp.ImputedDistances, err = ImputeMedian(df, "trips", distCol)
	if err != nil {
		return df, err
	}
	spec, err = dcfg.Bin("distance")
	if err != nil {
		return df, err
	}
	distCats, err := Cut(utils.FloatRecords(df, distCol), spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(distCats, series.String, "distance_category"))

	// purpose and mode groupings
	purposes := df.Col(dcfg.Col("destpurp1")).Records()
	purposeCats := make([]string, len(purposes))
	for i, p := range purposes {
		purposeCats[i] = tp.categorisePurpose(p)
	}
	df = df.Mutate(series.New(purposeCats, series.String, "purpose_category"))

	modes := df.Col(dcfg.Col("linkmode")).Records()
	modeCats := make([]string, len(modes))
	for i, m := range modes {
		modeCats[i] = tp.categoriseMode(m)
	}
	df = df.Mutate(series.New(modeCats, series.String, "mode_category"))

	// duration: median imputation so the per-person totals stay defined
	durCol := dcfg.Col("travtime")
	df, tp.ImputedDurations, err = ImputeMedian(df, "trips", durCol)
	if err != nil {
		return df, err
	}
	spec, err = dcfg.Bin("duration")
	if err != nil {
		return df, err
	}
	durCats, err := Cut(utils.FloatRecords(df, durCol), spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(durCats, series.String, "duration_category"))

	return df, df.Error()
}

func (tp *TripProcessor) categorisePurpose(purp string) string {
	dcfg := tp.Dcfg
	switch {
	case utils.IsMissing(purp):
		return UnknownCategory
	case utils.Contains(dcfg.CategorySet("purpose_home"), purp):
		return "Home"
	case utils.Contains(dcfg.CategorySet("purpose_mandatory"), purp):
		return "Mandatory"
	case utils.Contains(dcfg.CategorySet("purpose_maintenance"), purp):
		return "Maintenance"
	case utils.Contains(dcfg.CategorySet("purpose_discretionary"), purp):
		return "Discretionary"
	default:
		return "Other"
	}
}

func (tp *TripProcessor) categoriseMode(mode string) string {
	dcfg := tp.Dcfg
	switch {
	case utils.IsMissing(mode):
		return UnknownCategory
	case utils.Contains(dcfg.CategorySet("mode_public"), mode):
		return "Public"
	case utils.Contains(dcfg.CategorySet("mode_private"), mode):
		return "Private"
	case utils.Contains(dcfg.CategorySet("mode_active"), mode):
		return "Active"
	default:
		return "Other"
	}
}

func minutesToHours(minutes []float64) []float64 {
	out := make([]float64, len(minutes))
	for i, m := range minutes {
		if math.IsNaN(m) {
			out[i] = math.NaN()
			continue
		}
		out[i] = m / 60
	}
	return out
}
