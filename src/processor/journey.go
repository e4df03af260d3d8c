package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/utils"
)

// journeyStageLimit is the number of mainmode_desc_NN stage columns a
// journey table can carry.
const journeyStageLimit = 15

// Journey kinds handled by JourneyProcessor.
const (
	JourneyWork      = "Work"
	JourneyEducation = "Education"
)

// JourneyProcessor derives the journey level features for either the
// journey-to-work or journey-to-education table: travel hours, stop
// counts with the complexity bucket, cleaned journey distance with its
// category, and the peak start indicator.
type JourneyProcessor struct {
	Dcfg *config.DataConfig
	Type string // "Work" or "Education"

	ClampedDistances int
}

func NewJourneyProcessor(dcfg *config.DataConfig, journeyType string) *JourneyProcessor {
	return &JourneyProcessor{Dcfg: dcfg, Type: journeyType}
}

func (jp *JourneyProcessor) dataset() string {
	if jp.Type == "Education" {
		return "journey_education"
	}
	return "journey_work"
}

func (jp *JourneyProcessor) Process(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	dcfg := jp.Dcfg
	dataset := jp.dataset()
	required := []string{
		dcfg.Col("persid"),
		dcfg.Col("journey_travel_time"),
		dcfg.Col("journey_distance"),
		dcfg.Col("start_time"),
		dcfg.Col("end_time"),
		dcfg.Col("mainmode_desc_01"),
	}
	if err := RequireColumns(df, dataset, required...); err != nil {
		return df, err
	}

	journeyTypes := make([]string, df.Nrow())
	for i := range journeyTypes {
		journeyTypes[i] = jp.Type
	}
	df = df.Mutate(series.New(journeyTypes, series.String, "journey_type"))

	hours := minutesToHours(utils.FloatRecords(df, dcfg.Col("journey_travel_time")))
	df = df.Mutate(series.New(hours, series.Float, "journey_travel_hours"))

	// complexity from the number of recorded stages
	numStops := jp.countStops(df)
	df = df.Mutate(series.New(numStops, series.Float, "num_stops"))

	spec, err := dcfg.Bin("journey_complexity")
	if err != nil {
		return df, err
	}
	complexity, err := Cut(numStops, spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(complexity, series.String, "journey_complexity"))

	// journey distance: numeric, negatives clamped (the journey-to-work
	// table carries a few), then the fixed distance bins
	df = df.Mutate(series.New(utils.FloatRecords(df, dcfg.Col("journey_distance")), series.Float, "jdist"))
	df, jp.ClampedDistances, err = ClampNegative(df, dataset, "jdist")
	if err != nil {
		return df, err
	}
	spec, err = dcfg.Bin("distance")
	if err != nil {
		return df, err
	}
	distCats, err := Cut(utils.FloatRecords(df, "jdist"), spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(distCats, series.String, "journey_distance_category"))

	startHours := minutesToHours(utils.FloatRecords(df, dcfg.Col("start_time")))
	endHours := minutesToHours(utils.FloatRecords(df, dcfg.Col("end_time")))
	df = df.Mutate(series.New(startHours, series.Float, "start_hour"))
	df = df.Mutate(series.New(endHours, series.Float, "end_hour"))

	peak := dcfg.Peak
	startsInPeak := make([]int, len(startHours))
	for i, h := range startHours {
		if (h >= peak.MorningStart && h <= peak.MorningEnd) ||
			(h >= peak.EveningStart && h <= peak.EveningEnd) {
			startsInPeak[i] = 1
		}
	}
	df = df.Mutate(series.New(startsInPeak, series.Int, "starts_in_peak_hour"))

	return df, df.Error()
}

// countStops counts the non-empty stage mode columns per journey. Only
// the stage columns that exist in the table are consulted; the first
// one is required by the schema check.
func (jp *JourneyProcessor) countStops(df dataframe.DataFrame) []float64 {
	out := make([]float64, df.Nrow())
	for i := 1; i <= journeyStageLimit; i++ {
		col := jp.Dcfg.Col(fmt.Sprintf("mainmode_desc_%02d", i))
		if !utils.HasColumn(df, col) {
			continue
		}
		for j, r := range df.Col(col).Records() {
			if !utils.IsMissing(r) {
				out[j]++
			}
		}
	}
	return out
}
