package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/utils"
)

// PersonProcessor derives the person level features: decade age groups,
// the {0,1} encoded WFH day flags and their rollups, employment status,
// life stage, parsed and mean-imputed personal income with its
// quantile-based percentile encoding, and the licence mobility encodings.
type PersonProcessor struct {
	Dcfg    *config.DataConfig
	Imputed int // personal_income cells filled by the mean rule in the last run
}

func NewPersonProcessor(dcfg *config.DataConfig) *PersonProcessor {
	return &PersonProcessor{Dcfg: dcfg}
}

func (pp *PersonProcessor) Process(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	dcfg := pp.Dcfg
	required := []string{
		dcfg.Col("persid"),
		dcfg.Col("hhid"),
		dcfg.Col("agegroup"),
		dcfg.Col("persinc"),
		dcfg.Col("carlicence"),
		dcfg.Col("mbikelicence"),
		dcfg.Col("otherlicence"),
		dcfg.Col("fulltimework"),
		dcfg.Col("parttimework"),
		dcfg.Col("casualwork"),
		dcfg.Col("studying"),
		dcfg.Col("activities"),
		dcfg.Col("anywork"),
	}
	for _, wfhCol := range dcfg.WfhColumns {
		required = append(required, dcfg.Col(wfhCol))
	}
	if err := RequireColumns(df, "persons", required...); err != nil {
		return df, err
	}

	// 5-year age groups collapsed to decades
	ages := df.Col(dcfg.Col("agegroup")).Records()
	decades := make([]string, len(ages))
	for i, a := range ages {
		decades[i] = convertAgeToDecade(a)
	}
	df = df.Mutate(series.New(decades, series.String, "age_decade"))

	// WFH day flags to {0,1}; a person outside the workforce has zero
	// WFH days, not unknown ones
	yes := dcfg.CategorySet("flag_yes")
	no := dcfg.CategorySet("flag_no")
	totalWfh := make([]float64, df.Nrow())
	for _, wfhCol := range dcfg.WfhColumns {
		col := dcfg.Col(wfhCol)
		flags, err := encodeBinary(df.Col(col).Records(), yes, no, "persons", col)
		if err != nil {
			return df, err
		}
		for i, f := range flags {
			totalWfh[i] += float64(f)
		}
		df = df.Mutate(series.New(flags, series.Int, col))
	}
	df = df.Mutate(series.New(totalWfh, series.Float, "total_wfh_days"))

	spec, err := dcfg.Bin("wfh_days")
	if err != nil {
		return df, err
	}
	wfhCats, err := Cut(totalWfh, spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(wfhCats, series.String, "wfh_category"))

	// employment status and life stage are row-wise over several columns
	df = df.Mutate(series.New(pp.employmentStatus(df), series.String, "employment_status"))
	df = df.Mutate(series.New(pp.lifeStage(df), series.String, "life_stage"))

	// personal_income from the bracket text, then mean imputation
	incomes := make([]float64, df.Nrow())
	for i, raw := range df.Col(dcfg.Col("persinc")).Records() {
		incomes[i] = parsePersonalIncome(raw)
	}
	df = df.Mutate(series.New(incomes, series.Float, "personal_income"))
	df, pp.Imputed, err = ImputeMean(df, "persons", "personal_income")
	if err != nil {
		return df, err
	}

	// percentile encoding is data dependent: quantiles of the cleaned
	// column, recomputed on every run
	percentiles, err := QCut(utils.FloatRecords(df, "personal_income"), dcfg.Quantiles, dcfg.QuantileLabels)
	if err != nil {
		return df, fmt.Errorf("income percentile binning: %w", err)
	}
	df = df.Mutate(series.New(percentiles, series.String, "income_percentile"))

	// licence encodings
	carMobility, err := pp.carMobility(df)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(carMobility, series.String, "car_mobility"))

	mobility, err := pp.mobility(df)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(mobility, series.String, "mobility"))

	return df, df.Error()
}

func (pp *PersonProcessor) employmentStatus(df dataframe.DataFrame) []string {
	dcfg := pp.Dcfg
	fulltime := df.Col(dcfg.Col("fulltimework")).Records()
	parttime := df.Col(dcfg.Col("parttimework")).Records()
	casual := df.Col(dcfg.Col("casualwork")).Records()
	studying := df.Col(dcfg.Col("studying")).Records()
	activities := df.Col(dcfg.Col("activities")).Records()

	out := make([]string, df.Nrow())
	for i := range out {
		switch {
		case fulltime[i] == "Yes":
			out[i] = "Full-time"
		case parttime[i] == "Yes":
			out[i] = "Part-time"
		case casual[i] == "Yes":
			out[i] = "Casual"
		case isStudying(studying[i]):
			out[i] = "Student"
		case activities[i] == "Retired":
			out[i] = "Retired"
		default:
			out[i] = "Not Working"
		}
	}
	return out
}

// lifeStage buckets persons by the decade labels this pipeline produces
// ("0->9", "10->19", ...) together with work, study and retirement.
func (pp *PersonProcessor) lifeStage(df dataframe.DataFrame) []string {
	dcfg := pp.Dcfg
	decades := df.Col("age_decade").Records()
	studying := df.Col(dcfg.Col("studying")).Records()
	anywork := df.Col(dcfg.Col("anywork")).Records()
	activities := df.Col(dcfg.Col("activities")).Records()

	out := make([]string, df.Nrow())
	for i := range out {
		start, ok := decadeStart(decades[i])
		switch {
		case ok && start < 20:
			out[i] = "Youth"
		case isStudying(studying[i]):
			out[i] = "Student"
		case anywork[i] == "Yes" && ok && start >= 20 && start < 60:
			out[i] = "Working Adult"
		case activities[i] == "Retired" || (ok && start >= 60):
			out[i] = "Retired/Senior"
		default:
			out[i] = "Other"
		}
	}
	return out
}

func (pp *PersonProcessor) carMobility(df dataframe.DataFrame) ([]string, error) {
	dcfg := pp.Dcfg
	full := dcfg.CategorySet("licence_full")
	limited := dcfg.CategorySet("licence_limited")
	none := dcfg.CategorySet("licence_none")

	records := df.Col(dcfg.Col("carlicence")).Records()
	out := make([]string, len(records))
	for i, r := range records {
		switch {
		case utils.IsMissing(r), utils.Contains(none, r):
			out[i] = "None"
		case utils.Contains(full, r):
			out[i] = "Full"
		case utils.Contains(limited, r):
			out[i] = "Limited"
		default:
			return nil, &ValidationError{Dataset: "persons", Column: dcfg.Col("carlicence"), Value: r}
		}
	}
	return out, nil
}

// mobility is the overall licence freedom: any full car, motorbike or
// other licence grants Full; a probationary or learner car licence
// grants Limited; otherwise None.
func (pp *PersonProcessor) mobility(df dataframe.DataFrame) ([]string, error) {
	dcfg := pp.Dcfg
	full := dcfg.CategorySet("licence_full")
	limited := dcfg.CategorySet("licence_limited")
	yes := dcfg.CategorySet("flag_yes")
	no := dcfg.CategorySet("flag_no")

	car := df.Col(dcfg.Col("carlicence")).Records()
	mbike, err := encodeBinary(df.Col(dcfg.Col("mbikelicence")).Records(), yes, no, "persons", dcfg.Col("mbikelicence"))
	if err != nil {
		return nil, err
	}
	other, err := encodeBinary(df.Col(dcfg.Col("otherlicence")).Records(), yes, no, "persons", dcfg.Col("otherlicence"))
	if err != nil {
		return nil, err
	}

	out := make([]string, len(car))
	for i := range car {
		switch {
		case utils.Contains(full, car[i]) || mbike[i] == 1 || other[i] == 1:
			out[i] = "Full"
		case utils.Contains(limited, car[i]):
			out[i] = "Limited"
		default:
			out[i] = "None"
		}
	}
	return out, nil
}

// encodeBinary maps a yes/no style column to {0,1}. Missing cells count
// as 0; a value outside the recognized sets is a validation error, never
// a silent default.
func encodeBinary(records []string, yes, no []string, dataset, column string) ([]int, error) {
	out := make([]int, len(records))
	for i, r := range records {
		switch {
		case utils.Contains(yes, r):
			out[i] = 1
		case utils.IsMissing(r), utils.Contains(no, r):
			out[i] = 0
		default:
			return nil, &ValidationError{Dataset: dataset, Column: column, Value: r}
		}
	}
	return out, nil
}

// convertAgeToDecade collapses "25->29" style 5-year groups into
// "20->29" decades. The open-ended "100+" group is kept as is.
func convertAgeToDecade(ageGroup string) string {
	if ageGroup == "100+" {
		return "100+"
	}
	if utils.IsMissing(ageGroup) {
		return UnknownCategory
	}
	startStr, _, found := strings.Cut(ageGroup, "->")
	if !found {
		return UnknownCategory
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return UnknownCategory
	}
	decade := (start / 10) * 10
	return fmt.Sprintf("%d->%d", decade, decade+9)
}

func decadeStart(decade string) (int, bool) {
	if decade == "100+" {
		return 100, true
	}
	startStr, _, found := strings.Cut(decade, "->")
	if !found {
		return 0, false
	}
	start, err := strconv.Atoi(startStr)
	if err != nil {
		return 0, false
	}
	return start, true
}

func isStudying(s string) bool {
	return !utils.IsMissing(s) && s != "No Study"
}

// parsePersonalIncome turns a personal income group into a yearly
// figure. Negative income is floored at zero; "Nil income" is genuinely
// missing and left to the mean imputation.
func parsePersonalIncome(text string) float64 {
	if utils.IsMissing(text) || text == "Nil income" {
		return math.NaN()
	}
	if text == "Negative income" {
		return 0
	}
	return parseYearlyIncome(text, topPersonalIncome)
}
