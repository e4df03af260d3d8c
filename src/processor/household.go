package processor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/utils"
)

// incomeBracketRe matches the yearly range inside income group labels
// like "$1,500-$1,749 ($78,000-$90,999)".
var incomeBracketRe = regexp.MustCompile(`\(\$([\d,]+)-\$([\d,]+)\)`)

// Yearly incomes assigned to the open-ended top brackets of the survey.
const (
	topHouseholdIncome = 450000 // "$8,000 or more ($416,000 or more)"
	topPersonalIncome  = 200000
)

// HouseholdProcessor derives the household level features: parsed and
// mean-imputed yearly income, vehicle ratios, child indicators and the
// categorical encodings of size, income and location.
type HouseholdProcessor struct {
	Dcfg    *config.DataConfig
	Imputed int // income cells filled by the mean rule in the last run
}

func NewHouseholdProcessor(dcfg *config.DataConfig) *HouseholdProcessor {
	return &HouseholdProcessor{Dcfg: dcfg}
}

func (hp *HouseholdProcessor) Process(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	dcfg := hp.Dcfg
	required := []string{
		dcfg.Col("hhid"),
		dcfg.Col("hhinc_group"),
		dcfg.Col("totalvehs"),
		dcfg.Col("hhsize"),
		dcfg.Col("youngestgroup_5"),
		dcfg.Col("homeregion_ASGS"),
		dcfg.Col("homesubregion_ASGS"),
	}
	if err := RequireColumns(df, "households", required...); err != nil {
		return df, err
	}

	// household_income from the bracket text, then mean imputation
	incomes := make([]float64, df.Nrow())
	for i, raw := range df.Col(dcfg.Col("hhinc_group")).Records() {
		incomes[i] = parseYearlyIncome(raw, topHouseholdIncome)
	}
	df = df.Mutate(series.New(incomes, series.Float, "household_income"))
	var err error
	df, hp.Imputed, err = ImputeMean(df, "households", "household_income")
	if err != nil {
		return df, err
	}

	spec, err := dcfg.Bin("income_bracket")
	if err != nil {
		return df, err
	}
	brackets, err := Cut(utils.FloatRecords(df, "household_income"), spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(brackets, series.String, "income_bracket"))

	// vehicles per person; a zero-person household has no defined ratio
	vehs := utils.FloatRecords(df, dcfg.Col("totalvehs"))
	sizes := utils.FloatRecords(df, dcfg.Col("hhsize"))
	ratios := make([]float64, len(vehs))
	for i := range vehs {
		if sizes[i] == 0 || math.IsNaN(sizes[i]) || math.IsNaN(vehs[i]) {
			ratios[i] = math.NaN()
			continue
		}
		ratios[i] = vehs[i] / sizes[i]
	}
	df = df.Mutate(series.New(ratios, series.Float, "vehicle_per_person"))

	spec, err = dcfg.Bin("vehicle_availability")
	if err != nil {
		return df, err
	}
	availability, err := Cut(ratios, spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(availability, series.String, "vehicle_availability"))

	// child indicators from the youngest resident's 5-year age group
	youngest := df.Col(dcfg.Col("youngestgroup_5")).Records()
	youngGroups := dcfg.CategorySet("young_child_groups")
	teenGroups := dcfg.CategorySet("teen_groups")
	hasYoung := make([]int, len(youngest))
	hasTeen := make([]int, len(youngest))
	for i, g := range youngest {
		if utils.Contains(youngGroups, g) {
			hasYoung[i] = 1
		}
		if utils.Contains(teenGroups, g) {
			hasTeen[i] = 1
		}
	}
	df = df.Mutate(series.New(hasYoung, series.Int, "has_young_children"))
	df = df.Mutate(series.New(hasTeen, series.Int, "has_teenagers"))

	spec, err = dcfg.Bin("household_size")
	if err != nil {
		return df, err
	}
	sizeCats, err := Cut(sizes, spec)
	if err != nil {
		return df, err
	}
	df = df.Mutate(series.New(sizeCats, series.String, "household_size_category"))

	// city flag and zone from the ASGS home region columns
	regions := df.Col(dcfg.Col("homeregion_ASGS")).Records()
	isCity := make([]int, len(regions))
	for i, r := range regions {
		if strings.Contains(r, "Melbourne") {
			isCity[i] = 1
		}
	}
	df = df.Mutate(series.New(isCity, series.Int, "is_city"))

	subregions := df.Col(dcfg.Col("homesubregion_ASGS")).Records()
	zones := make([]string, len(subregions))
	for i, s := range subregions {
		zones[i] = categoriseZone(s)
	}
	df = df.Mutate(series.New(zones, series.String, "zone"))

	return df, df.Error()
}

// parseYearlyIncome turns a survey income group into a single yearly
// figure: the midpoint of the bracketed yearly range, or topIncome for
// the open-ended "or more" group. Anything else is missing.
func parseYearlyIncome(text string, topIncome float64) float64 {
	if utils.IsMissing(text) {
		return math.NaN()
	}
	if strings.Contains(text, "or more") {
		return topIncome
	}
	m := incomeBracketRe.FindStringSubmatch(text)
	if m == nil {
		return math.NaN()
	}
	low, err1 := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	high, err2 := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err1 != nil || err2 != nil {
		return math.NaN()
	}
	return float64((low + high) / 2)
}

func categoriseZone(subregion string) string {
	if utils.IsMissing(subregion) {
		return UnknownCategory
	}
	switch {
	case strings.Contains(subregion, "Inner"):
		return "Inner"
	case strings.Contains(subregion, "Middle"):
		return "Middle"
	case strings.Contains(subregion, "Outer"):
		return "Outer"
	case !strings.Contains(subregion, "Melbourne"):
		return "Regional"
	default:
		return "Other"
	}
}
