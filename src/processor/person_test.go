package processor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TravelSurveyAnalytics/src/utils"
)

func personRecords() [][]string {
	header := []string{
		"persid", "hhid", "sex", "agegroup", "persinc", "carlicence", "mbikelicence", "otherlicence",
		"fulltimework", "parttimework", "casualwork", "studying", "activities", "anywork",
		"wfhmon", "wfhtue", "wfhwed", "wfhthu", "wfhfri", "wfhsat", "wfhsun",
	}
	worker := []string{
		"P1", "H1", "Male", "25->29", "$1,000-$1,249 ($52,000-$64,999)", "Full Licence", "No", "No",
		"Yes", "No", "No", "No Study", "Full-time Work", "Yes",
		"Yes", "Yes", "No", "No", "No", "No", "No",
	}
	student := []string{
		"P2", "H1", "Female", "15->19", "Nil income", "Learners Permit", "No", "No",
		"No", "No", "No", "Secondary School", "Education", "No",
		"Not in Workforce", "Not in Workforce", "Not in Workforce", "Not in Workforce",
		"Not in Workforce", "Not in Workforce", "Not in Workforce",
	}
	retiree := []string{
		"P3", "H2", "Female", "70->74", "Negative income", "No Licence", "No", "No",
		"No", "No", "No", "No Study", "Retired", "No",
		"", "", "", "", "", "", "",
	}
	return [][]string{header, worker, student, retiree}
}

func TestPersonProcess(t *testing.T) {
	pp := NewPersonProcessor(testDataConfig())
	out, err := pp.Process(rawFrame(personRecords()))
	require.NoError(t, err)

	assert.Equal(t, []string{"20->29", "10->19", "70->79"}, out.Col("age_decade").Records())

	wfh := utils.FloatRecords(out, "total_wfh_days")
	assert.Equal(t, []float64{2, 0, 0}, wfh)
	assert.Equal(t, []string{"Occasional", "Never", "Never"}, out.Col("wfh_category").Records())

	assert.Equal(t, []string{"Full-time", "Student", "Retired"}, out.Col("employment_status").Records())
	assert.Equal(t, []string{"Working Adult", "Youth", "Retired/Senior"}, out.Col("life_stage").Records())

	incomes := utils.FloatRecords(out, "personal_income")
	assert.Equal(t, 58499.0, incomes[0])
	// nil income is missing and takes the mean of the observed values
	assert.InDelta(t, (58499.0+0)/2, incomes[1], 0.5)
	assert.Equal(t, 0.0, incomes[2]) // negative income floored at zero
	assert.Equal(t, 1, pp.Imputed)

	for _, p := range out.Col("income_percentile").Records() {
		assert.NotEqual(t, UnknownCategory, p)
	}

	assert.Equal(t, []string{"Full", "Limited", "None"}, out.Col("car_mobility").Records())
	assert.Equal(t, []string{"Full", "Limited", "None"}, out.Col("mobility").Records())
}

func TestPersonProcessRejectsUnknownFlag(t *testing.T) {
	records := personRecords()
	records[1][14] = "Maybe" // wfhmon

	_, err := NewPersonProcessor(testDataConfig()).Process(rawFrame(records))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "wfhmon", verr.Column)
	assert.Equal(t, "Maybe", verr.Value)
}

func TestPersonProcessRejectsUnknownLicence(t *testing.T) {
	records := personRecords()
	records[1][5] = "Hovercraft Licence"

	_, err := NewPersonProcessor(testDataConfig()).Process(rawFrame(records))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "carlicence", verr.Column)
}

func TestConvertAgeToDecade(t *testing.T) {
	assert.Equal(t, "20->29", convertAgeToDecade("25->29"))
	assert.Equal(t, "0->9", convertAgeToDecade("0->4"))
	assert.Equal(t, "100+", convertAgeToDecade("100+"))
	assert.Equal(t, UnknownCategory, convertAgeToDecade("Missing/Refused"))
	assert.Equal(t, UnknownCategory, convertAgeToDecade("whatever"))
}

func TestParsePersonalIncome(t *testing.T) {
	assert.Equal(t, 0.0, parsePersonalIncome("Negative income"))
	assert.True(t, math.IsNaN(parsePersonalIncome("Nil income")))
	assert.True(t, math.IsNaN(parsePersonalIncome("")))
	assert.Equal(t, 200000.0, parsePersonalIncome("$3,500 or more ($182,000 or more)"))
}
