package processor

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TravelSurveyAnalytics/src/config"
)

// JoinSpec declares a merge explicitly: the key joined on and the
// columns carried over from the right table. Merges never match columns
// implicitly by name, so a missing column or key is an error instead of
// a silent flood of nulls.
type JoinSpec struct {
	Key     string
	Columns []string
}

// innerJoinSpec merges spec.Columns of right onto left with an inner
// join on spec.Key. Rows of left whose key has no parent in right are
// excluded from the result and returned as the orphan count.
func innerJoinSpec(left, right dataframe.DataFrame, spec JoinSpec) (dataframe.DataFrame, int, error) {
	if err := RequireColumns(left, "merge left", spec.Key); err != nil {
		return left, 0, err
	}
	if err := RequireColumns(right, "merge right", append([]string{spec.Key}, spec.Columns...)...); err != nil {
		return left, 0, err
	}

	selected := right.Select(append([]string{spec.Key}, spec.Columns...))
	if selected.Error() != nil {
		return left, 0, selected.Error()
	}

	joined := left.InnerJoin(selected, spec.Key)
	if joined.Error() != nil {
		return left, 0, joined.Error()
	}

	orphans := left.Nrow() - joined.Nrow()
	return joined, orphans, nil
}

// householdFeatures are the analysis-relevant household columns carried
// into the combined dataset. Selecting explicitly bounds the output
// width and avoids name collisions with person columns.
func householdFeatures() JoinSpec {
	return JoinSpec{
		Key: "hhid",
		Columns: []string{
			"household_income",
			"income_bracket",
			"vehicle_per_person",
			"vehicle_availability",
			"household_size_category",
			"is_city",
			"zone",
			"has_young_children",
			"has_teenagers",
		},
	}
}

// CombinedDataset builds the master analysis table: the person-trip
// summary inner joined with the selected household features. Persons
// whose household is missing from the input are counted, not silently
// dropped.
func CombinedDataset(personTrips, households dataframe.DataFrame, dcfg *config.DataConfig) (dataframe.DataFrame, int, error) {
	spec := householdFeatures()
	spec.Key = dcfg.Col("hhid")
	master, orphans, err := innerJoinSpec(personTrips, households, spec)
	if err != nil {
		return master, orphans, fmt.Errorf("combined dataset: %w", err)
	}
	return master, orphans, nil
}

// CompareDatasets builds the work-trip and education-trip analysis
// tables: trips of each purpose inner joined with the person and
// household context columns from the master table. The two tables feed
// the work-versus-study comparison downstream.
func CompareDatasets(trips, master dataframe.DataFrame, dcfg *config.DataConfig) (work, edu dataframe.DataFrame, orphanTrips int, err error) {
	persidCol := dcfg.Col("persid")
	hhidCol := dcfg.Col("hhid")

	workSpec := JoinSpec{
		Key: persidCol,
		Columns: []string{
			hhidCol, "age_decade", dcfg.Col("sex"), "wfh_category",
			"household_income", "vehicle_availability", "zone",
		},
	}
	eduSpec := JoinSpec{
		Key: persidCol,
		Columns: []string{
			hhidCol, "age_decade", dcfg.Col("sex"), "life_stage",
			"household_income", "vehicle_availability", "zone",
		},
	}

	var n int
	work, n, err = joinPurposeTrips(trips, master, dcfg, "purpose_work", workSpec)
	if err != nil {
		return work, edu, orphanTrips, fmt.Errorf("work trips dataset: %w", err)
	}
	orphanTrips += n

	edu, n, err = joinPurposeTrips(trips, master, dcfg, "purpose_education", eduSpec)
	if err != nil {
		return work, edu, orphanTrips, fmt.Errorf("education trips dataset: %w", err)
	}
	orphanTrips += n

	return work, edu, orphanTrips, nil
}

func joinPurposeTrips(trips, master dataframe.DataFrame, dcfg *config.DataConfig, categorySet string, spec JoinSpec) (dataframe.DataFrame, int, error) {
	filtered := trips.Filter(dataframe.F{
		Colname:    dcfg.Col("destpurp1"),
		Comparator: series.In,
		Comparando: dcfg.CategorySet(categorySet),
	})
	if filtered.Error() != nil {
		return filtered, 0, filtered.Error()
	}
	if filtered.Nrow() == 0 {
		return filtered, 0, nil
	}
	return innerJoinSpec(filtered, master, spec)
}

// IntegrityReport counts the orphan rows found before merging: child
// rows whose foreign key has no parent. Orphans are reported and then
// excluded by the inner joins; they are never merged with nulls.
type IntegrityReport struct {
	TripsWithoutPerson      int
	PersonsWithoutHousehold int
}

// CheckIntegrity verifies the foreign keys between the three relations.
func CheckIntegrity(households, persons, trips dataframe.DataFrame, dcfg *config.DataConfig) (IntegrityReport, error) {
	hhidCol := dcfg.Col("hhid")
	persidCol := dcfg.Col("persid")

	if err := RequireColumns(households, "households", hhidCol); err != nil {
		return IntegrityReport{}, err
	}
	if err := RequireColumns(persons, "persons", persidCol, hhidCol); err != nil {
		return IntegrityReport{}, err
	}
	if err := RequireColumns(trips, "trips", persidCol); err != nil {
		return IntegrityReport{}, err
	}

	hhids := keySet(households, hhidCol)
	persids := keySet(persons, persidCol)

	var report IntegrityReport
	for _, hhid := range persons.Col(hhidCol).Records() {
		if _, ok := hhids[hhid]; !ok {
			report.PersonsWithoutHousehold++
		}
	}
	for _, persid := range trips.Col(persidCol).Records() {
		if _, ok := persids[persid]; !ok {
			report.TripsWithoutPerson++
		}
	}
	return report, nil
}

func keySet(df dataframe.DataFrame, col string) map[string]struct{} {
	out := make(map[string]struct{}, df.Nrow())
	for _, r := range df.Col(col).Records() {
		out[r] = struct{}{}
	}
	return out
}
