package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/storage"
)

// SurveyTables holds the raw input tables of one survey export. The
// journey tables are optional; a nil pointer means the export did not
// include that table and the pipeline skips it with a warning.
type SurveyTables struct {
	Households dataframe.DataFrame
	Persons    dataframe.DataFrame
	Trips      dataframe.DataFrame

	JourneyWork      *dataframe.DataFrame
	JourneyEducation *dataframe.DataFrame
}

// RunReport summarises one pipeline run: row counts per output table,
// the cleaning actions taken and the orphan rows found before merging.
type RunReport struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Rows map[string]int

	ImputedHouseholdIncomes int
	ImputedPersonalIncomes  int
	ImputedTripDistances    int
	ImputedTripDurations    int
	ClampedTripDistances    int
	ClampedJourneyDistances int

	TripsWithoutPerson           int
	PersonsWithoutHousehold      int
	PersonsWithoutHouseholdMerge int
	TripsWithoutMaster           int
}

// Results holds the processed output tables keyed by name, plus the
// run report. Save writes each table to <name>_processed.csv.
type Results struct {
	Tables map[string]dataframe.DataFrame
	Report RunReport
}

// Pipeline runs the full preprocessing sequence over one set of survey
// tables: per-table cleaning and feature derivation, then aggregation
// and the analysis merges.
type Pipeline struct {
	Dcfg   *config.DataConfig
	Logger *storage.Logger
}

func NewPipeline(dcfg *config.DataConfig, logger *storage.Logger) *Pipeline {
	return &Pipeline{Dcfg: dcfg, Logger: logger}
}

func (p *Pipeline) Run(tables SurveyTables) (*Results, error) {
	report := RunReport{
		StartedAt: time.Now(),
		Rows:      make(map[string]int),
	}

	integrity, err := CheckIntegrity(tables.Households, tables.Persons, tables.Trips, p.Dcfg)
	if err != nil {
		return nil, fmt.Errorf("integrity check: %w", err)
	}
	report.TripsWithoutPerson = integrity.TripsWithoutPerson
	report.PersonsWithoutHousehold = integrity.PersonsWithoutHousehold
	if integrity.TripsWithoutPerson > 0 {
		p.Logger.Warning(fmt.Sprintf("%d trips reference a person missing from the persons table", integrity.TripsWithoutPerson))
	}
	if integrity.PersonsWithoutHousehold > 0 {
		p.Logger.Warning(fmt.Sprintf("%d persons reference a household missing from the households table", integrity.PersonsWithoutHousehold))
	}

	hp := NewHouseholdProcessor(p.Dcfg)
	households, err := hp.Process(tables.Households)
	if err != nil {
		return nil, fmt.Errorf("processing households: %w", err)
	}
	report.ImputedHouseholdIncomes = hp.Imputed
	p.Logger.Info(fmt.Sprintf("households processed: %d rows, %d incomes imputed", households.Nrow(), hp.Imputed))

	pp := NewPersonProcessor(p.Dcfg)
	persons, err := pp.Process(tables.Persons)
	if err != nil {
		return nil, fmt.Errorf("processing persons: %w", err)
	}
	report.ImputedPersonalIncomes = pp.Imputed
	p.Logger.Info(fmt.Sprintf("persons processed: %d rows, %d incomes imputed", persons.Nrow(), pp.Imputed))

	tp := NewTripProcessor(p.Dcfg)
	trips, err := tp.Process(tables.Trips)
	if err != nil {
		return nil, fmt.Errorf("processing trips: %w", err)
	}
	report.ImputedTripDistances = tp.ImputedDistances
	report.ImputedTripDurations = tp.ImputedDurations
	report.ClampedTripDistances = tp.ClampedDistances
	p.Logger.Info(fmt.Sprintf("trips processed: %d rows, %d distances imputed, %d durations imputed, %d negative distances clamped",
		trips.Nrow(), tp.ImputedDistances, tp.ImputedDurations, tp.ClampedDistances))

	results := &Results{Tables: map[string]dataframe.DataFrame{
		"households": households,
		"persons":    persons,
		"trips":      trips,
	}}

	if err := p.runJourneys(tables, results, &report); err != nil {
		return nil, err
	}

	summary, err := PersonTripSummary(persons, trips, p.Dcfg)
	if err != nil {
		return nil, fmt.Errorf("person trip summary: %w", err)
	}
	results.Tables["persons_trips_summary"] = summary

	master, orphanPersons, err := CombinedDataset(summary, households, p.Dcfg)
	if err != nil {
		return nil, err
	}
	report.PersonsWithoutHouseholdMerge = orphanPersons
	if orphanPersons > 0 {
		p.Logger.Warning(fmt.Sprintf("%d persons dropped from the combined dataset for lack of a household", orphanPersons))
	}
	results.Tables["master"] = master

	hhSummary, err := HouseholdSummary(summary, households, p.Dcfg)
	if err != nil {
		return nil, fmt.Errorf("household summary: %w", err)
	}
	results.Tables["household_summary"] = hhSummary

	work, edu, orphanTrips, err := CompareDatasets(trips, master, p.Dcfg)
	if err != nil {
		return nil, fmt.Errorf("comparison datasets: %w", err)
	}
	report.TripsWithoutMaster = orphanTrips
	if orphanTrips > 0 {
		p.Logger.Warning(fmt.Sprintf("%d purpose trips dropped from the comparison datasets for lack of a person", orphanTrips))
	}
	results.Tables["work_trips"] = work
	results.Tables["education_trips"] = edu

	for name, df := range results.Tables {
		report.Rows[name] = df.Nrow()
	}
	report.FinishedAt = time.Now()
	results.Report = report

	p.Logger.Info(fmt.Sprintf("pipeline finished in %s, %d tables produced",
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond), len(results.Tables)))
	return results, nil
}

func (p *Pipeline) runJourneys(tables SurveyTables, results *Results, report *RunReport) error {
	type journeyInput struct {
		df    *dataframe.DataFrame
		kind  string
		table string
	}
	inputs := []journeyInput{
		{tables.JourneyWork, JourneyWork, "journey_work"},
		{tables.JourneyEducation, JourneyEducation, "journey_education"},
	}
	for _, in := range inputs {
		if in.df == nil {
			p.Logger.Warning(fmt.Sprintf("%s table not present in this export, skipping", in.table))
			continue
		}
		jp := NewJourneyProcessor(p.Dcfg, in.kind)
		out, err := jp.Process(*in.df)
		if err != nil {
			return fmt.Errorf("processing %s: %w", in.table, err)
		}
		report.ClampedJourneyDistances += jp.ClampedDistances
		results.Tables[in.table] = out
		p.Logger.Info(fmt.Sprintf("%s processed: %d rows, %d negative distances clamped", in.table, out.Nrow(), jp.ClampedDistances))
	}
	return nil
}

// Save writes every output table to dir as <name>_processed.csv. Tables
// are written in name order so repeated runs touch files in the same
// sequence.
func (r *Results) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	names := make([]string, 0, len(r.Tables))
	for name := range r.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		df := r.Tables[name]
		path := filepath.Join(dir, name+"_processed.csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if err := df.WriteCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
	}
	return nil
}

// Summary renders the run report as a short plain-text block, used for
// the log, the report mail and the webhook push.
func (r *RunReport) Summary() string {
	msg := fmt.Sprintf("survey preprocessing run %s\n", r.StartedAt.Format("2006-01-02 15:04:05"))
	names := make([]string, 0, len(r.Rows))
	for name := range r.Rows {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		msg += fmt.Sprintf("  %s: %d rows\n", name, r.Rows[name])
	}
	msg += fmt.Sprintf("  imputed: %d household incomes, %d personal incomes, %d trip distances, %d trip durations\n",
		r.ImputedHouseholdIncomes, r.ImputedPersonalIncomes, r.ImputedTripDistances, r.ImputedTripDurations)
	msg += fmt.Sprintf("  clamped: %d trip distances, %d journey distances\n",
		r.ClampedTripDistances, r.ClampedJourneyDistances)
	msg += fmt.Sprintf("  orphans: %d trips without person, %d persons without household",
		r.TripsWithoutPerson, r.PersonsWithoutHousehold)
	return msg
}
