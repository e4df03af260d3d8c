package processor

import (
	"TravelSurveyAnalytics/src/config"
)

// testDataConfig mirrors config/dataconfig.json closely enough for the
// processors under test.
func testDataConfig() *config.DataConfig {
	return &config.DataConfig{
		Datasets: map[string]config.DatasetSpec{
			"households": {File: "households.csv", Key: "hhid"},
			"persons":    {File: "persons.csv", Key: "persid"},
			"trips":      {File: "trips.csv", Key: "tripid"},
		},
		SurveyData: map[string]string{},
		Bins: map[string]config.BinSpec{
			"income_bracket": {
				Edges: []float64{0, 25000, 50000, 100000, 150000, 250000},
				Labels: []string{
					"Low (0 - 25000]", "Lower-middle (25000 - 50000]", "Middle (50000 - 100000]",
					"Upper-middle (100000 - 150000]", "High (150000 - 250000]", "Very high (250000+)",
				},
				OpenEnded: true,
			},
			"vehicle_availability": {
				Edges:     []float64{0, 0.5, 1, 1.5},
				Labels:    []string{"Limited", "Moderate", "Adequate", "Abundant"},
				OpenEnded: true,
			},
			"household_size": {
				Edges: []float64{0, 1, 2, 4, 6, 10},
				Labels: []string{
					"Single (0 - 1]", "Couple (1 - 2]", "Small family (2 - 4]",
					"Large family (4 - 6]", "Extended family (6 - 10]",
				},
			},
			"wfh_days": {
				Edges:  []float64{-1, 0, 2, 5, 7},
				Labels: []string{"Never", "Occasional", "Frequent", "Always"},
			},
			"time_of_day": {
				Edges: []float64{0, 6, 9, 12, 15, 19, 22, 24},
				Labels: []string{
					"Early Morning (0-6]", "Morning Peak (6-9]", "Late Morning (9-12]",
					"Afternoon (12-15]", "Evening Peak (15-19]", "Evening (19-22]", "Late Night (22-24]",
				},
			},
			"distance": {
				Edges:     []float64{0, 10, 20, 40},
				Labels:    []string{"Short (0-10]", "Medium (10-20]", "Long (20-40]", "Very Long (40+)"},
				OpenEnded: true,
			},
			"duration": {
				Edges:     []float64{0, 10, 20, 40},
				Labels:    []string{"Short (0-10]", "Medium (10-20]", "Long (20-40]", "Very Long (40+)"},
				OpenEnded: true,
			},
			"journey_complexity": {
				Edges:  []float64{0, 1, 2, 3, 15},
				Labels: []string{"One-Stage", "Two-Stage", "Three-Stage", "Complex"},
			},
		},
		Categories: map[string][]string{
			"purpose_home":          {"At Home"},
			"purpose_mandatory":     {"Work Related", "Education"},
			"purpose_maintenance":   {"Buy Something", "Personal Business", "Pick-up or Deliver Something", "Pick-up or Drop-off Someone", "Accompany Someone"},
			"purpose_discretionary": {"Social", "Recreational"},
			"purpose_work":          {"Work Related"},
			"purpose_education":     {"Education"},
			"mode_public":           {"Public Bus", "School Bus", "Train", "Tram"},
			"mode_private":          {"Vehicle Driver", "Vehicle Passenger", "Motorcycle", "Taxi", "Rideshare Service"},
			"mode_active":           {"Walking", "Bicycle", "Running/jogging", "Mobility Scooter", "e-Scooter"},
			"young_child_groups":    {"0->4", "5->9"},
			"teen_groups":           {"10->14", "15->19"},
			"flag_yes":              {"Yes"},
			"flag_no":               {"No", "Not in Workforce"},
			"licence_full":          {"Full Licence"},
			"licence_limited":       {"Red Probationary Licence", "Green Probationary Licence", "Learners Permit"},
			"licence_none":          {"No Licence"},
		},
		WfhColumns:     []string{"wfhmon", "wfhtue", "wfhwed", "wfhthu", "wfhfri", "wfhsat", "wfhsun"},
		Quantiles:      []float64{0, 0.25, 0.5, 0.75, 1.0},
		QuantileLabels: []string{"Bottom 25%", "25-50%", "50-75%", "Top 25%"},
		Peak: config.PeakHours{
			MorningStart: 7,
			MorningEnd:   9,
			EveningStart: 17,
			EveningEnd:   19,
		},
	}
}
