package processor

import (
	"errors"
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"TravelSurveyAnalytics/src/utils"
)

// ErrMissingColumn marks a schema mismatch: a rule or feature references
// a column the input table does not carry. Always fatal for the stage.
var ErrMissingColumn = errors.New("required column missing")

// ValidationError reports a categorical value outside the recognized set
// of an encoding rule. Fatal for the rule's application.
type ValidationError struct {
	Dataset string
	Column  string
	Value   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unrecognized value %q in %s.%s", e.Value, e.Dataset, e.Column)
}

// RequireColumns fails fast when any named column is absent, so a rule
// is never silently skipped.
func RequireColumns(df dataframe.DataFrame, dataset string, cols ...string) error {
	for _, col := range cols {
		if !utils.HasColumn(df, col) {
			return fmt.Errorf("%w: %s.%s", ErrMissingColumn, dataset, col)
		}
	}
	return nil
}
