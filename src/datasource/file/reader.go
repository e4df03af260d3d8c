package file

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/tealeg/xlsx"

	"TravelSurveyAnalytics/src/config"
	"TravelSurveyAnalytics/src/processor"
)

// ReadTable loads one raw survey table. Both csv and xlsx exports are
// accepted; every column comes back as a string series so that missing
// markers like "Missing/Refused" survive until the cleaners decide what
// to do with them.
func ReadTable(filePath string) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return readCSV(filePath)
	case ".xlsx":
		return ReadXLSX(filePath)
	default:
		return dataframe.New(), fmt.Errorf("unsupported table format: %s", filePath)
	}
}

func readCSV(filePath string) (dataframe.DataFrame, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DefaultType(series.String),
		dataframe.DetectTypes(false),
	)
	if df.Error() != nil {
		return dataframe.New(), fmt.Errorf("reading %s: %w", filePath, df.Error())
	}
	return df, nil
}

// ReadXLSX loads the first sheet of an xlsx workbook, first row as the
// header.
func ReadXLSX(filePath string) (dataframe.DataFrame, error) {
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return dataframe.New(), fmt.Errorf("opening %s: %w", filePath, err)
	}
	if len(xlFile.Sheets) == 0 {
		return dataframe.New(), fmt.Errorf("%s has no sheets", filePath)
	}
	return convertSheetToDataFrame(xlFile.Sheets[0]), nil
}

func convertSheetToDataFrame(sheet *xlsx.Sheet) dataframe.DataFrame {
	if len(sheet.Rows) == 0 {
		return dataframe.New()
	}

	var headers []string
	for _, cell := range sheet.Rows[0].Cells {
		headers = append(headers, cell.Value)
	}

	columns := make([][]string, len(headers))
	for i := range columns {
		columns[i] = make([]string, 0, len(sheet.Rows)-1)
	}

	for _, row := range sheet.Rows[1:] {
		for i := range headers {
			if i < len(row.Cells) {
				columns[i] = append(columns[i], row.Cells[i].Value)
			} else {
				columns[i] = append(columns[i], "")
			}
		}
	}

	seriesList := make([]series.Series, len(headers))
	for i, colName := range headers {
		seriesList[i] = series.New(columns[i], series.String, colName)
	}
	return dataframe.New(seriesList...)
}

// LoadSurveyTables reads all raw tables of one survey export from dir,
// using the file names and key columns of the data config. The journey
// tables are optional; the three core tables are not.
func LoadSurveyTables(dir string, dcfg *config.DataConfig) (processor.SurveyTables, error) {
	var tables processor.SurveyTables

	var err error
	if tables.Households, err = loadDataset(dir, dcfg, "households"); err != nil {
		return tables, err
	}
	if tables.Persons, err = loadDataset(dir, dcfg, "persons"); err != nil {
		return tables, err
	}
	if tables.Trips, err = loadDataset(dir, dcfg, "trips"); err != nil {
		return tables, err
	}

	if tables.JourneyWork, err = loadOptionalDataset(dir, dcfg, "journey_work"); err != nil {
		return tables, err
	}
	if tables.JourneyEducation, err = loadOptionalDataset(dir, dcfg, "journey_education"); err != nil {
		return tables, err
	}
	return tables, nil
}

func loadDataset(dir string, dcfg *config.DataConfig, name string) (dataframe.DataFrame, error) {
	spec, err := dcfg.Dataset(name)
	if err != nil {
		return dataframe.New(), err
	}

	df, err := ReadTable(filepath.Join(dir, spec.File))
	if err != nil {
		return dataframe.New(), fmt.Errorf("loading %s: %w", name, err)
	}
	if err := processor.RequireColumns(df, name, spec.Key); err != nil {
		return dataframe.New(), err
	}
	return df, nil
}

// loadOptionalDataset skips a table whose file the export simply does
// not contain. A file that exists but cannot be read or lacks its key
// column is still a fatal schema error, never a silent skip.
func loadOptionalDataset(dir string, dcfg *config.DataConfig, name string) (*dataframe.DataFrame, error) {
	spec, err := dcfg.Dataset(name)
	if err != nil {
		return nil, nil
	}
	path := filepath.Join(dir, spec.File)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	df, err := loadDataset(dir, dcfg, name)
	if err != nil {
		return nil, err
	}
	return &df, nil
}

// EnsureDir creates dirPath if it does not exist yet.
func EnsureDir(dirPath string) error {
	if info, err := os.Stat(dirPath); err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", dirPath)
	}
	return os.MkdirAll(dirPath, 0755)
}

// SetupSignalHandler cancels the run context on SIGINT or SIGTERM.
func SetupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal: %v, shutting down...\n", sig)
		cancel()
	}()
}
