package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds the application level configuration.
type Config struct {
	Email struct {
		Server        string   `json:"server"`         // IMAP server address
		Username      string   `json:"username"`       // mailbox user
		Password      string   `json:"password"`       // mailbox password
		TargetSubject string   `json:"target_subject"` // subject keyword of survey export mails
		CheckInterval Duration `json:"check_interval"` // re-run interval in cron mode
	} `json:"email"`

	DataDir      string `json:"data_dir"`      // raw survey tables
	ProcessedDir string `json:"processed_dir"` // processed csv output
	ReportFile   string `json:"report_file"`   // combined dataset workbook (xlsx)
	RunMode      string `json:"run_mode"`      // once | watch | cron
	LogName      string `json:"log_name"`
	LogMaxSize   string `json:"log_max_size"`

	SendEmail struct {
		Server     string   `json:"server"`
		Username   string   `json:"username"`
		Password   string   `json:"password"`
		Subject    string   `json:"subject"`
		Recipients []string `json:"recipients"`
	} `json:"send_email"`

	Push struct {
		WebhookURL string `json:"webhook_url"`
		Keyword    string `json:"keyword"` // robot keyword prefixed to each message
	} `json:"push"`
}

// DatasetSpec names a raw table file and its key column.
type DatasetSpec struct {
	File string `json:"file"`
	Key  string `json:"key"`
}

// BinSpec holds the fixed breakpoints of a discretized column.
// Intervals are (lo, hi] with the first interval closed at its lower
// edge. With OpenEnded the last label covers (last edge, +Inf).
type BinSpec struct {
	Edges     []float64 `json:"edges"`
	Labels    []string  `json:"labels"`
	OpenEnded bool      `json:"open_ended"`
}

// PeakHours delimits the morning and evening peak windows, in hours
// from midnight, both ends inclusive.
type PeakHours struct {
	MorningStart float64 `json:"morning_start"`
	MorningEnd   float64 `json:"morning_end"`
	EveningStart float64 `json:"evening_start"`
	EveningEnd   float64 `json:"evening_end"`
}

// DataConfig holds everything the pipeline knows about the survey data:
// where the tables live, how logical column names map to physical ones,
// the bin breakpoints and the recognized category sets.
type DataConfig struct {
	Datasets       map[string]DatasetSpec `json:"datasets"`
	SurveyData     map[string]string      `json:"surveyData"`
	Bins           map[string]BinSpec     `json:"bins"`
	Categories     map[string][]string    `json:"categories"`
	WfhColumns     []string               `json:"wfh_columns"`
	Quantiles      []float64              `json:"income_quantiles"`
	QuantileLabels []string               `json:"income_quantile_labels"`
	Peak           PeakHours              `json:"peak_hours"`
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
	mu                 sync.RWMutex
)

func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	configFile := filepath.Join(jsonFolder, jsonFile)
	dataConfigFile := filepath.Join(jsonFolder, dataJsonFile)

	configData, err := readFile(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading app config: %w", err)
	}

	dataConfigData, err := readFile(dataConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading data config: %w", err)
	}

	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(configData, cfgChan, errChan)
	go parseDataConfig(dataConfigData, dcfgChan, errChan)

	cfg, dcfg, err := waitForResults(cfgChan, dcfgChan, errChan)
	if err != nil {
		return nil, nil, err
	}

	return cfg, dcfg, nil
}

func readFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", filePath, err)
	}
	return data, nil
}

func parseConfig(data []byte, resultChan chan<- *Config, errChan chan<- error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		errChan <- fmt.Errorf("parsing Config: %w", err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(data []byte, resultChan chan<- *DataConfig, errChan chan<- error) {
	var dcfg DataConfig
	if err := json.Unmarshal(data, &dcfg); err != nil {
		errChan <- fmt.Errorf("parsing DataConfig: %w", err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg    *Config
		dcfg   *DataConfig
		errors []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return nil, nil, combineErrors(errors)
	}

	if cfg == nil || dcfg == nil {
		return nil, nil, fmt.Errorf("some configuration was not loaded")
	}

	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	msg := "configuration loading hit multiple errors:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}

// Duration wraps time.Duration so intervals can be written as "5m" in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Col maps a logical column name to the physical one in the raw tables.
// Unmapped names pass through unchanged, so the map only needs entries
// for columns whose physical name differs from the logical one.
func (dc *DataConfig) Col(name string) string {
	mu.RLock()
	defer mu.RUnlock()
	if phys, ok := dc.SurveyData[name]; ok {
		return phys
	}
	return name
}

func (dc *DataConfig) SetCol(name, value string) {
	mu.Lock()
	defer mu.Unlock()
	if dc.SurveyData == nil {
		dc.SurveyData = make(map[string]string)
	}
	dc.SurveyData[name] = value
}

func (dc *DataConfig) Bin(name string) (BinSpec, error) {
	mu.RLock()
	defer mu.RUnlock()
	spec, ok := dc.Bins[name]
	if !ok {
		return BinSpec{}, fmt.Errorf("no bin spec named %q in data config", name)
	}
	return spec, nil
}

func (dc *DataConfig) CategorySet(name string) []string {
	mu.RLock()
	defer mu.RUnlock()
	return dc.Categories[name]
}

func (dc *DataConfig) Dataset(name string) (DatasetSpec, error) {
	mu.RLock()
	defer mu.RUnlock()
	spec, ok := dc.Datasets[name]
	if !ok {
		return DatasetSpec{}, fmt.Errorf("no dataset named %q in data config", name)
	}
	return spec, nil
}
