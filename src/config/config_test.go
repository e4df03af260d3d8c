package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppConfig = `{
  "email": {
    "server": "imap.example.com:993",
    "username": "survey@example.com",
    "password": "secret",
    "target_subject": "VISTA export",
    "check_interval": "5m"
  },
  "data_dir": "./data/raw_data",
  "processed_dir": "./data/processed",
  "report_file": "combined.xlsx",
  "run_mode": "once",
  "log_name": "app.log",
  "log_max_size": "10 * 1024 * 1024",
  "send_email": {"server": "", "username": "", "password": "", "subject": "", "recipients": []},
  "push": {"webhook_url": "", "keyword": ""}
}`

const testDataConfigJSON = `{
  "datasets": {
    "households": {"file": "households.csv", "key": "hhid"}
  },
  "surveyData": {"sex": "gender"},
  "bins": {
    "distance": {"edges": [0, 10, 20], "labels": ["Short", "Medium", "Long"], "open_ended": true}
  },
  "categories": {"flag_yes": ["Yes"]},
  "wfh_columns": ["wfhmon"],
  "income_quantiles": [0, 0.5, 1],
  "income_quantile_labels": ["Lower", "Upper"],
  "peak_hours": {"morning_start": 7, "morning_end": 9, "evening_start": 17, "evening_end": 19}
}`

func TestLoadConfigs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(testAppConfig), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataconfig.json"), []byte(testDataConfigJSON), 0644))

	cfg, dcfg, err := loadConfigs(dir, "config.json", "dataconfig.json")
	require.NoError(t, err)

	assert.Equal(t, "imap.example.com:993", cfg.Email.Server)
	assert.Equal(t, 5*time.Minute, time.Duration(cfg.Email.CheckInterval))
	assert.Equal(t, "once", cfg.RunMode)

	spec, err := dcfg.Dataset("households")
	require.NoError(t, err)
	assert.Equal(t, "households.csv", spec.File)
	assert.Equal(t, "hhid", spec.Key)
}

func TestLoadConfigsMissingFile(t *testing.T) {
	_, _, err := loadConfigs(t.TempDir(), "config.json", "dataconfig.json")
	assert.Error(t, err)
}

func TestLoadConfigsBadJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataconfig.json"), []byte("{"), 0644))

	_, _, err := loadConfigs(dir, "config.json", "dataconfig.json")
	assert.Error(t, err)
}

func TestColMapping(t *testing.T) {
	var dcfg DataConfig
	require.NoError(t, json.Unmarshal([]byte(testDataConfigJSON), &dcfg))

	// mapped names translate, everything else passes through
	assert.Equal(t, "gender", dcfg.Col("sex"))
	assert.Equal(t, "hhid", dcfg.Col("hhid"))

	dcfg.SetCol("hhid", "household_id")
	assert.Equal(t, "household_id", dcfg.Col("hhid"))
}

func TestBinLookup(t *testing.T) {
	var dcfg DataConfig
	require.NoError(t, json.Unmarshal([]byte(testDataConfigJSON), &dcfg))

	spec, err := dcfg.Bin("distance")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 20}, spec.Edges)
	assert.True(t, spec.OpenEnded)

	_, err = dcfg.Bin("no_such_bin")
	assert.Error(t, err)
}

func TestDurationRoundTrip(t *testing.T) {
	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"90s"`), &d))
	assert.Equal(t, 90*time.Second, time.Duration(d))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"not a duration"`), &d))
}
