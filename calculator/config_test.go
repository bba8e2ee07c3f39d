package calculator

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housetemp/model"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[grid]
layout = simple
strict_border = true

[calculator]
timestep = 0.5
ticks = 7200
workers = 4
report_every = 600

[physics]
comfort_threshold = 19.5
heater_power = 120

[schedule]
kind = diurnal
mean = 5
amplitude = 6
period_hours = 24
peak_hour = 14

[sanity]
enabled = true
min = -40
max = 90

[report]
csv = run.csv
csv_cells = 1:1, 1:2,1:3
chart = run.png
terminal = true

[log]
level = debug
json = true
`))
	require.NoError(t, err)

	assert.Equal(t, "simple", cfg.Layout)
	assert.True(t, cfg.StrictBorder)
	assert.Equal(t, 0.5, cfg.Timestep)
	assert.Equal(t, 7200, cfg.Ticks)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 600, cfg.ReportEvery)
	assert.Equal(t, Physics{ComfortThreshold: 19.5, HeaterPower: 120, ConvectionDamping: 300}, cfg.Physics)
	assert.Equal(t, ScheduleConfig{Kind: "diurnal", Mean: 5, Amplitude: 6, PeriodHours: 24, PeakHour: 14}, cfg.Schedule)
	assert.Equal(t, Sanity{Enabled: true, Min: -40, Max: 90}, cfg.Sanity)
	assert.Equal(t, []model.Coordinate{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}}, cfg.Report.CSVCells)
	assert.Equal(t, "run.png", cfg.Report.Chart)
	assert.True(t, cfg.Report.Terminal)
	assert.Equal(t, 3600, cfg.Report.TerminalEvery)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, LogConfig{Level: "debug", JSON: true}, cfg.Log)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigCollectsIssues(t *testing.T) {
	_, err := ParseConfig([]byte(`
[calculator]
timestep = 0
workers = 0

[sanity]
enabled = true
min = 10
max = 10

[report]
csv_cells = 1-1
`))
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 4)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.ini"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig("../conf/config.ini")
	require.NoError(t, err)
	assert.Equal(t, "house", cfg.Layout)
	assert.NoError(t, cfg.Validate())
}
