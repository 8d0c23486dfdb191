// Package storage persists completed simulation runs: one directory per
// run with metadata.json and telemetry.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/fuzzytherm/internal/config"
	"github.com/san-kum/fuzzytherm/internal/fuzzy"
	"github.com/san-kum/fuzzytherm/internal/loop"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Target           float64   `json:"target"`
	Initial          float64   `json:"initial"`
	Skew             float64   `json:"skew"`
	StepSize         float64   `json:"step_size"`
	MaxOutput        float64   `json:"max_output"`
	Steps            int       `json:"steps"`
	FinalTemperature float64   `json:"final_temperature"`
	FinalError       float64   `json:"final_error"`
}

var telemetryHeader = []string{"step", "target", "environment", "error", "error_rate", "crisp", "action"}

// Save writes a completed run and returns its id.
func (s *Store) Save(cfg *config.Config, telemetry []loop.Telemetry) (string, error) {
	runID := fmt.Sprintf("thermal_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Target:    cfg.Target,
		Initial:   cfg.Initial,
		Skew:      cfg.Skew,
		StepSize:  cfg.StepSize,
		MaxOutput: cfg.MaxOutput,
		Steps:     len(telemetry),
	}
	if len(telemetry) > 0 {
		last := telemetry[len(telemetry)-1]
		meta.Target = last.Target
		meta.FinalTemperature = last.Environment
		meta.FinalError = last.CurrentError
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "telemetry.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := writeTelemetry(csvFile, telemetry); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTelemetry reads back a run's per-step records.
func (s *Store) LoadTelemetry(runID string) ([]loop.Telemetry, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	telemetry := make([]loop.Telemetry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(telemetryHeader) {
			return nil, fmt.Errorf("storage: malformed telemetry row with %d fields", len(row))
		}
		tel, err := parseRow(row)
		if err != nil {
			return nil, err
		}
		telemetry = append(telemetry, tel)
	}
	return telemetry, nil
}

func parseRow(row []string) (loop.Telemetry, error) {
	var tel loop.Telemetry
	var err error

	if tel.Step, err = strconv.Atoi(row[0]); err != nil {
		return tel, err
	}
	floats := []*float64{&tel.Target, &tel.Environment, &tel.CurrentError, &tel.ChangeInError, &tel.Crisp}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(row[i+1], 64); err != nil {
			return tel, err
		}
	}
	if tel.Action, err = fuzzy.ParseAction(row[6]); err != nil {
		return tel, err
	}
	return tel, nil
}

func writeTelemetry(out io.Writer, telemetry []loop.Telemetry) error {
	w := csv.NewWriter(out)

	if err := w.Write(telemetryHeader); err != nil {
		return err
	}
	for _, tel := range telemetry {
		row := []string{
			strconv.Itoa(tel.Step),
			strconv.FormatFloat(tel.Target, 'f', 2, 64),
			strconv.FormatFloat(tel.Environment, 'f', 2, 64),
			strconv.FormatFloat(tel.CurrentError, 'f', 2, 64),
			strconv.FormatFloat(tel.ChangeInError, 'f', 2, 64),
			strconv.FormatFloat(tel.Crisp, 'f', 2, 64),
			tel.Action.String(),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportCSV streams a run's telemetry to out.
func (s *Store) ExportCSV(out io.Writer, runID string) error {
	telemetry, err := s.LoadTelemetry(runID)
	if err != nil {
		return err
	}
	return writeTelemetry(out, telemetry)
}

type runExport struct {
	Meta      RunMetadata     `json:"meta"`
	Telemetry []telemetryJSON `json:"telemetry"`
}

type telemetryJSON struct {
	loop.Telemetry
	Action string `json:"action"`
}

// ExportJSON streams a run's metadata and telemetry to out.
func (s *Store) ExportJSON(out io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	telemetry, err := s.LoadTelemetry(runID)
	if err != nil {
		return err
	}

	export := runExport{Meta: *meta, Telemetry: make([]telemetryJSON, len(telemetry))}
	for i, tel := range telemetry {
		export.Telemetry[i] = telemetryJSON{Telemetry: tel, Action: tel.Action.String()}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}
