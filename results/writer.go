// Package results persists trial batches and grid sweeps as CSV files,
// one run directory per simulation run.
package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"enhancesim/framework"
	"enhancesim/sim"
)

// Writer stores the records of one simulation run under a dedicated
// directory named by timestamp and run ID.
type Writer struct {
	baseDir string
	runID   string
}

// NewWriter creates the run directory for an environment name under root.
func NewWriter(root, envName string) (*Writer, error) {
	runID := uuid.NewString()
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05")
	baseDir := filepath.Join(root, envName, fmt.Sprintf("%s_%s", timestamp, runID[:8]))
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	return &Writer{baseDir: baseDir, runID: runID}, nil
}

// Dir returns the run directory.
func (w *Writer) Dir() string { return w.baseDir }

// RunID returns the run's unique ID.
func (w *Writer) RunID() string { return w.runID }

// WriteBatch stores a fixed-parameter trial batch as trials.csv, one row
// per trial with the metric columns sorted by name.
func (w *Writer) WriteBatch(batch []framework.Result) error {
	path := filepath.Join(w.baseDir, "trials.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create trials file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	metrics := metricColumns(batch)
	header := append([]string{"trial"}, metrics...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write trials header: %w", err)
	}

	for i, result := range batch {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(i+1))
		for _, metric := range metrics {
			row = append(row, formatMetric(result[metric]))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write trial row %d: %w", i+1, err)
		}
	}

	log.Info().Msgf("stored %d trial record(s) in %s", len(batch), path)
	return nil
}

// WriteGrid stores a sweep as grid.csv, one row per (coordinate, trial)
// pair with the coordinate key in the first column.
func (w *Writer) WriteGrid(gr *sim.GridResult) error {
	path := filepath.Join(w.baseDir, "grid.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create grid file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	var metrics []string
	for _, point := range gr.Points {
		if batch := gr.Batch(point); len(batch) > 0 {
			metrics = metricColumns(batch)
			break
		}
	}

	header := append([]string{"point", "trial"}, metrics...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write grid header: %w", err)
	}

	rows := 0
	for _, point := range gr.Points {
		key := point.Key()
		for i, result := range gr.Batch(point) {
			row := make([]string, 0, len(header))
			row = append(row, key, strconv.Itoa(i+1))
			for _, metric := range metrics {
				row = append(row, formatMetric(result[metric]))
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write grid row for %s: %w", key, err)
			}
			rows++
		}
	}

	log.Info().Msgf("stored %d grid record(s) across %d point(s) in %s", rows, len(gr.Points), path)
	return nil
}

// metricColumns fixes the column order for a batch: sorted metric names
// from the first record (the key set is fixed per environment).
func metricColumns(batch []framework.Result) []string {
	if len(batch) == 0 {
		return nil
	}
	metrics := make([]string, 0, len(batch[0]))
	for metric := range batch[0] {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	return metrics
}

func formatMetric(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}
