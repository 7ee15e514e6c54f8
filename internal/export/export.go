// Package export writes finished batch results to disk as JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Debesyla/dago-domenai/internal/schema"
)

const filePerm = 0o644

// Exporter writes result files into Dir, creating it on first use.
// Filenames carry a UTC timestamp so repeated runs never clobber each
// other.
type Exporter struct {
	Dir string

	now func() time.Time
}

// New builds an exporter rooted at dir.
func New(dir string) *Exporter {
	return &Exporter{Dir: dir, now: time.Now}
}

func (e *Exporter) filename(ext string) string {
	ts := e.now().UTC().Format("20060102_150405")
	return filepath.Join(e.Dir, fmt.Sprintf("results_%s.%s", ts, ext))
}

func (e *Exporter) ensureDir() error {
	return os.MkdirAll(e.Dir, 0o755)
}

// WriteJSON writes the full result records as an indented JSON array and
// returns the file path.
func (e *Exporter) WriteJSON(results []*schema.Result) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	path := e.filename("json")
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", err
	}
	return path, nil
}

// BatchStats is the aggregate view written by WriteSummary.
type BatchStats struct {
	Total               int            `json:"total"`
	ByStatus            map[string]int `json:"by_status"`
	ByGrade             map[string]int `json:"by_grade"`
	AvgExecutionTimeSec float64        `json:"avg_execution_time_sec"`
}

// Summarize computes the aggregate statistics for a batch.
func Summarize(results []*schema.Result) BatchStats {
	stats := BatchStats{
		Total:    len(results),
		ByStatus: map[string]int{},
		ByGrade:  map[string]int{},
	}
	var totalSec float64
	for _, r := range results {
		stats.ByStatus[string(r.Meta.Status)]++
		stats.ByGrade[r.Summary.Grade]++
		totalSec += r.Meta.ExecutionTimeSec
	}
	if len(results) > 0 {
		stats.AvgExecutionTimeSec = float64(int(totalSec/float64(len(results))*100)) / 100
	}
	return stats
}

// WriteSummary writes the aggregate statistics as indented JSON and
// returns the file path.
func (e *Exporter) WriteSummary(results []*schema.Result) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	ts := e.now().UTC().Format("20060102_150405")
	path := filepath.Join(e.Dir, fmt.Sprintf("summary_%s.json", ts))
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", err
	}
	return path, nil
}

var csvHeader = []string{
	"domain", "status", "grade", "reachable", "https",
	"issues", "warnings", "execution_time_sec", "skip_reason", "errors",
}

// WriteCSV writes a flat per-domain summary table and returns the file
// path. The full check payloads stay in the JSON export; CSV carries
// only the spreadsheet-friendly columns.
func (e *Exporter) WriteCSV(results []*schema.Result) (string, error) {
	if err := e.ensureDir(); err != nil {
		return "", err
	}
	path := e.filename("csv")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range results {
		row := []string{
			r.Domain,
			string(r.Meta.Status),
			r.Summary.Grade,
			strconv.FormatBool(r.Summary.Reachable),
			strconv.FormatBool(r.Summary.HTTPS),
			strconv.Itoa(r.Summary.Issues),
			strconv.Itoa(r.Summary.Warnings),
			strconv.FormatFloat(r.Meta.ExecutionTimeSec, 'f', 2, 64),
			r.Meta.SkipReason,
			strings.Join(r.Meta.Errors, "; "),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, nil
}
