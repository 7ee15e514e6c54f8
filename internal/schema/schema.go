// Package schema defines the per-domain result record produced by the
// analysis pipeline and consumed by the persistence and export layers.
package schema

import (
	"encoding/json"
	"strings"
	"time"
)

// Version is stamped into every result for forward compatibility.
const Version = "1.0"

// Status is the overall outcome of one domain analysis run.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// Skip reasons recorded when the pipeline bails out early.
const (
	SkipUnregistered = "unregistered"
	SkipInactive     = "inactive"
)

// CheckData carries one check's raw structured output. A non-empty "error"
// key marks the check as failed.
type CheckData map[string]any

// Failed reports whether this check recorded an error.
func (c CheckData) Failed() bool {
	v, ok := c["error"]
	if !ok || v == nil {
		return false
	}
	s, ok := v.(string)
	return !ok || s != ""
}

// Meta holds run-level metadata for a result.
type Meta struct {
	Timestamp        time.Time    `json:"timestamp"`
	Task             string       `json:"task"`
	ExecutionTimeSec float64      `json:"execution_time_sec"`
	Status           Status       `json:"status"`
	Errors           []string     `json:"errors,omitempty"`
	SkipReason       string       `json:"skip_reason,omitempty"`
	SchemaVersion    string       `json:"schema_version"`
	Profiles         *ProfileMeta `json:"profiles,omitempty"`
}

// ProfileMeta records the profile request that produced this result.
type ProfileMeta struct {
	Requested      []string `json:"requested"`
	ExecutionOrder []string `json:"execution_order"`
	EstimatedTime  string   `json:"estimated_duration"`
}

// Summary is the derived health summary of a domain.
type Summary struct {
	Reachable bool   `json:"reachable"`
	HTTPS     bool   `json:"https"`
	Issues    int    `json:"issues"`
	Warnings  int    `json:"warnings"`
	Grade     string `json:"grade"`
}

// Result is one (domain, task) analysis record.
type Result struct {
	Domain  string               `json:"domain"`
	Meta    Meta                 `json:"meta"`
	Checks  map[string]CheckData `json:"checks"`
	Summary Summary              `json:"summary"`
}

// New creates an empty pending result for a domain and task.
func New(domain, task string) *Result {
	return &Result{
		Domain: domain,
		Meta: Meta{
			Timestamp:     time.Now().UTC(),
			Task:          task,
			Status:        StatusPending,
			SchemaVersion: Version,
		},
		Checks: make(map[string]CheckData),
		Summary: Summary{
			Grade: "N/A",
		},
	}
}

// AddCheck records a check's output under its name. Structs are flattened
// through JSON so the stored form matches the serialized form exactly.
func (r *Result) AddCheck(name string, data any) {
	if cd, ok := data.(CheckData); ok {
		r.Checks[name] = cd
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		r.Checks[name] = CheckData{"error": "unserializable check output: " + err.Error()}
		return
	}
	var cd CheckData
	if err := json.Unmarshal(raw, &cd); err != nil {
		r.Checks[name] = CheckData{"error": "unserializable check output: " + err.Error()}
		return
	}
	r.Checks[name] = cd
}

// Finalize stamps execution time, overall status, and accumulated errors,
// then recomputes the summary.
func (r *Result) Finalize(elapsed time.Duration, status Status, errs []string) {
	r.Meta.ExecutionTimeSec = float64(int(elapsed.Seconds()*100)) / 100
	r.Meta.Status = status
	if len(errs) > 0 {
		r.Meta.Errors = errs
	}
	r.UpdateSummary()
}

// UpdateSummary recomputes the derived summary from recorded checks.
// Reachability and HTTPS come from the status check; every check carrying
// an error counts as one issue; warnings are check-specific (the TLS
// soon-expiry flag is the only built-in producer).
func (r *Result) UpdateSummary() {
	if status, ok := r.Checks["status"]; ok {
		if v, ok := status["ok"].(bool); ok {
			r.Summary.Reachable = v
		}
		if v, ok := status["final_url"].(string); ok {
			r.Summary.HTTPS = strings.HasPrefix(v, "https://")
		}
	}

	issues, warnings := 0, 0
	for _, data := range r.Checks {
		if data.Failed() {
			issues++
		}
		if v, ok := data["warning"].(bool); ok && v {
			warnings++
		}
	}
	r.Summary.Issues = issues
	r.Summary.Warnings = warnings
	r.Summary.Grade = grade(r.Summary.Reachable, issues, warnings)
}

func grade(reachable bool, issues, warnings int) string {
	switch {
	case !reachable:
		return "F"
	case issues > 2:
		return "D"
	case issues > 0:
		return "C"
	case warnings > 0:
		return "B"
	default:
		return "A"
	}
}

// DeriveStatus maps the attempted/failed check counts on the full-suite
// path onto the overall status enumeration.
func DeriveStatus(attempted, failed int) Status {
	switch {
	case attempted > 0 && failed == attempted:
		return StatusError
	case failed > 0:
		return StatusPartial
	default:
		return StatusSuccess
	}
}
