package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Fatal error classes. Callers wrap them with context and test with errors.Is.
var (
	// ErrConfiguration means a required identifier, credential or setting is missing or invalid.
	ErrConfiguration = errors.New("configuration error")
	// ErrAuthentication means the API rejected (or was never given) a credential.
	ErrAuthentication = errors.New("authentication error")
	// ErrNotFound means the primary subject (user or repository) does not exist.
	ErrNotFound = errors.New("not found")
)

// Degradation records a secondary sub-query that failed and was counted as zero.
// It is a soft error: it is reported through Diagnostics and never returned from Aggregate.
type Degradation struct {
	Stat  Stat   `json:"stat"`
	Scope string `json:"scope,omitempty"`
	Err   error  `json:"-"`
}

// Error implements error so a Degradation can be logged like one.
func (d Degradation) Error() string {
	switch {
	case d.Stat == "":
		return fmt.Sprintf("%s: %v", d.Scope, d.Err)
	case d.Scope != "":
		return fmt.Sprintf("%s (%s): %v", d.Stat, d.Scope, d.Err)
	}
	return fmt.Sprintf("%s: %v", d.Stat, d.Err)
}

// Unwrap returns the underlying failure.
func (d Degradation) Unwrap() error { return d.Err }

// MarshalJSON includes the failure message, which the error value itself cannot carry.
func (d Degradation) MarshalJSON() ([]byte, error) {
	msg := ""
	if d.Err != nil {
		msg = d.Err.Error()
	}
	return json.Marshal(struct {
		Stat  Stat   `json:"stat"`
		Scope string `json:"scope,omitempty"`
		Error string `json:"error"`
	}{d.Stat, d.Scope, msg})
}

// Diagnostics collects the soft failures of one aggregation run.
type Diagnostics struct {
	Degradations []Degradation `json:"degradations"`
}

// Add records a soft failure.
func (d *Diagnostics) Add(deg Degradation) {
	d.Degradations = append(d.Degradations, deg)
}

// Merge appends the degradations of another run.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Degradations = append(d.Degradations, other.Degradations...)
}

// DegradedStats returns the distinct stats with at least one degradation, in canonical order.
func (d Diagnostics) DegradedStats() []Stat {
	seen := make(map[Stat]bool, len(d.Degradations))
	for _, deg := range d.Degradations {
		seen[deg.Stat] = true
	}
	out := make([]Stat, 0, len(seen))
	for _, s := range AllStats {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// Clean reports whether the run finished without any degraded field.
func (d Diagnostics) Clean() bool { return len(d.Degradations) == 0 }
