package flex

import (
	"encoding/json"
	"fmt"
)

type Status int

const (
	StatusApplied Status = iota
	StatusAlreadyApplied
	StatusReverted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusAlreadyApplied:
		return "alreadyApplied"
	case StatusReverted:
		return "reverted"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of one change in a batch. Err is set for
// StatusFailed only.
type Result struct {
	ChangeID  string `json:"changeId"`
	ElementID string `json:"elementId,omitempty"`
	Status    Status `json:"status"`
	Err       error  `json:"-"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	type result Result
	out := struct {
		result
		Error string `json:"error,omitempty"`
	}{result: result(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

// Failures returns the failed results of a batch.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}
