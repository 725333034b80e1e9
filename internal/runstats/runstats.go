// Package runstats persists a small JSON summary of one CLI run, so
// successive invocations of the pipeline can be audited without re-parsing
// their (possibly large, gzip-compressed) output files.
package runstats

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Summary is the run-level record written alongside a binary's primary
// output.
type Summary struct {
	Command          string    `json:"command"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	SentencesRead    int       `json:"sentences_read"`
	CandidatesKept   int       `json:"candidates_kept"`
	TotalOccurrences int       `json:"total_occurrences"`
}

// WriteFile marshals s as indented JSON to path.
func WriteFile(path string, s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("runstats: encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("runstats: writing %s: %w", path, err)
	}
	return nil
}
