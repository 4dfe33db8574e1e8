package domain

import "time"

// Snapshot is one stored gather result for a device
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	Host      string    `json:"host" yaml:"host"`
	Hostname  string    `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Subsets   []string  `json:"gather_subset" yaml:"gather_subset"`
	Facts     FactMap   `json:"facts" yaml:"facts"`
	Warnings  []string  `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Summary drops the fact payload
func (s *Snapshot) Summary() SnapshotSummary {
	return SnapshotSummary{
		ID:           s.ID,
		Host:         s.Host,
		Hostname:     s.Hostname,
		Subsets:      s.Subsets,
		WarningCount: len(s.Warnings),
		CreatedAt:    s.CreatedAt,
	}
}

// SnapshotSummary is the listing view of a Snapshot
type SnapshotSummary struct {
	ID           string    `json:"id" yaml:"id"`
	Host         string    `json:"host" yaml:"host"`
	Hostname     string    `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	Subsets      []string  `json:"gather_subset" yaml:"gather_subset"`
	WarningCount int       `json:"warning_count" yaml:"warning_count"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}
