// Package codec renders gather results for output.
package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"nxfacts/internal/domain"
)

// ErrUnknownFormat is returned by ForFormat for an unregistered format name
var ErrUnknownFormat = errors.New("unknown output format")

// Exporter writes a snapshot in one output format
type Exporter interface {
	Export(snap *domain.Snapshot, w io.Writer) error
	Format() string
}

var exporters = map[string]func() Exporter{
	"json":    func() Exporter { return NewJSONCodec() },
	"yaml":    func() Exporter { return NewYAMLCodec() },
	"ansible": func() Exporter { return NewAnsibleCodec() },
}

// ForFormat returns the exporter registered under name
func ForFormat(name string) (Exporter, error) {
	newExporter, ok := exporters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownFormat, name, Formats())
	}
	return newExporter(), nil
}

// Formats lists the registered format names, sorted
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// document mirrors the result a fact-gathering module hands back to its caller
type document struct {
	Facts    domain.FactMap `json:"ansible_facts" yaml:"ansible_facts"`
	Warnings []string       `json:"warnings" yaml:"warnings"`
	Run      runInfo        `json:"nxfacts" yaml:"nxfacts"`
}

type runInfo struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Host      string    `json:"host,omitempty" yaml:"host,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func newDocument(snap *domain.Snapshot) document {
	doc := document{
		Facts:    snap.Facts,
		Warnings: snap.Warnings,
		Run:      runInfo{ID: snap.ID, Host: snap.Host, CreatedAt: snap.CreatedAt},
	}
	if doc.Facts == nil {
		doc.Facts = domain.FactMap{}
	}
	if doc.Warnings == nil {
		doc.Warnings = []string{}
	}
	return doc
}
