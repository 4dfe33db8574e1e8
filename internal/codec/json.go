package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"nxfacts/internal/domain"
)

// JSONCodec writes the fact document as indented JSON
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes snap as {"ansible_facts": ..., "warnings": ..., "nxfacts": ...}
func (c *JSONCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(newDocument(snap)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
