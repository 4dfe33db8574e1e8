package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"nxfacts/internal/domain"
)

// YAMLCodec writes the same document as JSONCodec in YAML
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export writes snap as YAML
func (c *YAMLCodec) Export(snap *domain.Snapshot, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(newDocument(snap)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}
