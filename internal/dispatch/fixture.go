package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"nxfacts/internal/logger"
)

// FixtureRunner answers commands from recorded outputs in a directory
type FixtureRunner struct {
	dir string
	log logger.Logger
}

// NewFixtureRunner creates a runner reading fixtures from dir
func NewFixtureRunner(dir string, log logger.Logger) (*FixtureRunner, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixture dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixture dir: %s is not a directory", dir)
	}
	return &FixtureRunner{dir: dir, log: log.WithComponent("dispatch")}, nil
}

// RunCommands returns one decoded fixture per command. A missing fixture gives an
// empty object, the same thing a device returns for an unsupported command.
func (f *FixtureRunner) RunCommands(ctx context.Context, commands []string) ([]any, error) {
	responses := make([]any, 0, len(commands))
	for _, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(f.dir, FixtureName(cmd))
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			f.log.Warn().Str("command", cmd).Str("path", path).Msg("no fixture for command")
			responses = append(responses, map[string]any{})
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read fixture for %q: %w", cmd, err)
		}

		resp, ok := DecodeOutput(string(data))
		if !ok {
			f.log.Warn().Str("command", cmd).Msg("fixture is not valid JSON")
		}
		responses = append(responses, resp)
	}
	return responses, nil
}
