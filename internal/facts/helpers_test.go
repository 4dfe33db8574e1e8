package facts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nxfacts/internal/dispatch"
	"nxfacts/internal/logger"
)

const fixtureDir = "testdata/nxos"

// fixtureResponses loads the captured outputs for cmds from testdata
func fixtureResponses(t *testing.T, cmds []string) []any {
	t.Helper()
	runner, err := dispatch.NewFixtureRunner(fixtureDir, logger.NewTestLogger())
	require.NoError(t, err)

	responses, err := runner.RunCommands(context.Background(), cmds)
	require.NoError(t, err)
	require.Len(t, responses, len(cmds))
	return responses
}

func newTestRun() *Run {
	return NewRun(logger.NewTestLogger())
}

func int64Ptr(v int64) *int64 {
	return &v
}
