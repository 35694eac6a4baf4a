package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui/tuitest"
	"github.com/custodia-labs/postcraft/internal/core/domain"
)

func TestTUICmd_Exists(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"tui"})

	require.NoError(t, err)
	assert.Equal(t, "tui", cmd.Name())
	assert.Contains(t, cmd.Long, "ctrl+s")
}

func TestRunTUI_MissingServices(t *testing.T) {
	useServices(t, nil)
	cmd, _ := testCommand("")

	err := runTUI(cmd, nil)

	assert.ErrorIs(t, err, tui.ErrMissingWorkflow)
}

func TestRunTUI_MissingCredentials(t *testing.T) {
	wf := &tuitest.Workflow{}
	useServices(t, &Services{
		Workflow: wf,
		Settings: &mockSettings{validateErr: domain.ErrConfiguration},
	})
	cmd, _ := testCommand("")

	err := runTUI(cmd, nil)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, wf.Calls)
}
