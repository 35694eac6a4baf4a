package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/oauth"
	"github.com/custodia-labs/postcraft/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

The TUI walks through the whole flow: connect LinkedIn, enter keywords,
review and edit the generated draft, and publish it.

Controls:
  o        - Open the authorization URL in a browser
  tab      - Next field
  enter    - Submit
  ctrl+s   - Publish the draft
  ctrl+r   - Regenerate the draft
  ctrl+d   - Disconnect LinkedIn
  esc      - Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := requireSettings(); err != nil {
		return err
	}

	ports := &tui.Ports{
		Workflow: workflowService,
		Keywords: keywordService,
		Watcher:  ledgerWatcher,
		OpenURL:  oauth.OpenBrowser,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(commandContext(cmd))

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
