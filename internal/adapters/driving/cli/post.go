package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/postcraft/internal/adapters/driving/oauth"
	"github.com/custodia-labs/postcraft/internal/core/domain"
	"github.com/custodia-labs/postcraft/internal/logger"
)

var (
	postKeywords string
	postImage    string
	postCode     string
	postBodyFile string
	postYes      bool
	postNoOpen   bool
)

// stdinIsTerminal reports whether confirmation can be asked interactively.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Generate, review and publish a LinkedIn post",
	Long: `Runs the whole flow in one go: sign in with LinkedIn, generate a post
from the keywords, show the preview and publish it after confirmation.

Without --code a local callback server is started on the configured redirect
URI and the browser is opened for sign-in. With --code the given
authorization code is exchanged directly.

Examples:
  postcraft post -k "AI, innovation"
  postcraft post -k "golang" --image diagram.png
  postcraft post -k "devops" --body-file edited.txt --yes`,
	RunE: runPost,
}

func init() {
	postCmd.Flags().StringVarP(&postKeywords, "keywords", "k", "", "comma-separated keywords")
	postCmd.Flags().StringVar(&postImage, "image", "", "image file to attach")
	postCmd.Flags().StringVar(&postCode, "code", "", "authorization code from a previous sign-in")
	postCmd.Flags().StringVar(&postBodyFile, "body-file", "", "replace the generated text with this file's content")
	postCmd.Flags().BoolVarP(&postYes, "yes", "y", false, "publish without asking")
	postCmd.Flags().BoolVar(&postNoOpen, "no-browser", false, "print the sign-in URL instead of opening a browser")
	rootCmd.AddCommand(postCmd)
}

func runPost(cmd *cobra.Command, _ []string) error {
	if workflowService == nil {
		return errNotConfigured("workflow")
	}
	if err := requireSettings(); err != nil {
		return err
	}

	keywords, err := parseKeywordFlag(postKeywords)
	if err != nil {
		return err
	}

	var (
		image     []byte
		imageName string
	)
	if postImage != "" {
		image, err = os.ReadFile(postImage)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		imageName = filepath.Base(postImage)
	}

	if !postYes && !stdinIsTerminal() {
		return errors.New("refusing to publish from non-interactive input without --yes")
	}

	ctx := commandContext(cmd)

	if state := workflowService.Start(); state == domain.WorkflowAwaitingAuth {
		if err := signIn(ctx, cmd, postCode); err != nil {
			return err
		}
	}

	draft, warnings, err := workflowService.Draft(ctx, keywords, image, imageName)
	if err != nil {
		return err
	}
	printDuplicateWarning(cmd, warnings)

	if postBodyFile != "" {
		body, err := os.ReadFile(postBodyFile)
		if err != nil {
			return fmt.Errorf("read body file: %w", err)
		}
		if err := workflowService.Edit(string(body)); err != nil {
			return err
		}
		draft = workflowService.Current()
	}

	printPreview(cmd, draft)

	if !postYes && !confirm(cmd, "Publish this post? [y/N] ") {
		cmd.Println("Not published.")
		return nil
	}

	result, err := workflowService.Publish(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Published: %s\n", result.PostID)
	if len(result.UnrecordedKeywords) > 0 {
		cmd.Printf("Warning: could not record keywords: %s\n", strings.Join(result.UnrecordedKeywords, ", "))
	}
	return nil
}

// signIn completes the OAuth step, by code or through the loopback server.
// requireSettings fails with domain.ErrConfiguration when credentials or
// the LLM key are missing, before anything talks to LinkedIn.
func requireSettings() error {
	if settingsService == nil {
		return nil
	}
	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("%w (see 'postcraft config check')", err)
	}
	return nil
}

func signIn(ctx context.Context, cmd *cobra.Command, code string) error {
	authURL, err := workflowService.AuthorizationURL()
	if err != nil {
		return err
	}

	if code == "" {
		code, err = waitForBrowserCode(ctx, cmd, authURL, !postNoOpen)
		if err != nil {
			return err
		}
	}

	if err := workflowService.Authenticate(ctx, code); err != nil {
		return err
	}
	cmd.Println("Signed in to LinkedIn.")
	return nil
}

// waitForBrowserCode serves the redirect URI until the provider sends the user back.
func waitForBrowserCode(ctx context.Context, cmd *cobra.Command, authURL string, launch bool) (string, error) {
	if sessionService == nil {
		return "", errNotConfigured("session")
	}

	server, err := oauth.NewCallbackServerForRedirect(sessionService.RedirectURI(), sessionService.ExpectedState())
	if err != nil {
		return "", err
	}
	if err := server.Start(); err != nil {
		return "", err
	}
	defer func() {
		if err := server.Stop(); err != nil {
			logger.Debug("callback server stop: %v", err)
		}
	}()

	cmd.Println("Sign in to LinkedIn:")
	cmd.Println("  " + authURL)
	if launch {
		if err := openBrowser(authURL); err != nil {
			logger.Warn("could not open browser: %v", err)
		}
	}
	cmd.Println("Waiting for the redirect...")

	waitCtx, cancel := context.WithTimeout(ctx, oauth.DefaultWaitTimeout)
	defer cancel()
	return server.WaitForCode(waitCtx)
}

func printDuplicateWarning(cmd *cobra.Command, duplicates []string) {
	if len(duplicates) == 0 {
		return
	}
	cmd.Printf("Warning: already posted about %s\n", strings.Join(duplicates, ", "))
}

func printPreview(cmd *cobra.Command, draft *domain.DraftPost) {
	cmd.Println()
	cmd.Println("----- Preview -----")
	cmd.Println(draft.Body)
	if draft.HasImage() {
		cmd.Printf("[image: %s]\n", draft.ImageName)
	}
	cmd.Println("-------------------")
	cmd.Println()
}

func confirm(cmd *cobra.Command, prompt string) bool {
	cmd.Print(prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
