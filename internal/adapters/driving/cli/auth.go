package cli

import (
	"github.com/spf13/cobra"
)

var (
	authVerifyCode   string
	authVerifyNoOpen bool
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check the LinkedIn app setup",
	Long: `Commands for the LinkedIn OAuth app configured with
linkedin.client_id, linkedin.client_secret and linkedin.redirect_uri.

The access token only lives for the duration of a command; nothing is stored.`,
}

var authURLCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the authorization URL",
	RunE:  runAuthURL,
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Sign in and fetch the member identity",
	Long: `Exchanges an authorization code and fetches the member identity, to
check that the app credentials, redirect URI and scopes are right.

Without --code a local callback server is started and the browser opened.`,
	RunE: runAuthVerify,
}

func init() {
	authVerifyCmd.Flags().StringVar(&authVerifyCode, "code", "", "authorization code to exchange")
	authVerifyCmd.Flags().BoolVar(&authVerifyNoOpen, "no-browser", false, "print the sign-in URL instead of opening a browser")
	authCmd.AddCommand(authURLCmd)
	authCmd.AddCommand(authVerifyCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthURL(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured("session")
	}

	authURL, _, err := sessionService.Begin()
	if err != nil {
		return err
	}
	cmd.Println(authURL)
	return nil
}

func runAuthVerify(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNotConfigured("session")
	}
	if identityFetcher == nil {
		return errNotConfigured("identity")
	}

	ctx := commandContext(cmd)

	authURL, _, err := sessionService.Begin()
	if err != nil {
		return err
	}

	code := authVerifyCode
	if code == "" {
		code, err = waitForBrowserCode(ctx, cmd, authURL, !authVerifyNoOpen)
		if err != nil {
			return err
		}
	}

	if err := sessionService.Exchange(ctx, code); err != nil {
		return err
	}
	cred, err := sessionService.Credential()
	if err != nil {
		return err
	}

	person, err := identityFetcher.FetchIdentity(ctx, cred)
	if err != nil {
		return err
	}

	cmd.Printf("Authenticated as %s\n", person.AuthorURN())
	if !cred.Expiry.IsZero() {
		cmd.Printf("Token expires %s\n", cred.Expiry.Format("2006-01-02 15:04"))
	}
	return nil
}
