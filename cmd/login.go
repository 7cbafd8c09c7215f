package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"simpleinvoice/internal/logger"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to create unlimited invoices",
	Long: `Log in with your SimpleInvoice account. The session is stored on this
machine next to the anonymous invoice counter.

The password is read from --password, the SIMPLEINVOICE_PASSWORD environment
variable, or standard input, in that order.`,
	Example: `  simpleinvoice login --email jane@example.test
  echo "$PASSWORD" | simpleinvoice login --email jane@example.test`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and continue anonymously",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().String("email", "", "Account email (required)")
	loginCmd.Flags().String("password", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("login")

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("SIMPLEINVOICE_PASSWORD")
	}
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	session, err := a.authn.SignIn(ctx, email, password)
	if err != nil {
		return friendlyError(err, log)
	}
	a.sessions.Save(session)

	log.Info().Str("user_id", session.User.ID).Msg("Logged in")
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", session.User.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("logout")

	a, err := loadApp()
	if err != nil {
		return err
	}

	token, ok := a.sessions.Token()
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	// The local session is dropped even if the server call fails.
	if err := a.authn.SignOut(ctx, token); err != nil {
		log.Warn().Err(err).Msg("Remote sign-out failed")
	}
	a.sessions.Clear()

	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("whoami")

	a, err := loadApp()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd, log)
	defer cancel()

	user, err := a.sessions.CurrentUser(ctx, a.authn)
	if err != nil {
		return friendlyError(err, log)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), map[string]any{"user": user})
	}
	if user == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in (anonymous).")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Email, user.ID)
	return nil
}
