package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long: `Configure how kbsync authenticates against the knowledge service.

Two methods are supported:
  token  - a personal access token stored in the config file
  oauth  - an OAuth refresh-token flow (client credentials in config)

Examples:
  kbsync auth login          # Prompt for a personal access token
  kbsync auth status         # Show the configured method`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a personal access token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Print("Enter personal access token: ")
	token := readPassword()
	cmd.Println()
	if token == "" {
		return errors.New("token must not be empty")
	}

	if err := configStore.Set("api.token", token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := configStore.Set("auth.method", "token"); err != nil {
		return fmt.Errorf("failed to store auth method: %w", err)
	}

	cmd.Printf("Token stored in %s.\n", configStore.Path())
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	method := configStore.GetString("auth.method")
	if method == "" {
		method = "none"
	}

	cmd.Printf("Method: %s\n", method)
	switch method {
	case "token":
		if token := configStore.GetString("api.token"); token != "" {
			cmd.Printf("Token:  %s\n", maskToken(token))
		} else {
			cmd.Println("Token:  (not set)")
		}
	case "oauth":
		cmd.Printf("Client ID: %s\n", configStore.GetString("oauth.client_id"))
		cmd.Printf("Token URL: %s\n", configStore.GetString("oauth.token_url"))
	}

	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if err := configStore.Set("api.token", ""); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	if err := configStore.Set("auth.method", "none"); err != nil {
		return fmt.Errorf("failed to clear auth method: %w", err)
	}

	cmd.Println("Credentials removed.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
