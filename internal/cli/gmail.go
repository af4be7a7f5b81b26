package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/spf13/cobra"
)

func newGmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gmail",
		Short: "Gmail notification setup",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "authorize",
		Short: "Authorize sending mail and store the token",
		Long:  "Prints the Google consent URL, reads the authorization code from stdin and saves the token to GMAIL_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.GmailCredentials == "" {
				return fmt.Errorf("GMAIL_CREDENTIALS is not set")
			}
			config, err := auth.GmailConfig(cfg.GmailCredentials)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Open this link in your browser, then paste the code:\n%v\n\nCode: ", auth.GmailAuthURL(config))

			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read code: %w", err)
			}
			code := strings.TrimSpace(line)
			if code == "" {
				return fmt.Errorf("code cannot be empty")
			}
			if err := auth.ExchangeGmailCode(cmd.Context(), config, code, cfg.GmailToken); err != nil {
				return err
			}
			fmt.Fprintf(out, "token saved to %s\n", cfg.GmailToken)
			return nil
		},
	})
	return cmd
}
