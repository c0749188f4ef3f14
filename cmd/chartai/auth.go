package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/cli"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/report"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "🔑 Manage the Gemini API key",
	}

	cmd.AddCommand(authSetCmd())
	cmd.AddCommand(authStatusCmd())
	cmd.AddCommand(authClearCmd())

	return cmd
}

func authSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [api-key]",
		Short: "Store and verify an API key",
		Long: `Store a Gemini API key. The key is checked by constructing a client
before it is persisted; a key the service cannot use is not saved over a
previously working one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, store, err := newManager()
			if err != nil {
				return fmt.Errorf("failed to open secret store: %w", err)
			}
			defer store.Close()

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				fmt.Print(cli.KeyIcon + " Enter your Gemini API key: ")
				reader := bufio.NewReader(os.Stdin)
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}
				key = strings.TrimSpace(line)
			}

			if err := mgr.SetCredential(cmd.Context(), key); err != nil {
				message, _ := report.ErrorMessage(err)
				fmt.Println(cli.FormatError(message))
				return err
			}

			fmt.Println(cli.FormatSuccess("API key verified and saved."))
			return nil
		},
	}
}

func authStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether an API key is configured",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, store, err := newManager()
			if err != nil {
				return fmt.Errorf("failed to open secret store: %w", err)
			}
			defer store.Close()

			secret, err := mgr.PersistedCredential(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read credential: %w", err)
			}

			if secret == "" {
				fmt.Println(cli.FormatWarning("No API key configured. Run 'chartai auth set' to add one."))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("API key configured (%s).", maskKey(secret))))
			return nil
		},
	}
}

func authClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			mgr, store, err := newManager()
			if err != nil {
				return fmt.Errorf("failed to open secret store: %w", err)
			}
			defer store.Close()

			mgr.ClearCredential(cmd.Context())
			fmt.Println(cli.FormatSuccess("API key removed."))
			return nil
		},
	}
}

// maskKey keeps only the last four characters visible.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
