package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addTrackerCommands adds the summary, watch and test commands. Each one
// runs a single synchronous cycle and exits; scheduling is external.
func addTrackerCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSummaryCmd(app))
	rootCmd.AddCommand(newWatchCmd(app))
	rootCmd.AddCommand(newTestCmd(app))
}

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Generate and send the daily summary",
		Long: `Fetches current prices for all tracked instruments, normalizes them to
GBP/USD, records them in the rolling history, and sends a digest with
daily change and 5d/22d trends to the configured Telegram chat.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(cmd); err != nil {
				return err
			}
			return app.Service.Summary(cmd.Context())
		},
	}
}

func newWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run one intraday alert evaluation cycle",
		Long: `Checks each instrument for intraday spikes/dips vs. today's open and for
configured absolute price thresholds. Each alert condition fires at most
once per calendar day (London time).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(cmd); err != nil {
				return err
			}
			return app.Service.Watch(cmd.Context())
		},
	}
}

func newTestCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Send a test Telegram message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(cmd); err != nil {
				return err
			}
			output := NewOutput(cmd)
			// Summary and watch degrade to send-less cycles without
			// credentials; a connectivity test without a channel to test
			// would be meaningless, so it fails hard instead.
			if !app.Config.TelegramConfigured() {
				output.Error("Telegram credentials are not configured.")
				return fmt.Errorf("telegram not configured: set telegram.bot_token and telegram.chat_id (or TELEGRAM_BOT_TOKEN/TELEGRAM_CHAT_ID)")
			}
			if err := app.Service.Test(cmd.Context()); err != nil {
				output.Error("Failed to send test message. Check logs for details.")
				return err
			}
			output.Success("Test message sent successfully!")
			return nil
		},
	}
}
