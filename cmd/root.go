package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "lingoz",
	Short: "Vocabulary trainer for the terminal",
	Long: "lingoz keeps your word list, enriches it with pronunciations and example " +
		"sentences, and quizzes you with vocabulary, cloze, grammar and reading exams.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		return app.Run(rt.homeScreen(examOptions{}))
	},
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LINGOZ_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: ./lingoz.yaml, then the user config dir)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
