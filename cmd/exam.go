package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/app"
	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/vocab"
)

var examCmd = &cobra.Command{
	Use:   "exam",
	Short: "Take an exam on your word list",
	Long: "Take a multiple-choice exam. Vocabulary exams are built locally from your " +
		"definitions; cloze, grammar and reading exams need an LLM API key.",
	RunE: func(cmd *cobra.Command, args []string) error {
		kindFlag, _ := cmd.Flags().GetString("kind")
		kind, err := question.ParseKind(kindFlag)
		if err != nil {
			return err
		}
		opts, err := examOptionsFromFlags(cmd)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if kind.Remote() && rt.provider == nil {
			return fmt.Errorf("%s exams need an LLM API key (set llm.provider and its api_key, or GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY)", kind)
		}

		s, err := rt.examScreen(kind, opts)
		if err != nil {
			return err
		}
		return app.Run(s)
	},
}

// filterFromFlags reads the shared --prefix, --starred and --sort flags.
func filterFromFlags(cmd *cobra.Command) (vocab.Filter, error) {
	prefix, _ := cmd.Flags().GetString("prefix")
	starred, _ := cmd.Flags().GetBool("starred")
	sortBy, _ := cmd.Flags().GetString("sort")

	f := vocab.Filter{LetterPrefix: prefix, StarredOnly: starred, SortBy: vocab.SortBy(sortBy)}
	switch f.SortBy {
	case "", vocab.SortWord, vocab.SortRecent, vocab.SortFamiliarity:
	default:
		return f, fmt.Errorf("unknown sort %q (want word, recent or familiarity)", sortBy)
	}
	return f, nil
}

func examOptionsFromFlags(cmd *cobra.Command) (examOptions, error) {
	f, err := filterFromFlags(cmd)
	if err != nil {
		return examOptions{}, err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	return examOptions{filter: f, limit: limit}, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("prefix", "", "Only words starting with these letters")
	cmd.Flags().Bool("starred", false, "Only starred words")
	cmd.Flags().String("sort", "word", "Order: word, recent or familiarity")
}

func init() {
	examCmd.Flags().StringP("kind", "k", string(question.KindVocabulary), "Question kind: vocab, cloze, grammar or reading")
	examCmd.Flags().IntP("limit", "n", 0, "Number of questions (default from exam.default_limit)")
	addFilterFlags(examCmd)
}
