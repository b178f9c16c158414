package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/question"
	"github.com/abhisek/lingoz/internal/store"
	"github.com/abhisek/lingoz/internal/ui/layout"
	"github.com/abhisek/lingoz/internal/vocab"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show exam history and word statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		events := rt.store.EventRepo()

		exams, err := events.QueryExamEvents(ctx, store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query exams: %w", err)
		}
		printExams(exams, limit)

		words, err := events.WordAccuracy(ctx, limit)
		if err != nil {
			return fmt.Errorf("query word accuracy: %w", err)
		}
		if len(words) > 0 {
			fmt.Println()
			fmt.Println("Most Answered Words")
			fmt.Println(strings.Repeat("─", 48))
			fmt.Printf("%-24s  %8s  %8s\n", "Word", "Answers", "Accuracy")
			fmt.Println(strings.Repeat("─", 48))
			for _, w := range words {
				fmt.Printf("%-24s  %8d  %7.0f%%\n",
					truncate(w.Word, 24), w.Answers, float64(w.Correct)/float64(w.Answers)*100)
			}
		}

		weakest, err := rt.vocab.Fetch(ctx, vocab.Filter{SortBy: vocab.SortFamiliarity}, limit)
		if err != nil {
			return fmt.Errorf("fetch words: %w", err)
		}
		if len(weakest) > 0 {
			fmt.Println()
			fmt.Println("Least Familiar Words")
			fmt.Println(strings.Repeat("─", 48))
			for _, it := range weakest {
				fmt.Printf("%-24s  %+8d\n", truncate(it.Word, 24), it.Familiarity)
			}
		}
		return nil
	},
}

func printExams(events []store.ExamEventRecord, limit int) {
	var ended []store.ExamEventRecord
	perKind := map[string][2]int{} // kind -> total, correct
	for _, e := range events {
		if e.Action != store.ExamActionEnd {
			continue
		}
		ended = append(ended, e)
		k := perKind[e.Kind]
		perKind[e.Kind] = [2]int{k[0] + e.Total, k[1] + e.Correct}
	}
	if len(ended) == 0 {
		fmt.Println("No exams taken yet.")
		return
	}

	fmt.Println("Recent Exams")
	fmt.Println(strings.Repeat("─", 64))
	fmt.Printf("%-19s  %-8s  %6s  %8s  %8s\n", "Finished", "Kind", "Total", "Accuracy", "Time")
	fmt.Println(strings.Repeat("─", 64))
	for i, e := range ended {
		if limit > 0 && i == limit {
			break
		}
		fmt.Printf("%-19s  %-8s  %6d  %7.0f%%  %8s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			e.Kind, e.Total, percent(e.Correct, e.Total), layout.FormatTicks(e.ElapsedTicks))
	}

	fmt.Println()
	fmt.Println("By Kind")
	fmt.Println(strings.Repeat("─", 64))
	for _, kind := range question.Kinds {
		k, ok := perKind[string(kind)]
		if !ok {
			continue
		}
		fmt.Printf("%-8s  %6d questions  %7.0f%%\n", kind, k[0], percent(k[1], k[0]))
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Rows per table")
}
