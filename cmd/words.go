package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingoz/internal/app"
	"github.com/abhisek/lingoz/internal/enrich"
	"github.com/abhisek/lingoz/internal/mainloop"
	"github.com/abhisek/lingoz/internal/vocab"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage your word list",
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List words",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		items, err := rt.vocab.Fetch(cmd.Context(), f, limit)
		if err != nil {
			return fmt.Errorf("fetch words: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("No words found.")
			return nil
		}

		fmt.Printf("%-2s %-20s  %-4s  %-18s  %s\n", "", "Word", "Fam", "Pronunciation", "Definition")
		fmt.Println(strings.Repeat("─", 90))
		for _, it := range items {
			star := " "
			if it.Starred {
				star = "★"
			}
			def := ""
			if defs := it.DefinitionTexts(); len(defs) > 0 {
				def = truncate(defs[0], 40)
			}
			fmt.Printf("%-2s %-20s  %+4d  %-18s  %s\n",
				star, truncate(it.Word, 20), it.Familiarity, truncate(it.Pronunciation, 18), def)
		}
		return nil
	},
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a word or extra definitions to an existing one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		word := strings.TrimSpace(args[0])
		if word == "" {
			return errors.New("word must not be empty")
		}
		defs, _ := cmd.Flags().GetStringArray("def")
		pos, _ := cmd.Flags().GetString("pos")
		star, _ := cmd.Flags().GetBool("star")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		it, err := rt.vocab.Get(ctx, word)
		switch {
		case errors.Is(err, vocab.ErrNotFound):
			it = &vocab.Item{Word: word}
		case err != nil:
			return fmt.Errorf("look up %q: %w", word, err)
		}

		for _, d := range defs {
			if d = strings.TrimSpace(d); d != "" {
				it.Definitions = append(it.Definitions, vocab.Definition{PartOfSpeech: pos, Text: d})
			}
		}
		if star {
			it.Starred = true
		}
		if err := rt.vocab.Save(ctx, *it); err != nil {
			return fmt.Errorf("save %q: %w", word, err)
		}
		fmt.Printf("Saved %s (%d definitions)\n", it.Word, len(it.Definitions))
		return nil
	},
}

var wordsImportCmd = &cobra.Command{
	Use:   "import <file.json|->",
	Short: "Import a JSON array of words",
	Long: "Import words from a JSON array of objects with word, definitions, " +
		"pronunciation and sentences fields. Existing words are replaced.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := readItems(args[0])
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		n, err := importItems(cmd.Context(), rt.vocab, items)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d words (%d skipped)\n", n, len(items)-n)
		return nil
	},
}

var wordsStarCmd = &cobra.Command{
	Use:   "star <word>",
	Short: "Toggle the star on a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		starred, err := toggleStar(cmd.Context(), rt.vocab, args[0])
		if err != nil {
			return err
		}
		if starred {
			fmt.Printf("★ %s\n", args[0])
		} else {
			fmt.Printf("  %s unstarred\n", args[0])
		}
		return nil
	},
}

var wordsRemoveCmd = &cobra.Command{
	Use:   "rm <word>",
	Short: "Remove a word",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.vocab.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("remove %q: %w", args[0], err)
		}
		fmt.Printf("Removed %s\n", args[0])
		return nil
	},
}

var wordsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse words; nearby rows are enriched as you scroll",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		return app.Run(rt.wordsScreen(f))
	},
}

var wordsEnrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetch pronunciations and example sentences without the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		p := rt.pipeline()
		if p == nil {
			return errors.New("enrichment needs an LLM API key")
		}

		items, err := rt.vocab.Fetch(ctx, f, 0)
		if err != nil {
			return fmt.Errorf("fetch words: %w", err)
		}
		pending := pendingEnrichment(items, limit)
		if len(pending) == 0 {
			fmt.Println("Every word is already enriched.")
			return nil
		}

		fmt.Printf("Enriching %d words...\n", len(pending))
		done, err := enrichHeadless(ctx, p, pending)
		if err != nil {
			return err
		}
		fmt.Printf("Enriched %d of %d words\n", done, len(pending))
		return nil
	},
}

// pendingEnrichment returns up to limit items still lacking detail.
func pendingEnrichment(items []vocab.Item, limit int) []vocab.Item {
	var out []vocab.Item
	for _, it := range items {
		if it.Enriched() {
			continue
		}
		out = append(out, it)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// enrichHeadless runs the pipeline with a mainloop standing in for the UI
// loop and reports how many items came back enriched.
func enrichHeadless(ctx context.Context, p *enrich.Pipeline, items []vocab.Item) (int, error) {
	loop := mainloop.New(len(items))
	defer loop.Close()
	list := enrich.NewList(items)

	p.Run(ctx, list, items, loop.Post, loop.Close)
	if err := loop.Run(ctx); err != nil {
		return 0, err
	}

	n := 0
	for i := range list.Len() {
		if list.Enriched(i) {
			n++
		}
	}
	return n, nil
}

func readItems(path string) ([]vocab.Item, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var items []vocab.Item
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

// importItems saves every item with a non-blank word and returns how many
// were stored.
func importItems(ctx context.Context, repo vocab.Repository, items []vocab.Item) (int, error) {
	n := 0
	for _, it := range items {
		it.Word = strings.TrimSpace(it.Word)
		if it.Word == "" {
			continue
		}
		if err := repo.Save(ctx, it); err != nil {
			return n, fmt.Errorf("save %q: %w", it.Word, err)
		}
		n++
	}
	return n, nil
}

func toggleStar(ctx context.Context, repo vocab.Repository, word string) (bool, error) {
	it, err := repo.Get(ctx, word)
	if err != nil {
		return false, fmt.Errorf("look up %q: %w", word, err)
	}
	it.Starred = !it.Starred
	if err := repo.Save(ctx, *it); err != nil {
		return false, fmt.Errorf("save %q: %w", word, err)
	}
	return it.Starred, nil
}

func init() {
	wordsListCmd.Flags().IntP("limit", "n", 0, "Maximum words to show (0 for all)")
	addFilterFlags(wordsListCmd)

	wordsAddCmd.Flags().StringArrayP("def", "d", nil, "Definition (repeatable)")
	wordsAddCmd.Flags().String("pos", "", "Part of speech for the given definitions")
	wordsAddCmd.Flags().Bool("star", false, "Star the word")

	addFilterFlags(wordsBrowseCmd)

	wordsEnrichCmd.Flags().IntP("limit", "n", 50, "Maximum words to enrich (0 for all)")
	addFilterFlags(wordsEnrichCmd)

	wordsCmd.AddCommand(wordsListCmd)
	wordsCmd.AddCommand(wordsAddCmd)
	wordsCmd.AddCommand(wordsImportCmd)
	wordsCmd.AddCommand(wordsStarCmd)
	wordsCmd.AddCommand(wordsRemoveCmd)
	wordsCmd.AddCommand(wordsBrowseCmd)
	wordsCmd.AddCommand(wordsEnrichCmd)
}

