package question

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingoz/internal/vocab"
)

const systemPromptBase = `You are a language teacher writing multiple-choice exam questions.

Rules:
- Write exactly one question.
- Provide between 3 and 4 options. Exactly one option is correct.
- The correct_answer field must repeat the correct option verbatim.
- Distractors should be plausible mistakes a learner would make.
- Keep the explanation to one or two sentences.
- Do not repeat any question from the "already asked" list.`

var kindInstructions = map[Kind]string{
	KindCloze: `Write a sentence that uses the target word, replacing the word with "___".
The prompt is that sentence. The correct answer is the target word in the form the sentence needs.`,
	KindGrammar: `Write a grammar question on the given topic. The prompt is a sentence with
a gap "___" or a question about the sentence. Use the listed words where natural.`,
	KindReading: `Write a short reading passage of 3 to 5 sentences that uses the listed words,
then one comprehension question about the passage. Put the passage in the passage field
and the question in the prompt field.`,
}

var kindPurposes = map[Kind]string{
	KindCloze:   "question-cloze",
	KindGrammar: "question-grammar",
	KindReading: "question-reading",
}

var grammarTopics = []string{
	"verb tense",
	"articles",
	"prepositions",
	"subject-verb agreement",
	"conditionals",
	"relative clauses",
	"comparatives and superlatives",
	"modal verbs",
}

func systemPrompt(k Kind) string {
	return systemPromptBase + "\n\n" + kindInstructions[k]
}

// seed is what one remote question is built around.
type seed struct {
	item    vocab.Item
	topic   string
	context []string
}

func buildUserMessage(k Kind, s seed, prior []string, cfg RemoteConfig) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Language: %s\n", cfg.Language)
	switch k {
	case KindCloze:
		fmt.Fprintf(&b, "Target word: %s\n", s.item.Word)
		if defs := s.item.DefinitionTexts(); len(defs) > 0 {
			fmt.Fprintf(&b, "Meaning: %s\n", defs[0])
		}
	case KindGrammar:
		fmt.Fprintf(&b, "Topic: %s\n", s.topic)
		fmt.Fprintf(&b, "Words: %s\n", strings.Join(s.context, ", "))
	case KindReading:
		fmt.Fprintf(&b, "Words: %s\n", strings.Join(s.context, ", "))
	}

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(prior, cfg.MaxPriorQuestions))
	return b.String()
}

// buildDedup formats prior prompts for the prompt, keeping the newest max.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
