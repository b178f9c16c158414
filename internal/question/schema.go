package question

import "github.com/abhisek/lingoz/internal/llm"

// questionDefinition is shared by every remote kind; passage stays empty
// for kinds without one.
var questionDefinition = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question the learner answers",
		},
		"passage": map[string]any{
			"type":        "string",
			"description": "Reading passage, or empty when the question has none",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Answer options, exactly one of them correct",
		},
		"correct_answer": map[string]any{
			"type":        "string",
			"description": "The correct option, verbatim",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the answer is correct",
		},
	},
	"required":             []any{"prompt", "passage", "options", "correct_answer", "explanation"},
	"additionalProperties": false,
}

var kindSchemas = map[Kind]*llm.Schema{
	KindCloze: {
		Name:        "cloze-question",
		Description: "A fill-in-the-blank vocabulary question",
		Definition:  questionDefinition,
	},
	KindGrammar: {
		Name:        "grammar-question",
		Description: "A multiple-choice grammar question",
		Definition:  questionDefinition,
	},
	KindReading: {
		Name:        "reading-question",
		Description: "A reading passage with one comprehension question",
		Definition:  questionDefinition,
	},
}
