package exam

import "github.com/abhisek/lingoz/internal/question"

// batchReadyMsg carries a generated question batch back to the UI loop.
type batchReadyMsg struct {
	Questions []question.Question
	Err       error
}

// tickMsg is one timer tick. gen ties it to the Start that scheduled it.
type tickMsg struct {
	gen int
}
