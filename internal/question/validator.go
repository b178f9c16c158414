package question

import "fmt"

// Validator checks a generated question. Implementations must be safe for
// concurrent use.
type Validator interface {
	Name() string
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators returns the validators run on every remote question.
func DefaultValidators() []Validator {
	return []Validator{&StructuralValidator{}}
}

// StructuralValidator checks required fields and size limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}
	switch {
	case q.Prompt == "":
		return fail("prompt is empty")
	case len(q.Prompt) > 1000:
		return fail("prompt exceeds 1000 characters")
	case q.CorrectAnswer == "":
		return fail("correct answer is empty")
	case len(q.Options) < 2:
		return fail("fewer than 2 options")
	case len(q.Options) > 6:
		return fail("more than 6 options")
	case q.Kind == KindReading && q.Passage == "":
		return fail("reading question has no passage")
	case len(q.Passage) > 4000:
		return fail("passage exceeds 4000 characters")
	}
	return nil
}
