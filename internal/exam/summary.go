package exam

import "github.com/abhisek/lingoz/internal/question"

// KindResult counts answers for one question kind.
type KindResult struct {
	Total   int
	Correct int
}

// Summary describes an ended attempt.
type Summary struct {
	SessionID    string
	Attempt      int
	Total        int
	Correct      int
	Wrong        int
	ElapsedTicks int
	ByKind       map[question.Kind]KindResult
}

// Accuracy returns correct answers as a fraction of the total.
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

func buildSummary(c *Controller) Summary {
	s := Summary{
		SessionID:    c.sessionID,
		Attempt:      c.attempt,
		Total:        len(c.questions),
		Correct:      c.correct,
		Wrong:        c.wrong,
		ElapsedTicks: c.elapsed,
		ByKind:       make(map[question.Kind]KindResult),
	}
	for _, q := range c.questions {
		r := s.ByKind[q.Kind]
		r.Total++
		if q.IsCorrect() {
			r.Correct++
		}
		s.ByKind[q.Kind] = r
	}
	return s
}
