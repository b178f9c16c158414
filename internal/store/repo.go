package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose filters generation events; empty matches all.
	Purpose string
}

// LLMRequestEventData captures one remote generation call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Shape        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored generation event.
type LLMEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageRow aggregates generation events by one dimension.
type LLMUsageRow struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// Exam actions recorded in exam_events.
const (
	ExamActionStart  = "start"
	ExamActionEnd    = "end"
	ExamActionRetake = "retake"
)

// ExamEventData captures an exam lifecycle transition.
type ExamEventData struct {
	SessionID    string
	Action       string
	Kind         string
	Total        int
	Correct      int
	Wrong        int
	ElapsedTicks int
}

// ExamEventRecord is a stored exam event.
type ExamEventRecord struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	ExamEventData
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	SessionID     string
	Kind          string
	Word          string
	Prompt        string
	Selected      string
	CorrectAnswer string
	Correct       bool
}

// WordAccuracy is the answer history of a single word.
type WordAccuracy struct {
	Word    string
	Answers int
	Correct int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records a remote generation call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns generation events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single generation event by ID.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates generation events by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRow, error)

	// LLMUsageByModel aggregates generation events by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageRow, error)

	// AppendExamEvent records an exam lifecycle transition.
	AppendExamEvent(ctx context.Context, data ExamEventData) error

	// AppendAnswerEvent records a submitted answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QueryExamEvents returns exam events newest first.
	QueryExamEvents(ctx context.Context, opts QueryOpts) ([]ExamEventRecord, error)

	// WordAccuracy returns per-word answer counts, most answered first.
	WordAccuracy(ctx context.Context, limit int) ([]WordAccuracy, error)
}
