package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo with raw SQL and the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO llm_request_events (
			sequence, timestamp, provider, model, purpose, shape,
			input_tokens, output_tokens, latency_ms, success, error_message,
			request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose, data.Shape,
		data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage,
		data.RequestBody, data.ResponseBody)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

const llmEventColumns = `id, sequence, timestamp, provider, model, purpose, shape,
	input_tokens, output_tokens, latency_ms, success, error_message,
	request_body, response_body`

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	where, args := opts.where()
	if opts.Purpose != "" {
		where = appendCond(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}
	q := `SELECT ` + llmEventColumns + ` FROM llm_request_events` + where + ` ORDER BY sequence DESC`
	q, args = opts.limit(q, args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+llmEventColumns+` FROM llm_request_events WHERE id = ?`, id)
	rec, err := scanLLMEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("LLM event %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRow, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsageRow, error) {
	return r.llmUsage(ctx, "model")
}

// llmUsage groups by a fixed column name; never pass user input.
func (r *eventRepo) llmUsage(ctx context.Context, column string) ([]LLMUsageRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+column+`, COUNT(*),
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
			COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0),
			COALESCE(AVG(latency_ms), 0)
		FROM llm_request_events
		GROUP BY `+column+`
		ORDER BY COUNT(*) DESC, `+column)
	if err != nil {
		return nil, fmt.Errorf("aggregate LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsageRow
	for rows.Next() {
		var u LLMUsageRow
		if err := rows.Scan(&u.Key, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendExamEvent(ctx context.Context, data ExamEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO exam_events (
			sequence, timestamp, session_id, action, kind, total, correct, wrong, elapsed_ticks)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Action, data.Kind,
		data.Total, data.Correct, data.Wrong, data.ElapsedTicks)
	if err != nil {
		return fmt.Errorf("save exam event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO answer_events (
			sequence, timestamp, session_id, kind, word, prompt, selected, correct_answer, correct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.SessionID, data.Kind, data.Word,
		data.Prompt, data.Selected, data.CorrectAnswer, data.Correct)
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryExamEvents(ctx context.Context, opts QueryOpts) ([]ExamEventRecord, error) {
	where, args := opts.where()
	q := `SELECT id, sequence, timestamp, session_id, action, kind, total, correct, wrong, elapsed_ticks
		FROM exam_events` + where + ` ORDER BY sequence DESC`
	q, args = opts.limit(q, args)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query exam events: %w", err)
	}
	defer rows.Close()

	var out []ExamEventRecord
	for rows.Next() {
		var (
			rec ExamEventRecord
			ts  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.SessionID, &rec.Action, &rec.Kind,
			&rec.Total, &rec.Correct, &rec.Wrong, &rec.ElapsedTicks); err != nil {
			return nil, fmt.Errorf("scan exam event: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) WordAccuracy(ctx context.Context, limit int) ([]WordAccuracy, error) {
	q := `SELECT word, COUNT(*), SUM(CASE WHEN correct = 1 THEN 1 ELSE 0 END)
		FROM answer_events WHERE word != ''
		GROUP BY word ORDER BY COUNT(*) DESC, word`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query word accuracy: %w", err)
	}
	defer rows.Close()

	var out []WordAccuracy
	for rows.Next() {
		var w WordAccuracy
		if err := rows.Scan(&w.Word, &w.Answers, &w.Correct); err != nil {
			return nil, fmt.Errorf("scan word accuracy: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanLLMEvent(s rowScanner) (LLMEventRecord, error) {
	var (
		rec LLMEventRecord
		ts  int64
	)
	err := s.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Provider, &rec.Model, &rec.Purpose, &rec.Shape,
		&rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
		&rec.RequestBody, &rec.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts).UTC()
	return rec, nil
}

// where renders the shared sequence/time filters.
func (o QueryOpts) where() (string, []any) {
	var conds []string
	var args []any
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, o.From.UnixMilli())
	}
	if !o.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, o.To.UnixMilli())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (o QueryOpts) limit(q string, args []any) (string, []any) {
	if o.Limit > 0 {
		return q + " LIMIT ?", append(args, o.Limit)
	}
	return q, args
}

func appendCond(where, cond string) string {
	if where == "" {
		return " WHERE " + cond
	}
	return where + " AND " + cond
}
