package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the remote text generator. Implementations perform exactly
// one remote call per Generate; retry and rate limiting are layered on by
// decorators so callers decide their own drop policy.
type Provider interface {
	// Generate sends the request and returns the raw generated output.
	// When req.Schema is set the output is JSON validated against it;
	// otherwise it is free text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the generator.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Generation in lingoz is single-turn,
	// so this is usually one user message built from a prompt template.
	Messages []Message

	// Schema selects the structured JSON response shape. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Shape reports which response shape the request asks for.
func (r Request) Shape() ResponseShape {
	if r.Schema != nil {
		return ShapeJSON
	}
	return ShapeText
}

// ResponseShape is the form of generator output a caller expects.
type ResponseShape string

const (
	ShapeText ResponseShape = "text"
	ShapeJSON ResponseShape = "json"
)

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt is shorthand for a single-turn user message list.
func UserPrompt(content string) []Message {
	return []Message{{Role: RoleUser, Content: content}}
}

// Schema defines the JSON structure expected from the generator.
type Schema struct {
	// Name identifies this schema; kebab-case, e.g. "word-enrichment".
	Name string

	Description string

	// Definition is the JSON Schema document as a map.
	Definition map[string]any
}

// Response holds the generator output.
type Response struct {
	// Content is the raw output. For ShapeJSON it is a validated JSON
	// document; for ShapeText it is the text bytes as returned.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Text returns the output as a string. A JSON string literal is unquoted.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	raw := strings.TrimSpace(string(r.Content))
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(r.Content, &s); err == nil {
			return s
		}
	}
	return raw
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
