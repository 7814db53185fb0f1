package model

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// LogRecord is one newline-delimited entry of an agent session log.
type LogRecord struct {
	IsMeta        bool          `json:"isMeta,omitempty"`
	Message       Message       `json:"message"`
	SessionId     string        `json:"sessionId,omitempty"`
	Subtype       string        `json:"subtype,omitempty"`
	Timestamp     string        `json:"timestamp"`
	ToolUseResult ToolUseResult `json:"toolUseResult,omitempty"`
	Type          string        `json:"type"`
	Uuid          string        `json:"uuid,omitempty"`
}

type Message struct {
	Content FlexibleContent `json:"content"`
	Model   string          `json:"model,omitempty"`
	Role    string          `json:"role"`
	Usage   Usage           `json:"usage,omitempty"`
}

// FlexibleContent accepts both message content encodings: a plain string
// or an array of typed blocks.
type FlexibleContent []ContentItem

func (fc *FlexibleContent) UnmarshalJSON(data []byte) error {
	// First try to parse as []ContentItem array
	var items []ContentItem
	if err := sonic.Unmarshal(data, &items); err == nil {
		*fc = items
		return nil
	}

	// If array parsing fails, try to parse as string
	var str string
	if err := sonic.Unmarshal(data, &str); err == nil {
		*fc = []ContentItem{{Type: "text", Text: str}}
		return nil
	}

	return fmt.Errorf("content must be either string or array of ContentItem")
}

type ContentItem struct {
	Content   any       `json:"content,omitempty"`
	Id        string    `json:"id,omitempty"`
	Input     ToolInput `json:"input,omitempty"`
	IsError   bool      `json:"is_error,omitempty"`
	Name      string    `json:"name,omitempty"`
	Text      string    `json:"text,omitempty"`
	ToolUseId string    `json:"tool_use_id,omitempty"`
	Type      string    `json:"type"`
}

// ToolInput carries the recognized keys of a tool invocation's input
// object. Unrecognized keys are dropped at decode time.
type ToolInput struct {
	Command     string     `json:"command,omitempty"`
	Description string     `json:"description,omitempty"`
	FilePath    string     `json:"file_path,omitempty"`
	Pattern     string     `json:"pattern,omitempty"`
	Prompt      string     `json:"prompt,omitempty"`
	Query       string     `json:"query,omitempty"`
	Todos       []TodoItem `json:"todos,omitempty"`
}

type Usage struct {
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
}

// Total returns the token sum counted by the dashboard: input, cache
// read, and output. Cache creation tokens are excluded.
func (u Usage) Total() int {
	return u.InputTokens + u.CacheReadInputTokens + u.OutputTokens
}

// ToolUseResult is the side payload a user record may carry after a tool
// returns. Logs emit it in several shapes: a plain string (the tool's
// raw output), an object whose content is a string or a block array, or
// other JSON entirely. Any shape must decode, because dropping the line
// would lose the record's timestamp and todo payload. NewTodos replaces
// the running todo list wholesale.
type ToolUseResult struct {
	Content  any
	NewTodos []TodoItem
}

func (t *ToolUseResult) UnmarshalJSON(data []byte) error {
	var obj struct {
		Content  any        `json:"content,omitempty"`
		NewTodos []TodoItem `json:"newTodos,omitempty"`
	}
	if err := sonic.Unmarshal(data, &obj); err == nil {
		t.Content = obj.Content
		t.NewTodos = obj.NewTodos
		return nil
	}

	var s string
	if err := sonic.Unmarshal(data, &s); err == nil {
		t.Content = s
		return nil
	}

	// Arrays, numbers, whatever else: keep the value rather than fail
	// the whole record.
	var v any
	if err := sonic.Unmarshal(data, &v); err != nil {
		return err
	}
	t.Content = v
	return nil
}

type TodoItem struct {
	ActiveForm string `json:"activeForm,omitempty"`
	Content    string `json:"content"`
	Status     string `json:"status"`
}

// Todo status values.
const (
	TodoPending    = "pending"
	TodoInProgress = "in_progress"
	TodoCompleted  = "completed"
)
