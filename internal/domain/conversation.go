package domain

import (
	"encoding/json"
	"time"
)

type MessageRole string

const (
	RoleUser   MessageRole = "user"
	RoleAgent  MessageRole = "agent"
	RoleSystem MessageRole = "system"
)

// ToolCall is a structured tool invocation recorded on a conversation turn.
type ToolCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// ToolResult is the outcome of a tool call, kept alongside the turn that
// triggered it so history replay stays faithful.
type ToolResult struct {
	Name   string          `json:"name"`
	Result json.RawMessage `json:"result"`
}

type ConversationMessage struct {
	ID          string       `json:"id"`
	Role        MessageRole  `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"tool_calls,omitempty"`
	ToolResults []ToolResult `json:"tool_results,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// AgentConversation is a per venue+customer chat session with the booking
// agent. Messages are append-only; the orchestrator rewrites the full array
// each turn and Revision guards against concurrent turns overwriting each
// other.
type AgentConversation struct {
	ID         int64
	VenueID    int64
	CustomerID *int64
	Messages   []ConversationMessage
	Revision   int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *AgentConversation) Append(msgs ...ConversationMessage) {
	c.Messages = append(c.Messages, msgs...)
}
