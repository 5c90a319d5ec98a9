package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog"

	"venuebook/internal/domain"
	"venuebook/internal/metrics"
	"venuebook/internal/modules/booking"
	"venuebook/internal/repository"
)

const (
	// MaxToolIterations bounds the tool loop inside one chat turn. When the
	// model is still asking for tools at the limit, the turn ends with a
	// fallback reply instead of looping forever.
	MaxToolIterations = 5

	// MaxHistoryMessages caps how much of the stored transcript is replayed
	// to the model. Older messages stay persisted but are not sent.
	MaxHistoryMessages = 50
)

const (
	apologyText  = "Sorry, I'm having trouble responding right now. Please try again in a moment."
	fallbackText = "I wasn't able to finish working through that. Could you rephrase or break the request into smaller steps?"
)

type Service struct {
	conversations ConversationRepository
	venues        VenueRepository
	gate          AvailabilityChecker
	bookings      BookingService
	mods          ModificationService
	llm           ChatCompleter
	model         string
	log           zerolog.Logger
}

func NewService(
	conversations ConversationRepository,
	venues VenueRepository,
	gate AvailabilityChecker,
	bookings BookingService,
	mods ModificationService,
	llm ChatCompleter,
	model string,
	log zerolog.Logger,
) *Service {
	return &Service{
		conversations: conversations,
		venues:        venues,
		gate:          gate,
		bookings:      bookings,
		mods:          mods,
		llm:           llm,
		model:         model,
		log:           log,
	}
}

// Chat runs one turn of the booking conversation: persist the visitor's
// message, let the model call tools a bounded number of times, persist the
// reply. The conversation is written back once at the end under a revision
// guard, so two concurrent turns cannot interleave their messages.
func (s *Service) Chat(ctx context.Context, userID *int64, req ChatRequest) (*ChatResponse, error) {
	if s.llm == nil {
		return nil, ErrNotConfigured
	}

	venue, err := s.venues.GetByID(ctx, req.VenueID)
	if err != nil || !venue.Published {
		return nil, ErrVenueNotFound
	}
	if !venue.AgentEnabled {
		return nil, ErrAgentDisabled
	}

	conv, err := s.loadOrCreate(ctx, userID, req, venue)
	if err != nil {
		return nil, err
	}

	conv.Append(domain.ConversationMessage{
		ID:        uuid.NewString(),
		Role:      domain.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	})

	reply, toolCalls, toolResults, summary := s.runTurn(ctx, venue, userID, conv)
	metrics.AgentTurns.Inc()

	conv.Append(domain.ConversationMessage{
		ID:          uuid.NewString(),
		Role:        domain.RoleAgent,
		Content:     reply,
		ToolCalls:   toolCalls,
		ToolResults: toolResults,
		CreatedAt:   time.Now(),
	})

	if err := s.conversations.Save(ctx, conv); err != nil {
		if errors.Is(err, repository.ErrStaleConversation) {
			return nil, ErrConversationBusy
		}
		return nil, err
	}

	return &ChatResponse{
		ConversationID: conv.ID,
		Reply:          reply,
		BookingSummary: summary,
	}, nil
}

func (s *Service) loadOrCreate(ctx context.Context, userID *int64, req ChatRequest, venue *domain.Venue) (*domain.AgentConversation, error) {
	if req.ConversationID == nil {
		conv := &domain.AgentConversation{
			VenueID:    venue.ID,
			CustomerID: userID,
		}
		if err := s.conversations.Create(ctx, conv); err != nil {
			return nil, err
		}
		return conv, nil
	}

	conv, err := s.conversations.GetByID(ctx, *req.ConversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	if conv.VenueID != venue.ID {
		return nil, ErrConversationNotFound
	}
	if conv.CustomerID != nil && (userID == nil || *userID != *conv.CustomerID) {
		return nil, ErrConversationForbidden
	}
	// A visitor who signs in mid-conversation claims the thread.
	if conv.CustomerID == nil && userID != nil {
		conv.CustomerID = userID
	}
	return conv, nil
}

// runTurn drives the model-with-tools loop. LLM failures never error the
// turn: the visitor gets a static apology and the transcript stays intact.
func (s *Service) runTurn(ctx context.Context, venue *domain.Venue, userID *int64, conv *domain.AgentConversation) (string, []domain.ToolCall, []domain.ToolResult, *BookingSummary) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(s.model),
		Messages: s.replayHistory(ctx, venue, userID, conv),
		Tools:    toolDefinitions(),
	}

	var (
		toolCalls   []domain.ToolCall
		toolResults []domain.ToolResult
		summary     *BookingSummary
	)

	for iteration := 0; iteration < MaxToolIterations; iteration++ {
		completion, err := completeWithRetry(ctx, s.llm, params)
		if err != nil {
			s.log.Error().Err(err).Int64("conversation_id", conv.ID).Msg("llm call failed")
			return apologyText, toolCalls, toolResults, summary
		}
		if len(completion.Choices) == 0 {
			return apologyText, toolCalls, toolResults, summary
		}

		msg := completion.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			reply := strings.TrimSpace(msg.Content)
			if reply == "" {
				reply = fallbackText
			}
			return reply, toolCalls, toolResults, summary
		}

		params.Messages = append(params.Messages, msg.ToParam())
		for _, tc := range msg.ToolCalls {
			result, toolSummary := s.execTool(ctx, venue, userID, tc.Function.Name, tc.Function.Arguments)
			if toolSummary != nil {
				summary = toolSummary
			}

			toolCalls = append(toolCalls, domain.ToolCall{
				Name: tc.Function.Name,
				Args: json.RawMessage(tc.Function.Arguments),
			})
			toolResults = append(toolResults, domain.ToolResult{
				Name:   tc.Function.Name,
				Result: json.RawMessage(result),
			})

			params.Messages = append(params.Messages, openai.ToolMessage(result, tc.ID))
		}
	}

	return fallbackText, toolCalls, toolResults, summary
}

// replayHistory maps the stored transcript onto the wire format: system
// grounding first, then the last MaxHistoryMessages turns as plain text.
// Past tool traffic is kept in storage but not replayed.
func (s *Service) replayHistory(ctx context.Context, venue *domain.Venue, userID *int64, conv *domain.AgentConversation) []openai.ChatCompletionMessageParamUnion {
	msgs := conv.Messages
	if len(msgs) > MaxHistoryMessages {
		msgs = msgs[len(msgs)-MaxHistoryMessages:]
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs)+1)
	out = append(out, openai.SystemMessage(s.buildSystemPrompt(ctx, venue, userID != nil)))
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case domain.RoleAgent:
			if m.Content != "" {
				out = append(out, openai.AssistantMessage(m.Content))
			}
		}
	}
	return out
}

// Confirm turns the latest booking draft in a conversation into a real
// booking. Requires a signed-in visitor who owns the conversation.
func (s *Service) Confirm(ctx context.Context, userID int64, req ConfirmRequest) (*domain.BookingRequest, error) {
	conv, err := s.conversations.GetByID(ctx, req.ConversationID)
	if err != nil {
		return nil, ErrConversationNotFound
	}
	if conv.CustomerID != nil && *conv.CustomerID != userID {
		return nil, ErrConversationForbidden
	}

	draft, err := latestDraft(conv)
	if err != nil {
		return nil, err
	}

	return s.bookings.CreateBooking(ctx, &userID, booking.CreateBookingRequest{
		VenueID:       conv.VenueID,
		EventDate:     draft.EventDate,
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		EventType:     draft.EventType,
		GuestCount:    draft.GuestCount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
}

func latestDraft(conv *domain.AgentConversation) (*draftResult, error) {
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		for j := len(conv.Messages[i].ToolResults) - 1; j >= 0; j-- {
			tr := conv.Messages[i].ToolResults[j]
			if tr.Name != toolDraftBooking {
				continue
			}
			var wrapper struct {
				Draft *draftResult `json:"draft"`
			}
			if err := json.Unmarshal(tr.Result, &wrapper); err != nil || wrapper.Draft == nil {
				continue
			}
			return wrapper.Draft, nil
		}
	}
	return nil, ErrNoDraft
}
