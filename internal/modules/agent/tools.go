package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"

	"venuebook/internal/domain"
	"venuebook/internal/metrics"
	"venuebook/internal/modules/modification"
	"venuebook/internal/pricing"
)

const (
	toolCheckAvailability   = "check_availability"
	toolDraftBooking        = "draft_booking"
	toolProposeModification = "propose_modification"
	toolGetBookingStatus    = "get_booking_status"
)

const signInMessage = "The visitor must sign in before this action. Ask them to sign in and try again."

// toolDefinitions is the closed set of functions the model may call. Anything
// outside this list is rejected at execution time.
func toolDefinitions() []openai.ChatCompletionToolParam {
	return []openai.ChatCompletionToolParam{
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolCheckAvailability,
				Description: openai.String("Check whether the venue is open on a date. Dates are YYYY-MM-DD."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"date": map[string]any{"type": "string", "description": "Date to check, YYYY-MM-DD"},
					},
					"required": []string{"date"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolDraftBooking,
				Description: openai.String("Price a booking draft without reserving anything. Returns the full cost breakdown. The visitor sees the draft as a card and confirms it themselves; never claim a booking was created."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"eventDate":  map[string]any{"type": "string", "description": "YYYY-MM-DD"},
						"startTime":  map[string]any{"type": "string", "description": "HH:MM, 24h"},
						"endTime":    map[string]any{"type": "string", "description": "HH:MM, 24h"},
						"eventType":  map[string]any{"type": "string"},
						"guestCount": map[string]any{"type": "integer"},
					},
					"required": []string{"eventDate", "startTime", "endTime", "eventType", "guestCount"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolProposeModification,
				Description: openai.String("Propose a change to an existing booking on behalf of the signed-in visitor."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"bookingId":          map[string]any{"type": "integer"},
						"proposedEventDate":  map[string]any{"type": "string"},
						"proposedStartTime":  map[string]any{"type": "string"},
						"proposedEndTime":    map[string]any{"type": "string"},
						"proposedGuestCount": map[string]any{"type": "integer"},
						"reason":             map[string]any{"type": "string"},
					},
					"required": []string{"bookingId"},
				},
			},
		},
		{
			Function: openai.FunctionDefinitionParam{
				Name:        toolGetBookingStatus,
				Description: openai.String("Look up the current status of one of the signed-in visitor's bookings."),
				Parameters: openai.FunctionParameters{
					"type": "object",
					"properties": map[string]any{
						"bookingId": map[string]any{"type": "integer"},
					},
					"required": []string{"bookingId"},
				},
			},
		},
	}
}

type draftResult struct {
	Available   bool   `json:"available"`
	EventDate   string `json:"eventDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	EventType   string `json:"eventType"`
	GuestCount  int    `json:"guestCount"`
	BasePrice   int64  `json:"basePrice"`
	PlatformFee int64  `json:"platformFee"`
	TotalPrice  int64  `json:"totalPrice"`
	VenuePayout int64  `json:"venuePayout"`
}

// execTool runs one tool call and returns the JSON the model sees. Errors are
// structured results, not Go errors: the model is expected to read them and
// recover in conversation.
func (s *Service) execTool(ctx context.Context, venue *domain.Venue, userID *int64, name string, rawArgs string) (string, *BookingSummary) {
	result, summary, err := s.runTool(ctx, venue, userID, name, rawArgs)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(name, "error").Inc()
		return toolError(err.Error()), nil
	}
	metrics.ToolCalls.WithLabelValues(name, "ok").Inc()
	return result, summary
}

func (s *Service) runTool(ctx context.Context, venue *domain.Venue, userID *int64, name string, rawArgs string) (string, *BookingSummary, error) {
	switch name {
	case toolCheckAvailability:
		var args struct {
			Date string `json:"date"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil || args.Date == "" {
			return "", nil, fmt.Errorf("check_availability needs a date in YYYY-MM-DD")
		}
		open, reason, err := s.gate.IsDateOpen(ctx, venue.ID, args.Date)
		if err != nil {
			return "", nil, fmt.Errorf("availability lookup failed")
		}
		return mustJSON(map[string]any{"date": args.Date, "available": open, "reason": reason}), nil, nil

	case toolDraftBooking:
		var args struct {
			EventDate  string `json:"eventDate"`
			StartTime  string `json:"startTime"`
			EndTime    string `json:"endTime"`
			EventType  string `json:"eventType"`
			GuestCount int    `json:"guestCount"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
			return "", nil, fmt.Errorf("draft_booking arguments are malformed")
		}
		if args.GuestCount < venue.MinGuests || args.GuestCount > venue.MaxCapacity {
			return "", nil, fmt.Errorf("guest count must be between %d and %d for this venue", venue.MinGuests, venue.MaxCapacity)
		}
		if !domain.ValidEventType(args.EventType) {
			return "", nil, fmt.Errorf("unknown event type %q", args.EventType)
		}
		basePrice, tier, err := pricing.SelectTier(venue)
		if err != nil {
			return "", nil, fmt.Errorf("this venue has no pricing configured")
		}
		open, _, err := s.gate.IsDateOpen(ctx, venue.ID, args.EventDate)
		if err != nil {
			return "", nil, fmt.Errorf("availability lookup failed")
		}
		breakdown := pricing.Calculate(basePrice)
		draft := draftResult{
			Available:   open,
			EventDate:   args.EventDate,
			StartTime:   args.StartTime,
			EndTime:     args.EndTime,
			EventType:   args.EventType,
			GuestCount:  args.GuestCount,
			BasePrice:   breakdown.BasePrice,
			PlatformFee: breakdown.PlatformFee,
			TotalPrice:  breakdown.TotalPrice,
			VenuePayout: breakdown.VenuePayout,
		}
		out, _ := json.Marshal(map[string]any{"draft": draft, "priceTier": tier})
		return string(out), &BookingSummary{
			EventDate:   draft.EventDate,
			StartTime:   draft.StartTime,
			EndTime:     draft.EndTime,
			EventType:   draft.EventType,
			GuestCount:  draft.GuestCount,
			BasePrice:   draft.BasePrice,
			PlatformFee: draft.PlatformFee,
			TotalPrice:  draft.TotalPrice,
			Status:      "draft",
		}, nil

	case toolProposeModification:
		if userID == nil {
			return "", nil, fmt.Errorf("%s", signInMessage)
		}
		var args modification.ProposeRequest
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil || args.BookingID == 0 {
			return "", nil, fmt.Errorf("propose_modification needs a bookingId")
		}
		m, err := s.mods.Propose(ctx, *userID, args)
		if err != nil {
			return "", nil, fmt.Errorf("modification rejected: %v", err)
		}
		return mustJSON(map[string]any{
			"modificationId": m.ID,
			"bookingId":      m.BookingRequestID,
			"status":         string(m.Status),
		}), nil, nil

	case toolGetBookingStatus:
		if userID == nil {
			return "", nil, fmt.Errorf("%s", signInMessage)
		}
		var args struct {
			BookingID int64 `json:"bookingId"`
		}
		if err := json.Unmarshal([]byte(rawArgs), &args); err != nil || args.BookingID == 0 {
			return "", nil, fmt.Errorf("get_booking_status needs a bookingId")
		}
		b, err := s.bookings.GetForViewer(ctx, args.BookingID, userID, "")
		if err != nil {
			return "", nil, fmt.Errorf("booking not found or not visible to this visitor")
		}
		return mustJSON(map[string]any{
				"bookingId":  b.ID,
				"status":     string(b.Status),
				"eventDate":  b.EventDate,
				"startTime":  b.StartTime,
				"endTime":    b.EndTime,
				"guestCount": b.GuestCount,
				"totalPrice": b.TotalPrice,
			}), &BookingSummary{
				BookingID:   &b.ID,
				EventDate:   b.EventDate,
				StartTime:   b.StartTime,
				EndTime:     b.EndTime,
				EventType:   b.EventType,
				GuestCount:  b.GuestCount,
				BasePrice:   b.BasePrice,
				PlatformFee: b.PlatformFee,
				TotalPrice:  b.TotalPrice,
				Status:      string(b.Status),
			}, nil

	default:
		return "", nil, fmt.Errorf("unknown tool %q", name)
	}
}

func toolError(msg string) string {
	return mustJSON(map[string]any{"error": msg})
}

func mustJSON(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return `{"error":"internal encoding failure"}`
	}
	return string(out)
}
