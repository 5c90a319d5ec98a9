package agent

import "errors"

var (
	ErrVenueNotFound         = errors.New("venue not found")
	ErrAgentDisabled         = errors.New("agent is not enabled for this venue")
	ErrNotConfigured         = errors.New("no language model is configured")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrConversationForbidden = errors.New("conversation belongs to another customer")
	ErrConversationBusy      = errors.New("conversation was updated by a concurrent turn")
	ErrNoDraft               = errors.New("no booking draft found in this conversation")
)
