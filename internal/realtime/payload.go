package realtime

// payloadVersion is bumped if the wire shape ever changes; clients ignore
// versions they do not understand.
const payloadVersion = 1

const (
	ActionApproved = "approved"
	ActionDeclined = "declined"
	ActionModified = "modified"
)

// Payload is the broadcast hint pushed to subscribers of a topic. It is not
// authoritative: delivery is at-most-once and unordered relative to direct
// fetches, so clients refetch when precision matters.
type Payload struct {
	V       int    `json:"v"`
	Topic   string `json:"topic"`
	Action  string `json:"action"`
	Message string `json:"message,omitempty"`
}
