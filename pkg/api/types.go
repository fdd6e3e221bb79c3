package api

// Sentinel data values sent on the event stream.
const (
	// EndSentinel is the data of the event emitted for the first terminal
	// marker received from the backend.
	EndSentinel = "[END]"

	// ErrorSentinel is the data of the event emitted when the backend stream
	// is interrupted after it was opened.
	ErrorSentinel = "[ERROR]"
)

// EventNameError names the SSE event that reports an interrupted stream.
const EventNameError = "error"

// ChatMessage is a single conversation turn. Only Content is consumed;
// Role is accepted for compatibility with chat-completion clients.
type ChatMessage struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /v1/chat/completions.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// LastMessage returns the most recent message and true, or a zero message
// and false when the request holds no messages.
func (r *ChatRequest) LastMessage() (ChatMessage, bool) {
	if r == nil || len(r.Messages) == 0 {
		return ChatMessage{}, false
	}
	return r.Messages[len(r.Messages)-1], true
}

// OutboundEvent is one server-sent event. Event is the optional SSE event
// name; an empty name produces a default "message" event.
type OutboundEvent struct {
	Event string
	Data  string
}

// DataEvent returns an unnamed event carrying data.
func DataEvent(data string) OutboundEvent {
	return OutboundEvent{Data: data}
}

// EndEvent returns the event relayed for a terminal marker.
func EndEvent() OutboundEvent {
	return OutboundEvent{Data: EndSentinel}
}

// InterruptedEvent returns the event written when the backend stream
// fails after it was opened.
func InterruptedEvent() OutboundEvent {
	return OutboundEvent{Event: EventNameError, Data: ErrorSentinel}
}
