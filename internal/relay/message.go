package relay

import "encoding/json"

// Message types exchanged between the host page and the widget frame.
// The set is closed; unknown types are ignored.
const (
	// iframe -> parent
	MsgReady             = "ELLO_READY"
	MsgOpenPanel         = "ELLO_OPEN_PANEL"
	MsgClosePanel        = "ELLO_CLOSE_PANEL"
	MsgRequestFullscreen = "ELLO_REQUEST_FULLSCREEN"
	MsgSize              = "ELLO_SIZE"
	MsgGetConfig         = "ELLO_GET_CONFIG"

	// parent -> iframe
	MsgConfig = "ELLO_CONFIG"
)

// Message is the tagged JSON envelope used on both directions of the
// parent/iframe boundary
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SizePayload carries the requested frame height for ELLO_SIZE
type SizePayload struct {
	Height int `json:"height"`
}

// NewMessage builds a Message with the payload marshaled in place
func NewMessage(msgType string, payload interface{}) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}

// Outbound is a message the relay wants delivered, always addressed to an
// explicit target origin, never "*"
type Outbound struct {
	Message      Message
	TargetOrigin string
}
