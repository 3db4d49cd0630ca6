package bridge

import (
	"encoding/json"
	"fmt"
)

// Kind tags a bridge message on the wire.
type Kind string

const (
	KindError    Kind = "byof:error"
	KindResize   Kind = "byof:resize"
	KindNavigate Kind = "byof:navigate"
)

// Envelope is the transport frame relayed by the host page. FrameToken
// identifies which sandbox frame emitted the message.
type Envelope struct {
	FrameToken string          `json:"frame_token"`
	Type       Kind            `json:"type"`
	Payload    json.RawMessage `json:"payload"`
}

// Message is the decoded bridge payload: exactly one of ErrorMessage,
// ResizeMessage or NavigateMessage.
type Message interface {
	kind() Kind
}

// ErrorMessage reports a runtime error or unhandled rejection inside the
// sandboxed document.
type ErrorMessage struct {
	Message  string `json:"message"`
	Stack    string `json:"stack,omitempty"`
	Filename string `json:"filename,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// ResizeMessage reports the document body's observed height.
type ResizeMessage struct {
	Height float64 `json:"height"`
}

// NavigateMessage reports an intercepted link-navigation attempt.
type NavigateMessage struct {
	URL string `json:"url"`
}

func (ErrorMessage) kind() Kind    { return KindError }
func (ResizeMessage) kind() Kind   { return KindResize }
func (NavigateMessage) kind() Kind { return KindNavigate }

// Decode unpacks an envelope's payload into its typed message.
func Decode(env Envelope) (Message, error) {
	switch env.Type {
	case KindError:
		var m ErrorMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return m, nil
	case KindResize:
		var m ResizeMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return m, nil
	case KindNavigate:
		var m NavigateMessage
		if err := json.Unmarshal(env.Payload, &m); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown bridge message kind: %q", env.Type)
	}
}
