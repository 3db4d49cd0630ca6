package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptDeterministic(t *testing.T) {
	opts := ScriptOptions{FrameToken: "frame_abc", HostOrigin: "https://host.example.com"}
	assert.Equal(t, Script(opts), Script(opts))
}

func TestScriptContainsToken(t *testing.T) {
	s := Script(ScriptOptions{FrameToken: "frame_xyz"})
	assert.Contains(t, s, `"frame_xyz"`)
	assert.Contains(t, s, `"*"`) // no host origin ⇒ wildcard target
}

func TestScriptCompiles(t *testing.T) {
	for _, opts := range []ScriptOptions{
		{FrameToken: "frame_a"},
		{FrameToken: "frame_b", HostOrigin: "https://host.example.com"},
		{FrameToken: `tok"with\quotes`},
	} {
		assert.NoError(t, VerifyScript(opts))
	}
}

func TestScriptTag(t *testing.T) {
	tag := ScriptTag(ScriptOptions{FrameToken: "frame_a"})
	assert.Contains(t, tag, "<script>")
	assert.Contains(t, tag, "</script>")
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		env     Envelope
		want    Message
		wantErr bool
	}{
		{
			name: "error message",
			env:  Envelope{Type: KindError, Payload: json.RawMessage(`{"message":"boom","line":3}`)},
			want: ErrorMessage{Message: "boom", Line: 3},
		},
		{
			name: "resize message",
			env:  Envelope{Type: KindResize, Payload: json.RawMessage(`{"height":420.5}`)},
			want: ResizeMessage{Height: 420.5},
		},
		{
			name: "navigate message",
			env:  Envelope{Type: KindNavigate, Payload: json.RawMessage(`{"url":"https://x.com"}`)},
			want: NavigateMessage{URL: "https://x.com"},
		},
		{
			name:    "unknown kind",
			env:     Envelope{Type: "byof:unknown", Payload: json.RawMessage(`{}`)},
			wantErr: true,
		},
		{
			name:    "malformed payload",
			env:     Envelope{Type: KindResize, Payload: json.RawMessage(`{"height":"tall"}`)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.env)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatcherSourceValidation(t *testing.T) {
	var errors []ErrorMessage
	d := NewDispatcher("frame_good", Callbacks{
		OnError: func(m ErrorMessage) { errors = append(errors, m) },
	}, nil)

	payload := json.RawMessage(`{"message":"boom"}`)

	// Well-formed payload from the wrong source never reaches a callback.
	d.Dispatch(Envelope{FrameToken: "frame_evil", Type: KindError, Payload: payload})
	assert.Empty(t, errors)

	d.Dispatch(Envelope{FrameToken: "frame_good", Type: KindError, Payload: payload})
	require.Len(t, errors, 1)
	assert.Equal(t, "boom", errors[0].Message)
}

func TestDispatcherRoutesByKind(t *testing.T) {
	var resizes []ResizeMessage
	var navigates []NavigateMessage
	d := NewDispatcher("f", Callbacks{
		OnResize:   func(m ResizeMessage) { resizes = append(resizes, m) },
		OnNavigate: func(m NavigateMessage) { navigates = append(navigates, m) },
	}, nil)

	d.Dispatch(Envelope{FrameToken: "f", Type: KindResize, Payload: json.RawMessage(`{"height":100}`)})
	d.Dispatch(Envelope{FrameToken: "f", Type: KindNavigate, Payload: json.RawMessage(`{"url":"https://a.com"}`)})

	require.Len(t, resizes, 1)
	assert.Equal(t, float64(100), resizes[0].Height)
	require.Len(t, navigates, 1)
}

func TestDispatcherUnknownKindIgnored(t *testing.T) {
	called := false
	d := NewDispatcher("f", Callbacks{OnError: func(ErrorMessage) { called = true }}, nil)

	assert.NotPanics(t, func() {
		d.Dispatch(Envelope{FrameToken: "f", Type: "byof:mystery", Payload: json.RawMessage(`{}`)})
	})
	assert.False(t, called)
}

func TestDispatcherDetach(t *testing.T) {
	count := 0
	d := NewDispatcher("f", Callbacks{OnResize: func(ResizeMessage) { count++ }}, nil)

	env := Envelope{FrameToken: "f", Type: KindResize, Payload: json.RawMessage(`{"height":1}`)}
	d.Dispatch(env)
	d.Detach()
	d.Detach() // idempotent
	d.Dispatch(env)

	assert.Equal(t, 1, count)
	assert.True(t, d.Detached())
}

func TestDispatcherNilCallbacks(t *testing.T) {
	d := NewDispatcher("f", Callbacks{}, nil)
	assert.NotPanics(t, func() {
		d.Dispatch(Envelope{FrameToken: "f", Type: KindError, Payload: json.RawMessage(`{"message":"x"}`)})
	})
}
