package live

import "encoding/json"

// Message types exchanged with connected runtimes. Frames are JSON text
// messages; descriptors are JSON already, so they travel as raw payloads.
const (
	// TypeHello is sent by both sides when a session (re)connects.
	TypeHello = "hello"
	// TypeTemplates carries freshly compiled descriptors to the runtime.
	TypeTemplates = "templates"
	// TypePing and TypePong keep the connection warm.
	TypePing = "ping"
	TypePong = "pong"
)

// Frame is the envelope for every message on the hot-reload channel.
type Frame struct {
	Type string `json:"type"`

	// Seq increases for every templates frame a session sends, letting a
	// reconnecting client detect missed updates.
	Seq uint64 `json:"seq,omitempty"`

	// File is the source file the templates were compiled from.
	File string `json:"file,omitempty"`

	// Templates holds encoded descriptors. The runtime correlates each one
	// to the descriptor it replaces by its identity string
	// ("file:line:col:ordinal"), never by structure.
	Templates []json.RawMessage `json:"templates,omitempty"`
}
