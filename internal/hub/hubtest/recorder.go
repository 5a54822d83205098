// Package hubtest provides an in-memory hub.Conn for tests.
package hubtest

import (
	"encoding/json"
	"sync"

	"gomoku-arena/internal/hub"
)

// Recorder is a hub.Conn that keeps every frame it is sent.
type Recorder struct {
	id string

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func NewRecorder(id string) *Recorder {
	return &Recorder{id: id}
}

func (r *Recorder) ID() string { return r.id }

func (r *Recorder) Send(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return hub.ErrConnClosed
	}
	cp := make([]byte, len(frame))
	copy(cp, frame)
	r.frames = append(r.frames, cp)
	return nil
}

// Close makes later sends fail like a dropped socket.
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

// Types lists the "type" field of every recorded frame in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		out = append(out, frameType(f))
	}
	return out
}

// Last decodes the most recent frame of the given type into v and reports
// whether one was found.
func (r *Recorder) Last(msgType string, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if frameType(r.frames[i]) == msgType {
			return json.Unmarshal(r.frames[i], v) == nil
		}
	}
	return false
}

// First is Last for the oldest matching frame.
func (r *Recorder) First(msgType string, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.frames {
		if frameType(f) == msgType {
			return json.Unmarshal(f, v) == nil
		}
	}
	return false
}

func frameType(frame []byte) string {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(frame, &env); err != nil {
		return ""
	}
	return env.Type
}

// Count returns how many frames of the given type were recorded.
func (r *Recorder) Count(msgType string) int {
	n := 0
	for _, t := range r.Types() {
		if t == msgType {
			n++
		}
	}
	return n
}

// Reset drops recorded frames.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}
