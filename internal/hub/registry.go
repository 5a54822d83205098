package hub

import (
	"sort"
	"sync"
)

type Role string

const (
	RolePlayer    Role = "player"
	RoleSpectator Role = "spectator"
)

// Binding ties a connection to the room and user it acts for. The zero
// value means the connection is in the lobby.
type Binding struct {
	RoomID string
	UserID string
	Role   Role
}

func (b Binding) InRoom() bool {
	return b.RoomID != ""
}

type entry struct {
	conn    Conn
	binding Binding
	seq     uint64
}

// Registry maps connection ids to their current binding.
type Registry struct {
	mu      sync.Mutex
	nextSeq uint64
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]*entry{}}
}

// Register adds a connection to the lobby.
func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[c.ID()]; ok {
		return
	}
	r.nextSeq++
	r.entries[c.ID()] = &entry{conn: c, seq: r.nextSeq}
	metricConnsActive.Add(1)
}

// Unregister forgets a connection and returns its last binding.
func (r *Registry) Unregister(id string) (Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return Binding{}, false
	}
	delete(r.entries, id)
	metricConnsActive.Add(-1)
	return e.binding, true
}

func (r *Registry) Bind(id string, b Binding) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return false
	}
	e.binding = b
	return true
}

// Unbind moves a connection back to the lobby.
func (r *Registry) Unbind(id string) {
	r.Bind(id, Binding{})
}

func (r *Registry) Lookup(id string) (Conn, Binding, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, Binding{}, false
	}
	return e.conn, e.binding, true
}

// LobbyConns lists connections not bound to any room, in registration
// order.
func (r *Registry) LobbyConns() []Conn {
	return r.collect(func(b Binding) bool { return !b.InRoom() })
}

func (r *Registry) All() []Conn {
	return r.collect(func(Binding) bool { return true })
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) collect(keep func(Binding) bool) []Conn {
	r.mu.Lock()
	matched := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if keep(e.binding) {
			matched = append(matched, e)
		}
	}
	r.mu.Unlock()
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	out := make([]Conn, 0, len(matched))
	for _, e := range matched {
		out = append(out, e.conn)
	}
	return out
}
