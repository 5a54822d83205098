package room

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/protocol"
	"gomoku-arena/internal/store"
)

const (
	DefaultRoomName = "New Room"
	roomIDLength    = 6
)

type dirEntry struct {
	room *Room
	seq  uint64
}

// Directory owns the set of live rooms. It is the only place rooms are
// created and removed.
type Directory struct {
	cfg      Config
	registry *hub.Registry
	fanout   *hub.Fanout
	recorder ResultRecorder

	mu      sync.Mutex
	nextSeq uint64
	rooms   map[string]*dirEntry
}

func NewDirectory(cfg Config, registry *hub.Registry, fanout *hub.Fanout) *Directory {
	return &Directory{
		cfg:      cfg,
		registry: registry,
		fanout:   fanout,
		rooms:    map[string]*dirEntry{},
	}
}

// SetResultRecorder archives every game finished in rooms created
// afterwards.
func (d *Directory) SetResultRecorder(rec ResultRecorder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recorder = rec
}

func (d *Directory) Create(name string) *Room {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultRoomName
	}

	d.mu.Lock()
	id := store.ShortCode(roomIDLength)
	for d.rooms[id] != nil {
		id = store.ShortCode(roomIDLength)
	}
	var lobby Lobby
	if d.registry != nil {
		lobby = d.registry
	}
	r := newRoom(id, name, d.cfg, d.fanout, lobby)
	r.recorder = d.recorder
	r.onEmpty = func(roomID string) { d.DeleteIfEmpty(roomID) }
	d.nextSeq++
	d.rooms[id] = &dirEntry{room: r, seq: d.nextSeq}
	d.mu.Unlock()

	metricRoomsActive.Add(1)
	log.Info().Str("room_id", id).Str("name", name).Msg("room_created")
	return r
}

func (d *Directory) Find(id string) (*Room, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.rooms[id]
	if !ok {
		return nil, false
	}
	return e.room, true
}

// FindByUser locates the room a user can reconnect into: first one where
// the user has a pending grace window, then any room where they hold a seat.
func (d *Directory) FindByUser(userID string) (*Room, bool) {
	if userID == "" {
		return nil, false
	}
	rooms := d.ordered()
	for _, r := range rooms {
		if r.HasPendingGrace(userID) {
			return r, true
		}
	}
	for _, r := range rooms {
		if r.HasPlayer(userID) {
			return r, true
		}
	}
	return nil, false
}

// List returns lobby summaries in creation order.
func (d *Directory) List() []protocol.RoomInfo {
	rooms := d.ordered()
	out := make([]protocol.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.Info())
	}
	return out
}

// DeleteIfEmpty removes the room when it has no players and no spectators
// and tells every connection about it. It reports whether a room was
// removed by this call.
func (d *Directory) DeleteIfEmpty(id string) bool {
	d.mu.Lock()
	e, ok := d.rooms[id]
	if !ok || !e.room.retireIfEmpty() {
		d.mu.Unlock()
		return false
	}
	delete(d.rooms, id)
	d.mu.Unlock()

	metricRoomsActive.Add(-1)
	log.Info().Str("room_id", id).Msg("room_removed")
	if d.registry != nil {
		d.fanout.Deliver(d.registry.All(), protocol.RoomRemoved{Type: protocol.TypeRoomRemoved, RoomID: id})
	}
	return true
}

func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rooms)
}

func (d *Directory) ordered() []*Room {
	d.mu.Lock()
	entries := make([]*dirEntry, 0, len(d.rooms))
	for _, e := range d.rooms {
		entries = append(entries, e)
	}
	d.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]*Room, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.room)
	}
	return out
}
