package hub_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomoku-arena/internal/hub"
	"gomoku-arena/internal/hub/hubtest"
	"gomoku-arena/internal/protocol"
)

func TestFanoutSkipsFailedConnections(t *testing.T) {
	a := hubtest.NewRecorder("a")
	b := hubtest.NewRecorder("b")
	c := hubtest.NewRecorder("c")
	b.Close()

	n := hub.NewFanout().Deliver([]hub.Conn{a, b, c}, protocol.SystemChat("hello"))
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{protocol.TypeChat}, a.Types())
	assert.Empty(t, b.Types())
	assert.Equal(t, []string{protocol.TypeChat}, c.Types())

	var got protocol.ChatMessage
	require.True(t, c.Last(protocol.TypeChat, &got))
	assert.Equal(t, protocol.SystemSender, got.Sender)
	assert.Equal(t, "hello", got.Message)
}

func TestFanoutEmptyTargets(t *testing.T) {
	assert.Equal(t, 0, hub.NewFanout().Deliver(nil, protocol.SystemChat("x")))
}

func TestRegistryBindingLifecycle(t *testing.T) {
	reg := hub.NewRegistry()
	a := hubtest.NewRecorder("a")
	b := hubtest.NewRecorder("b")
	reg.Register(a)
	reg.Register(b)
	reg.Register(a)
	require.Equal(t, 2, reg.Len())

	lobby := reg.LobbyConns()
	require.Len(t, lobby, 2)
	assert.Equal(t, "a", lobby[0].ID())

	require.True(t, reg.Bind("a", hub.Binding{RoomID: "r1", UserID: "u1", Role: hub.RolePlayer}))
	assert.False(t, reg.Bind("zzz", hub.Binding{RoomID: "r1"}))

	lobby = reg.LobbyConns()
	require.Len(t, lobby, 1)
	assert.Equal(t, "b", lobby[0].ID())

	_, binding, ok := reg.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "r1", binding.RoomID)
	assert.True(t, binding.InRoom())

	reg.Unbind("a")
	assert.Len(t, reg.LobbyConns(), 2)

	reg.Bind("a", hub.Binding{RoomID: "r2", UserID: "u1", Role: hub.RoleSpectator})
	last, ok := reg.Unregister("a")
	require.True(t, ok)
	assert.Equal(t, hub.RoleSpectator, last.Role)
	_, ok = reg.Unregister("a")
	assert.False(t, ok)
	assert.Len(t, reg.All(), 1)
}
