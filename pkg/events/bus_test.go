package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventName(t *testing.T) {
	assert.Equal(t, "add", Event[int]{Kind: Add}.Name())
	assert.Equal(t, "change", Event[int]{Kind: Change}.Name())
	assert.Equal(t, "change:type", Event[int]{Kind: Change, Attr: "type"}.Name())
	assert.Equal(t, "sort", Event[int]{Kind: Sort, Attr: "ignored"}.Name())
	assert.Equal(t, "kind(42)", Kind(42).String())

	assert.True(t, Event[int]{Kind: Change, Attr: "type"}.IsAttrChange())
	assert.False(t, Event[int]{Kind: Change}.IsAttrChange())
}

func TestBusDeliversInOrder(t *testing.T) {
	bus := NewBus[string]()
	got := []string{}

	bus.Subscribe(func(ev Event[string]) error {
		got = append(got, "all:"+ev.Name())
		return nil
	})
	bus.On(Remove, func(ev Event[string]) error {
		got = append(got, "remove:"+ev.Model)
		return nil
	})

	require.NoError(t, bus.Emit(Event[string]{Kind: Add, Model: "a"}))
	require.NoError(t, bus.Emit(Event[string]{Kind: Remove, Model: "b"}))

	assert.Equal(t, []string{"all:add", "all:remove", "remove:b"}, got)
	assert.Equal(t, 2, bus.Len())
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus[int]()
	calls := 0
	unsubscribe := bus.Subscribe(func(Event[int]) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Emit(Event[int]{Kind: Add}))
	unsubscribe()
	unsubscribe()
	require.NoError(t, bus.Emit(Event[int]{Kind: Add}))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Len())
}

func TestBusUnsubscribeDuringEmit(t *testing.T) {
	bus := NewBus[int]()
	calls := 0
	var unsubscribe func()
	unsubscribe = bus.Subscribe(func(Event[int]) error {
		unsubscribe()
		return nil
	})
	bus.Subscribe(func(Event[int]) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Emit(Event[int]{Kind: Add}))
	require.NoError(t, bus.Emit(Event[int]{Kind: Add}))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, bus.Len())
}

func TestBusHandlerErrorAbortsDelivery(t *testing.T) {
	bus := NewBus[int]()
	boom := errors.New("boom")
	reached := false

	bus.Subscribe(func(Event[int]) error { return boom })
	bus.Subscribe(func(Event[int]) error {
		reached = true
		return nil
	})

	err := bus.Emit(Event[int]{Kind: Add})
	assert.Equal(t, boom, err)
	assert.False(t, reached)
}
