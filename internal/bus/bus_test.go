package bus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/subslayer/subslayer/internal/bus"
)

func TestBus_PublishReachesSubscribersInOrder(t *testing.T) {
	b := bus.New[int]()

	var got []int

	b.Subscribe(func(v int) { got = append(got, v*10) })
	b.Subscribe(func(v int) { got = append(got, v) })

	b.Publish(1)
	b.Publish(2)

	assert.Equal(t, []int{10, 1, 20, 2}, got)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	b := bus.New[string]()

	// Must not panic.
	b.Publish("nobody listening")
}
