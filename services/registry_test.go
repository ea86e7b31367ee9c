package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"swarm-replica/mocks"
	"swarm-replica/services"
)

func TestRegistry_SubscribeAndResolve(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := services.NewRegistry()

	first := mocks.NewMockEventSink(ctrl)
	second := mocks.NewMockEventSink(ctrl)

	registry.Subscribe("window-1", "conv-a", first)
	registry.Subscribe("window-2", "conv-a", second)
	registry.Subscribe("window-2", "conv-b", second)

	req.Len(registry.GetSinksFor("conv-a"), 2)
	req.Len(registry.GetSinksFor("conv-b"), 1)
	req.Nil(registry.GetSinksFor("conv-c"))
}

func TestRegistry_UnsubscribeCleansUp(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := services.NewRegistry()

	sink := mocks.NewMockEventSink(ctrl)
	registry.Subscribe("window-1", "conv-a", sink)

	registry.Unsubscribe("window-1", "conv-a")
	req.Nil(registry.GetSinksFor("conv-a"))

	// Unsubscribing something unknown is harmless
	registry.Unsubscribe("window-9", "conv-z")
}

func TestRegistry_UnsubscribeKeepsOtherConversations(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := services.NewRegistry()

	sink := mocks.NewMockEventSink(ctrl)
	registry.Subscribe("window-1", "conv-a", sink)
	registry.Subscribe("window-1", "conv-b", sink)

	// Leaving one conversation must not detach the observer from the other
	registry.Unsubscribe("window-1", "conv-a")
	req.Nil(registry.GetSinksFor("conv-a"))
	req.Len(registry.GetSinksFor("conv-b"), 1)

	registry.Unsubscribe("window-1", "conv-b")
	req.Nil(registry.GetSinksFor("conv-b"))
}
