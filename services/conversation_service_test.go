package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"swarm-replica/conversation"
	"swarm-replica/domain"
	"swarm-replica/domain/event"
	"swarm-replica/errors"
	"swarm-replica/history"
	"swarm-replica/mocks"
	"swarm-replica/repositories"
	"swarm-replica/services"
)

func envelope(conv, id, parent, body string, at uint64) services.MessageEnvelope {
	return services.MessageEnvelope{
		ID:           id,
		Parent:       parent,
		Conversation: conv,
		Author:       "alice",
		Timestamp:    at,
		Kind:         "text",
		Body:         body,
	}
}

func TestConversationService_RejectsInvalidEnvelope(t *testing.T) {
	req := require.New(t)
	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)

	env := envelope("conv", "", "", "hi", 100)
	_, err := svc.OnMessageReceived(context.Background(), env)
	req.Error(err)

	env = envelope("conv", "m1", "", "hi", 100)
	env.Kind = "carrier-pigeon"
	_, err = svc.OnMessageReceived(context.Background(), env)
	req.Error(err)

	// Nothing was created for the rejected envelopes
	req.Empty(svc.Conversations())
}

func TestConversationService_CreatesReplicaOnFirstMessage(t *testing.T) {
	req := require.New(t)
	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)

	outcome, err := svc.OnMessageReceived(context.Background(), envelope("conv", "root", "", "hi", 100))
	req.NoError(err)
	req.Equal(history.Linearized, outcome)

	outcome, err = svc.OnMessageReceived(context.Background(), envelope("conv", "root", "", "hi", 100))
	req.NoError(err)
	req.Equal(history.Duplicate, outcome)

	agg, ok := svc.Conversation("conv")
	req.True(ok)
	req.Equal(domain.ModeSyncing, agg.Mode())
	req.Equal([]string{"conv"}, svc.Conversations())
}

func TestConversationService_ReactionToUnknownTarget(t *testing.T) {
	req := require.New(t)
	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)

	env := envelope("conv", "r1", "", ":+1:", 100)
	env.ReactTo = "ghost"
	_, err := svc.OnMessageReceived(context.Background(), env)
	req.ErrorIs(err, errors.ErrUnknownMessage)

	// A reaction on a known target is applied, not linearized
	_, err = svc.OnMessageReceived(context.Background(), envelope("conv", "root", "", "hi", 100))
	req.NoError(err)
	env.ReactTo = "root"
	_, err = svc.OnMessageReceived(context.Background(), env)
	req.NoError(err)

	agg, _ := svc.Conversation("conv")
	snapshot := agg.Snapshot()
	req.Len(snapshot, 1)
	req.Len(snapshot[0].Reactions, 1)
}

func TestConversationService_MembershipEvents(t *testing.T) {
	req := require.New(t)
	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)

	req.Error(svc.OnMembershipEvent(context.Background(), services.MemberEnvelope{Conversation: "conv"}))

	req.NoError(svc.OnMembershipEvent(context.Background(), services.MemberEnvelope{
		Conversation: "conv", Peer: "bob", Role: domain.RoleAdmin,
	}))
	agg, ok := svc.Conversation("conv")
	req.True(ok)
	req.Equal(domain.RoleAdmin, agg.Role("bob"))

	req.NoError(svc.OnMembershipEvent(context.Background(), services.MemberEnvelope{
		Conversation: "conv", Peer: "bob", Role: domain.RoleLeft, Removed: true,
	}))
	req.Equal(domain.RoleLeft, agg.Role("bob"))
}

func TestConversationService_StatusForUnknownConversation(t *testing.T) {
	req := require.New(t)
	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)

	req.False(svc.OnStatusChanged("nowhere", "m1", "bob", domain.AckSuccess))
}

func TestConversationService_PumpFansOutToSinks(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	permanent := mocks.NewMockEventSink(ctrl)
	observer := mocks.NewMockEventSink(ctrl)

	received := make(chan event.ConversationEvent, 8)
	permanent.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e event.ConversationEvent) error {
			received <- e
			return nil
		}).AnyTimes()
	observed := make(chan event.ConversationEvent, 8)
	observer.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e event.ConversationEvent) error {
			observed <- e
			return nil
		}).AnyTimes()

	registry := services.NewRegistry()
	registry.Subscribe("window-1", "conv", observer)

	svc := services.NewConversationService(slog.Default(), "acc-1", "local", registry, conversation.Options{}, permanent)
	t.Cleanup(svc.Close)

	_, err := svc.OnMessageReceived(context.Background(), envelope("conv", "root", "", "hi", 100))
	req.NoError(err)

	for _, ch := range []chan event.ConversationEvent{received, observed} {
		select {
		case e := <-ch:
			got, ok := e.(event.InteractionChanged)
			req.True(ok)
			req.Equal(domain.MessageID("root"), got.Message.ID)
		case <-time.After(2 * time.Second):
			req.Fail("sink never received the event")
		}
	}
}

func TestConversationService_PumpSurvivesDeliveryContext(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	permanent := mocks.NewMockEventSink(ctrl)

	received := make(chan event.ConversationEvent, 8)
	permanent.EXPECT().Consume(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, e event.ConversationEvent) error {
			received <- e
			return nil
		}).AnyTimes()

	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{}, permanent)
	t.Cleanup(svc.Close)

	// The replica is created during a delivery whose context dies right after
	reqCtx, cancel := context.WithCancel(context.Background())
	_, err := svc.OnMessageReceived(reqCtx, envelope("conv", "root", "", "hi", 100))
	req.NoError(err)
	cancel()

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		req.Fail("sink never received the first event")
	}

	_, err = svc.OnMessageReceived(context.Background(), envelope("conv", "m1", "root", "still here", 200))
	req.NoError(err)

	select {
	case e := <-received:
		got, ok := e.(event.InteractionChanged)
		req.True(ok)
		req.Equal(domain.MessageID("m1"), got.Message.ID)
	case <-time.After(2 * time.Second):
		req.Fail("event after the delivery context ended never reached the sink")
	}
}

func TestConversationService_RemoveStopsThePump(t *testing.T) {
	req := require.New(t)
	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)

	svc.StartConversation("conv", domain.ModeInvitesOnly)
	req.True(svc.RemoveConversation("conv"))
	req.False(svc.RemoveConversation("conv"))
	_, ok := svc.Conversation("conv")
	req.False(ok)
}

func TestConversationService_ReplayFromDisk(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIHistoryRepository(ctrl)

	// Records come back in key order, which is timestamp order, not causal
	repo.EXPECT().LoadConversation("conv").Return([]repositories.DiskInteraction{
		{ID: "root", Conversation: "conv", Author: "alice", Kind: "text", Body: "hi", At: 100},
		{ID: "m2", Parent: "m1", Conversation: "conv", Author: "bob", Kind: "text", Body: "two", At: 150},
		{ID: "m1", Parent: "root", Conversation: "conv", Author: "bob", Kind: "text", Body: "one", At: 200},
	}, nil)

	svc := services.NewConversationService(slog.Default(), "acc-1", "local", services.NewRegistry(), conversation.Options{})
	t.Cleanup(svc.Close)
	replayed, err := svc.ReplayFromDisk(context.Background(), repo, "conv", domain.ModeInvitesOnly)
	req.NoError(err)
	req.Equal(3, replayed)

	agg, _ := svc.Conversation("conv")
	ids := make([]domain.MessageID, 0, 3)
	for _, m := range agg.Snapshot() {
		ids = append(ids, m.ID)
	}
	req.Equal([]domain.MessageID{"root", "m1", "m2"}, ids)
}
