//go:generate go run go.uber.org/mock/mockgen -source=conversation_service.go -destination=../mocks/mock_conversation_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"swarm-replica/contract"
	"swarm-replica/conversation"
	"swarm-replica/domain"
	"swarm-replica/domain/event"
	"swarm-replica/errors"
	"swarm-replica/history"
)

var validate = validator.New()

// MessageEnvelope is what the transport daemon hands over per message:
// authenticated, deduplicated, but not ordered.
type MessageEnvelope struct {
	ID           string `validate:"required"`
	Parent       string
	Conversation string `validate:"required"`
	Author       string `validate:"required"`
	Timestamp    uint64
	Kind         string `validate:"required,oneof=text call member transfer invalid"`
	Body         string
	// ReactTo/EditOf reference the target interaction for reactions/edits.
	ReactTo string
	EditOf  string
	Status  map[string]int
}

// MemberEnvelope is a membership/role change event from the daemon.
type MemberEnvelope struct {
	Conversation string `validate:"required"`
	Peer         string `validate:"required"`
	Role         domain.Role
	Removed      bool
}

// IConversationService is the ingestion surface the daemon callbacks hit.
type IConversationService interface {
	OnMessageReceived(ctx context.Context, env MessageEnvelope) (history.InsertOutcome, error)
	OnMembershipEvent(ctx context.Context, env MemberEnvelope) error
	OnStatusChanged(conversationID string, id domain.MessageID, peer domain.PeerID, state domain.AckState) bool
	Conversation(id string) (*conversation.Aggregate, bool)
}

// ConversationService owns every conversation replica of one account and
// pumps their change events into the permanent sinks (disk mirror, search
// index) and whatever observers the registry knows about.
type ConversationService struct {
	log       *slog.Logger
	accountID string
	localPeer domain.PeerID
	opts      conversation.Options

	// root outlives every ingestion call; pumps inherit from it so a
	// cancelled delivery context never detaches the permanent sinks.
	root context.Context
	halt context.CancelFunc

	mu    sync.RWMutex
	convs map[string]*conversation.Aggregate
	stops map[string]context.CancelFunc

	registry  contract.IObserverRegistry
	permanent []contract.EventSink
}

func NewConversationService(
	log *slog.Logger,
	accountID string,
	localPeer domain.PeerID,
	registry contract.IObserverRegistry,
	opts conversation.Options,
	permanent ...contract.EventSink,
) *ConversationService {
	root, halt := context.WithCancel(context.Background())
	return &ConversationService{
		log:       log,
		accountID: accountID,
		localPeer: localPeer,
		opts:      opts,
		root:      root,
		halt:      halt,
		convs:     make(map[string]*conversation.Aggregate),
		stops:     make(map[string]context.CancelFunc),
		registry:  registry,
		permanent: permanent,
	}
}

// OnMessageReceived validates and routes one delivered message. The replica
// for the conversation is created on first observation. Reactions and edits
// are applied to their target instead of the linear history.
func (s *ConversationService) OnMessageReceived(ctx context.Context, env MessageEnvelope) (history.InsertOutcome, error) {
	if err := validate.Struct(env); err != nil {
		return 0, fmt.Errorf("rejecting message envelope: %w", err)
	}
	agg := s.getOrCreate(env.Conversation, domain.ModeSyncing)
	msg := toMessage(env)

	if env.ReactTo != "" {
		if !agg.ApplyReaction(domain.MessageID(env.ReactTo), msg) {
			return 0, fmt.Errorf("reaction %s: %w", env.ID, errors.ErrUnknownMessage)
		}
		return history.Linearized, nil
	}
	if env.EditOf != "" {
		if !agg.ApplyEdition(domain.MessageID(env.EditOf), msg) {
			return 0, fmt.Errorf("edit %s: %w", env.ID, errors.ErrUnknownMessage)
		}
		return history.Linearized, nil
	}
	return agg.Insert(msg), nil
}

// OnMembershipEvent applies a role change coming from the daemon.
func (s *ConversationService) OnMembershipEvent(ctx context.Context, env MemberEnvelope) error {
	if err := validate.Struct(env); err != nil {
		return fmt.Errorf("rejecting membership envelope: %w", err)
	}
	agg := s.getOrCreate(env.Conversation, domain.ModeSyncing)
	if env.Removed {
		agg.RemoveMember(domain.PeerID(env.Peer), env.Role)
	} else {
		agg.AddMember(domain.PeerID(env.Peer), env.Role)
	}
	return nil
}

// OnStatusChanged applies an acknowledgment delta. False means the referenced
// message is unknown here; the caller surfaces that.
func (s *ConversationService) OnStatusChanged(conversationID string, id domain.MessageID, peer domain.PeerID, state domain.AckState) bool {
	s.mu.RLock()
	agg, ok := s.convs[conversationID]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return agg.UpdateStatus(id, peer, state)
}

// StartConversation creates a replica with a known mode, from a local start
// or an accepted invite.
func (s *ConversationService) StartConversation(id string, mode domain.Mode) *conversation.Aggregate {
	return s.getOrCreate(id, mode)
}

// Conversation returns the replica for an id when it exists.
func (s *ConversationService) Conversation(id string) (*conversation.Aggregate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	agg, ok := s.convs[id]
	return agg, ok
}

// RemoveConversation destroys a replica when the conversation is removed
// locally, stopping its event pump.
func (s *ConversationService) RemoveConversation(id string) bool {
	s.mu.Lock()
	agg, ok := s.convs[id]
	if ok {
		delete(s.convs, id)
		if stop, found := s.stops[id]; found {
			stop()
			delete(s.stops, id)
		}
	}
	s.mu.Unlock()

	if ok {
		agg.Close()
	}
	return ok
}

// Close tears down the service: every pump stops and every replica closes.
func (s *ConversationService) Close() {
	s.halt()

	s.mu.Lock()
	aggs := make([]*conversation.Aggregate, 0, len(s.convs))
	for id, agg := range s.convs {
		aggs = append(aggs, agg)
		delete(s.convs, id)
		delete(s.stops, id)
	}
	s.mu.Unlock()

	for _, agg := range aggs {
		agg.Close()
	}
}

// Conversations lists the ids of every known replica.
func (s *ConversationService) Conversations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.convs))
	for id := range s.convs {
		out = append(out, id)
	}
	return out
}

func (s *ConversationService) getOrCreate(id string, mode domain.Mode) *conversation.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if agg, ok := s.convs[id]; ok {
		return agg
	}
	agg := conversation.New(s.log, s.accountID, id, s.localPeer, mode, s.opts)
	s.convs[id] = agg

	pumpCtx, stop := context.WithCancel(s.root)
	s.stops[id] = stop
	_, stream := agg.Subscribe()
	go s.pump(pumpCtx, id, stream)

	s.log.Info("conversation replica created", "conversation", id, "mode", mode)
	return agg
}

// pump forwards one conversation's change stream to the permanent sinks and
// the registry's observers. A failing sink is logged and skipped, never
// stalls the stream.
func (s *ConversationService) pump(ctx context.Context, conversationID string, stream <-chan event.ConversationEvent) {
	for {
		select {
		case evt, open := <-stream:
			if !open {
				return
			}
			for _, snk := range s.permanent {
				if err := snk.Consume(ctx, evt); err != nil {
					s.log.Warn("permanent sink failed", "conversation", conversationID, "error", err)
				}
			}
			for _, snk := range s.registry.GetSinksFor(conversationID) {
				if err := snk.Consume(ctx, evt); err != nil {
					s.log.Warn("observer sink failed", "conversation", conversationID, "error", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

func toMessage(env MessageEnvelope) domain.Message {
	m := domain.Message{
		ID:        domain.MessageID(env.ID),
		ParentID:  domain.MessageID(env.Parent),
		Author:    domain.PeerID(env.Author),
		Timestamp: env.Timestamp,
	}
	switch env.Kind {
	case "call":
		m.Body = domain.CallBody{}
	case "member":
		m.Body = domain.MemberBody{Peer: domain.PeerID(env.Author), Action: env.Body}
	case "transfer":
		m.Body = domain.TransferBody{FileName: env.Body}
	case "invalid":
		m.Body = domain.InvalidBody{}
	default:
		m.Body = domain.TextBody{Text: env.Body}
	}
	if len(env.Status) > 0 {
		m.Status = make(map[domain.PeerID]domain.AckState, len(env.Status))
		for peer, state := range env.Status {
			m.Status[domain.PeerID(peer)] = domain.AckState(state)
		}
	}
	return m
}
