package notifications

import (
	"sync"

	"github.com/google/uuid"
)

const (
	EventMatched            = "matched"
	EventInvited            = "invited"
	EventInvitationAccepted = "invitation_accepted"
	EventInvitationRejected = "invitation_rejected"
)

// Event is what the pairing core publishes when something happens to a
// participant asynchronously. It always carries enough to identify the
// partner, so the receiving side never has to re-guess who it was matched
// with.
type Event struct {
	Type          string     `json:"type"`
	SessionID     *uuid.UUID `json:"session_id,omitempty"`
	InvitationID  *uuid.UUID `json:"invitation_id,omitempty"`
	SessionType   string     `json:"session_type,omitempty"`
	PartnerID     *uuid.UUID `json:"partner_id,omitempty"`
	PartnerName   string     `json:"partner_name,omitempty"`
	PartnerRating *float64   `json:"partner_rating,omitempty"`
}

// ProfileTopic is the per-participant topic all match and invitation events
// are addressed to.
func ProfileTopic(profileID uuid.UUID) string {
	return "user:" + profileID.String()
}

// Bus is the notification channel between the pairing core and whatever
// delivers events to participants. Publish never blocks on a slow consumer.
// The function returned by Subscribe unsubscribes and closes the channel.
type Bus interface {
	Publish(topic string, event Event) error
	Subscribe(topic string) (<-chan Event, func())
}

const subscriberBuffer = 16

// MemoryBus is the in-process Bus used by default and in tests.
type MemoryBus struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]chan Event
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[int]chan Event)}
}

func (b *MemoryBus) Publish(topic string, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
			// a stalled subscriber drops events rather than blocking publishers
		}
	}
	return nil
}

func (b *MemoryBus) Subscribe(topic string) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan Event)
	}
	b.subs[topic][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[topic][id]; ok {
			delete(b.subs[topic], id)
			if len(b.subs[topic]) == 0 {
				delete(b.subs, topic)
			}
			close(sub)
		}
	}
	return ch, cancel
}
