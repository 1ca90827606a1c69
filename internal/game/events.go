package game

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/holdem-engine/poker"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeHandStarted   EventType = "hand_started"
	EventTypePhaseChanged  EventType = "phase_changed"
	EventTypeActionApplied EventType = "action_applied"
	EventTypePotCollected  EventType = "pot_collected"
	EventTypeHandEnded     EventType = "hand_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event that occurs during a hand
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartedEvent is published before blinds are posted.
type HandStartedEvent struct {
	HandID     string
	DealerSeat int
	Seats      []SeatView
	SmallBlind int
	BigBlind   int
	timestamp  time.Time
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }
func (e HandStartedEvent) Timestamp() time.Time { return e.timestamp }

// PhaseChangedEvent is published once a phase has been entered and dealt.
type PhaseChangedEvent struct {
	HandID     string
	From       Phase
	To         Phase
	Board      []poker.Card
	ActiveSeat int
	timestamp  time.Time
}

func (e PhaseChangedEvent) EventType() EventType { return EventTypePhaseChanged }
func (e PhaseChangedEvent) Timestamp() time.Time { return e.timestamp }

// ActionAppliedEvent is published when a player action is accepted.
type ActionAppliedEvent struct {
	HandID    string
	Record    ActionRecord
	timestamp time.Time
}

func (e ActionAppliedEvent) EventType() EventType { return EventTypeActionApplied }
func (e ActionAppliedEvent) Timestamp() time.Time { return e.timestamp }

// PotCollectedEvent is published when a betting round's bets enter the pot.
type PotCollectedEvent struct {
	HandID    string
	Phase     Phase
	Pots      []Pot
	Total     int
	timestamp time.Time
}

func (e PotCollectedEvent) EventType() EventType { return EventTypePotCollected }
func (e PotCollectedEvent) Timestamp() time.Time { return e.timestamp }

// HandEndedEvent is published when a hand completes
type HandEndedEvent struct {
	HandID    string
	Result    HandResult
	timestamp time.Time
}

func (e HandEndedEvent) EventType() EventType { return EventTypeHandEnded }
func (e HandEndedEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber.
type EventSubscriberFunc func(GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a synchronous in-memory event bus. Subscribers run on
// the publishing goroutine in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Subscribers must be
// comparable (pointer receivers, not EventSubscriberFunc).
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// LogSubscriber writes a structured line per event.
type LogSubscriber struct {
	logger *log.Logger
}

// NewLogSubscriber creates a subscriber that logs to logger at info level.
func NewLogSubscriber(logger *log.Logger) *LogSubscriber {
	return &LogSubscriber{logger: logger}
}

func (s *LogSubscriber) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case HandStartedEvent:
		s.logger.Info("hand started", "hand", e.HandID, "dealer", e.DealerSeat, "blinds", []int{e.SmallBlind, e.BigBlind})
	case PhaseChangedEvent:
		s.logger.Info("phase", "hand", e.HandID, "to", e.To, "board", poker.FormatCards(e.Board))
	case ActionAppliedEvent:
		s.logger.Info("action", "hand", e.HandID, "seat", e.Record.Seat, "name", e.Record.Name,
			"action", e.Record.Type, "amount", e.Record.Amount, "pot", e.Record.PotAfter)
	case PotCollectedEvent:
		s.logger.Info("pot collected", "hand", e.HandID, "phase", e.Phase, "total", e.Total, "tiers", len(e.Pots))
	case HandEndedEvent:
		s.logger.Info("hand ended", "hand", e.HandID, "winners", e.Result.Winners, "pot", e.Result.TotalPot(), "showdown", e.Result.Showdown)
	}
}
