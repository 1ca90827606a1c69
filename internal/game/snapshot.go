package game

import (
	"slices"

	"github.com/lox/holdem-engine/poker"
)

// Viewer values for Snapshot.
const (
	// NoSeat is a spectator: every hole card is hidden until showdown.
	NoSeat = -1
	// ViewAll reveals every hole card.
	ViewAll = -2
)

// SeatView is what a viewer can see of one seat.
type SeatView struct {
	Seat       int
	Name       string
	Chips      int
	Bet        int
	TotalBet   int
	Status     Status
	LastAction ActionType
	IsDealer   bool
	IsSB       bool
	IsBB       bool
	// HoleCards is nil when hidden from the viewer.
	HoleCards []poker.Card
}

// Snapshot is a read-only copy of the hand as seen by one viewer.
type Snapshot struct {
	HandID       string
	Phase        Phase
	Viewer       int
	Board        []poker.Card
	PotTotal     int
	MainPot      int
	SidePots     []Pot
	Uncollected  int
	Seats        []SeatView
	ActiveSeat   int
	CurrentBet   int
	MinRaise     int
	SmallBlind   int
	BigBlind     int
	DealerSeat   int
	LegalActions []LegalAction
	Aborted      bool
}

// Snapshot returns the hand from viewer's point of view: their own hole
// cards, plus every hand revealed at showdown. Taking a snapshot never
// changes the hand.
func (h *Hand) Snapshot(viewer int) Snapshot {
	s := Snapshot{
		HandID:     h.id,
		Phase:      h.phase,
		Viewer:     viewer,
		Board:      slices.Clone(h.board),
		MainPot:    h.pot.MainPot(),
		SidePots:   h.pot.SidePots(),
		Seats:      h.seatViews(viewer),
		ActiveSeat: h.ActiveSeat(),
		CurrentBet: h.currentBet,
		MinRaise:   h.minRaise,
		SmallBlind: h.rules.SmallBlind,
		BigBlind:   h.rules.BigBlind,
		DealerSeat: h.players[h.dealerPos].Seat,
		Aborted:    h.err != nil,
	}
	for _, p := range h.players {
		s.Uncollected += p.Bet
	}
	s.PotTotal = h.pot.Total() + s.Uncollected
	if viewer == ViewAll || viewer == s.ActiveSeat {
		s.LegalActions = h.LegalActions()
	}
	return s
}

func (h *Hand) seatViews(viewer int) []SeatView {
	views := make([]SeatView, 0, len(h.players))
	for _, p := range h.players {
		v := SeatView{
			Seat:       p.Seat,
			Name:       p.Name,
			Chips:      p.Chips,
			Bet:        p.Bet,
			TotalBet:   p.TotalBet,
			Status:     p.Status,
			LastAction: p.LastAction,
			IsDealer:   p.IsDealer,
			IsSB:       p.IsSmallBlind,
			IsBB:       p.IsBigBlind,
		}
		if viewer == ViewAll || viewer == p.Seat {
			v.HoleCards = slices.Clone(p.HoleCards)
		}
		views = append(views, v)
	}
	for _, r := range h.revealed {
		views[h.index[r.Seat]].HoleCards = slices.Clone(r.Cards)
	}
	return views
}

// Seat returns the view of one seat.
func (s Snapshot) Seat(id int) (SeatView, bool) {
	for _, v := range s.Seats {
		if v.Seat == id {
			return v, true
		}
	}
	return SeatView{}, false
}

// Legal returns the legal action of type t, if available.
func (s Snapshot) Legal(t ActionType) (LegalAction, bool) {
	for _, la := range s.LegalActions {
		if la.Type == t {
			return la, true
		}
	}
	return LegalAction{}, false
}

// ToCall returns the chips the active seat needs to call.
func (s Snapshot) ToCall() int {
	v, ok := s.Seat(s.ActiveSeat)
	if !ok {
		return 0
	}
	return max(0, s.CurrentBet-v.Bet)
}
