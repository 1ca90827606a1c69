package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/holdem-engine/internal/gameid"
	"github.com/lox/holdem-engine/poker"
)

const (
	MinPlayers = 2
	MaxPlayers = 10
)

var (
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrHandNotStarted   = errors.New("hand has not started")
)

// Hand is the state of one hand of Texas Hold'em from blinds to payout.
// It is not safe for concurrent use; a single driver submits actions one at
// a time.
type Hand struct {
	id      string
	rules   Rules
	players []*Player
	index   map[int]int // seat id -> position

	dealerPos int
	sbPos     int
	bbPos     int

	deck  *poker.Deck
	board []poker.Card
	pot   *PotManager

	phase      Phase
	handlers   map[Phase]phaseHandler
	activePos  int
	currentBet int
	minRaise   int

	initialChips  int
	startingChips map[int]int
	phases        []Phase
	actions       []ActionRecord
	revealed      []ShowdownHand
	awards        []PotAward
	payouts       map[int]int
	showdown      bool
	settled       bool
	result        *HandResult
	startedAt     time.Time

	lastOp string
	err    error

	logger *log.Logger
	bus    EventBus
	clock  quartz.Clock
}

// NewHand creates a hand in the init phase. The RNG shuffles the deck unless
// WithDeck supplies one. dealerSeat must be a seat that is dealt in.
//
// Example usage:
//
//	rng := poker.NewRand(42)
//	h, err := game.NewHand(rng, game.DefaultRules(), seats, 0)
//	if err != nil { ... }
//	err = h.Start()
//	res, err := h.Submit(game.Action{Seat: h.ActiveSeat(), Type: game.Call})
func NewHand(rng *rand.Rand, rules Rules, seats []Seat, dealerSeat int, opts ...HandOption) (*Hand, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}
	if len(seats) < MinPlayers || len(seats) > MaxPlayers {
		return nil, fmt.Errorf("need %d-%d seats, got %d", MinPlayers, MaxPlayers, len(seats))
	}

	cfg := defaultHandConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.deck == nil && rng == nil {
		return nil, errors.New("rng is required unless a deck is supplied")
	}

	h := &Hand{
		id:            cfg.handID,
		rules:         rules,
		index:         make(map[int]int, len(seats)),
		pot:           NewPotManager(),
		phase:         PhaseInit,
		handlers:      newPhaseHandlers(),
		activePos:     -1,
		startingChips: make(map[int]int, len(seats)),
		logger:        cfg.logger,
		bus:           cfg.bus,
		clock:         cfg.clock,
	}
	if h.id == "" {
		h.id = gameid.Generate()
	}

	dealt := 0
	for i, s := range seats {
		if _, dup := h.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate seat %d", s.ID)
		}
		if s.Chips < 0 {
			return nil, fmt.Errorf("seat %d has negative chips %d", s.ID, s.Chips)
		}
		p := &Player{Seat: s.ID, Name: s.Name, Chips: s.Chips}
		switch {
		case s.SittingOut:
			p.Status = StatusSittingOut
		case s.Chips == 0:
			p.Status = StatusOut
		default:
			p.Status = StatusActive
			dealt++
		}
		h.players = append(h.players, p)
		h.index[s.ID] = i
		h.startingChips[s.ID] = s.Chips
		h.initialChips += s.Chips
	}
	if dealt < MinPlayers {
		return nil, fmt.Errorf("%w: %d of %d seats can play", ErrNotEnoughPlayers, dealt, len(seats))
	}

	pos, ok := h.index[dealerSeat]
	if !ok || !h.players[pos].DealtIn() {
		return nil, fmt.Errorf("dealer seat %d is not dealt in", dealerSeat)
	}
	h.dealerPos = pos

	if cfg.deck != nil {
		if err := cfg.deck.Verify(); err != nil {
			return nil, err
		}
		h.deck = cfg.deck
	} else {
		h.deck = poker.NewDeck(rng)
	}

	h.phases = []Phase{PhaseInit}
	return h, nil
}

// Start posts the blinds, deals hole cards and opens preflop betting.
func (h *Hand) Start() error {
	if h.err != nil {
		return h.err
	}
	if h.phase != PhaseInit {
		return fmt.Errorf("hand %s already started", h.id)
	}
	h.startedAt = h.clock.Now()
	h.publish(HandStartedEvent{
		HandID:     h.id,
		DealerSeat: h.players[h.dealerPos].Seat,
		Seats:      h.seatViews(ViewAll),
		SmallBlind: h.rules.SmallBlind,
		BigBlind:   h.rules.BigBlind,
		timestamp:  h.startedAt,
	})
	h.logger.Debug("hand started", "hand", h.id, "dealer", h.players[h.dealerPos].Seat, "players", h.countDealt())
	if err := h.moveTo(PhasePreFlop); err != nil {
		return h.abort(err)
	}
	return nil
}

// Submit validates and applies an action. A rejected action leaves the hand
// unchanged; the result carries its reason code and the error is an
// *ActionError. A fatal invariant violation aborts the hand and is returned by
// every later call.
func (h *Hand) Submit(a Action) (ActionResult, error) {
	if h.err != nil {
		return ActionResult{Action: a, Phase: h.phase}, h.err
	}

	v, err := h.Validate(a)
	if err != nil {
		res := ActionResult{Action: a, Phase: h.phase}
		var ae *ActionError
		if errors.As(err, &ae) {
			res.Code = ae.Code
			res.Reason = ae.Reason
		}
		h.logger.Debug("action rejected", "hand", h.id, "seat", a.Seat, "action", a.Type, "amount", a.Amount, "code", res.Code, "reason", res.Reason)
		return res, err
	}

	h.lastOp = v.Action.String()
	next, err := h.handler().handleAction(h, v)
	if err == nil {
		err = h.moveTo(next)
	}
	if err == nil {
		err = h.CheckInvariants()
	}
	if err != nil {
		return ActionResult{Action: v.Action, Phase: h.phase}, h.abort(err)
	}

	return ActionResult{
		Accepted:  true,
		Action:    v.Action,
		Converted: v.Converted,
		Reason:    v.Reason,
		Phase:     h.phase,
		Finished:  h.phase == PhaseFinished,
	}, nil
}

// ForceSettle ends the hand immediately: outstanding bets are collected, the
// board is run out and the pots are paid from the current state.
func (h *Hand) ForceSettle() error {
	if h.err != nil {
		return h.err
	}
	switch {
	case h.phase == PhaseFinished:
		return nil
	case h.phase == PhaseInit:
		return ErrHandNotStarted
	}

	h.lastOp = "force settle"
	h.logger.Warn("forcing settlement", "hand", h.id, "phase", h.phase)

	if err := h.handler().onExit(h); err != nil {
		return h.abort(err)
	}
	target := PhaseShowdown
	if h.countInHand() <= 1 {
		target = PhaseFinished
	}
	next, err := h.enter(target)
	if err == nil {
		err = h.moveTo(next)
	}
	if err != nil {
		return h.abort(err)
	}
	return nil
}

// moveTo runs transitions until the hand rests in a phase that waits for a
// player or is terminal.
func (h *Hand) moveTo(to Phase) error {
	for i := 0; to != h.phase; i++ {
		if i > int(PhaseFinished) {
			return invariant(ErrInvalidTransition, "phases did not settle, stuck moving %s -> %s", h.phase, to)
		}
		cur := h.handler()
		if !cur.canTransition(to) {
			return invariant(ErrInvalidTransition, "%s -> %s", h.phase, to)
		}
		if err := cur.onExit(h); err != nil {
			return err
		}
		next, err := h.enter(to)
		if err != nil {
			return err
		}
		to = next
	}
	return nil
}

// enter switches to a phase and runs its entry work. It returns the phase the
// hand should move to next, which is the same phase when input is needed.
func (h *Hand) enter(to Phase) (Phase, error) {
	from := h.phase
	h.phase = to
	h.phases = append(h.phases, to)
	h.logger.Debug("phase changed", "hand", h.id, "from", from, "to", to)

	next, err := h.handlers[to].onEnter(h)
	if err != nil {
		return to, err
	}
	h.publish(PhaseChangedEvent{
		HandID:     h.id,
		From:       from,
		To:         to,
		Board:      slices.Clone(h.board),
		ActiveSeat: h.ActiveSeat(),
		timestamp:  h.clock.Now(),
	})
	if err := h.CheckInvariants(); err != nil {
		return to, err
	}
	if to == PhaseFinished && h.result != nil {
		h.publish(HandEndedEvent{HandID: h.id, Result: h.result.clone(), timestamp: h.result.EndedAt})
	}
	return next, nil
}

func (h *Hand) handler() phaseHandler {
	return h.handlers[h.phase]
}

// abort records a fatal error with a full diagnostic. Later calls return it.
func (h *Hand) abort(err error) error {
	var inv *InvariantError
	if !errors.As(err, &inv) {
		kind := ErrBettingState
		switch {
		case errors.Is(err, ErrEmptyDeck):
			kind = ErrEmptyDeck
		case errors.Is(err, ErrDeckIntegrity):
			kind = ErrDeckIntegrity
		case errors.Is(err, ErrInsufficientChips):
			kind = ErrChipConservation
		}
		inv = &InvariantError{Kind: kind, Detail: err.Error()}
	}
	diag := h.diagnose()
	diag.Expected, diag.Actual = inv.Diagnostic.Expected, inv.Diagnostic.Actual
	inv.Diagnostic = diag

	h.err = inv
	h.activePos = -1
	h.logger.Error("hand aborted", "hand", h.id, "err", inv.Kind, "detail", inv.Detail, "diagnostic", diag.String())
	return inv
}

func (h *Hand) diagnose() Diagnostic {
	d := Diagnostic{
		HandID:  h.id,
		Phase:   h.phase,
		LastOp:  h.lastOp,
		MainPot: h.pot.MainPot(),
	}
	for _, sp := range h.pot.SidePots() {
		d.SidePots = append(d.SidePots, sp.Amount)
	}
	for _, p := range h.players {
		d.Seats = append(d.Seats, SeatDiagnostic{
			Seat:     p.Seat,
			Name:     p.Name,
			Chips:    p.Chips,
			RoundBet: p.Bet,
			TotalBet: p.TotalBet,
			Status:   p.Status,
		})
	}
	return d
}

func (h *Hand) publish(ev GameEvent) {
	if h.bus != nil {
		h.bus.Publish(ev)
	}
}

// Accessors

// ID returns the hand identifier.
func (h *Hand) ID() string { return h.id }

// Phase returns the current phase.
func (h *Hand) Phase() Phase { return h.phase }

// Rules returns the betting limits of the hand.
func (h *Hand) Rules() Rules { return h.rules }

// Err returns the fatal error that aborted the hand, if any.
func (h *Hand) Err() error { return h.err }

// IsFinished reports whether the hand has been settled.
func (h *Hand) IsFinished() bool { return h.phase == PhaseFinished }

// CurrentBet returns the highest round bet.
func (h *Hand) CurrentBet() int { return h.currentBet }

// MinRaise returns the current minimum raise increment.
func (h *Hand) MinRaise() int { return h.minRaise }

// Board returns a copy of the community cards.
func (h *Hand) Board() []poker.Card { return slices.Clone(h.board) }

// DealerSeat returns the button's seat id.
func (h *Hand) DealerSeat() int { return h.players[h.dealerPos].Seat }

// ActiveSeat returns the seat to act, or NoSeat when nobody is.
func (h *Hand) ActiveSeat() int {
	if h.activePos < 0 {
		return NoSeat
	}
	return h.players[h.activePos].Seat
}

// Player returns a copy of the player in seat.
func (h *Hand) Player(seat int) (Player, bool) {
	pos, ok := h.index[seat]
	if !ok {
		return Player{}, false
	}
	p := *h.players[pos]
	p.HoleCards = slices.Clone(p.HoleCards)
	return p, true
}

// Pots returns copies of the collected pot tiers, main pot first.
func (h *Hand) Pots() []Pot { return h.pot.Pots() }

// TotalChipsInPlay returns every chip at the table: stacks, uncollected
// round bets and the pot.
func (h *Hand) TotalChipsInPlay() int {
	total := h.pot.Total()
	for _, p := range h.players {
		total += p.Chips + p.Bet
	}
	return total
}

// Result returns the hand result once the hand has finished.
func (h *Hand) Result() (HandResult, bool) {
	if h.result == nil {
		return HandResult{}, false
	}
	return h.result.clone(), true
}

// Seat helpers

func (h *Hand) countDealt() int {
	n := 0
	for _, p := range h.players {
		if p.DealtIn() {
			n++
		}
	}
	return n
}

func (h *Hand) countInHand() int {
	n := 0
	for _, p := range h.players {
		if p.InHand() {
			n++
		}
	}
	return n
}

// nextDealt returns the next dealt-in position clockwise from pos.
func (h *Hand) nextDealt(pos int) int {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		next := (pos + i) % n
		if h.players[next].DealtIn() {
			return next
		}
	}
	return -1
}

func (h *Hand) needsAction(p *Player) bool {
	return p.CanAct() && (p.LastAction == NoAction || p.Bet < h.currentBet)
}

// nextToAct returns the first position clockwise after pos that still owes
// a decision, or -1.
func (h *Hand) nextToAct(pos int) int {
	n := len(h.players)
	for i := 1; i <= n; i++ {
		next := (pos + i) % n
		if h.needsAction(h.players[next]) {
			return next
		}
	}
	return -1
}

// roundComplete reports whether every player who can act has matched the
// current bet and acted since the last reset. A lone player who can act has
// nobody to bet against once their bet is matched.
func (h *Hand) roundComplete() bool {
	canAct := 0
	for _, p := range h.players {
		if !p.CanAct() {
			continue
		}
		canAct++
		if p.Bet < h.currentBet {
			return false
		}
	}
	if canAct <= 1 {
		return true
	}
	for _, p := range h.players {
		if p.CanAct() && p.LastAction == NoAction {
			return false
		}
	}
	return true
}

// payoutOrder lists seats clockwise from the dealer's left.
func (h *Hand) payoutOrder() []int {
	n := len(h.players)
	order := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		order = append(order, h.players[(h.dealerPos+i)%n].Seat)
	}
	return order
}
