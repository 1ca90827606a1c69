package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-engine/internal/game"
	"github.com/lox/holdem-engine/poker"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func seats(chips ...int) []game.Seat {
	out := make([]game.Seat, len(chips))
	for i, c := range chips {
		out[i] = game.Seat{ID: i, Name: string(rune('a' + i)), Chips: c}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, s := range Strategies() {
		agent, err := New(string(s), poker.NewRand(1), quietLogger())
		require.NoError(t, err, s)
		assert.NotNil(t, agent, s)
	}

	agent, err := New("CALL", nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &CallBot{}, agent)

	_, err = New("random", nil, quietLogger())
	assert.Error(t, err)

	_, err = New("shark", poker.NewRand(1), quietLogger())
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestFoldBot(t *testing.T) {
	t.Parallel()
	h, err := game.NewHand(poker.NewRand(3), game.DefaultRules(), seats(100, 100, 100), 0)
	require.NoError(t, err)
	require.NoError(t, h.Start())

	bot := NewFoldBot(quietLogger())
	d := bot.MakeDecision(h.Snapshot(h.ActiveSeat()))
	assert.Equal(t, game.Action{Seat: 0, Type: game.Fold}, d.Action)
	assert.NotEmpty(t, d.Reasoning)

	// Call around to give the big blind a free option.
	for _, seat := range []int{0, 1} {
		_, err := h.Submit(game.Action{Seat: seat, Type: game.Call})
		require.NoError(t, err)
	}
	d = bot.MakeDecision(h.Snapshot(h.ActiveSeat()))
	assert.Equal(t, game.Action{Seat: 2, Type: game.Check}, d.Action)
}

func TestChartBotPushesPremiumShortStack(t *testing.T) {
	t.Parallel()
	// Dealing starts left of the button: seat 1, 2, 0, then again.
	deck, err := poker.NewDeckFromCards(poker.MustParseCards("2c 3d As 7h 8d Ad")...)
	require.NoError(t, err)
	h, err := game.NewHand(nil, game.DefaultRules(), seats(30, 100, 100), 0, game.WithDeck(deck))
	require.NoError(t, err)
	require.NoError(t, h.Start())

	d := NewChartBot(quietLogger()).MakeDecision(h.Snapshot(0))
	assert.Equal(t, game.AllIn, d.Action.Type)
	assert.Equal(t, 30, d.Action.Amount)
	assert.Contains(t, d.Reasoning, "Premium")
}

func TestChartBotFoldsTrash(t *testing.T) {
	t.Parallel()
	deck, err := poker.NewDeckFromCards(poker.MustParseCards("As Ks 2c Ah Kh 7d")...)
	require.NoError(t, err)
	h, err := game.NewHand(nil, game.DefaultRules(), seats(100, 100, 100), 0, game.WithDeck(deck))
	require.NoError(t, err)
	require.NoError(t, h.Start())

	d := NewChartBot(quietLogger()).MakeDecision(h.Snapshot(0))
	assert.Equal(t, game.Fold, d.Action.Type)
}

func TestCallBotFoldsRiverToOverbet(t *testing.T) {
	t.Parallel()
	h, err := game.NewHand(poker.NewRand(9), game.DefaultRules(), seats(1000, 1000), 0)
	require.NoError(t, err)
	require.NoError(t, h.Start())

	// Check it down to the river.
	for h.Phase() != game.PhaseRiver {
		seat := h.ActiveSeat()
		a := game.Action{Seat: seat, Type: game.Check}
		if h.Snapshot(seat).ToCall() > 0 {
			a.Type = game.Call
		}
		_, err := h.Submit(a)
		require.NoError(t, err)
	}
	_, err = h.Submit(game.Action{Seat: h.ActiveSeat(), Type: game.Bet, Amount: 100})
	require.NoError(t, err)

	d := NewCallBot(quietLogger()).MakeDecision(h.Snapshot(h.ActiveSeat()))
	assert.Equal(t, game.Fold, d.Action.Type)
}

// TestBotsPlayLegally runs every strategy through full sessions and requires
// the engine to accept every decision.
func TestBotsPlayLegally(t *testing.T) {
	t.Parallel()

	for _, strategy := range Strategies() {
		t.Run(string(strategy), func(t *testing.T) {
			t.Parallel()
			rng := poker.NewRand(11)
			agents := make([]game.Agent, 6)
			for i := range agents {
				// Mix in a random bot so passive strategies still see action.
				name := string(strategy)
				if i%2 == 1 {
					name = string(StrategyRandom)
				}
				agent, err := New(name, poker.NewRand(int64(i)), quietLogger())
				require.NoError(t, err)
				agents[i] = agent
			}

			table, err := game.NewTable(rng, game.DefaultRules(), seats(200, 200, 200, 200, 200, 200))
			require.NoError(t, err)

			for hand := 0; hand < 50 && table.Playable() >= game.MinPlayers; hand++ {
				h, err := table.NextHand()
				require.NoError(t, err)
				for steps := 0; !h.IsFinished(); steps++ {
					require.Less(t, steps, 500)
					seat := h.ActiveSeat()
					d := agents[seat].MakeDecision(h.Snapshot(seat))
					_, err := h.Submit(d.Action)
					require.NoError(t, err, "%s: %s", d.Action, d.Reasoning)
				}
				require.NoError(t, table.Complete(h))
				require.Equal(t, 1200, table.TotalChips())
			}
		})
	}
}
