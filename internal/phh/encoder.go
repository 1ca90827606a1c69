package phh

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"

	"github.com/lox/holdem-engine/internal/fileutil"
	"github.com/lox/holdem-engine/internal/game"
)

// Encode writes the hand history to the provided writer in PHH TOML format.
func Encode(w io.Writer, hand *HandHistory) error {
	if hand == nil {
		return errors.New("phh: hand history is nil")
	}

	enc := toml.NewEncoder(w)
	// Use tabs for arrays to match human expectations
	enc.Indent = "\t"
	return enc.Encode(hand)
}

// EncodeToBytes encodes and returns the result as bytes.
func EncodeToBytes(hand *HandHistory) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, hand); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a single hand history.
func Decode(r io.Reader) (*HandHistory, error) {
	var hand HandHistory
	if _, err := toml.NewDecoder(r).Decode(&hand); err != nil {
		return nil, fmt.Errorf("phh: decode: %w", err)
	}
	return &hand, nil
}

// DecodeSession reads a .phhs file: hands stored in numbered tables
// ("[1]", "[2]", ...). Hands are returned in section order.
func DecodeSession(r io.Reader) ([]*HandHistory, error) {
	var sections map[string]HandHistory
	if _, err := toml.NewDecoder(r).Decode(&sections); err != nil {
		return nil, fmt.Errorf("phh: decode session: %w", err)
	}
	hands := make([]*HandHistory, 0, len(sections))
	for i := 1; i <= len(sections); i++ {
		hand, ok := sections[fmt.Sprint(i)]
		if !ok {
			return nil, fmt.Errorf("phh: session is missing section [%d]", i)
		}
		hands = append(hands, &hand)
	}
	return hands, nil
}

// WriteFile atomically writes one hand history to path.
func WriteFile(path string, hand *HandHistory) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return Encode(w, hand)
	})
}

// WriteSession atomically writes hands to path as a .phhs session, one
// numbered section per hand.
func WriteSession(path string, hands []*HandHistory) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		for i, hand := range hands {
			if i > 0 {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "[%d]\n", i+1); err != nil {
				return err
			}
			if err := Encode(w, hand); err != nil {
				return fmt.Errorf("hand %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// FormatAction converts an accepted action to its PHH string. position is
// the 1-based PHH player index and currentBet the highest round bet before
// the action; an all-in that does not exceed it is a call.
func FormatAction(position int, rec game.ActionRecord, currentBet int) string {
	player := fmt.Sprintf("p%d", position)
	switch rec.Type {
	case game.Fold:
		return player + " f"
	case game.Check, game.Call:
		return player + " cc"
	case game.Bet, game.Raise:
		return fmt.Sprintf("%s cbr %d", player, rec.RoundBet)
	case game.AllIn:
		if rec.RoundBet > currentBet {
			return fmt.Sprintf("%s cbr %d", player, rec.RoundBet)
		}
		return player + " cc"
	default:
		return fmt.Sprintf("# %s %s %d", player, rec.Type, rec.Amount)
	}
}
