// Package gameid generates sortable hand identifiers.
package gameid

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded identifier.
const Length = 26

// Generate creates a new hand ID: a UUIDv7 encoded as a 26-character base32
// string. IDs sort by creation time.
func Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("failed to generate uuid: " + err.Error())
	}
	return Encode(id)
}

// Encode renders a UUID in TypeID base32. The 128 bits are left padded with
// two zero bits, so the first character is always 0-7.
func Encode(id uuid.UUID) string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		var value byte
		for bit := 0; bit < 5; bit++ {
			value <<= 1
			pos := i*5 + bit - 2
			if pos >= 0 && id[pos/8]&(0x80>>(pos%8)) != 0 {
				value |= 1
			}
		}
		b.WriteByte(alphabet[value])
	}
	return b.String()
}

// Decode parses an identifier produced by Encode.
func Decode(s string) (uuid.UUID, error) {
	var id uuid.UUID
	if err := Validate(s); err != nil {
		return id, err
	}
	for i := 0; i < Length; i++ {
		value := byte(strings.IndexByte(alphabet, s[i]))
		for bit := 0; bit < 5; bit++ {
			pos := i*5 + bit - 2
			if pos < 0 || value&(0x10>>bit) == 0 {
				continue
			}
			id[pos/8] |= 0x80 >> (pos % 8)
		}
	}
	return id, nil
}

// Validate checks if an ID is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
