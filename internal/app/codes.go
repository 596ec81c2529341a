package app

import (
	"crypto/rand"

	"lowlife/internal/domain"
)

const (
	// DefaultRoomCodeLength is the default length for room codes
	DefaultRoomCodeLength = 5

	// maxCodeAttempts bounds collision resampling. At 32^5 possible codes
	// this is only ever hit if the registry is pathologically full.
	maxCodeAttempts = 64
)

// RoomCodeChars are characters used for room codes (no ambiguous chars)
const RoomCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateRoomCode generates a random room code of the given length
func generateRoomCode(length int) string {
	b := make([]byte, length)
	rand.Read(b)

	code := make([]byte, length)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}

	return string(code)
}

// newUniqueCode resamples until it finds a code that taken does not report
// as in use, failing with ErrCapacityExceeded rather than looping forever.
func newUniqueCode(length int, taken func(string) bool) (string, error) {
	for attempts := 0; attempts < maxCodeAttempts; attempts++ {
		code := generateRoomCode(length)
		if !taken(code) {
			return code, nil
		}
	}
	return "", domain.ErrCapacityExceeded
}
