package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// GenerateGameID - generates a short numeric ID that players can share to
// join a private game.
func GenerateGameID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate game id: %w", err)
	}

	return fmt.Sprintf("%06d", binary.BigEndian.Uint32(b)%1000000), nil
}

// GenerateNewSessionID - generates a new unique sessionID.
func GenerateNewSessionID() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-session-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}
