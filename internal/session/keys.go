package session

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// DeriveKey maps a caller identity and the simulation flag to the store key.
// The raw identity never reaches the store.
func DeriveKey(identity string, simulate bool) string {
	sum := blake2b.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:]) + "-" + strconv.FormatBool(simulate)
}

// PlayerID is the short public handle of an identity used on the leaderboard.
func PlayerID(identity string) string {
	sum := blake2b.Sum256([]byte(identity))
	return hex.EncodeToString(sum[:6])
}
