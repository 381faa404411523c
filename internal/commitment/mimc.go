// Package commitment binds a generated board layout to a short public value.
//
// A commitment is MiMC (BN254) over the salt followed by every cell weight,
// each encoded as a 32-byte big-endian field element. Publishing the
// commitment when a map starts and the salt when it ends lets an observer
// check that the hidden board never changed in between.
package commitment

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	bnmimc "github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// SaltSize is kept one byte short of a field element so any salt is
// already reduced modulo the BN254 scalar field.
const SaltSize = 31

var errMalformed = errors.New("malformed commitment input")

// NewSalt returns a fresh hex-encoded random salt.
func NewSalt() (string, error) {
	b := make([]byte, SaltSize)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Commit returns the 0x-prefixed hex commitment for layout under salt.
// Weights must be non-negative (a freshly generated layout).
func Commit(layout []int, salt string) (string, error) {
	raw, err := hex.DecodeString(salt)
	if err != nil || len(raw) > SaltSize {
		return "", fmt.Errorf("%w: salt", errMalformed)
	}
	h := bnmimc.NewMiMC()
	if _, err := h.Write(feBytes(new(big.Int).SetBytes(raw))); err != nil {
		return "", fmt.Errorf("hash salt: %w", err)
	}
	for i, w := range layout {
		if w < 0 {
			return "", fmt.Errorf("%w: negative weight at %d", errMalformed, i)
		}
		if _, err := h.Write(feBytes(big.NewInt(int64(w)))); err != nil {
			return "", fmt.Errorf("hash cell %d: %w", i, err)
		}
	}
	return "0x" + hex.EncodeToString(h.Sum(nil)), nil
}

// Verify recomputes the commitment and compares it with want.
func Verify(layout []int, salt, want string) bool {
	got, err := Commit(layout, salt)
	if err != nil {
		return false
	}
	return strings.EqualFold(got, want)
}

// feBytes encodes x as a 32-byte big-endian field element.
func feBytes(x *big.Int) []byte {
	b := x.Bytes()
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	return append(bytes.Repeat([]byte{0}, 32-len(b)), b...)
}
