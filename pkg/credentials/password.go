// Package credentials generates instance passwords and keeps the
// append-only credentials log.
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultPasswordLength is used when callers pass a non-positive length.
const DefaultPasswordLength = 24

// Alphanumeric only: these passwords end up in shell commands and config
// files, so shell metacharacters are excluded on purpose.
const passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GeneratePassword returns a random alphanumeric password of the given
// length using crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		buf[i] = passwordCharset[n.Int64()]
	}

	return string(buf), nil
}
