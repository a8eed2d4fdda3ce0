// Package auth provides password hashing, bearer tokens and key generation.
package auth

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// Short key format: 6 characters from [A-Za-z0-9].
const (
	KeyLength   = 6
	KeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// maxUnbiasedByte is the largest multiple of len(KeyAlphabet) that fits in a byte.
// Bytes at or above it are discarded so every character is equally likely.
const maxUnbiasedByte = 256 - 256%len(KeyAlphabet)

var keyFormatRegex = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)

// GenerateKey returns a new random short key drawn from crypto/rand.
// Each call is an independent draw.
func GenerateKey() string {
	out := make([]byte, 0, KeyLength)
	buf := make([]byte, KeyLength*2)

	for len(out) < KeyLength {
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(fmt.Sprintf("auth: read random bytes: %v", err))
		}
		for _, b := range buf {
			if int(b) >= maxUnbiasedByte {
				continue
			}
			out = append(out, KeyAlphabet[int(b)%len(KeyAlphabet)])
			if len(out) == KeyLength {
				break
			}
		}
	}

	return string(out)
}

// ValidateKeyFormat checks if the key matches the generated key format.
func ValidateKeyFormat(key string) bool {
	return keyFormatRegex.MatchString(key)
}
