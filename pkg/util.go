package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"
	"unsafe"
)

const scaffoldSuffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// GenerateRandomBytes returns securely generated random bytes.
// It will return an error if the system's secure random
// number generator fails to function correctly, in which
// case the caller should not continue
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	// Note that err == nil only if we read len(b) bytes.
	if err != nil {
		return nil, err
	}

	return b, nil
}

// GenerateRandomString returns a URL-safe, base64 encoded
// securely generated random string.
func GenerateRandomString(s int) (string, error) {
	b, err := GenerateRandomBytes(s)
	return base64.URLEncoding.EncodeToString(b), err
}

// NewScaffoldID makes a collision-resistant opaque id: millisecond
// timestamp plus a short random suffix. Used for exercise and set
// entries living inside a workout payload, where the backend never
// assigns a primary key of its own.
func NewScaffoldID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), randomSuffix(9))
}

func randomSuffix(n int) string {
	suffix := make([]byte, n)
	max := big.NewInt(int64(len(scaffoldSuffixAlphabet)))
	for i := range suffix {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing is not recoverable here, fall back to a fixed char
			suffix[i] = scaffoldSuffixAlphabet[0]
			continue
		}
		suffix[i] = scaffoldSuffixAlphabet[idx.Int64()]
	}
	return BytesToString(suffix)
}
