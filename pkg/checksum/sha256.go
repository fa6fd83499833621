package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// FromBytes returns the hex-encoded SHA-256 digest of data. The digest doubles
// as the content-addressed storage key for uploaded files.
func FromBytes(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

func FromReader(r io.Reader) (string, error) {
	hasher := sha256.New()
	if _, err := io.Copy(hasher, r); err != nil {
		return "", fmt.Errorf("failed to copy content to hasher: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
