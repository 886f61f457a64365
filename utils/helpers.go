package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
)

// GetEnv returns the value of the environment variable or a fallback when the
// variable is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// CreateFolder creates the directory (and parents) if it does not exist yet.
func CreateFolder(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create folder %q: %w", path, err)
		}
	}
	return nil
}

// GenerateUniqueID returns a random 16-character hex identifier.
func GenerateUniqueID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "0000000000000000"
	}
	return hex.EncodeToString(buf)
}
