package history

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateID returns "YYYYMMDD_HHMMSS_<6 hex digits>" for t.
func GenerateID(t time.Time) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating history ID: %w", err)
	}
	return t.Format("20060102_150405") + "_" + hex.EncodeToString(b), nil
}
