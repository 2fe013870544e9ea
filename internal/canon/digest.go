package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/e2e2d/internal/recording"
)

// DomainRecording prefixes recording digests.
const DomainRecording = "e2e2d/recording/v1"

// hashWithDomain returns hex(SHA256(domain + 0x00 + data)).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest fingerprints the scenario name, outcome and steps of rec. The run
// ID, description and any previous digest are not part of it.
func Digest(rec *recording.Recording) (string, error) {
	steps := make([]any, len(rec.Steps))
	for i, s := range rec.Steps {
		steps[i] = map[string]any{
			"action":              string(s.Action),
			"selector":            s.Selector,
			"doc":                 s.Doc,
			"value":               s.Value,
			"beforeScreenshot":    s.BeforeScreenshot,
			"highlightScreenshot": s.HighlightScreenshot,
			"afterScreenshot":     s.AfterScreenshot,
			"failed":              s.Failed,
		}
	}
	data, err := Marshal(map[string]any{
		"name":    rec.Name,
		"outcome": string(rec.Outcome),
		"steps":   steps,
	})
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainRecording, data), nil
}
