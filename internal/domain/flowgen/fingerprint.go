package flowgen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

type fingerprintInput struct {
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	SourceText  string `json:"source_text,omitempty"`
}

// ComputeFingerprint hashes the fields that determine generated content.
// Flow name, color and timezone do not participate.
func ComputeFingerprint(description string, start, end time.Time, sourceText string) Fingerprint {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding a struct of strings cannot fail
	_ = enc.Encode(fingerprintInput{
		Description: description,
		StartDate:   FormatDate(start),
		EndDate:     FormatDate(end),
		SourceText:  sourceText,
	})
	sum := sha256.Sum256(bytes.TrimRight(buf.Bytes(), "\n"))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Fingerprint returns the content hash of the request.
func (r GenerationRequest) Fingerprint() Fingerprint {
	return ComputeFingerprint(r.Description, r.StartDate, r.EndDate, r.SourceText)
}
