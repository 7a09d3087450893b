package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jeongsoo1975/blogscout"
)

// Default normalization bounds in runes.
const (
	NormalizerMinLength = 50
	NormalizerMaxLength = 6000
)

// truncationMarker is appended when text is cut to the maximum length.
// The cut leaves room for the marker so the total stays exactly at the
// maximum, which keeps normalization idempotent.
const truncationMarker = "... (content truncated at %d chars)"

// Ensure Normalizer implements blogscout.Normalizer at compile time.
var _ blogscout.Normalizer = (*Normalizer)(nil)

// Normalizer canonicalizes extracted text: whitespace trim, rune-length
// bounds with a truncation marker, UTF-8 repair and NFC normalization.
type Normalizer struct {
	Min    int
	Max    int
	Logger *slog.Logger
}

// NewNormalizer creates a Normalizer with the default bounds.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{
		Min:    NormalizerMinLength,
		Max:    NormalizerMaxLength,
		Logger: logger,
	}
}

// Normalize returns the canonical form of text. Inputs shorter than Min
// runes after trimming are rejected with EINSUFFICIENT; inputs longer
// than Max runes are cut and marked so the result is exactly Max runes.
func (n *Normalizer) Normalize(text string) (string, error) {
	if repaired := strings.ToValidUTF8(text, "�"); repaired != text {
		n.Logger.Warn("replaced invalid UTF-8 sequences in extracted text")
		text = repaired
	}
	text = norm.NFC.String(text)
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) < n.Min {
		return "", blogscout.Errorf(blogscout.EINSUFFICIENT,
			"content too short after normalization: %d characters, need %d", len(runes), n.Min)
	}
	if len(runes) <= n.Max {
		return text, nil
	}

	marker := fmt.Sprintf(truncationMarker, n.Max)
	cut := n.Max - len([]rune(marker))
	if cut < 0 {
		// Ceiling below the marker length: cut without marking so the
		// result still comes out at exactly Max runes.
		n.Logger.Info("content truncated", "from", len(runes), "to", n.Max)
		return string(runes[:n.Max]), nil
	}
	out := string(runes[:cut]) + marker
	n.Logger.Info("content truncated", "from", len(runes), "to", n.Max)
	return out, nil
}
