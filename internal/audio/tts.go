package audio

import (
	"fmt"
	"net/url"

	"github.com/solstice-bots/vocalis/internal/config"
)

// TTSCandidates expands the configured TTS endpoint templates with the
// URL-escaped text. Endpoint order is candidate priority: the primary format
// first, lower-fidelity fallbacks after it.
func TTSCandidates(endpoints []config.TTSEndpoint, text string) []string {
	escaped := url.QueryEscape(text)

	candidates := make([]string, 0, len(endpoints))
	for _, ep := range endpoints {
		candidates = append(candidates, fmt.Sprintf(ep.URL, escaped))
	}

	return candidates
}
