package embedding

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// PromptHash returns a fast non-cryptographic hash of the prompt, computed
// over the lowercased, whitespace-trimmed text. The same hash keys both the
// classification cache and the audit log so entries correlate.
func PromptHash(prompt string) string {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(prompt))))
	return fmt.Sprintf("%016x", h.Sum64())
}
