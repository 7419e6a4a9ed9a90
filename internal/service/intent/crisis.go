package intent

import (
	"strings"

	"github.com/mendapp/mend/internal/domain"
)

// crisisPhrases is the union of every crisis list used by chat and
// reflection. Matching is case-insensitive substring.
var crisisPhrases = []string{
	"kill myself",
	"suicide",
	"end it all",
	"want to die",
	"self harm",
	"self-harm",
	"hurt myself",
	"not worth living",
	"better off dead",
	"don't want to live",
	"cutting",
	"overdose",
	"no reason to live",
	"can't go on",
}

// ContainsCrisis reports whether text contains crisis language.
func ContainsCrisis(text string) bool {
	return containsAny(strings.ToLower(text), crisisPhrases)
}

// RecentCrisis reports whether any of the last n messages, of either role,
// contains crisis language.
func RecentCrisis(msgs []domain.Message, n int) bool {
	start := len(msgs) - n
	if start < 0 {
		start = 0
	}
	for _, m := range msgs[start:] {
		if ContainsCrisis(m.Content) {
			return true
		}
	}
	return false
}
