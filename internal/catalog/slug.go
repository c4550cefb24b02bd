package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

var slugReplacer = strings.NewReplacer(
	" ", "-",
	".", "dot",
	"#", "sharp",
	"+", "plus",
)

// Slugify maps a display name to its canonical identifier. The mapping is
// deterministic and total: lowercase via Unicode case folding, spaces become
// hyphens, and the punctuation that commonly appears in technology names
// (".", "#", "+") becomes a word token. Characters outside the rule set pass
// through unchanged.
func Slugify(name string) string {
	folded := cases.Fold().String(strings.TrimSpace(name))
	return slugReplacer.Replace(folded)
}
