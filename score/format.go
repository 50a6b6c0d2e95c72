package score

import (
	"fmt"
	"strings"
)

const (
	RankingTitle = "Meilleurs scores"
	EmptyRanking = "Pas encore d'historique de score,\nfais un bon score pour figurer\nen haut du classement !"
)

// FormatRanking renders entries as a numbered list, one per line.
func FormatRanking(entries []Entry) string {
	if len(entries) == 0 {
		return EmptyRanking
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s - %d", i+1, e.Pseudo, e.Score)
	}
	return b.String()
}
