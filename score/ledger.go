// Package score keeps the persisted top-5 ranking.
package score

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
)

const (
	// StorageKey is the store key the ranking is serialized under.
	StorageKey = "suika_best_scores"
	// MaxEntries is the ranking length.
	MaxEntries = 5
	// MaxPseudoLen caps pseudos, counted in runes.
	MaxPseudoLen = 8
	// DefaultPseudo replaces an empty or cancelled name.
	DefaultPseudo = "Anonyme"
)

var ErrNilStore = errors.New("score: store is nil")

// Entry is one ranked result.
type Entry struct {
	Pseudo string `json:"pseudo"`
	Score  int    `json:"score"`
}

// Store is a string key-value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Ledger reads and rewrites the ranking through a Store.
type Ledger struct {
	store Store
	key   string
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, key: StorageKey}
}

// BestScores returns the stored ranking. Absent or malformed data reads as
// an empty ranking.
func (l *Ledger) BestScores() []Entry {
	if l == nil || l.store == nil {
		return []Entry{}
	}
	raw, ok := l.store.Get(l.key)
	if !ok || raw == "" {
		return []Entry{}
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("score: ignoring malformed %s: %v", l.key, err)
		return []Entry{}
	}
	if entries == nil {
		return []Entry{}
	}
	return entries
}

// AddScore inserts e, keeps the best MaxEntries and rewrites the whole list.
// The ranked list is returned even when persisting fails.
func (l *Ledger) AddScore(e Entry) ([]Entry, error) {
	if l == nil || l.store == nil {
		return Rank([]Entry{e}), ErrNilStore
	}
	ranked := Rank(append(l.BestScores(), e))
	b, err := json.Marshal(ranked)
	if err != nil {
		return ranked, fmt.Errorf("score: encode ranking: %w", err)
	}
	if err := l.store.Set(l.key, string(b)); err != nil {
		return ranked, fmt.Errorf("score: save ranking: %w", err)
	}
	return ranked, nil
}

// Clear empties the stored ranking.
func (l *Ledger) Clear() error {
	if l == nil || l.store == nil {
		return ErrNilStore
	}
	if err := l.store.Set(l.key, "[]"); err != nil {
		return fmt.Errorf("score: clear ranking: %w", err)
	}
	return nil
}

// Qualifies reports whether a final score enters the ranking: always while
// the ranking is not full, otherwise only by beating the last entry.
func (l *Ledger) Qualifies(score int) bool {
	best := l.BestScores()
	if len(best) < MaxEntries {
		return true
	}
	return score > best[len(best)-1].Score
}

// Rank sorts entries by descending score, ties keeping insertion order, and
// truncates to MaxEntries. The input slice is not modified.
func Rank(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}

// NormalizePseudo truncates name to MaxPseudoLen runes and substitutes
// DefaultPseudo when the prompt was cancelled or left empty.
func NormalizePseudo(name string, ok bool) string {
	if !ok {
		return DefaultPseudo
	}
	r := []rune(name)
	if len(r) > MaxPseudoLen {
		r = r[:MaxPseudoLen]
	}
	if len(r) == 0 {
		return DefaultPseudo
	}
	return string(r)
}
