// Package kb is a keyword-scored knowledge base. Entries carry curated
// keywords; queries are tokenized, accent-folded and ranked without any
// model calls, which keeps most answers off the LLM path.
package kb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"bot-pedidos/internal/util"
)

// Entry is one retrievable fact.
type Entry struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Content  string   `json:"content"`
	Keywords []string `json:"keywords,omitempty"`
}

// Match pairs an entry with its relevance score.
type Match struct {
	Entry Entry
	Score int
}

// Scoring weights. A direct keyword hit outweighs a plain content mention;
// anything under the threshold is noise.
const (
	keywordHitScore   = 3
	contentHitScore   = 1
	minRelevanceScore = 2
)

// Base holds the loaded entries. Reload swaps them atomically so admin
// reloads do not disturb in-flight searches.
type Base struct {
	mu      sync.RWMutex
	entries []Entry
	path    string
	logger  *slog.Logger
}

// Load reads entries from a JSON file. A missing file yields an empty base.
func Load(path string, logger *slog.Logger) (*Base, error) {
	b := &Base{
		path:   path,
		logger: logger.With("component", "kb"),
	}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromEntries builds a base from in-memory entries.
func FromEntries(entries []Entry, logger *slog.Logger) *Base {
	return &Base{
		entries: entries,
		logger:  logger.With("component", "kb"),
	}
}

// Reload re-reads the backing file and swaps in the new entries.
func (b *Base) Reload() error {
	if b.path == "" {
		return nil
	}

	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			b.logger.Warn("knowledge base file not found", "path", b.path)
			b.mu.Lock()
			b.entries = nil
			b.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read knowledge base: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse knowledge base: %w", err)
	}

	b.mu.Lock()
	b.entries = entries
	b.mu.Unlock()
	b.logger.Info("knowledge base loaded", "entries", len(entries))
	return nil
}

// Len returns the number of loaded entries.
func (b *Base) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Search ranks entries against the query. Tokens must be longer than two
// characters; ties keep insertion order so curated entries win.
func (b *Base) Search(query string, topK int) []Match {
	if topK <= 0 {
		topK = 3
	}
	tokens := util.Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	var matches []Match
	for _, entry := range b.entries {
		score := scoreEntry(entry, tokens)
		if score >= minRelevanceScore {
			matches = append(matches, Match{Entry: entry, Score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

func scoreEntry(entry Entry, tokens []string) int {
	folded := util.Normalize(entry.Content)
	var score int
	for _, token := range tokens {
		hit := false
		for _, kw := range entry.Keywords {
			if util.Normalize(kw) == token {
				score += keywordHitScore
				hit = true
				break
			}
		}
		if !hit && strings.Contains(folded, token) {
			score += contentHitScore
		}
	}
	return score
}

// ContextForLLM renders the top matches as a numbered context block for the
// generation prompt.
func (b *Base) ContextForLLM(query string, maxEntries int) string {
	matches := b.Search(query, maxEntries)
	if len(matches) == 0 {
		return "No se encontró información relevante en la base de conocimiento."
	}

	var sb strings.Builder
	sb.WriteString("Información relevante:\n\n")
	for i, m := range matches {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, m.Entry.Content)
	}
	return sb.String()
}
