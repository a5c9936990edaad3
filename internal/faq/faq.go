// Package faq implements fuzzy matching of user input against a static
// question/answer table loaded from a JSON file at startup.
package faq

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	apperrors "github.com/mrocha/faqbot/internal/errors"
)

// entry pairs a normalized question with its answer. The answer travels with
// the normalized key, so a match never has to be re-associated by position.
type entry struct {
	question   string
	normalized string
	answer     string
}

// Matcher scores user input against FAQ questions and returns the answer of
// the best match above the configured threshold. A Matcher with no entries
// always reports no match.
type Matcher struct {
	entries   []entry
	threshold float64
	metric    *metrics.Levenshtein
	logger    *slog.Logger
}

// New creates a Matcher over the given question->answer mapping. threshold is
// on a 0-100 similarity scale.
func New(faqs map[string]string, threshold float64, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	entries := make([]entry, 0, len(faqs))
	for question, answer := range faqs {
		entries = append(entries, entry{
			question:   question,
			normalized: Normalize(question),
			answer:     answer,
		})
	}
	// Stable iteration keeps scoring deterministic when two keys tie.
	sort.Slice(entries, func(i, j int) bool { return entries[i].question < entries[j].question })

	return &Matcher{
		entries:   entries,
		threshold: threshold,
		metric:    metrics.NewLevenshtein(),
		logger:    logger.With("component", "faq"),
	}
}

// Load reads the FAQ file at path and builds a Matcher. A missing or
// malformed file degrades to an empty matcher instead of failing startup; the
// typed load error is logged and discarded.
func Load(path string, threshold float64, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	faqs, err := readFile(path)
	if err != nil {
		logger.Warn("FAQ file unavailable, matcher degrades to no-match", "path", path, "error", err)
		return New(nil, threshold, logger)
	}

	logger.Info("FAQ table loaded", "path", path, "entries", len(faqs))
	return New(faqs, threshold, logger)
}

func readFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewFAQLoadError("failed to read FAQ file", err)
	}

	var faqs map[string]string
	if err := json.Unmarshal(data, &faqs); err != nil {
		return nil, apperrors.NewFAQLoadError("failed to parse FAQ file", err)
	}
	return faqs, nil
}

// Match returns the answer for the best-scoring FAQ question when its
// similarity to the input is at or above the threshold. The second return
// value reports whether a match was found. Match has no side effects.
func (m *Matcher) Match(input string) (string, bool) {
	if len(m.entries) == 0 {
		return "", false
	}

	normalized := Normalize(input)
	if normalized == "" {
		return "", false
	}

	bestScore := -1.0
	bestIdx := -1
	for i, e := range m.entries {
		score := strutil.Similarity(normalized, e.normalized, m.metric) * 100
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestScore < m.threshold {
		m.logger.Debug("No FAQ match above threshold", "best_score", bestScore, "threshold", m.threshold)
		return "", false
	}

	m.logger.Debug("FAQ match found",
		"question", m.entries[bestIdx].question, "score", bestScore)
	return m.entries[bestIdx].answer, true
}

// Len reports the number of loaded FAQ entries.
func (m *Matcher) Len() int {
	return len(m.entries)
}

// Normalize lowercases the input and strips punctuation, matching the
// normalization applied to FAQ questions at load time.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
