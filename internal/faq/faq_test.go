package faq_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrocha/faqbot/internal/faq"
)

var testFAQs = map[string]string{
	"What are your opening hours?":  "We are open from 9am to 5pm, Monday to Friday.",
	"How do I reset my password?":   "Use the 'Forgot password' link on the login page.",
	"Where is your office located?": "Our office is at 42 Main Street.",
}

func TestMatch(t *testing.T) {
	t.Parallel()

	m := faq.New(testFAQs, 75, nil)

	tests := []struct {
		name       string
		input      string
		wantAnswer string
		wantMatch  bool
	}{
		{
			name:       "Exact match",
			input:      "What are your opening hours?",
			wantAnswer: "We are open from 9am to 5pm, Monday to Friday.",
			wantMatch:  true,
		},
		{
			name:       "Case and punctuation insensitive",
			input:      "WHAT ARE YOUR OPENING HOURS",
			wantAnswer: "We are open from 9am to 5pm, Monday to Friday.",
			wantMatch:  true,
		},
		{
			name:       "Near match within edit distance",
			input:      "What are your opening hour",
			wantAnswer: "We are open from 9am to 5pm, Monday to Friday.",
			wantMatch:  true,
		},
		{
			name:       "Typo still matches",
			input:      "How do I reset my passwrd?",
			wantAnswer: "Use the 'Forgot password' link on the login page.",
			wantMatch:  true,
		},
		{
			name:      "Unrelated input below threshold",
			input:     "Tell me a story about dragons",
			wantMatch: false,
		},
		{
			name:      "Empty input",
			input:     "",
			wantMatch: false,
		},
		{
			name:      "Punctuation only input",
			input:     "?!...",
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			answer, ok := m.Match(tt.input)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantAnswer, answer)
			} else {
				assert.Empty(t, answer)
			}
		})
	}
}

func TestMatchEmptyTable(t *testing.T) {
	t.Parallel()

	m := faq.New(nil, 75, nil)
	answer, ok := m.Match("What are your opening hours?")
	assert.False(t, ok)
	assert.Empty(t, answer)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "faqs.json")
	content := `{"What are your opening hours?": "We are open from 9am to 5pm."}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m := faq.Load(path, 75, nil)
	require.Equal(t, 1, m.Len())

	answer, ok := m.Match("what are your opening hours")
	assert.True(t, ok)
	assert.Equal(t, "We are open from 9am to 5pm.", answer)
}

func TestLoadMissingFileDegrades(t *testing.T) {
	t.Parallel()

	m := faq.Load(filepath.Join(t.TempDir(), "nope.json"), 75, nil)
	assert.Equal(t, 0, m.Len())

	_, ok := m.Match("What are your opening hours?")
	assert.False(t, ok)
}

func TestLoadMalformedFileDegrades(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "faqs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"broken":`), 0o600))

	m := faq.Load(path, 75, nil)
	assert.Equal(t, 0, m.Len())
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Lowercases", input: "HELLO World", expected: "hello world"},
		{name: "Strips punctuation", input: "what's up, doc?!", expected: "whats up doc"},
		{name: "Trims whitespace", input: "  hi  ", expected: "hi"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, faq.Normalize(tt.input))
		})
	}
}
