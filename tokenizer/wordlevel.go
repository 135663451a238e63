package tokenizer

import (
	"fmt"
	"strings"
)

// WordLevel treats every whitespace-delimited word as an atomic vocabulary
// entry. There is no byte-level fallback and no sub-word splitting: the
// backend can only encode text whose words were all known at construction,
// and fails fast with ErrUnknownWord otherwise. Interior whitespace runs
// collapse to single spaces, so round trips are not byte-exact either; this
// backend exists for vocabularies built from whitespace-separated corpora,
// not for arbitrary text.
type WordLevel struct {
	vocab *Vocabulary

	// newline is the id of the literal "\n" entry, or -1. When present it
	// is emitted at every line break.
	newline int32
}

var _ TextProcessor = (*WordLevel)(nil)

func NewWordLevel(vocab *Vocabulary) *WordLevel {
	return &WordLevel{
		vocab:   vocab,
		newline: vocab.Encode("\n"),
	}
}

// splitLines splits on "\n" without a final empty line for text that ends
// with a terminator.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" && strings.HasSuffix(s, "\n") {
		lines = lines[:n-1]
	}

	return lines
}

func (w *WordLevel) Encode(s string) ([]int32, error) {
	ids := []int32{}
	for _, line := range splitLines(s) {
		for _, word := range strings.Fields(line) {
			id := w.vocab.Encode(word)
			if id < 0 {
				return nil, fmt.Errorf("word %q: %w", word, ErrUnknownWord)
			}
			ids = append(ids, id)
		}

		if w.newline >= 0 {
			ids = append(ids, w.newline)
		}
	}

	// the loop terminates every line; drop the newline id that the input
	// did not actually end with
	if n := len(ids); n > 0 && w.newline >= 0 && ids[n-1] == w.newline && !strings.HasSuffix(s, "\n") {
		ids = ids[:n-1]
	}

	return ids, nil
}

func (w *WordLevel) Decode(ids []int32) (string, error) {
	words := make([]string, len(ids))
	for i, id := range ids {
		word, err := w.vocab.Decode(id)
		if err != nil {
			return "", err
		}
		words[i] = word
	}

	// newline tokens glue to their neighbors instead of being spaced
	return strings.ReplaceAll(strings.Join(words, " "), " \n ", "\n"), nil
}
