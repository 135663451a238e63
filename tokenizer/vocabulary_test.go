package tokenizer

import (
	"errors"
	"testing"
)

func TestVocabularyEncodeDecode(t *testing.T) {
	vocab := &Vocabulary{
		Values: []string{"low", "er", "", "lower"}, // id 2 unassigned
	}

	for id, symbol := range map[int32]string{0: "low", 1: "er", 3: "lower"} {
		if got := vocab.Encode(symbol); got != id {
			t.Errorf("Encode(%q) = %d, want %d", symbol, got, id)
		}

		got, err := vocab.Decode(id)
		if err != nil {
			t.Fatalf("Decode(%d): %v", id, err)
		}
		if got != symbol {
			t.Errorf("Decode(%d) = %q, want %q", id, got, symbol)
		}
	}

	if got := vocab.Encode("missing"); got != -1 {
		t.Errorf("Encode(missing) = %d, want -1", got)
	}

	for _, id := range []int32{-1, 2, 4, 999999} {
		if _, err := vocab.Decode(id); !errors.Is(err, ErrUnknownTokenID) {
			t.Errorf("Decode(%d) error = %v, want ErrUnknownTokenID", id, err)
		}
	}
}

func TestVocabularyMerge(t *testing.T) {
	vocab := &Vocabulary{
		Merges: []string{"a b", "c d", "a b"}, // duplicate rule at rank 2
	}

	if got := vocab.Merge("a", "b"); got != 0 {
		t.Errorf("Merge(a, b) = %d, want 0 (first occurrence wins)", got)
	}
	if got := vocab.Merge("c", "d"); got != 1 {
		t.Errorf("Merge(c, d) = %d, want 1", got)
	}
	if got := vocab.Merge("b", "a"); got != -1 {
		t.Errorf("Merge(b, a) = %d, want -1", got)
	}
}
