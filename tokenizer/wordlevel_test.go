package tokenizer

import (
	"errors"
	"reflect"
	"testing"
)

func TestWordLevelEncode(t *testing.T) {
	w := NewWordLevel(&Vocabulary{Values: []string{"hello", "world", "\n"}})

	tests := []struct {
		name  string
		input string
		want  []int32
	}{
		{"empty", "", []int32{}},
		{"single word", "hello", []int32{0}},
		{"two words", "hello world", []int32{0, 1}},
		{"collapsed whitespace", "hello   world", []int32{0, 1}},
		{"interior newline", "hello\nworld", []int32{0, 2, 1}},
		{"trailing newline kept", "hello\nworld\n", []int32{0, 2, 1, 2}},
		{"only newline", "\n", []int32{2}},
		{"newline then word", "\nhello", []int32{2, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.Encode(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Encode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestWordLevelEncodeUnknownWord(t *testing.T) {
	w := NewWordLevel(&Vocabulary{Values: []string{"hello"}})

	if _, err := w.Encode("goodbye"); !errors.Is(err, ErrUnknownWord) {
		t.Errorf("Encode error = %v, want ErrUnknownWord", err)
	}
}

func TestWordLevelNoNewlineToken(t *testing.T) {
	w := NewWordLevel(&Vocabulary{Values: []string{"a"}})

	got, err := w.Encode("a\na")
	if err != nil {
		t.Fatal(err)
	}
	// line structure is dropped when the vocabulary has no newline entry
	if want := []int32{0, 0}; !reflect.DeepEqual(got, want) {
		t.Errorf("Encode = %v, want %v", got, want)
	}
}

func TestWordLevelDecode(t *testing.T) {
	w := NewWordLevel(&Vocabulary{Values: []string{"hello", "world", "\n"}})

	tests := []struct {
		ids  []int32
		want string
	}{
		{[]int32{}, ""},
		{[]int32{0, 1}, "hello world"},
		{[]int32{0, 2, 1}, "hello\nworld"},
	}

	for _, tt := range tests {
		got, err := w.Decode(tt.ids)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("Decode(%v) = %q, want %q", tt.ids, got, tt.want)
		}
	}

	if _, err := w.Decode([]int32{7}); !errors.Is(err, ErrUnknownTokenID) {
		t.Errorf("Decode(7) error = %v, want ErrUnknownTokenID", err)
	}
}
