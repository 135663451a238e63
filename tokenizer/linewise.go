package tokenizer

import "strings"

// Linewise drives the byte pair encoding engine one line at a time. On
// line-oriented corpora this keeps the merge cache hot and bounds how much
// text a single pretokenizer match can span. Token boundaries can differ
// from BytePairEncoding where a whitespace run crosses a newline, but round
// trips are byte-identical either way, including the presence or absence of
// a trailing newline.
type Linewise struct {
	bpe *BytePairEncoding
}

var _ TextProcessor = (*Linewise)(nil)

func NewLinewise(vocab *Vocabulary, opts ...Option) (*Linewise, error) {
	bpe, err := NewBytePairEncoding(vocab, opts...)
	if err != nil {
		return nil, err
	}

	return &Linewise{bpe: bpe}, nil
}

// Encode tokenizes s line by line. Every line except the last carries its
// terminator, so the final line encodes without one exactly when the input
// did not end with a newline.
func (l *Linewise) Encode(s string) ([]int32, error) {
	ids := []int32{}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i < len(lines)-1 {
			line += "\n"
		}

		// EndOfText contains no newline, so splitting lines first cannot
		// cut a separator in half
		for j, part := range strings.Split(line, EndOfText) {
			if j > 0 {
				ids = append(ids, l.bpe.endOfText)
			}

			var err error
			if ids, err = l.bpe.encodeFragment(ids, part); err != nil {
				return nil, err
			}
		}
	}

	return ids, nil
}

func (l *Linewise) Decode(ids []int32) (string, error) {
	return l.bpe.Decode(ids)
}
