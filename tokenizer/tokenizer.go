// Package tokenizer implements GPT-2 style byte-level byte pair encoding:
// text is pretokenized into chunks, each chunk's bytes are remapped into a
// printable unicode alphabet, and adjacent symbols are merged greedily by
// rank until no learned merge applies. The resulting symbols map to integer
// token ids through a fixed vocabulary, and decoding reverses the chain
// byte for byte.
//
// Three backends share the TextProcessor contract: BytePairEncoding is the
// reference implementation, Linewise drives the same engine one line at a
// time, and WordLevel treats whitespace-delimited words as atomic entries.
// GetEncoder picks one from the data files present for a named
// configuration.
package tokenizer

import "errors"

// EndOfText is the reserved document separator. Input is split on it before
// pretokenization, so it is never partially merged with surrounding text.
const EndOfText = "<|endoftext|>"

// TextProcessor is the contract shared by all tokenizer backends. Encode
// and Decode are synchronous and perform no I/O; all file reading happens
// at construction.
type TextProcessor interface {
	Encode(s string) ([]int32, error)
	Decode(ids []int32) (string, error)
}

var (
	// ErrEndOfTextMissing reports a vocabulary that lacks the reserved
	// separator. This is a configuration error raised at construction.
	ErrEndOfTextMissing = errors.New("vocabulary does not define " + EndOfText)

	// ErrUnknownTokenID reports a decode id outside the vocabulary.
	ErrUnknownTokenID = errors.New("unknown token id")

	// ErrUnknownSymbol reports a merged symbol absent from the vocabulary,
	// which means the vocabulary and merge rules do not belong together.
	ErrUnknownSymbol = errors.New("symbol not in vocabulary")

	// ErrUnmappedRune reports a decoded symbol containing a rune outside
	// the byte-level alphabet, i.e. a corrupted or foreign token stream.
	ErrUnmappedRune = errors.New("rune outside byte-level alphabet")

	// ErrInvalidUTF8 reports decoded bytes that do not form valid UTF-8.
	// Only returned under WithStrictDecode; the default policy substitutes
	// U+FFFD instead.
	ErrInvalidUTF8 = errors.New("decoded bytes are not valid utf-8")

	// ErrUnknownWord reports an out-of-vocabulary word in the whitespace
	// backend, which has no sub-word fallback.
	ErrUnknownWord = errors.New("word not in vocabulary")
)
