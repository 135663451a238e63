package tokenizer

import (
	"cmp"
	"fmt"
	"strings"
	"unicode/utf8"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/argmaxinc/gpttok/logutil"
)

// DefaultCacheSize bounds the per-chunk merge memo. Merging is a pure
// function of the chunk and the rank table, so eviction only affects
// latency, never output.
const DefaultCacheSize = 1000

// BytePairEncoding is the reference byte-level BPE backend. A single
// instance is safe for concurrent use: the vocabulary maps are built under
// sync.Once and the merge cache is internally synchronized.
type BytePairEncoding struct {
	vocab     *Vocabulary
	cache     *lru.Cache[string, []string]
	cacheSize int
	endOfText int32
	strict    bool
}

var _ TextProcessor = (*BytePairEncoding)(nil)

type Option func(*BytePairEncoding)

// WithStrictDecode makes Decode fail with ErrInvalidUTF8 when the decoded
// bytes do not form valid UTF-8, instead of substituting U+FFFD.
func WithStrictDecode() Option {
	return func(bpe *BytePairEncoding) {
		bpe.strict = true
	}
}

// WithCacheSize overrides DefaultCacheSize for the chunk merge memo. A size
// of zero or less disables caching.
func WithCacheSize(n int) Option {
	return func(bpe *BytePairEncoding) {
		bpe.cacheSize = n
	}
}

func NewBytePairEncoding(vocab *Vocabulary, opts ...Option) (*BytePairEncoding, error) {
	bpe := &BytePairEncoding{
		vocab:     vocab,
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(bpe)
	}

	bpe.endOfText = vocab.Encode(EndOfText)
	if bpe.endOfText < 0 {
		return nil, fmt.Errorf("vocabulary of %d symbols: %w", len(vocab.Values), ErrEndOfTextMissing)
	}

	if bpe.cacheSize > 0 {
		cache, err := lru.New[string, []string](bpe.cacheSize)
		if err != nil {
			return nil, err
		}
		bpe.cache = cache
	}

	return bpe, nil
}

// Vocabulary returns the vocabulary the backend was constructed with.
func (bpe *BytePairEncoding) Vocabulary() *Vocabulary {
	return bpe.vocab
}

// Encode converts s to token ids. The text is first split on EndOfText, so
// n fragments produce n-1 interior separator ids; each fragment is then
// pretokenized, remapped into the byte-level alphabet, merged, and looked
// up in the vocabulary.
func (bpe *BytePairEncoding) Encode(s string) ([]int32, error) {
	ids := []int32{}
	for i, part := range strings.Split(s, EndOfText) {
		if i > 0 {
			ids = append(ids, bpe.endOfText)
		}

		var err error
		if ids, err = bpe.encodeFragment(ids, part); err != nil {
			return nil, err
		}
	}

	logutil.Trace("encoded", "text", s, "ids", ids)
	return ids, nil
}

// encodeFragment appends the ids for one separator-free fragment.
func (bpe *BytePairEncoding) encodeFragment(ids []int32, text string) ([]int32, error) {
	for _, chunk := range pretokenize(text) {
		encoded := encodeBytes(chunk)

		// short circuit chunks that are themselves vocabulary entries
		if id := bpe.vocab.Encode(encoded); id >= 0 {
			ids = append(ids, id)
			continue
		}

		for _, symbol := range bpe.merge(encoded) {
			id := bpe.vocab.Encode(symbol)
			if id < 0 {
				return nil, fmt.Errorf("symbol %q: %w", symbol, ErrUnknownSymbol)
			}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// pair is a candidate merge between the symbols at positions a and b. value
// snapshots both symbols so stale heap entries are recognized after either
// side has been merged away.
type pair struct {
	a, b  int
	rank  int
	value string
}

// symbol is one element of the in-progress word. Positions are stable;
// a merged-away slot keeps its index with nil runes.
type symbol struct {
	prev, next int
	runes      []rune
}

// merge rewrites the remapped chunk into its final symbols by repeatedly
// selecting the lowest-rank adjacent pair and merging all of its
// occurrences. Candidates sit in a heap ordered by rank then position, so
// occurrences of the selected rule merge left to right and never reuse a
// symbol consumed earlier in the same pass.
func (bpe *BytePairEncoding) merge(encoded string) []string {
	if bpe.cache != nil {
		if merged, ok := bpe.cache.Get(encoded); ok {
			return merged
		}
	}

	runes := []rune(encoded)
	word := make([]symbol, len(runes))
	for i := range runes {
		word[i] = symbol{
			prev:  i - 1,
			next:  i + 1,
			runes: []rune{runes[i]},
		}
	}

	pairwise := func(a, b int) *pair {
		if a < 0 || b >= len(word) {
			return nil
		}

		left, right := string(word[a].runes), string(word[b].runes)
		rank := bpe.vocab.Merge(left, right)
		if rank < 0 {
			return nil
		}

		return &pair{a: a, b: b, rank: rank, value: left + right}
	}

	pairs := heap.NewWith(func(i, j *pair) int {
		if n := cmp.Compare(i.rank, j.rank); n != 0 {
			return n
		}
		return cmp.Compare(i.a, j.a)
	})

	for i := 0; i < len(word)-1; i++ {
		if pair := pairwise(i, i+1); pair != nil {
			pairs.Push(pair)
		}
	}

	stale := func(p *pair) bool {
		left, right := word[p.a], word[p.b]
		return len(left.runes) == 0 || len(right.runes) == 0 ||
			left.next != p.b ||
			string(left.runes)+string(right.runes) != p.value
	}

	for !pairs.Empty() {
		cur, _ := pairs.Pop()
		if stale(cur) {
			continue
		}

		// merge every remaining occurrence of this rule left to right
		// before admitting the pairs those merges create. A merge can
		// form a pair of lower rank than the rule being applied; it must
		// wait until the current rule is exhausted, or the result drifts
		// from applying one rule at a time across the whole word.
		rank := cur.rank
		var created []*pair
		for cur != nil {
			left, right := word[cur.a], word[cur.b]
			word[cur.a].runes = append(left.runes, right.runes...)
			word[cur.b].runes = nil

			word[cur.a].next = right.next
			if right.next < len(word) {
				word[right.next].prev = cur.a
			}

			if p := pairwise(word[cur.a].prev, cur.a); p != nil {
				created = append(created, p)
			}
			if p := pairwise(cur.a, word[cur.a].next); p != nil {
				created = append(created, p)
			}

			// equal rank means the same rule: ranks are merge list
			// positions, deduplicated on first occurrence
			cur = nil
			for !pairs.Empty() {
				next, _ := pairs.Peek()
				if next.rank != rank {
					break
				}
				if next, _ = pairs.Pop(); !stale(next) {
					cur = next
					break
				}
			}
		}

		pairs.Push(created...)
	}

	merged := make([]string, 0, len(word))
	for _, sym := range word {
		if len(sym.runes) > 0 {
			merged = append(merged, string(sym.runes))
		}
	}

	if bpe.cache != nil {
		bpe.cache.Add(encoded, merged)
	}

	return merged
}

// Decode maps ids back to symbols, then every symbol rune back to its raw
// byte. Bytes that do not form valid UTF-8 are replaced with U+FFFD unless
// the backend was constructed with WithStrictDecode.
func (bpe *BytePairEncoding) Decode(ids []int32) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		symbol, err := bpe.vocab.Decode(id)
		if err != nil {
			return "", err
		}

		for _, r := range symbol {
			b, ok := runeToByte[r]
			if !ok {
				return "", fmt.Errorf("rune %q in symbol %q: %w", r, symbol, ErrUnmappedRune)
			}

			// the rune stands in for one raw byte; WriteRune would emit its
			// UTF-8 encoding instead
			sb.WriteByte(b)
		}
	}

	text := sb.String()
	if !utf8.ValidString(text) {
		if bpe.strict {
			return "", fmt.Errorf("%d bytes: %w", len(text), ErrInvalidUTF8)
		}
		text = replaceInvalid(text)
	}

	logutil.Trace("decoded", "ids", ids, "text", text)
	return text, nil
}

// replaceInvalid substitutes U+FFFD for each invalid byte individually, so
// two stray bytes yield two replacement characters.
func replaceInvalid(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}

	return sb.String()
}
