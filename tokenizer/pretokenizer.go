package tokenizer

import "github.com/dlclark/regexp2"

// byteLevelPattern is the GPT-2 pretokenizer, e.g.
// https://github.com/huggingface/tokenizers/blob/main/tokenizers/src/pre_tokenizers/byte_level.rs#L44
// Alternation order is load-bearing: contraction suffixes win over the
// letter run, and \s+(?!\S) captures whitespace runs while leaving the last
// space attached to a following word. The lookahead rules out the standard
// library regexp engine.
//
// The contraction suffixes are intentionally case sensitive: "'S" splits
// as "'" + "S" while "'s" stays whole. The GPT-2 vocabulary was trained
// against that behavior, so matching it matters more than consistency.
const byteLevelPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

var byteLevelRegexp = regexp2.MustCompile(byteLevelPattern, regexp2.Unicode|regexp2.RE2)

// pretokenize splits s into chunks, longest match per position. Matches are
// contiguous under byteLevelPattern, so the chunks concatenate back to s.
func pretokenize(s string) []string {
	var chunks []string
	for m, _ := byteLevelRegexp.FindStringMatch(s); m != nil; m, _ = byteLevelRegexp.FindNextMatch(m) {
		chunks = append(chunks, m.String())
	}

	return chunks
}
