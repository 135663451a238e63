package tokenizer

import "strings"

// GPT-2 tokenizes over a remapped alphabet where every raw byte is a
// printable rune, so the pretokenizer never sees a control character or a
// bare space inside a chunk. Printable Latin-1 bytes map to themselves and
// the remaining 68 byte values are displaced to 0x100 and up, assigned in
// byte order: 0x00..0x20 -> 0x100..0x120, 0x7f..0xa0 -> 0x121..0x142,
// 0xad -> 0x143.
var byteToRune [256]rune

// runeToByte inverts byteToRune. A rune absent from this map is outside the
// alphabet and decoding must fail with ErrUnmappedRune.
var runeToByte map[rune]byte

func init() {
	runeToByte = make(map[rune]byte, 256)
	for b := 0; b < 256; b++ {
		r := rune(b)
		switch {
		case r == 0x00ad:
			r = 0x0143
		case r <= 0x0020:
			r += 0x0100
		case r >= 0x007f && r <= 0x00a0:
			r += 0x00a2
		}
		byteToRune[b] = r
		runeToByte[r] = byte(b)
	}
}

// encodeBytes remaps every raw byte of s into the byte-level alphabet.
func encodeBytes(s string) string {
	var sb strings.Builder
	for _, b := range []byte(s) {
		sb.WriteRune(byteToRune[b])
	}
	return sb.String()
}
