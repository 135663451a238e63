package tokenizer

import "testing"

func TestByteLevelBijection(t *testing.T) {
	if len(runeToByte) != 256 {
		t.Fatalf("alphabet has %d runes, want 256", len(runeToByte))
	}

	for b := 0; b < 256; b++ {
		r := byteToRune[b]
		got, ok := runeToByte[r]
		if !ok {
			t.Fatalf("byte 0x%02x maps to %q which has no inverse", b, r)
		}
		if got != byte(b) {
			t.Errorf("byte 0x%02x round-trips to 0x%02x via %q", b, got, r)
		}
	}
}

func TestByteLevelKnownMappings(t *testing.T) {
	cases := []struct {
		b    byte
		want rune
	}{
		{'a', 'a'},
		{'!', '!'},
		{'~', '~'},
		{0xff, 0xff},
		{0x00, 0x0100},
		{'\n', 0x010a},
		{' ', 0x0120}, // Ġ
		{0x7f, 0x0121},
		{0xa0, 0x0142},
		{0xad, 0x0143},
	}

	for _, tt := range cases {
		if got := byteToRune[tt.b]; got != tt.want {
			t.Errorf("byteToRune[0x%02x] = %U, want %U", tt.b, got, tt.want)
		}
	}
}

func TestEncodeBytes(t *testing.T) {
	if got, want := encodeBytes("a b"), "aĠb"; got != want {
		t.Errorf("encodeBytes(\"a b\") = %q, want %q", got, want)
	}

	// every byte of a multi-byte rune is remapped individually
	if got, want := encodeBytes("é"), "Ã©"; got != want {
		t.Errorf("encodeBytes(\"é\") = %q, want %q", got, want)
	}
}
