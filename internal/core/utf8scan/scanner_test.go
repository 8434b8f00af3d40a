package utf8scan

import (
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baditaflorin/go_text_charset/internal/adapters/logger"
	"github.com/baditaflorin/go_text_charset/internal/core/domain"
)

const tinyModeLine = "text is shorter than a predefined limit, checking entire buffer"

func newTestScanner(t *testing.T, mutate func(*Config)) *Scanner {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewScanner(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	return s
}

func uncheckedMode(cfg *Config) {
	cfg.TinyBufferThreshold = 0
}

func containsLine(log domain.Diagnostics, fragment string) bool {
	for _, line := range log {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func TestNewScannerRejectsNegativeThreshold(t *testing.T) {
	_, err := NewScanner(Config{TinyBufferThreshold: -1}, logger.NewNopLogger())
	assert.Error(t, err)
}

func TestScanVerdicts(t *testing.T) {
	tests := []struct {
		name      string
		buf       []byte
		valid     bool
		ascii     bool
		diagnosis string
	}{
		{name: "empty", buf: nil, valid: true, ascii: true},
		{name: "ascii with tab and crlf", buf: []byte("Hello,\tworld\r\n"), valid: true, ascii: true},
		{name: "two-byte", buf: []byte("héllo"), valid: true},
		{name: "three-byte", buf: []byte("price: €5"), valid: true},
		{name: "four-byte", buf: []byte("smile \U0001F600"), valid: true},
		{name: "last code point", buf: []byte{0xF4, 0x8F, 0xBF, 0xBF}, valid: true},
		{
			name:      "overlong nul",
			buf:       []byte{0xC0, 0x80},
			diagnosis: "Invalid 2-byte overlong found at 0: [11000000 10000000]",
		},
		{
			name:      "three-byte overlong",
			buf:       []byte{0xE0, 0x80, 0xAF},
			diagnosis: "Invalid 3-byte overlong found at 0: [11100000 10000000 10101111]",
		},
		{
			name:      "surrogate half",
			buf:       []byte{0xED, 0xA0, 0x80},
			diagnosis: "Invalid UTF-16 surrogate half found at 0: [11101101 10100000 10000000]",
		},
		{
			name:      "four-byte overlong",
			buf:       []byte{0xF0, 0x8F, 0xBF, 0xBF},
			diagnosis: "Invalid 4-byte overlong found at 0: [11110000 10001111 10111111 10111111]",
		},
		{
			name:      "above ceiling via F4",
			buf:       []byte{0xF4, 0x90, 0x80, 0x80},
			diagnosis: "Invalid code point U+110000 specified by 4-byte encoding (F4) at 0: [11110100 10010000 10000000 10000000]",
		},
		{
			name:      "above ceiling via F5",
			buf:       []byte{0xF5, 0x80, 0x80, 0x80},
			diagnosis: "Invalid code point specified by 4-byte encoding (non-F4) at 0: [11110101 10000000 10000000 10000000]",
		},
		{
			name:      "truncated at end",
			buf:       []byte{'a', 0xE2},
			diagnosis: "Invalid nr of continuation bytes after leading byte [possible truncation] at 1: [11100010]<end-of-buffer>",
		},
		{
			name:      "unexpected non-continuation",
			buf:       []byte{0xE2, 'A', 'B'},
			diagnosis: "Invalid nr of continuation bytes after leading byte [unexpected non-continuation byte] at 0: [11100010 01000001 01000010]",
		},
		{
			name:      "control char",
			buf:       []byte{'a', 0x01, 'b'},
			diagnosis: "Invalid 1 byte sequence: control char found at 1: [00000001]",
		},
		{
			name:      "delete char",
			buf:       []byte{0x7F},
			diagnosis: "Invalid 1 byte sequence: control char found at 0: [01111111]",
		},
		{
			name:      "stray continuation",
			buf:       []byte{0x80, 'a'},
			diagnosis: "Invalid leading byte found at 0 (assumed length=1): [10000000]",
		},
		{
			name:      "five-byte form",
			buf:       []byte{0xF8, 0x88, 0x80, 0x80, 0x80, 'a'},
			diagnosis: "Invalid leading byte found at 0 (assumed length=5): [11111000 10001000 10000000 10000000 10000000]",
		},
		{
			name:      "six-byte form cut by buffer end",
			buf:       []byte{0xFC, 0x80},
			diagnosis: "Invalid leading byte found at 0 (assumed length=6): [11111100 10000000]<end-of-buffer>",
		},
		{
			name:      "byte FE",
			buf:       []byte{0xFE},
			diagnosis: "Invalid leading byte found at 0 (assumed length=1): [11111110]",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := newTestScanner(t, nil).Scan(tc.buf)

			assert.Equal(t, tc.valid, v.ValidUTF8)
			assert.Equal(t, tc.ascii, v.ASCIIOnly)
			assert.Equal(t, len(tc.buf), v.BytesScanned)
			require.NotEmpty(t, v.Diagnostics)
			assert.Equal(t, tinyModeLine, v.Diagnostics[0])
			if tc.diagnosis != "" {
				assert.Contains(t, v.Diagnostics, tc.diagnosis)
			} else {
				assert.Len(t, v.Diagnostics, 1, "unexpected diagnostics: %v", v.Diagnostics)
			}
		})
	}
}

func TestScanResumesAfterErrors(t *testing.T) {
	buf := []byte{0xE2, 'A', 0xC0, 0x80, 0xED, 0xA0, 0x80, 0xC3, 0xA9}
	v := newTestScanner(t, nil).Scan(buf)

	assert.False(t, v.ValidUTF8)
	assert.False(t, v.ASCIIOnly)
	assert.Equal(t, domain.Diagnostics{
		tinyModeLine,
		"Found invalid UTF-8 sequence",
		"Invalid nr of continuation bytes after leading byte [unexpected non-continuation byte] at 0: [11100010 01000001 11000000]",
		"Found invalid UTF-8 sequence",
		"Invalid 2-byte overlong found at 2: [11000000 10000000]",
		"Found invalid UTF-8 sequence",
		"Invalid UTF-16 surrogate half found at 4: [11101101 10100000 10000000]",
	}, v.Diagnostics)
}

func TestScanSubclassifyDisabled(t *testing.T) {
	s := newTestScanner(t, func(c *Config) { c.SubclassifyOverlongLeads = false })
	v := s.Scan([]byte{0xF8, 0x88, 'a'})

	assert.False(t, v.ValidUTF8)
	assert.Contains(t, v.Diagnostics, "Invalid leading byte found at 0 (assumed length=1): [11111000]")
	assert.Contains(t, v.Diagnostics, "Invalid leading byte found at 1 (assumed length=1): [10001000]")
}

func TestScanFastModeStopsAtFirstError(t *testing.T) {
	s := newTestScanner(t, func(c *Config) { c.DetailedErrors = false })
	v := s.Scan([]byte{0xC0, 0x80, 0xC0, 0x80, 'a'})

	assert.False(t, v.ValidUTF8)
	assert.False(t, v.ASCIIOnly)
	assert.Equal(t, domain.Diagnostics{
		tinyModeLine,
		"Found invalid UTF-8 sequence",
	}, v.Diagnostics)
}

func TestScanUncheckedMode(t *testing.T) {
	t.Run("valid text", func(t *testing.T) {
		v := newTestScanner(t, uncheckedMode).Scan([]byte("naïve café \U0001F600"))
		assert.True(t, v.ValidUTF8)
		assert.False(t, v.ASCIIOnly)
		assert.Empty(t, v.Diagnostics)
	})

	t.Run("trailing margin is examined", func(t *testing.T) {
		v := newTestScanner(t, uncheckedMode).Scan([]byte{'a', 'b', 'c', 'd', 0xE2})
		assert.False(t, v.ValidUTF8)
		assert.True(t, containsLine(v.Diagnostics, "[possible truncation] at 4"))
	})

	t.Run("sequence straddling the margin", func(t *testing.T) {
		v := newTestScanner(t, uncheckedMode).Scan([]byte{'a', 0xF0, 0x9F, 0x98, 0x80})
		assert.True(t, v.ValidUTF8)
		assert.False(t, v.ASCIIOnly)
	})

	t.Run("buffer shorter than the margin", func(t *testing.T) {
		v := newTestScanner(t, uncheckedMode).Scan([]byte{0xC3, 0xA9})
		assert.True(t, v.ValidUTF8)
	})

	t.Run("error inside the unchecked region", func(t *testing.T) {
		v := newTestScanner(t, uncheckedMode).Scan([]byte{0xF4, 0x90, 0x80, 0x80, 'x', 'y', 'z', 'w'})
		assert.False(t, v.ValidUTF8)
		assert.True(t, containsLine(v.Diagnostics, "U+110000"))
	})
}

func TestClassifyFallbacks(t *testing.T) {
	s := newTestScanner(t, nil)

	var log domain.Diagnostics
	buf := []byte(strings.Repeat("A", 20))
	next := s.classify(buf, 0, &log)
	assert.Equal(t, 1, next)
	require.Len(t, log, 1)
	assert.Equal(t, "Unknown UTF-8 error: checked all known UTF-8 error classes, none of them matched at 0 (assumed length=1): "+
		FormatOctets(buf[:16]), log[0])

	log = nil
	next = s.classify([]byte("A"), 0, &log)
	assert.Equal(t, 1, next)
	assert.Equal(t, domain.Diagnostics{
		"Unknown UTF-8 error: checked all 1-byte possibilities, reached end of buffer at position 0: [01000001]<end-of-buffer>",
	}, log)

	log = nil
	assert.Equal(t, 2, s.classify([]byte("AB"), 2, &log))
	assert.Empty(t, log)
}

// randomBuffer mixes valid text with arbitrary bytes.
func randomBuffer(r *rand.Rand) []byte {
	pieces := []string{"a", "Z", " ", "\t", "\n", "é", "€", "\U0001F600", "编", "\x00", "\x7f"}
	var buf []byte
	n := r.Intn(64)
	for i := 0; i < n; i++ {
		if r.Intn(3) == 0 {
			buf = append(buf, byte(r.Intn(256)))
		} else {
			buf = append(buf, pieces[r.Intn(len(pieces))]...)
		}
	}
	return buf
}

func expectedVerdict(buf []byte) (valid, ascii bool) {
	valid, ascii = utf8.Valid(buf), true
	for _, b := range buf {
		if !isASCII7(b) {
			ascii = false
		}
		if isControl(b) {
			valid = false
		}
	}
	return valid, ascii
}

func TestScanMatchesReferenceOnRandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	modes := map[string]func(*Config){
		"checked":   nil,
		"unchecked": uncheckedMode,
		"fast":      func(c *Config) { c.DetailedErrors = false },
		"fast unchecked": func(c *Config) {
			c.DetailedErrors = false
			c.TinyBufferThreshold = 0
		},
	}

	for name, mutate := range modes {
		s := newTestScanner(t, mutate)
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 2000; i++ {
				buf := randomBuffer(r)
				wantValid, wantASCII := expectedVerdict(buf)

				v := s.Scan(buf)
				if v.ValidUTF8 != wantValid || v.ASCIIOnly != wantASCII {
					t.Fatalf("Scan(% X) = valid %v ascii %v, want valid %v ascii %v\n%s",
						buf, v.ValidUTF8, v.ASCIIOnly, wantValid, wantASCII, v.Diagnostics)
				}
			}
		})
	}
}

func TestScanIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := newTestScanner(t, nil)
	for i := 0; i < 200; i++ {
		buf := randomBuffer(r)
		orig := append([]byte(nil), buf...)

		first := s.Scan(buf)
		second := s.Scan(buf)
		assert.Equal(t, first, second)
		assert.Equal(t, orig, buf, "scan must not modify the buffer")
	}
}

func TestClassifyAlwaysAdvances(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	s := newTestScanner(t, nil)
	for i := 0; i < 1000; i++ {
		buf := randomBuffer(r)
		for p := 0; p < len(buf); p++ {
			var log domain.Diagnostics
			next := s.classify(buf, p, &log)
			if next <= p || next > len(buf) {
				t.Fatalf("classify(% X, %d) = %d", buf, p, next)
			}
			assert.Len(t, log, 1)
		}
	}
}
