package utf8scan

import (
	"fmt"
	"strings"
)

// MaxSequenceLength is the longest valid UTF-8 sequence in bytes.
const MaxSequenceLength = 4

// The valid* predicates have the shape checks built in. The overlong*,
// surrogate* and outOfRange* predicates assume the caller already ruled out
// leading byte and continuation count errors.

// isASCII7 reports printable 7-bit ASCII plus TAB, LF and CR.
func isASCII7(b byte) bool {
	return b == 0x09 || b == 0x0A || b == 0x0D || (0x20 <= b && b <= 0x7E)
}

// isControl reports a raw C0 control byte (or DEL) that is invalid on its own.
func isControl(b byte) bool {
	return b&0x80 == 0 && !isASCII7(b)
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

func inRange(b, lo, hi byte) bool {
	return lo <= b && b <= hi
}

func isTail(b byte) bool {
	return inRange(b, 0x80, 0xBF)
}

// valid2 covers U+0080..U+07FF.
func valid2(b0, b1 byte) bool {
	return inRange(b0, 0xC2, 0xDF) && isTail(b1)
}

// valid3 covers U+0800..U+FFFF minus the surrogate block U+D800..U+DFFF.
func valid3(b0, b1, b2 byte) bool {
	switch {
	case inRange(b0, 0xE1, 0xEC) || b0 == 0xEE || b0 == 0xEF:
		return isTail(b1) && isTail(b2)
	case b0 == 0xE0:
		return inRange(b1, 0xA0, 0xBF) && isTail(b2)
	case b0 == 0xED:
		return inRange(b1, 0x80, 0x9F) && isTail(b2)
	}
	return false
}

// valid4 covers U+10000..U+10FFFF.
func valid4(b0, b1, b2, b3 byte) bool {
	switch {
	case b0 == 0xF0:
		return inRange(b1, 0x90, 0xBF) && isTail(b2) && isTail(b3)
	case inRange(b0, 0xF1, 0xF3):
		return isTail(b1) && isTail(b2) && isTail(b3)
	case b0 == 0xF4:
		return inRange(b1, 0x80, 0x8F) && isTail(b2) && isTail(b3)
	}
	return false
}

// overlong2 only needs the leading byte: C0 and C1 can only encode U+0000..U+007F.
func overlong2(b0 byte) bool {
	return b0 == 0xC0 || b0 == 0xC1
}

func overlong3(b0, b1 byte) bool {
	return b0 == 0xE0 && inRange(b1, 0x80, 0x9F)
}

func surrogate3(b0, b1 byte) bool {
	return b0 == 0xED && inRange(b1, 0xA0, 0xBF)
}

func overlong4(b0, b1 byte) bool {
	return b0 == 0xF0 && inRange(b1, 0x80, 0x8F)
}

// outOfRangeF4 reports F4 sequences above U+10FFFF and decodes the offending code point.
func outOfRangeF4(b0, b1, b2, b3 byte) (rune, bool) {
	if b0 != 0xF4 || !inRange(b1, 0x90, 0xBF) {
		return 0, false
	}
	cp := rune(b0&0x07)<<18 |
		rune(b1&0x3F)<<12 |
		rune(b2&0x3F)<<6 |
		rune(b3&0x3F)
	return cp, true
}

// outOfRangeF5F7 reports leading bytes whose every completion is above U+10FFFF.
func outOfRangeF5F7(b0 byte) bool {
	return inRange(b0, 0xF5, 0xF7)
}

// FormatOctets renders bytes as space separated binary octets, e.g. "[00000000 11111111]".
func FormatOctets(buf []byte) string {
	var sb strings.Builder
	sb.Grow(len(buf)*9 + 2)
	sb.WriteByte('[')
	for i, b := range buf {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%08b", b)
	}
	sb.WriteByte(']')
	return sb.String()
}
