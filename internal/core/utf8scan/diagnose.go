package utf8scan

import (
	"fmt"

	"github.com/baditaflorin/go_text_charset/internal/core/domain"
)

const (
	endOfBuffer = "<end-of-buffer>"
	// maxUnknownDump bounds how many bytes the fallback diagnostic shows.
	maxUnknownDump = 16
)

// classify explains why the sequence at buf[p] is invalid and returns where
// scanning resumes. It must only be called for a position the driver already
// rejected; the range checks rely on the leading byte and continuation count
// having been validated first. The returned position is always > p.
func (s *Scanner) classify(buf []byte, p int, log *domain.Diagnostics) int {
	end := len(buf)
	if p >= end {
		return end
	}

	if next, ok := s.leadingOrContinuation(buf, p, log); ok {
		return next
	}

	b0 := buf[p]
	if isControl(b0) {
		log.Add(fmt.Sprintf("Invalid 1 byte sequence: control char found at %d: %s", p, FormatOctets(buf[p:p+1])))
		return p + 1
	}

	if end-p < 2 {
		return unknownAtEnd(buf, p, "1", log)
	}
	if overlong2(b0) {
		log.Add(fmt.Sprintf("Invalid 2-byte overlong found at %d: %s", p, FormatOctets(buf[p:p+2])))
		return p + 2
	}

	if end-p < 3 {
		return unknownAtEnd(buf, p, "1,2", log)
	}
	b1 := buf[p+1]
	if overlong3(b0, b1) {
		log.Add(fmt.Sprintf("Invalid 3-byte overlong found at %d: %s", p, FormatOctets(buf[p:p+3])))
		return p + 3
	}
	if surrogate3(b0, b1) {
		log.Add(fmt.Sprintf("Invalid UTF-16 surrogate half found at %d: %s", p, FormatOctets(buf[p:p+3])))
		return p + 3
	}

	if end-p < 4 {
		return unknownAtEnd(buf, p, "1,2,3", log)
	}
	if overlong4(b0, b1) {
		log.Add(fmt.Sprintf("Invalid 4-byte overlong found at %d: %s", p, FormatOctets(buf[p:p+4])))
		return p + 4
	}
	if cp, ok := outOfRangeF4(b0, b1, buf[p+2], buf[p+3]); ok {
		log.Add(fmt.Sprintf("Invalid code point U+%06X specified by 4-byte encoding (F4) at %d: %s", cp, p, FormatOctets(buf[p:p+4])))
		return p + 4
	}
	if outOfRangeF5F7(b0) {
		log.Add(fmt.Sprintf("Invalid code point specified by 4-byte encoding (non-F4) at %d: %s", p, FormatOctets(buf[p:p+4])))
		return p + 4
	}

	dump := end - p
	if dump > maxUnknownDump {
		dump = maxUnknownDump
	}
	log.Add(fmt.Sprintf("Unknown UTF-8 error: checked all known UTF-8 error classes, none of them matched at %d (assumed length=1): %s", p, FormatOctets(buf[p:p+dump])))
	return p + 1
}

// leadingOrContinuation rules out the primary error shapes: a leading byte
// outside the repertoire, or the wrong number of continuation bytes after it.
func (s *Scanner) leadingOrContinuation(buf []byte, p int, log *domain.Diagnostics) (int, bool) {
	remaining := len(buf) - p
	seq := decodeLeading(buf[p], s.config.SubclassifyOverlongLeads)
	if !seq.valid {
		n, suffix := seq.length, ""
		if n > remaining {
			n, suffix = remaining, endOfBuffer
		}
		log.Add(fmt.Sprintf("Invalid leading byte found at %d (assumed length=%d): %s%s", p, seq.length, FormatOctets(buf[p:p+n]), suffix))
		return p + n, true
	}

	cont := verifyContinuation(buf, p, seq.length-1)
	switch cont.state {
	case contValid:
		return 0, false
	case contTruncated:
		log.Add(fmt.Sprintf("Invalid nr of continuation bytes after leading byte [possible truncation] at %d: %s%s", p, FormatOctets(buf[p:]), endOfBuffer))
		return cont.resume, true
	case contMismatch:
		log.Add(fmt.Sprintf("Invalid nr of continuation bytes after leading byte [unexpected non-continuation byte] at %d: %s", p, FormatOctets(buf[p:p+seq.length])))
		return cont.resume, true
	}

	domain.Invariant("utf8scan.classify", "continuation state %d out of range", cont.state)
	return 0, false
}

func unknownAtEnd(buf []byte, p int, checked string, log *domain.Diagnostics) int {
	log.Add(fmt.Sprintf("Unknown UTF-8 error: checked all %s-byte possibilities, reached end of buffer at position %d: %s%s", checked, p, FormatOctets(buf[p:]), endOfBuffer))
	return len(buf)
}
