// Package signature matches byte-order marks at the current stream position.
package signature

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/baditaflorin/go_text_charset/internal/core/domain"
	"github.com/baditaflorin/go_text_charset/internal/ports"
)

// Signature is a byte-order mark and the encoding it announces.
type Signature struct {
	Name  string
	Bytes []byte
	// LittleEndian is only meaningful for UTF-16 signatures.
	LittleEndian bool
}

// Known byte-order marks.
var (
	UTF8BOM    = Signature{Name: "UTF-8", Bytes: []byte{0xEF, 0xBB, 0xBF}}
	UTF16LEBOM = Signature{Name: "UTF-16 LE", Bytes: []byte{0xFF, 0xFE}, LittleEndian: true}
	UTF16BEBOM = Signature{Name: "UTF-16 BE", Bytes: []byte{0xFE, 0xFF}}
)

// Matcher compares stream prefixes against signatures.
type Matcher struct {
	logger ports.Logger
}

// NewMatcher creates a new signature matcher.
func NewMatcher(logger ports.Logger) *Matcher {
	return &Matcher{logger: logger}
}

// Match reads len(sig.Bytes) bytes from s. On StatusFound the stream is left
// just past the signature. On StatusNotFound, and on read failures, the
// position is restored. StatusFailed is reported without reading when the
// stream cannot tell its position or is already at its end.
func (m *Matcher) Match(s ports.Stream, sig Signature, log *domain.Diagnostics) domain.SignatureStatus {
	saved, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		m.logger.Warn("Stream position unavailable", "signature", sig.Name, "error", err)
		log.Add("stream.fail()")
		return domain.StatusFailed
	}
	if atEnd(s, saved) {
		log.Add("stream empty")
		return domain.StatusFailed
	}

	readBuf := make([]byte, len(sig.Bytes))
	n, err := io.ReadFull(s, readBuf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		m.logger.Warn("Signature read failed", "signature", sig.Name, "error", err)
		log.Add(fmt.Sprintf("stream read failed: %v", err))
		m.restore(s, saved, sig)
		return domain.StatusFailed
	}

	if n < len(sig.Bytes) || !bytes.Equal(readBuf, sig.Bytes) {
		m.restore(s, saved, sig)
		return domain.StatusNotFound
	}

	m.logger.Debug("Signature matched", "signature", sig.Name, "offset", saved)
	return domain.StatusFound
}

// MatchUTF16 tries the little-endian mark first and the big-endian one only
// if that was not found.
func (m *Matcher) MatchUTF16(s ports.Stream, log *domain.Diagnostics) (domain.SignatureStatus, Signature) {
	status := m.Match(s, UTF16LEBOM, log)
	if status != domain.StatusNotFound {
		return status, UTF16LEBOM
	}
	return m.Match(s, UTF16BEBOM, log), UTF16BEBOM
}

func (m *Matcher) restore(s ports.Stream, pos int64, sig Signature) {
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		m.logger.Error("Failed to restore stream position", "signature", sig.Name, "position", pos, "error", err)
	}
}

// atEnd reports whether pos is at or beyond the end of s. The position is
// put back before returning. Streams that cannot seek to their end are
// treated as not at end so the read decides.
func atEnd(s ports.Stream, pos int64) bool {
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return false
	}
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		return false
	}
	return pos >= end
}
