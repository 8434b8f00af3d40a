// Package utf8scan validates byte buffers as UTF-8 and explains every invalid sequence it finds.
package utf8scan

import (
	"errors"

	"github.com/baditaflorin/go_text_charset/internal/core/domain"
	"github.com/baditaflorin/go_text_charset/internal/ports"
)

// DefaultTinyBufferThreshold keeps practically every sample in bounds-checked mode.
const DefaultTinyBufferThreshold = 1_000_000_000

// Config holds configuration for the UTF-8 scanner.
type Config struct {
	// TinyBufferThreshold is the buffer size below which every step re-checks
	// the remaining length. Larger buffers are scanned unchecked up to the
	// last MaxSequenceLength bytes, and the margin is scanned checked.
	TinyBufferThreshold int
	// DetailedErrors keeps scanning after the first invalid sequence and
	// classifies every error. When false the scan stops at the first one.
	DetailedErrors bool
	// SubclassifyOverlongLeads tells 5-byte, 6-byte and FE/FF leading bytes apart.
	SubclassifyOverlongLeads bool
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		TinyBufferThreshold:      DefaultTinyBufferThreshold,
		DetailedErrors:           true,
		SubclassifyOverlongLeads: true,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.TinyBufferThreshold < 0 {
		return errors.New("tinyBufferThreshold must not be negative")
	}
	return nil
}

// Scanner implements the single-pass UTF-8 validation engine.
type Scanner struct {
	config Config
	logger ports.Logger
}

// NewScanner creates a new scanner.
func NewScanner(config Config, logger ports.Logger) (*Scanner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Scanner{
		config: config,
		logger: logger,
	}, nil
}

// Config returns the scanner configuration.
func (s *Scanner) Config() Config {
	return s.config
}

// scanState accumulates the running verdict of one scan.
type scanState struct {
	valid bool
	ascii bool
	log   domain.Diagnostics
}

// Scan validates buf and returns the verdict. buf is never modified, and two
// scans of the same buffer produce identical verdicts and diagnostics.
func (s *Scanner) Scan(buf []byte) domain.Verdict {
	st := &scanState{valid: true, ascii: true}

	if len(buf) < s.config.TinyBufferThreshold {
		st.log.Add("text is shorter than a predefined limit, checking entire buffer")
		s.drive(buf, 0, len(buf), true, st)
	} else {
		p := s.drive(buf, 0, len(buf)-MaxSequenceLength, false, st)
		s.drive(buf, p, len(buf), true, st)
	}

	s.logger.Debug("UTF-8 scan completed",
		"bytes", len(buf),
		"valid_utf8", st.valid,
		"ascii_only", st.ascii,
		"diagnostics", len(st.log),
	)

	return domain.Verdict{
		ValidUTF8:    st.valid,
		ASCIIOnly:    st.ascii,
		BytesScanned: len(buf),
		Diagnostics:  st.log,
	}
}

// drive runs the scan loop over [p, stop) and returns the cursor, which may
// end up past stop. Unchecked mode skips the per-step remaining checks; the
// caller guarantees stop <= len(buf)-MaxSequenceLength so every read stays
// inside buf. In fast mode the cursor jumps to the end on the first error.
func (s *Scanner) drive(buf []byte, p, stop int, checked bool, st *scanState) int {
	for p < stop {
		next, ok, ascii := step(buf, p, checked, &st.log)
		st.valid = st.valid && ok
		st.ascii = st.ascii && ascii
		if ok {
			p = next
			continue
		}
		if !s.config.DetailedErrors {
			return len(buf)
		}
		p = s.classify(buf, p, &st.log)
	}
	return p
}

// step tries a 1, 2, 3 and 4 byte match at buf[p] and returns the next
// position on success. The ascii result is false for any byte that is not
// 7-bit ASCII, whether or not it starts a valid sequence.
func step(buf []byte, p int, checked bool, log *domain.Diagnostics) (next int, ok bool, ascii bool) {
	remaining := len(buf) - p
	b0 := buf[p]
	if isASCII7(b0) {
		return p + 1, true, true
	}

	if checked && remaining < 2 {
		log.Add("Not valid 1-byte UTF-8 at the end, no room for testing any 2-byte UTF-8 sequence --> considered non-UTF-8")
		return p, false, false
	}
	if valid2(b0, buf[p+1]) {
		return p + 2, true, false
	}

	if checked && remaining < 3 {
		log.Add("Not valid 1 or 2-byte UTF-8 at the end, no room for testing any 3-byte UTF-8 sequence --> considered non-UTF-8")
		return p, false, false
	}
	if valid3(b0, buf[p+1], buf[p+2]) {
		return p + 3, true, false
	}

	if checked && remaining < 4 {
		log.Add("Not valid 1,2, or 3-byte UTF-8 at the end, no room for testing any 4-byte UTF-8 sequence --> considered non-UTF-8")
		return p, false, false
	}
	if valid4(b0, buf[p+1], buf[p+2], buf[p+3]) {
		return p + 4, true, false
	}

	log.Add("Found invalid UTF-8 sequence")
	return p, false, false
}
