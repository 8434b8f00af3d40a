// charset.go
// Package textcharset inspects the head of a text stream and answers three
// independent questions:
//
//   - is the content valid UTF-8 without a byte-order mark, and is it pure 7-bit ASCII;
//   - does the stream start with a UTF-8 byte-order mark (EF BB BF);
//   - does the stream start with a UTF-16 byte-order mark (FF FE or FE FF).
//
// It is a detector, not a transcoder: it reports verdicts and human-readable
// diagnostics and never decodes text for consumption.
//
// Note that CheckUTF8NoBOM answers "does this need UTF-8 handling", not "is
// this valid UTF-8": pure 7-bit ASCII is valid UTF-8 but yields false, because
// it needs no conversion. Callers that need strict validity should read
// UTF8Result.ValidUTF8 instead of Convertible.
package textcharset

import (
	"github.com/baditaflorin/go_text_charset/internal/adapters/logger"
	"github.com/baditaflorin/go_text_charset/internal/adapters/stream"
	"github.com/baditaflorin/go_text_charset/internal/config"
	"github.com/baditaflorin/go_text_charset/internal/core/domain"
	"github.com/baditaflorin/go_text_charset/internal/core/signature"
	"github.com/baditaflorin/go_text_charset/internal/core/utf8scan"
	"github.com/baditaflorin/go_text_charset/internal/ports"
	"github.com/baditaflorin/l"
)

// Result and report types.
type (
	Verdict         = domain.Verdict
	UTF8Result      = domain.UTF8Result
	BOMResult       = domain.BOMResult
	UTF16Result     = domain.UTF16Result
	Report          = domain.Report
	Diagnostics     = domain.Diagnostics
	SignatureStatus = domain.SignatureStatus
	Encoding        = domain.Encoding
	Stream          = ports.Stream
)

// Signature statuses.
const (
	StatusFailed   = domain.StatusFailed
	StatusNotFound = domain.StatusNotFound
	StatusFound    = domain.StatusFound
)

// Encodings reported by Detect.
const (
	EncodingUnknown = domain.EncodingUnknown
	EncodingEmpty   = domain.EncodingEmpty
	EncodingASCII   = domain.EncodingASCII
	EncodingUTF8    = domain.EncodingUTF8
	EncodingUTF8BOM = domain.EncodingUTF8BOM
	EncodingUTF16LE = domain.EncodingUTF16LE
	EncodingUTF16BE = domain.EncodingUTF16BE
)

// Error kinds, usable with errors.Is.
var (
	ErrIO        = domain.ErrIO
	ErrInvariant = domain.ErrInvariant
)

// Option defines a functional option for configuring a Detector.
type Option func(*detectorConfig)

type detectorConfig struct {
	Scan   utf8scan.Config
	Sample stream.SampleConfig
	Logger ports.Logger
}

// WithSampleSizeCap limits how many bytes CheckUTF8NoBOM samples; 0 samples the whole stream.
func WithSampleSizeCap(n int64) Option {
	return func(cfg *detectorConfig) {
		cfg.Sample.SizeCap = n
	}
}

// WithTinyBufferThreshold sets the sample size below which every scan step is bounds-checked.
func WithTinyBufferThreshold(n int) Option {
	return func(cfg *detectorConfig) {
		cfg.Scan.TinyBufferThreshold = n
	}
}

// WithDetailedErrors selects between classifying every error (true) and
// stopping at the first one (false).
func WithDetailedErrors(enable bool) Option {
	return func(cfg *detectorConfig) {
		cfg.Scan.DetailedErrors = enable
	}
}

// WithSubclassifyOverlongLeads distinguishes 5-byte, 6-byte and FE/FF leading bytes.
func WithSubclassifyOverlongLeads(enable bool) Option {
	return func(cfg *detectorConfig) {
		cfg.Scan.SubclassifyOverlongLeads = enable
	}
}

// WithConfig applies all detection settings of a loaded configuration file.
func WithConfig(f config.File) Option {
	return func(cfg *detectorConfig) {
		cfg.Scan = f.Scan()
		cfg.Sample = f.Sample()
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *detectorConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// Detector runs charset checks. It holds no per-call state and is safe for
// concurrent use on distinct streams; calls on the same stream must be
// serialized by the caller.
type Detector struct {
	scanner *utf8scan.Scanner
	sampler ports.Sampler
	matcher *signature.Matcher
	logger  ports.Logger
}

// New creates a new Detector.
func New(opts ...Option) (*Detector, error) {
	config := &detectorConfig{
		Scan:   utf8scan.DefaultConfig(),
		Sample: stream.DefaultSampleConfig(),
	}

	// Apply options
	for _, opt := range opts {
		opt(config)
	}

	// Set up logger if not provided
	if config.Logger == nil {
		var err error
		config.Logger, err = createDefaultLogger()
		if err != nil {
			return nil, err
		}
	}

	scanner, err := utf8scan.NewScanner(config.Scan, config.Logger)
	if err != nil {
		return nil, err
	}
	sampler, err := stream.NewSampler(config.Sample, config.Logger)
	if err != nil {
		return nil, err
	}

	return &Detector{
		scanner: scanner,
		sampler: sampler,
		matcher: signature.NewMatcher(config.Logger),
		logger:  config.Logger,
	}, nil
}

// Scanner exposes the underlying buffer scanner, e.g. for warmup.
func (d *Detector) Scanner() ports.Scanner {
	return d.scanner
}

// ScanBytes validates an in-memory buffer.
func (d *Detector) ScanBytes(buf []byte) Verdict {
	return d.scanner.Scan(buf)
}
