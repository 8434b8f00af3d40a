// Package stream samples seekable streams without consuming them.
package stream

import (
	"errors"
	"io"

	"github.com/baditaflorin/go_text_charset/internal/core/domain"
	"github.com/baditaflorin/go_text_charset/internal/pool"
	"github.com/baditaflorin/go_text_charset/internal/ports"
)

const (
	// DefaultPooledBufferSize is the initial capacity of pooled sample buffers
	DefaultPooledBufferSize = 64 * 1024 // 64KB

	// MaxRetainedBufferSize keeps whole-file samples out of the pool
	MaxRetainedBufferSize = 16 * 1024 * 1024 // 16MB
)

// SampleConfig holds configuration for the sample reader.
type SampleConfig struct {
	// SizeCap is the maximum number of bytes to sample; 0 reads the whole remaining stream.
	SizeCap int64
}

// DefaultSampleConfig returns the default configuration: sample the whole stream.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{SizeCap: 0}
}

// Validate checks if the configuration is valid.
func (c SampleConfig) Validate() error {
	if c.SizeCap < 0 {
		return errors.New("sampleSizeCap must not be negative")
	}
	return nil
}

// Sampler materializes a prefix of a stream without consuming it
type Sampler struct {
	config     SampleConfig
	logger     ports.Logger
	bufferPool *pool.BufferPool
}

// NewSampler creates a new sample reader
func NewSampler(config SampleConfig, logger ports.Logger) (*Sampler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Sampler{
		config:     config,
		logger:     logger,
		bufferPool: pool.NewBufferPool(DefaultPooledBufferSize, MaxRetainedBufferSize),
	}, nil
}

// Sample is a buffer read from a stream. Release returns it to the pool;
// Bytes must not be used afterwards.
type Sample struct {
	buffer    *[]byte
	requested int
	pool      *pool.BufferPool
}

// Bytes returns the sampled bytes.
func (s *Sample) Bytes() []byte {
	if s.buffer == nil {
		return nil
	}
	return *s.buffer
}

// Short reports whether the stream yielded fewer bytes than it announced.
func (s *Sample) Short() bool {
	return len(s.Bytes()) < s.requested
}

// Release returns the buffer to the pool.
func (s *Sample) Release() {
	if s.buffer != nil {
		s.pool.Put(s.buffer)
		s.buffer = nil
	}
}

// Read samples the stream from its current position. The sample size is the
// remaining stream length, limited by SizeCap when that is set. The stream
// position is restored before returning, on success and on failure.
func (sm *Sampler) Read(s ports.Stream) (ports.Sample, error) {
	saved, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, domain.NewIOError("sample", "tell stream position", err)
	}

	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		sm.rewind(s, saved)
		return nil, domain.NewIOError("sample", "seek to stream end", err)
	}
	if _, err := s.Seek(saved, io.SeekStart); err != nil {
		return nil, domain.NewIOError("sample", "restore stream position", err)
	}

	size := end - saved
	if size < 0 {
		size = 0
	}
	if sm.config.SizeCap > 0 && sm.config.SizeCap < size {
		size = sm.config.SizeCap
	}

	sample := &Sample{
		buffer:    sm.bufferPool.Get(int(size)),
		requested: int(size),
		pool:      sm.bufferPool,
	}

	n, err := io.ReadFull(s, *sample.buffer)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		sample.Release()
		sm.rewind(s, saved)
		return nil, domain.NewIOError("sample", "read stream", err)
	}
	if n < int(size) {
		// The stream shrank or announced more than it holds; keep what was read.
		sm.logger.Debug("Short sample read", "requested", size, "read", n)
		*sample.buffer = (*sample.buffer)[:n]
	}

	if _, err := s.Seek(saved, io.SeekStart); err != nil {
		sample.Release()
		return nil, domain.NewIOError("sample", "restore stream position", err)
	}

	sm.logger.Debug("Sample read", "offset", saved, "size", n, "cap", sm.config.SizeCap)
	return sample, nil
}

func (sm *Sampler) rewind(s ports.Stream, pos int64) {
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		sm.logger.Error("Failed to restore stream position", "position", pos, "error", err)
	}
}
