package ports

import (
	"io"

	"github.com/baditaflorin/go_text_charset/internal/core/domain"
)

// Stream is the readable, seekable byte source the detector inspects.
// Its read position is shared with the caller; each operation documents
// whether it leaves it unchanged, advanced or restored.
type Stream interface {
	io.Reader
	io.Seeker
}

// Sample is a materialized prefix of a stream.
type Sample interface {
	Bytes() []byte
	// Short reports whether the stream yielded fewer bytes than requested.
	Short() bool
	Release()
}

// Sampler reads a sample without moving the stream position.
type Sampler interface {
	Read(s Stream) (Sample, error)
}

// Scanner validates one materialized buffer.
type Scanner interface {
	Scan(buf []byte) domain.Verdict
}
