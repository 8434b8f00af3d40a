package benchmark

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/baditaflorin/l"

	textcharset "github.com/baditaflorin/go_text_charset"
	"github.com/baditaflorin/go_text_charset/internal/adapters/logger"
	"github.com/baditaflorin/go_text_charset/internal/core/utf8scan"
)

// generateText creates a text of the specified size by repeating sample
func generateText(size int, sample string) []byte {
	if size <= 0 {
		return nil
	}

	var sb strings.Builder
	sb.Grow(size + len(sample))
	for sb.Len() < size {
		sb.WriteString(sample)
		sb.WriteString(" ")
	}
	return []byte(sb.String())
}

var (
	asciiSample = "The quick brown fox jumps over the lazy dog."
	mixedSample = "Größe naïve café, 東京 and 😀 emoji."
)

// corrupt overwrites every nth byte with 0xFF.
func corrupt(buf []byte, n int) []byte {
	out := bytes.Clone(buf)
	for i := n; i < len(out); i += n {
		out[i] = 0xFF
	}
	return out
}

func newScanner(b *testing.B, mutate func(*utf8scan.Config)) *utf8scan.Scanner {
	b.Helper()
	cfg := utf8scan.DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := utf8scan.NewScanner(cfg, logger.NewNopLogger())
	if err != nil {
		b.Fatal(err)
	}
	return s
}

// BenchmarkScanModes compares bounds-checked and unchecked scanning
func BenchmarkScanModes(b *testing.B) {
	inputs := []struct {
		name string
		buf  []byte
	}{
		{"ASCII-1KB", generateText(1<<10, asciiSample)},
		{"ASCII-1MB", generateText(1<<20, asciiSample)},
		{"Mixed-1KB", generateText(1<<10, mixedSample)},
		{"Mixed-1MB", generateText(1<<20, mixedSample)},
	}
	modes := []struct {
		name   string
		mutate func(*utf8scan.Config)
	}{
		{"Checked", nil},
		{"Unchecked", func(c *utf8scan.Config) { c.TinyBufferThreshold = 0 }},
	}

	for _, mode := range modes {
		s := newScanner(b, mode.mutate)
		for _, in := range inputs {
			b.Run(mode.name+"-"+in.name, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(in.buf)))
				for i := 0; i < b.N; i++ {
					_ = s.Scan(in.buf)
				}
			})
		}
	}
}

// BenchmarkScanErrors compares detailed classification with stopping at the first error
func BenchmarkScanErrors(b *testing.B) {
	broken := corrupt(generateText(64<<10, mixedSample), 101)

	for _, detailed := range []bool{true, false} {
		name := "FirstError"
		if detailed {
			name = "Detailed"
		}
		s := newScanner(b, func(c *utf8scan.Config) { c.DetailedErrors = detailed })

		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(broken)))
			for i := 0; i < b.N; i++ {
				_ = s.Scan(broken)
			}
		})
	}
}

// BenchmarkDetect measures the full pipeline including sampling from a stream
func BenchmarkDetect(b *testing.B) {
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{Output: io.Discard})
	if err != nil {
		b.Fatal(err)
	}
	defer lg.Close()

	inputs := []struct {
		name string
		buf  []byte
	}{
		{"UTF8-100KB", generateText(100<<10, mixedSample)},
		{"BOM-100KB", append([]byte{0xEF, 0xBB, 0xBF}, generateText(100<<10, asciiSample)...)},
	}

	for _, sampleCap := range []int64{0, 4096} {
		d, err := textcharset.New(textcharset.WithLogger(lg), textcharset.WithSampleSizeCap(sampleCap))
		if err != nil {
			b.Fatal(err)
		}

		for _, in := range inputs {
			name := in.name + "-Whole"
			if sampleCap > 0 {
				name = in.name + "-Capped"
			}
			b.Run(name, func(b *testing.B) {
				b.ReportAllocs()
				b.SetBytes(int64(len(in.buf)))
				r := bytes.NewReader(in.buf)
				for i := 0; i < b.N; i++ {
					r.Reset(in.buf)
					_ = d.Detect(r)
				}
			})
		}
	}
}
