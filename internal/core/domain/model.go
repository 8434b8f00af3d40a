package domain

import "strings"

// Diagnostics is an append-only, ordered log of human-readable findings.
type Diagnostics []string

// Add appends one line to the log.
func (d *Diagnostics) Add(line string) {
	*d = append(*d, line)
}

// Append appends all lines of other to the log.
func (d *Diagnostics) Append(other Diagnostics) {
	*d = append(*d, other...)
}

// String renders the log with one line per entry, each terminated by a newline.
func (d Diagnostics) String() string {
	if len(d) == 0 {
		return ""
	}
	return strings.Join(d, "\n") + "\n"
}

// Verdict holds the outcome of scanning one buffer.
type Verdict struct {
	// ValidUTF8 is false once any byte failed validation.
	ValidUTF8 bool
	// ASCIIOnly is false once any byte fell outside 7-bit ASCII with TAB, CR and LF.
	ASCIIOnly bool
	// BytesScanned is the length of the scanned buffer.
	BytesScanned int
	// Diagnostics holds one line per finding, in scan order.
	Diagnostics Diagnostics
}

// SignatureStatus is the tri-state outcome of a byte-order-mark match.
type SignatureStatus int

const (
	// StatusFailed means the stream was unusable before matching started.
	StatusFailed SignatureStatus = iota
	// StatusNotFound means the stream was readable but did not start with the signature.
	StatusNotFound
	// StatusFound means the signature was present and has been consumed.
	StatusFound
)

// String implements fmt.Stringer.
func (s SignatureStatus) String() string {
	switch s {
	case StatusFailed:
		return "failed"
	case StatusNotFound:
		return "not_found"
	case StatusFound:
		return "found"
	default:
		return "invalid"
	}
}

// UTF8Result is returned by the BOM-less UTF-8 check.
type UTF8Result struct {
	// Convertible is true iff the sample is valid UTF-8 and not pure 7-bit ASCII.
	// Pure ASCII needs no conversion and therefore yields false.
	Convertible bool
	ValidUTF8   bool
	ASCIIOnly   bool
	SampleSize  int
	// Err is set when the sample could not be read.
	Err         error
	Diagnostics Diagnostics
}

// BOMResult is returned by the UTF-8 signature check.
type BOMResult struct {
	Found       bool
	Status      SignatureStatus
	Diagnostics Diagnostics
}

// UTF16Result is returned by the UTF-16 signature check.
type UTF16Result struct {
	Found bool
	// LittleEndian is only meaningful when Found is true; it defaults to false.
	LittleEndian bool
	Status       SignatureStatus
	Diagnostics  Diagnostics
}

// Encoding is the tag reported by a combined detection.
type Encoding uint8

const (
	EncodingUnknown Encoding = iota
	EncodingEmpty
	EncodingASCII
	EncodingUTF8
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
)

// String implements fmt.Stringer.
func (e Encoding) String() string {
	switch e {
	case EncodingEmpty:
		return "empty"
	case EncodingASCII:
		return "ascii"
	case EncodingUTF8:
		return "utf-8"
	case EncodingUTF8BOM:
		return "utf-8-bom"
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	default:
		return "unknown"
	}
}

// MarshalText lets reports serialize the encoding by name.
func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Report is the combined outcome of all checks on one stream.
type Report struct {
	Encoding    Encoding    `json:"encoding"`
	ValidUTF8   bool        `json:"valid_utf8"`
	ASCIIOnly   bool        `json:"ascii_only"`
	SampleSize  int         `json:"sample_size"`
	Diagnostics Diagnostics `json:"diagnostics,omitempty"`
}
