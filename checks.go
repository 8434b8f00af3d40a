package textcharset

import (
	"io"

	"github.com/baditaflorin/go_text_charset/internal/core/domain"
	"github.com/baditaflorin/go_text_charset/internal/core/signature"
)

// CheckUTF8NoBOM samples the stream from its current position and reports
// whether the sample is valid UTF-8 that is not pure 7-bit ASCII. The stream
// position is left unchanged. Read failures yield Convertible=false with Err set.
func (d *Detector) CheckUTF8NoBOM(s Stream) UTF8Result {
	var res UTF8Result

	sample, err := d.sampler.Read(s)
	if err != nil {
		d.logger.Error("Failed to sample stream", "error", err)
		res.Err = err
		res.Diagnostics.Add("failed to read sample: " + err.Error())
		return res
	}
	defer sample.Release()

	buf := sample.Bytes()
	if sample.Short() {
		res.Diagnostics.Add("stream yielded fewer bytes than expected, checking what was read")
	}
	if len(buf) == 0 {
		res.Diagnostics.Add("stream empty")
	}

	verdict := d.scanner.Scan(buf)
	res.Diagnostics.Append(verdict.Diagnostics)
	res.ValidUTF8 = verdict.ValidUTF8
	res.ASCIIOnly = verdict.ASCIIOnly
	res.SampleSize = verdict.BytesScanned

	if verdict.ASCIIOnly {
		res.Diagnostics.Add("ASCII 7-bit text")
	}
	if verdict.ValidUTF8 {
		res.Diagnostics.Add("sample of input contains only valid UTF-8 characters")
	}

	// Pure ASCII is technically UTF-8, but needs no conversion.
	res.Convertible = verdict.ValidUTF8 && !verdict.ASCIIOnly

	d.logger.Debug("UTF-8 check completed",
		"sample_size", res.SampleSize,
		"valid_utf8", res.ValidUTF8,
		"ascii_only", res.ASCIIOnly,
		"convertible", res.Convertible,
	)
	return res
}

// CheckUTF8BOM reports whether the stream starts with EF BB BF. The stream
// must be at offset 0. On success the mark is consumed; otherwise the
// position is restored.
func (d *Detector) CheckUTF8BOM(s Stream) BOMResult {
	var res BOMResult
	if !d.atStart(s, &res.Diagnostics) {
		res.Status = StatusFailed
		return res
	}

	res.Status = d.matcher.Match(s, signature.UTF8BOM, &res.Diagnostics)
	switch res.Status {
	case StatusFailed:
	case StatusNotFound:
		res.Diagnostics.Add("No UTF-8 BOM found")
	case StatusFound:
		res.Diagnostics.Add("UTF-8 BOM found")
		res.Found = true
	default:
		domain.Invariant("CheckUTF8BOM", "signature status %d out of range", int(res.Status))
	}
	return res
}

// CheckUTF16BOM reports whether the stream starts with FF FE (little-endian)
// or FE FF (big-endian), trying little-endian first. The stream must be at
// offset 0. On success the mark is consumed; otherwise the position is
// restored and LittleEndian is false.
func (d *Detector) CheckUTF16BOM(s Stream) UTF16Result {
	var res UTF16Result
	if !d.atStart(s, &res.Diagnostics) {
		res.Status = StatusFailed
		return res
	}

	status, sig := d.matcher.MatchUTF16(s, &res.Diagnostics)
	res.Status = status
	switch status {
	case StatusFailed:
	case StatusNotFound:
		res.Diagnostics.Add("No UTF-16 BOM found")
	case StatusFound:
		res.Found = true
		res.LittleEndian = sig.LittleEndian
		if sig.LittleEndian {
			res.Diagnostics.Add("UTF-16 LE BOM found")
		} else {
			res.Diagnostics.Add("UTF-16 BE BOM found")
		}
	default:
		domain.Invariant("CheckUTF16BOM", "signature status %d out of range", int(status))
	}
	return res
}

// Detect runs the checks in the order an importer needs them: UTF-16 mark,
// UTF-8 mark, then content. The stream must be at offset 0 and is left just
// past any mark found.
func (d *Detector) Detect(s Stream) Report {
	var rep Report

	u16 := d.CheckUTF16BOM(s)
	rep.Diagnostics.Append(u16.Diagnostics)
	if u16.Found {
		rep.Encoding = EncodingUTF16BE
		if u16.LittleEndian {
			rep.Encoding = EncodingUTF16LE
		}
		d.logDetection(rep)
		return rep
	}

	u8 := d.CheckUTF8BOM(s)
	rep.Diagnostics.Append(u8.Diagnostics)

	content := d.CheckUTF8NoBOM(s)
	rep.Diagnostics.Append(content.Diagnostics)
	rep.ValidUTF8 = content.ValidUTF8
	rep.ASCIIOnly = content.ASCIIOnly
	rep.SampleSize = content.SampleSize

	switch {
	case u8.Found:
		rep.Encoding = EncodingUTF8BOM
	case content.Err != nil:
		rep.Encoding = EncodingUnknown
	case content.SampleSize == 0:
		rep.Encoding = EncodingEmpty
	case content.ASCIIOnly:
		rep.Encoding = EncodingASCII
	case content.ValidUTF8:
		rep.Encoding = EncodingUTF8
	default:
		rep.Encoding = EncodingUnknown
	}

	d.logDetection(rep)
	return rep
}

func (d *Detector) logDetection(rep Report) {
	d.logger.Info("Charset detection completed",
		"encoding", rep.Encoding.String(),
		"valid_utf8", rep.ValidUTF8,
		"ascii_only", rep.ASCIIOnly,
		"sample_size", rep.SampleSize,
		"diagnostics", len(rep.Diagnostics),
	)
}

// atStart enforces the offset-0 precondition of the signature checks. A
// stream that cannot report its position is left to the matcher, which
// reports it as failed.
func (d *Detector) atStart(s Stream, log *domain.Diagnostics) bool {
	pos, err := s.Seek(0, io.SeekCurrent)
	if err != nil || pos == 0 {
		return true
	}
	d.logger.Warn("Signature check on a stream not at offset 0", "position", pos)
	log.Add("stream not positioned at offset 0")
	return false
}
