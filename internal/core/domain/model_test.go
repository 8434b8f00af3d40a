package domain

import (
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnosticsString(t *testing.T) {
	var d Diagnostics
	assert.Equal(t, "", d.String())

	d.Add("first")
	d.Append(Diagnostics{"second", "third"})
	assert.Equal(t, "first\nsecond\nthird\n", d.String())
}

func TestSignatureStatusString(t *testing.T) {
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "not_found", StatusNotFound.String())
	assert.Equal(t, "found", StatusFound.String())
	assert.Equal(t, "invalid", SignatureStatus(7).String())
}

func TestReportJSON(t *testing.T) {
	out, err := json.Marshal(Report{Encoding: EncodingUTF16LE, SampleSize: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"encoding":"utf-16le","valid_utf8":false,"ascii_only":false,"sample_size":4}`, string(out))
}

func TestErrorKinds(t *testing.T) {
	err := NewIOError("sample", "read stream", io.ErrClosedPipe)

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.NotErrorIs(t, err, ErrInvariant)
	assert.Equal(t, "sample: read stream: io: read/write on closed pipe", err.Error())
}

func TestInvariantPanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrInvariant))
		assert.Contains(t, err.Error(), "status 9")
	}()

	Invariant("check", "status %d out of range", 9)
}
