package utf8scan

type contState int

const (
	contValid contState = iota
	contTruncated
	contMismatch
)

// continuation is the outcome of checking the bytes after a leading byte.
type continuation struct {
	state contState
	// resume is where the next leading byte is guessed to be. It is only set
	// for contTruncated and contMismatch.
	resume int
}

// verifyContinuation checks that k continuation bytes follow buf[p].
// A buffer that ends early is reported as truncated; the bytes that are
// present are still checked so scanning resumes at the first one that
// cannot belong to the sequence.
func verifyContinuation(buf []byte, p, k int) continuation {
	remaining := len(buf) - p
	checkUntil := k + 1
	res := continuation{state: contValid}
	if checkUntil > remaining {
		res = continuation{state: contTruncated, resume: len(buf)}
		checkUntil = remaining
	}

	for i := 1; i < checkUntil; i++ {
		if !isContinuation(buf[p+i]) {
			if res.state != contTruncated {
				res.state = contMismatch
			}
			res.resume = p + i
			break
		}
	}
	return res
}
