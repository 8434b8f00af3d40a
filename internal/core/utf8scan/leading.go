package utf8scan

// sequence describes what a leading byte announces.
type sequence struct {
	// length is the total sequence length. For invalid leading bytes it is an
	// assumed length that only decides how much a diagnostic shows and skips.
	length int
	valid  bool
}

// decodeLeading checks the most specific bit patterns first. With subclassify
// disabled the 11111xxx family is reported as a single invalid byte.
func decodeLeading(b byte, subclassify bool) sequence {
	if subclassify {
		switch {
		case b>>2 == 0x3E: // 111110xx
			return sequence{length: 5}
		case b>>1 == 0x7E: // 1111110x
			return sequence{length: 6}
		case b>>1 == 0x7F: // 1111111x
			return sequence{length: 1}
		}
	}

	switch {
	case b>>3 == 0x1E: // 11110xxx
		return sequence{length: 4, valid: true}
	case b>>4 == 0x0E: // 1110xxxx
		return sequence{length: 3, valid: true}
	case b>>5 == 0x06: // 110xxxxx
		return sequence{length: 2, valid: true}
	case b>>7 == 0: // 0xxxxxxx
		return sequence{length: 1, valid: true}
	}

	// stray continuation byte, or an unclassified long form
	return sequence{length: 1}
}
