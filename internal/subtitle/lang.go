package subtitle

import "unicode"

const (
	cjkSampleRunes = 500
	cjkRatio       = 0.15

	// CJK lines read comfortably at far shorter lengths than latin text.
	cjkMinLength   = 10
	latinMinLength = 30
)

var cjkRanges = []*unicode.RangeTable{
	unicode.Han,
	unicode.Hiragana,
	unicode.Katakana,
	unicode.Hangul,
}

// IsMainlyCJK reports whether text reads as Chinese, Japanese, or Korean.
// It samples the first 500 runes and requires more than 15% CJK characters,
// so isolated han characters in latin text do not flip the result.
func IsMainlyCJK(text string) bool {
	if text == "" {
		return false
	}
	sampled := 0
	matched := 0
	for _, r := range text {
		if sampled >= cjkSampleRunes {
			break
		}
		sampled++
		if unicode.IsOneOf(cjkRanges, r) {
			matched++
		}
	}
	if sampled == 0 {
		return false
	}
	return float64(matched)/float64(sampled) > cjkRatio
}

// DefaultMinLength picks the soft-break threshold for a transcript based on
// its script.
func DefaultMinLength(text string) int {
	if IsMainlyCJK(text) {
		return cjkMinLength
	}
	return latinMinLength
}
