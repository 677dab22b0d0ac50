package subtitle

import (
	"strings"
	"unicode"
)

// Cue is a single timed subtitle entry. Start and End are milliseconds.
type Cue struct {
	Index int
	Text  string
	Start int64
	End   int64
}

// Hard breaks always end the current cue. Soft breaks end it only when the
// buffered line has reached the minimum length.
var (
	hardBreaks = runeSet("。？！；：?!;:\n")
	softBreaks = runeSet(".，、, ")
)

func runeSet(chars string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(chars))
	for _, r := range chars {
		set[r] = struct{}{}
	}
	return set
}

// Synthesize segments text into cues using the per-character timings.
// Timings are consumed left to right, one pair per content character;
// break characters and whitespace consume nothing. minLength is measured
// in runes and includes the soft-break character that triggers the flush.
//
// A cue whose text is empty after trimming is dropped. A cue that consumed
// no timing pair falls back to the last known end time for its start, so
// every emitted cue carries timing. Timings shorter than the content
// character count are never indexed past their end; excess characters
// simply extend the final cue without advancing time.
func Synthesize(text string, timings []CharTiming, minLength int) []Cue {
	var (
		cues    []Cue
		buf     []rune
		started bool
		start   int64
		end     int64
		cursor  int
	)

	flush := func() {
		trimmed := strings.TrimSpace(string(buf))
		buf = buf[:0]
		if trimmed == "" {
			started = false
			return
		}
		cueStart := start
		if !started {
			cueStart = end
		}
		cues = append(cues, Cue{
			Index: len(cues) + 1,
			Text:  trimmed,
			Start: cueStart,
			End:   end,
		})
		started = false
	}

	for _, r := range text {
		_, hard := hardBreaks[r]
		_, soft := softBreaks[r]

		if !hard && !soft && !unicode.IsSpace(r) && cursor < len(timings) {
			t := timings[cursor]
			if !started {
				start = t.Start
				started = true
			}
			end = t.End
			cursor++
		}

		buf = append(buf, r)

		switch {
		case hard:
			flush()
		case soft && len(buf) >= minLength:
			flush()
		}
	}

	flush()
	return cues
}
