package subtitle_test

import (
	"reflect"
	"strings"
	"testing"
	"unicode"

	"scribe/internal/subtitle"
)

func pairs(values ...int64) []subtitle.CharTiming {
	if len(values)%2 != 0 {
		panic("pairs requires an even number of values")
	}
	out := make([]subtitle.CharTiming, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		out = append(out, subtitle.CharTiming{Start: values[i], End: values[i+1]})
	}
	return out
}

func TestSynthesizeSoftBreakSuppressedBelowMinLength(t *testing.T) {
	timings := pairs(0, 100, 100, 200, 300, 400, 400, 500)
	cues := subtitle.Synthesize("你好，世界。", timings, 10)

	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d: %#v", len(cues), cues)
	}
	cue := cues[0]
	if cue.Text != "你好，世界。" {
		t.Fatalf("unexpected cue text %q", cue.Text)
	}
	if cue.Start != 0 || cue.End != 500 {
		t.Fatalf("unexpected cue span %d-%d", cue.Start, cue.End)
	}
}

func TestSynthesizeSoftBreakFlushesAtMinLength(t *testing.T) {
	timings := pairs(0, 100, 100, 200, 300, 400, 400, 500)
	cues := subtitle.Synthesize("你好，世界。", timings, 2)

	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %#v", len(cues), cues)
	}
	if cues[0].Text != "你好，" || cues[0].Start != 0 || cues[0].End != 200 {
		t.Fatalf("unexpected first cue %#v", cues[0])
	}
	if cues[1].Text != "世界。" || cues[1].Start != 300 || cues[1].End != 500 {
		t.Fatalf("unexpected second cue %#v", cues[1])
	}
}

func TestSynthesizeHardBreaksAlwaysFlush(t *testing.T) {
	timings := pairs(0, 50, 50, 100, 200, 250, 250, 300)
	cues := subtitle.Synthesize("ab!cd?", timings, 100)

	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "ab!" || cues[1].Text != "cd?" {
		t.Fatalf("unexpected cue texts %q, %q", cues[0].Text, cues[1].Text)
	}
	if cues[0].Start != 0 || cues[0].End != 100 {
		t.Fatalf("unexpected first span %d-%d", cues[0].Start, cues[0].End)
	}
	if cues[1].Start != 200 || cues[1].End != 300 {
		t.Fatalf("unexpected second span %d-%d", cues[1].Start, cues[1].End)
	}
}

func TestSynthesizeTrailingBufferFlushes(t *testing.T) {
	timings := pairs(0, 100, 100, 200)
	cues := subtitle.Synthesize("ab", timings, 10)

	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != "ab" || cues[0].Start != 0 || cues[0].End != 200 {
		t.Fatalf("unexpected cue %#v", cues[0])
	}
}

func TestSynthesizePurePunctuationDropped(t *testing.T) {
	cues := subtitle.Synthesize("。。。", nil, 10)
	if len(cues) != 0 {
		t.Fatalf("expected no cues for punctuation-only text, got %#v", cues)
	}
}

func TestSynthesizePunctuationCueFallsBackToLastEnd(t *testing.T) {
	timings := pairs(0, 700)
	// After the first flush the remaining characters are punctuation only,
	// so the second cue must reuse the last known end time.
	cues := subtitle.Synthesize("a？!", timings, 10)

	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d: %#v", len(cues), cues)
	}
	if cues[0].Text != "a？" || cues[0].Start != 0 || cues[0].End != 700 {
		t.Fatalf("unexpected first cue %#v", cues[0])
	}
	if cues[1].Text != "!" || cues[1].Start != 700 || cues[1].End != 700 {
		t.Fatalf("expected fallback span 700-700, got %#v", cues[1])
	}
}

func TestSynthesizeExcessContentConsumesNoTiming(t *testing.T) {
	// Two timing pairs for four content characters: the synthesizer must not
	// index past the timings, and the extra characters keep the last end.
	timings := pairs(0, 100, 100, 200)
	cues := subtitle.Synthesize("abcd", timings, 10)

	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Text != "abcd" || cues[0].Start != 0 || cues[0].End != 200 {
		t.Fatalf("unexpected cue %#v", cues[0])
	}
}

func TestSynthesizeWhitespaceConsumesNoTiming(t *testing.T) {
	timings := pairs(0, 100, 500, 600)
	cues := subtitle.Synthesize("a\tb", timings, 50)

	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Start != 0 || cues[0].End != 600 {
		t.Fatalf("unexpected span %d-%d", cues[0].Start, cues[0].End)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	text := "今天天气不错，我们出去走走。好的！Let's go, now."
	timings := make([]subtitle.CharTiming, 0, 64)
	ms := int64(0)
	for range text {
		timings = append(timings, subtitle.CharTiming{Start: ms, End: ms + 80})
		ms += 100
	}

	first := subtitle.Synthesize(text, timings, 8)
	for i := 0; i < 5; i++ {
		again := subtitle.Synthesize(text, timings, 8)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("synthesize not deterministic: %#v vs %#v", first, again)
		}
	}

	for _, cue := range first {
		if cue.Start > cue.End {
			t.Fatalf("cue %d has start %d after end %d", cue.Index, cue.Start, cue.End)
		}
	}
	for i, cue := range first {
		if cue.Index != i+1 {
			t.Fatalf("expected sequential indexes, got %d at position %d", cue.Index, i)
		}
	}
}

func TestSynthesizeConcatenationPreservesContent(t *testing.T) {
	texts := []string{
		"你好，世界。再见！",
		"one, two; three. four",
		"  spaced   out ， text 。",
	}
	for _, text := range texts {
		timings := make([]subtitle.CharTiming, 0, len(text))
		ms := int64(0)
		for range text {
			timings = append(timings, subtitle.CharTiming{Start: ms, End: ms + 50})
			ms += 60
		}

		cues := subtitle.Synthesize(text, timings, 4)
		var joined strings.Builder
		for _, cue := range cues {
			joined.WriteString(cue.Text)
		}

		want := contentOnly(text)
		got := contentOnly(joined.String())
		if got != want {
			t.Fatalf("content mismatch for %q: got %q want %q", text, got, want)
		}
	}
}

// contentOnly strips break characters and whitespace, mirroring the
// characters that consume timing pairs.
func contentOnly(text string) string {
	var b strings.Builder
	for _, r := range text {
		if strings.ContainsRune("。？！；：?!;:\n.，、, ", r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
