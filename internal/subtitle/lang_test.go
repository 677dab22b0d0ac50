package subtitle_test

import (
	"strings"
	"testing"

	"scribe/internal/subtitle"
)

func TestIsMainlyCJK(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"pure latin", "the quick brown fox jumps over the lazy dog", false},
		{"pure chinese", "今天天气不错我们出去走走", true},
		{"japanese kana", "こんにちは世界のみなさん", true},
		{"korean", "안녕하세요 세계 여러분", true},
		{"isolated han in latin", "the 禅 of go programming is simplicity and clarity", false},
		{"mixed majority cjk", "今天我们 review 一下这段代码", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := subtitle.IsMainlyCJK(tc.text); got != tc.want {
				t.Fatalf("IsMainlyCJK(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestIsMainlyCJKSamplesPrefixOnly(t *testing.T) {
	// CJK beyond the 500-rune sample window must not affect the result.
	text := strings.Repeat("a", 500) + strings.Repeat("中", 500)
	if subtitle.IsMainlyCJK(text) {
		t.Fatal("expected sampling to ignore CJK past the window")
	}
}

func TestDefaultMinLength(t *testing.T) {
	if got := subtitle.DefaultMinLength("这是一个中文句子的例子"); got != 10 {
		t.Fatalf("expected CJK threshold 10, got %d", got)
	}
	if got := subtitle.DefaultMinLength("a plain english sentence"); got != 30 {
		t.Fatalf("expected latin threshold 30, got %d", got)
	}
}
