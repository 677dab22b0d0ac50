package subtitle

import (
	"fmt"
	"strings"
)

// FormatTimestamp renders milliseconds in the SRT time convention
// (HH:MM:SS,mmm). Negative values clamp to zero.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", secs/3600, (secs%3600)/60, secs%60, ms%1000)
}

// RenderSRT serializes cues as SRT blocks in order.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	for _, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			cue.Index,
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End),
			cue.Text,
		)
	}
	return b.String()
}
