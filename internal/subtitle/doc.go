// Package subtitle converts transcripts with per-character timings into
// timed subtitle cues and renders them as SRT text.
//
// Synthesize is pure: identical inputs always produce identical cues. The
// segmentation rule distinguishes hard-break punctuation (sentence
// terminators, always end a cue) from soft-break punctuation (commas and
// whitespace, which end a cue only once the current line has reached a
// minimum length). Timings are consumed one pair per content character;
// punctuation and whitespace consume nothing.
package subtitle
