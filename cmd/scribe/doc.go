// Command scribe submits video URLs to a remote transcription service,
// tracks the jobs locally, and turns finished transcripts into SRT
// subtitles.
package main
