// Package tasks coordinates the lifecycle of transcription jobs: it
// submits them, polls the remote service until they settle, fetches
// retained audio, and keeps the local store as the single source of
// truth throughout.
//
// Each active task is owned by exactly one watcher goroutine, so all
// writes for a given task id are naturally serialized.
package tasks
