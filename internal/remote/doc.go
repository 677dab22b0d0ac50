// Package remote defines the contract against the transcription service
// and its HTTP implementation.
//
// The service processes jobs asynchronously: a submission returns a task
// id immediately and the outcome is observed by polling. Poll responses
// are decoded once at this boundary into a tagged PollResult so callers
// never touch wire shapes.
package remote
