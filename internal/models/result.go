package models

import "time"

// ResultKind tags the active variant of a Result.
type ResultKind string

const (
	KindIdle    ResultKind = "idle"
	KindLoading ResultKind = "loading"
	KindError   ResultKind = "error"
	KindSuccess ResultKind = "success"
)

// Result is the state of the weather screen. Exactly one Kind is active:
// Message is set only for KindError and Data only for KindSuccess.
type Result struct {
	Kind      ResultKind   `json:"kind"`
	Query     string       `json:"query,omitempty"`
	Message   string       `json:"message,omitempty"`
	Data      *WeatherData `json:"data,omitempty"`
	Seq       uint64       `json:"seq"`        // submission number that produced this result
	UpdatedAt time.Time    `json:"updated_at"` // UTC
}

// Idle is the initial "nothing yet" state.
func Idle() Result {
	return Result{Kind: KindIdle}
}

func Loading(query string) Result {
	return Result{Kind: KindLoading, Query: query}
}

func Failure(query, message string) Result {
	return Result{Kind: KindError, Query: query, Message: message}
}

func Success(query string, data WeatherData) Result {
	return Result{Kind: KindSuccess, Query: query, Data: &data}
}

// Resolved reports whether the result is terminal for its submission.
func (r Result) Resolved() bool {
	return r.Kind == KindError || r.Kind == KindSuccess
}
