// Package ingest owns the incoming-message pipeline: reading a just-delivered
// raw record, resolving the conversation it belongs to, filtering echoes and
// blocked senders, persisting message parts, and fanning out side effects.
package ingest

// Status classifies what an ingestion run did. The original pipeline
// overloaded an empty/null snippet for all three cases; the explicit
// three-state result keeps "guard fired" distinct from "nothing to read"
// distinct from "persisted an empty-bodied message".
type Status int

const (
	// StatusNoContent means there was nothing to read, or nothing survived
	// the save policy. Downstream side effects are skipped.
	StatusNoContent Status = iota
	// StatusSuppressed means a guard (blacklist, self-echo in a group)
	// intentionally discarded the batch. Not an error.
	StatusSuppressed
	// StatusPersisted means at least one message part was stored.
	StatusPersisted
)

func (s Status) String() string {
	switch s {
	case StatusNoContent:
		return "no_content"
	case StatusSuppressed:
		return "suppressed"
	case StatusPersisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// Outcome is the result of one ingestion run, threaded by value through the
// dispatch pipeline so concurrent workers share no state.
type Outcome struct {
	Status Status
	// Snippet is the body of the most recent plain-text part in the batch,
	// empty when the batch had no text.
	Snippet string
	// ConversationID is set when Status is StatusPersisted.
	ConversationID uint
	// MuteNotification is set when the resolved conversation is muted; the
	// dispatcher must then skip the notification trigger (broadcasts still
	// fire).
	MuteNotification bool
}
