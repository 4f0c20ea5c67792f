package history

import "time"

const windowSize = 20

// Entry is one side of a turn: who spoke and what was said.
type Entry struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Window is a bounded rolling record of one conversation. Not safe for
// concurrent use, the owning session serializes access.
type Window struct {
	entries []Entry
}

func (w *Window) Add(speaker, text string) {
	entry := Entry{
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
	}

	if len(w.entries) >= windowSize {
		w.entries = append(w.entries[1:], entry)
	} else {
		w.entries = append(w.entries, entry)
	}
}

func (w *Window) Entries() []Entry {
	out := make([]Entry, len(w.entries))
	copy(out, w.entries)

	return out
}
