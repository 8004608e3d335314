package game

const feedMaxEntries = 60

// FeedEntry is a single line in the event feed.
type FeedEntry struct {
	Frame   int
	Label   string // e.g. "P", "E3", or "--" for match events
	Message string
}

// EventFeed is a ring buffer of notable match events for on-screen display.
type EventFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewEventFeed creates a feed with a fixed capacity.
func NewEventFeed() *EventFeed {
	return &EventFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (f *EventFeed) Add(frame int, label, msg string) {
	f.entries[f.head] = FeedEntry{
		Frame:   frame,
		Label:   label,
		Message: msg,
	}
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Len returns how many entries are held.
func (f *EventFeed) Len() int { return f.count }

// Recent returns entries in chronological order (oldest first).
func (f *EventFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

// Last returns up to n of the newest entries, oldest first.
func (f *EventFeed) Last(n int) []FeedEntry {
	all := f.Recent()
	if n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}
