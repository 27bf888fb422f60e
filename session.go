package minerva

import "time"

// ChatSession is one persisted conversation thread. Messages are kept in
// insertion order, which is conversation order; they are never reordered.
type ChatSession struct {
	ID           string
	Title        string
	Messages     []Message
	CreatedAt    time.Time
	LastModified time.Time
}

// Clone returns a copy whose Messages slice is independent of the
// original. Grounding pointers are shared because GroundingMetadata is
// immutable once attached.
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = append([]Message(nil), s.Messages...)
	return out
}
