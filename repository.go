package minerva

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Repository is the authoritative in-memory collection of chat sessions.
// Every mutation is atomic with respect to the collection and writes the
// whole collection through the Store. Persistence failures leave the
// in-memory state intact; they are logged, never returned to the caller.
//
// Mutations referencing an unknown session id are silent no-ops. This is
// deliberate: an in-flight reply stream may race with user-driven deletion,
// and dropped updates on a missing session are harmless.
type Repository struct {
	mu        sync.Mutex
	sessions  []ChatSession // sorted by LastModified descending
	currentID string
	store     Store
	logger    zerolog.Logger
}

// NewRepository creates a Repository backed by the given store.
func NewRepository(store Store, logger zerolog.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Hydrate replaces the in-memory collection with the stored one and makes
// the most recently modified session current. Call once at startup, before
// any mutation. A load fault is logged and the repository starts empty.
func (r *Repository) Hydrate(ctx context.Context) {
	sessions, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("load sessions")
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = sessions
	r.sortLocked()
	if len(r.sessions) > 0 {
		r.currentID = r.sessions[0].ID
	}
}

// CreateSession inserts a new empty session with the default title, makes
// it current, and returns its id.
func (r *Repository) CreateSession(ctx context.Context) string {
	now := time.Now()
	s := ChatSession{
		ID:           uuid.NewString(),
		Title:        DefaultTitle,
		CreatedAt:    now,
		LastModified: now,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions = append([]ChatSession{s}, r.sessions...)
	r.currentID = s.ID
	r.persistLocked(ctx)
	return s.ID
}

// SelectSession makes the given session current. The id is not validated;
// lookups against a stale id simply miss.
func (r *Repository) SelectSession(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentID = id
}

// DeleteSession removes the session. If it was current, the most recently
// modified remaining session becomes current, or none when the collection
// empties. Deleting the last session clears the store.
func (r *Repository) DeleteSession(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return
	}
	r.sessions = append(r.sessions[:idx], r.sessions[idx+1:]...)
	if r.currentID == id {
		r.currentID = ""
		if len(r.sessions) > 0 {
			r.currentID = r.sessions[0].ID
		}
	}
	r.persistLocked(ctx)
}

// AppendMessage appends to the named session's conversation and bumps its
// LastModified. No-op when the session does not exist.
func (r *Repository) AppendMessage(ctx context.Context, sessionID string, msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(sessionID)
	if idx < 0 {
		return
	}
	r.sessions[idx].Messages = append(r.sessions[idx].Messages, msg)
	r.sessions[idx].LastModified = time.Now()
	r.sortLocked()
	r.persistLocked(ctx)
}

// UpdateLastAssistantMessage replaces the content of the session's trailing
// assistant message with the supplied cumulative text, merges grounding
// metadata (new value wins, previous retained otherwise), and clears
// IsLoading. No-op when the session is missing or its last message is not
// an assistant message: it never mutates a user message or inserts one.
func (r *Repository) UpdateLastAssistantMessage(ctx context.Context, sessionID, content string, grounding *GroundingMetadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(sessionID)
	if idx < 0 {
		return
	}
	msgs := r.sessions[idx].Messages
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != RoleAssistant {
		return
	}
	last := &msgs[len(msgs)-1]
	last.Content = content
	if grounding != nil {
		last.Grounding = grounding
	}
	last.IsLoading = false
	r.sessions[idx].LastModified = time.Now()
	r.sortLocked()
	r.persistLocked(ctx)
}

// UpdateSessionTitle replaces the session's title. No-op when the session
// no longer exists. LastModified is left alone so a late-arriving title
// does not reorder the collection.
func (r *Repository) UpdateSessionTitle(ctx context.Context, sessionID, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(sessionID)
	if idx < 0 {
		return
	}
	r.sessions[idx].Title = title
	r.persistLocked(ctx)
}

// Sessions returns a snapshot of all sessions ordered by LastModified
// descending. The snapshot does not alias repository state.
func (r *Repository) Sessions() []ChatSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Session returns a snapshot of the named session.
func (r *Repository) Session(id string) (ChatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return ChatSession{}, false
	}
	return r.sessions[idx].Clone(), true
}

// CurrentSession returns a snapshot of the current session. ok is false
// when no session is current, including transiently when the current id
// references a session that no longer exists.
func (r *Repository) CurrentSession() (ChatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexLocked(r.currentID)
	if idx < 0 {
		return ChatSession{}, false
	}
	return r.sessions[idx].Clone(), true
}

// CurrentID returns the current session reference, or empty.
func (r *Repository) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentID
}

// Len returns the number of sessions.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Repository) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// sortLocked restores LastModified-descending order. The sort is stable so
// ties keep their existing relative order and enumeration stays
// deterministic.
func (r *Repository) sortLocked() {
	sort.SliceStable(r.sessions, func(i, j int) bool {
		return r.sessions[i].LastModified.After(r.sessions[j].LastModified)
	})
}

func (r *Repository) snapshotLocked() []ChatSession {
	out := make([]ChatSession, len(r.sessions))
	for i := range r.sessions {
		out[i] = r.sessions[i].Clone()
	}
	return out
}

// persistLocked writes the collection through the store; the caller holds
// mu. An empty collection clears the store so it never holds stale data
// for zero sessions. Failures are logged and swallowed: the in-memory
// state remains authoritative.
func (r *Repository) persistLocked(ctx context.Context) {
	if len(r.sessions) == 0 {
		if err := r.store.Clear(ctx); err != nil {
			r.logger.Error().Err(err).Msg("clear session store")
		}
		return
	}
	if err := r.store.Save(ctx, r.snapshotLocked()); err != nil {
		r.logger.Error().Err(err).Msg("save sessions")
	}
}
