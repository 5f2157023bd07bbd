// Package sessions keeps authoring sessions in memory. A session owns the
// editor over one document's annotation graph between load and save.
package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/killallgit/paperreel-api/internal/mapping"
	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/annotations"
	"github.com/killallgit/paperreel-api/internal/services/cleanup"
	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

// Options configures the session manager
type Options struct {
	IdleTimeout     time.Duration
	CleanupInterval time.Duration
	// MaxSessions caps the number of open sessions; 0 means unlimited.
	MaxSessions int
	Logger      *zap.Logger
}

// Manager creates, looks up and expires sessions
type Manager struct {
	documents   DocumentLoader
	annotations AnnotationStore
	opts        Options
	log         *zap.Logger
	now         func() time.Time
	sweeper     *cleanup.Service

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a new session manager
func NewManager(documents DocumentLoader, store AnnotationStore, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		documents:   documents,
		annotations: store,
		opts:        opts,
		log:         log.Named("sessions"),
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
	if opts.CleanupInterval > 0 {
		m.sweeper = cleanup.NewService("sessions", opts.CleanupInterval, m.Sweep, log)
	}
	return m
}

// Start runs the idle-session sweeper until Stop or ctx is done.
func (m *Manager) Start(ctx context.Context) {
	if m.sweeper != nil {
		m.sweeper.Start(ctx)
	}
}

// Stop halts the sweeper. Open sessions are kept.
func (m *Manager) Stop() {
	if m.sweeper != nil {
		m.sweeper.Stop()
	}
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Open loads a document and starts a session over it. Blocks, captions and
// saved annotations are fetched concurrently; the session is only created
// once all three have loaded.
func (m *Manager) Open(ctx context.Context, doi string) (*View, error) {
	if m.full() {
		m.Sweep(m.now())
		if m.full() {
			return nil, apperrors.New(apperrors.ErrCodeTooManySessions, "too many open sessions").
				WithDetail("max", m.opts.MaxSessions)
		}
	}

	var (
		blocks   []models.Block
		captions []models.Caption
		saved    *models.Annotations
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		blocks, err = m.documents.LoadBlocks(gctx, doi)
		return err
	})
	g.Go(func() (err error) {
		captions, err = m.documents.LoadCaptions(gctx, doi)
		return err
	})
	g.Go(func() (err error) {
		saved, err = m.annotations.Load(gctx, doi)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	graph := mapping.NewGraph(mapping.NewAnalyzer(blocks), captions, saved)
	now := m.now()
	s := &Session{
		ID:        uuid.New().String(),
		DOI:       doi,
		CreatedAt: now,
		editor:    mapping.NewEditor(graph),
		lastUsed:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.log.Info("session opened",
		zap.String("session", s.ID),
		zap.String("doi", doi),
		zap.Int("blocks", len(blocks)),
		zap.Int("captions", len(captions)),
		zap.Int("clips", len(saved.Clips)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(), nil
}

func (m *Manager) full() bool {
	return m.opts.MaxSessions > 0 && m.Len() >= m.opts.MaxSessions
}

// Get returns the current view of a session
func (m *Manager) Get(id string) (*View, error) {
	v, _, err := m.Apply(id, nil)
	return v, err
}

// Apply runs op against the session's editor while holding its lock and
// returns the resulting view along with op's result. A nil op only reads.
func (m *Manager) Apply(id string, op func(e *mapping.Editor) bool) (*View, bool, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	applied := false
	if op != nil {
		applied = op(s.editor)
	}
	s.lastUsed = m.now()
	return s.view(), applied, nil
}

// Save persists the session's current graph. The graph is captured under
// the session lock and written after it is released, so the session stays
// usable while the save is in flight.
func (m *Manager) Save(ctx context.Context, id string) (*annotations.SaveResult, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	snapshot := s.editor.Graph().Snapshot()
	rev := s.editor.Graph().Revision()
	s.lastUsed = m.now()
	s.mu.Unlock()

	result, err := m.annotations.Save(ctx, s.DOI, snapshot)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if rev > s.savedRev {
		s.savedRev = rev
	}
	saved := result.SavedAt
	s.lastSaved = &saved
	s.mu.Unlock()
	return result, nil
}

// Close discards a session without saving
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return apperrors.NotFound("session", id)
	}
	delete(m.sessions, id)
	m.log.Info("session closed", zap.String("session", id))
	return nil
}

// Sweep removes every session idle for longer than the idle timeout and
// returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.opts.IdleTimeout <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(now) > m.opts.IdleTimeout {
			delete(m.sessions, id)
			removed++
			m.log.Debug("session expired", zap.String("session", id), zap.String("doi", s.DOI))
		}
	}
	return removed
}

func (m *Manager) lookup(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.NotFound("session", id)
	}

	if m.opts.IdleTimeout > 0 && s.idleSince(m.now()) > m.opts.IdleTimeout {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, apperrors.New(apperrors.ErrCodeSessionExpired, "session expired").
			WithDetail("session", id)
	}
	return s, nil
}
