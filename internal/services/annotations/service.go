package annotations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/killallgit/paperreel-api/internal/mapping"
	"github.com/killallgit/paperreel-api/internal/models"
	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

// SaveResult describes a stored snapshot.
type SaveResult struct {
	DOI      string    `json:"doi"`
	Revision string    `json:"revision"`
	SavedAt  time.Time `json:"savedAt"`
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	log        *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewService creates a new annotation service
func NewService(repository Repository, log *zap.Logger) *ServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &ServiceImpl{
		repository: repository,
		log:        log.Named("annotations"),
		now:        time.Now,
		inFlight:   make(map[string]struct{}),
	}
}

// Load retrieves the annotation graph of a document
func (s *ServiceImpl) Load(ctx context.Context, doi string) (*models.Annotations, error) {
	if strings.TrimSpace(doi) == "" {
		return nil, apperrors.MissingFieldError("doi")
	}

	snapshot, err := s.repository.GetSnapshot(ctx, doi)
	if errors.Is(err, ErrSnapshotNotFound) {
		return models.NewAnnotations(), nil
	}
	if err != nil {
		return nil, apperrors.DatabaseError("load annotations", err)
	}

	ann, err := decodeSnapshot(snapshot)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeInternal, "stored annotations for %s are unreadable", doi)
	}
	return ann, nil
}

// Save persists the annotation graph of a document. The graph is checked
// before anything is written; an invalid graph is rejected as a whole.
func (s *ServiceImpl) Save(ctx context.Context, doi string, ann *models.Annotations) (*SaveResult, error) {
	if strings.TrimSpace(doi) == "" {
		return nil, apperrors.MissingFieldError("doi")
	}
	if ann == nil {
		return nil, apperrors.MissingFieldError("annotations")
	}
	ann = ann.Clone()
	if err := mapping.Validate(ann); err != nil {
		return nil, apperrors.InvalidGraphError(doi, err)
	}

	if !s.begin(doi) {
		return nil, apperrors.New(apperrors.ErrCodeSaveInProgress, "a save is already in progress").
			WithDetail("doi", doi)
	}
	defer s.finish(doi)

	snapshot, err := encodeSnapshot(doi, ann)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to encode annotations")
	}
	snapshot.SavedAt = s.now().UTC()

	if err := s.repository.SaveSnapshot(ctx, snapshot); err != nil {
		s.log.Error("save failed", zap.String("doi", doi), zap.Error(err))
		return nil, apperrors.DatabaseError("save annotations", err)
	}

	s.log.Info("annotations saved",
		zap.String("doi", doi),
		zap.String("revision", snapshot.Revision),
		zap.Int("clips", len(ann.Clips)),
		zap.Int("highlights", len(ann.Highlights)),
	)
	return &SaveResult{DOI: doi, Revision: snapshot.Revision, SavedAt: snapshot.SavedAt}, nil
}

// Delete removes the saved graph of a document
func (s *ServiceImpl) Delete(ctx context.Context, doi string) error {
	if err := s.repository.DeleteSnapshot(ctx, doi); err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return apperrors.NotFound("annotations", doi)
		}
		return apperrors.DatabaseError("delete annotations", err)
	}
	return nil
}

// Saving reports whether a save for the document is in flight.
func (s *ServiceImpl) Saving(doi string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[doi]
	return ok
}

func (s *ServiceImpl) begin(doi string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[doi]; busy {
		return false
	}
	s.inFlight[doi] = struct{}{}
	return true
}

func (s *ServiceImpl) finish(doi string) {
	s.mu.Lock()
	delete(s.inFlight, doi)
	s.mu.Unlock()
}

func encodeSnapshot(doi string, ann *models.Annotations) (*models.AnnotationSnapshot, error) {
	highlights, err := json.Marshal(ann.Highlights)
	if err != nil {
		return nil, fmt.Errorf("encoding highlights: %w", err)
	}
	clips, err := json.Marshal(ann.Clips)
	if err != nil {
		return nil, fmt.Errorf("encoding clips: %w", err)
	}
	segments, err := json.Marshal(ann.SyncSegments)
	if err != nil {
		return nil, fmt.Errorf("encoding sync segments: %w", err)
	}
	return &models.AnnotationSnapshot{
		DOI:          doi,
		Highlights:   datatypes.JSON(highlights),
		Clips:        datatypes.JSON(clips),
		SyncSegments: datatypes.JSON(segments),
	}, nil
}

func decodeSnapshot(snapshot *models.AnnotationSnapshot) (*models.Annotations, error) {
	ann := models.NewAnnotations()
	if err := json.Unmarshal(snapshot.Highlights, &ann.Highlights); err != nil {
		return nil, fmt.Errorf("decoding highlights: %w", err)
	}
	if err := json.Unmarshal(snapshot.Clips, &ann.Clips); err != nil {
		return nil, fmt.Errorf("decoding clips: %w", err)
	}
	if err := json.Unmarshal(snapshot.SyncSegments, &ann.SyncSegments); err != nil {
		return nil, fmt.Errorf("decoding sync segments: %w", err)
	}
	return ann.Normalize(), nil
}
