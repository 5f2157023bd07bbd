package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/cache"
	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

// Media file names inside a document's media directory.
const (
	PDFFile   = "paper.pdf"
	VideoFile = "full.mp4"
)

// Options configures the document service.
type Options struct {
	// MediaDir holds one directory per document, named by the slug of its DOI.
	MediaDir string
	// Cache is optional; nil disables caching.
	Cache    cache.Cache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repository Repository
	cache      cache.Cache
	cacheTTL   time.Duration
	mediaDir   string
	validate   *validator.Validate
	log        *zap.Logger
}

// NewService creates a new document service
func NewService(repository Repository, opts Options) *ServiceImpl {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	v := validator.New()
	v.SetTagName("binding")
	return &ServiceImpl{
		repository: repository,
		cache:      opts.Cache,
		cacheTTL:   opts.CacheTTL,
		mediaDir:   opts.MediaDir,
		validate:   v,
		log:        log.Named("documents"),
	}
}

func blocksKey(doi string) string   { return "doc:" + doi + ":blocks" }
func captionsKey(doi string) string { return "doc:" + doi + ":captions" }

// LoadBlocks returns the document's blocks. A document without blocks
// cannot be annotated and is reported as not found.
func (s *ServiceImpl) LoadBlocks(ctx context.Context, doi string) ([]models.Block, error) {
	if err := checkDOI(doi); err != nil {
		return nil, err
	}

	var blocks []models.Block
	if s.cache != nil && cache.GetJSON(ctx, s.cache, blocksKey(doi), &blocks) {
		return blocks, nil
	}

	blocks, err := s.repository.GetBlocks(ctx, doi)
	if err != nil {
		return nil, apperrors.DatabaseError("load blocks", err)
	}
	if len(blocks) == 0 {
		return nil, apperrors.NotFound("blocks", doi)
	}

	s.store(ctx, blocksKey(doi), blocks)
	return blocks, nil
}

// LoadCaptions returns the document's captions with ids assigned by
// position. A known document without captions yields an empty list.
func (s *ServiceImpl) LoadCaptions(ctx context.Context, doi string) ([]models.Caption, error) {
	if err := checkDOI(doi); err != nil {
		return nil, err
	}

	var captions []models.Caption
	if s.cache != nil && cache.GetJSON(ctx, s.cache, captionsKey(doi), &captions) {
		return models.NumberCaptions(captions), nil
	}

	captions, err := s.repository.GetCaptions(ctx, doi)
	if err != nil {
		return nil, apperrors.DatabaseError("load captions", err)
	}
	if len(captions) == 0 {
		if _, err := s.repository.GetDocument(ctx, doi); err != nil {
			if errors.Is(err, ErrDocumentNotFound) {
				return nil, apperrors.NotFound("document", doi)
			}
			return nil, apperrors.DatabaseError("load document", err)
		}
	}

	s.store(ctx, captionsKey(doi), captions)
	return captions, nil
}

// ImportBlocks validates and stores the document's blocks, replacing any
// previous set. The document is created when missing.
func (s *ServiceImpl) ImportBlocks(ctx context.Context, doi, title string, blocks []models.Block) error {
	if err := checkDOI(doi); err != nil {
		return err
	}
	if len(blocks) == 0 {
		return apperrors.ValidationError("blocks", "at least one block is required")
	}

	seen := make(map[int]struct{}, len(blocks))
	for i, b := range blocks {
		if err := s.validate.Struct(b); err != nil {
			return apperrors.ValidationError(fmt.Sprintf("blocks[%d]", i), err.Error())
		}
		if _, dup := seen[b.ID]; dup {
			return apperrors.ValidationError(fmt.Sprintf("blocks[%d]", i), fmt.Sprintf("duplicate block id %d", b.ID))
		}
		seen[b.ID] = struct{}{}
	}

	if _, err := s.repository.UpsertDocument(ctx, doi, title); err != nil {
		return apperrors.DatabaseError("upsert document", err)
	}
	if err := s.repository.ReplaceBlocks(ctx, doi, blocks); err != nil {
		return apperrors.DatabaseError("replace blocks", err)
	}
	s.invalidate(ctx, blocksKey(doi))

	s.log.Info("imported blocks", zap.String("doi", doi), zap.Int("count", len(blocks)))
	return nil
}

// ImportCaptions validates and stores the document's captions in order,
// replacing any previous list. The document is created when missing.
func (s *ServiceImpl) ImportCaptions(ctx context.Context, doi string, captions []models.Caption) error {
	if err := checkDOI(doi); err != nil {
		return err
	}
	for i, c := range captions {
		if err := s.validate.Struct(c); err != nil {
			return apperrors.ValidationError(fmt.Sprintf("captions[%d]", i), err.Error())
		}
	}

	if _, err := s.repository.UpsertDocument(ctx, doi, ""); err != nil {
		return apperrors.DatabaseError("upsert document", err)
	}
	if err := s.repository.ReplaceCaptions(ctx, doi, captions); err != nil {
		return apperrors.DatabaseError("replace captions", err)
	}
	s.invalidate(ctx, captionsKey(doi))

	s.log.Info("imported captions", zap.String("doi", doi), zap.Int("count", len(captions)))
	return nil
}

// ListDocuments returns the known documents in natural DOI order, so that
// 10.1/paper2 sorts before 10.1/paper10.
func (s *ServiceImpl) ListDocuments(ctx context.Context) ([]models.Document, error) {
	docs, err := s.repository.ListDocuments(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError("list documents", err)
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return natural.Less(docs[i].DOI, docs[j].DOI)
	})
	return docs, nil
}

// PDFPath returns the path of the document's PDF.
func (s *ServiceImpl) PDFPath(doi string) (string, error) {
	return s.mediaPath(doi, PDFFile)
}

// VideoPath returns the path of the document's explainer video.
func (s *ServiceImpl) VideoPath(doi string) (string, error) {
	return s.mediaPath(doi, VideoFile)
}

// MediaDir returns the directory holding the document's media files.
func (s *ServiceImpl) MediaDir(doi string) string {
	return filepath.Join(s.mediaDir, slug.Make(doi))
}

func (s *ServiceImpl) mediaPath(doi, name string) (string, error) {
	if err := checkDOI(doi); err != nil {
		return "", err
	}
	path := filepath.Join(s.MediaDir(doi), name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperrors.NotFound(name, doi)
		}
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "media file unavailable")
	}
	if info.IsDir() {
		return "", apperrors.NotFound(name, doi)
	}
	return path, nil
}

func (s *ServiceImpl) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, s.cache, key, v, s.cacheTTL); err != nil {
		s.log.Warn("cache store failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ServiceImpl) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, key)
}

func checkDOI(doi string) error {
	if strings.TrimSpace(doi) == "" {
		return apperrors.MissingFieldError("doi")
	}
	if slug.Make(doi) == "" {
		return apperrors.ValidationError("doi", "must contain letters or digits")
	}
	return nil
}
