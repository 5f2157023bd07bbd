package documents

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/cache"
	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

const testDOI = "10.1145/3313831.3376323"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func sampleBlocks() []models.Block {
	return []models.Block{
		{ID: 2, Page: 0, Top: 0.5, Left: 0.1, Width: 0.4, Height: 0.2, Type: models.BlockTypeParagraph, Section: "Intro"},
		{ID: 0, Page: 0, Top: 0.05, Left: 0.1, Width: 0.8, Height: 0.05, Type: models.BlockTypeTitle},
		{ID: 1, Page: 0, Top: 0.2, Left: 0.1, Width: 0.4, Height: 0.2, Type: models.BlockTypeParagraph, Section: "Intro"},
	}
}

func sampleCaptions() []models.Caption {
	return []models.Caption{
		{Caption: "hello", Start: 0, End: 2},
		{Caption: "world", Start: 2, End: 4.5},
	}
}

func newTestService(t *testing.T, mediaDir string) (*ServiceImpl, *cache.MemoryCache) {
	t.Helper()
	mc := cache.NewMemoryCache(0)
	svc := NewService(NewRepository(setupTestDB(t)), Options{
		MediaDir: mediaDir,
		Cache:    mc,
		CacheTTL: time.Minute,
	})
	return svc, mc
}

func TestService_ImportAndLoadBlocks(t *testing.T) {
	ctx := context.Background()
	svc, mc := newTestService(t, t.TempDir())

	require.NoError(t, svc.ImportBlocks(ctx, testDOI, "Paper", sampleBlocks()))

	blocks, err := svc.LoadBlocks(ctx, testDOI)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{blocks[0].ID, blocks[1].ID, blocks[2].ID})
	assert.Equal(t, "Intro", blocks[1].Section)
	assert.True(t, mc.Has(ctx, blocksKey(testDOI)))

	t.Run("reimport replaces and invalidates", func(t *testing.T) {
		require.NoError(t, svc.ImportBlocks(ctx, testDOI, "", sampleBlocks()[:1]))
		assert.False(t, mc.Has(ctx, blocksKey(testDOI)))

		blocks, err := svc.LoadBlocks(ctx, testDOI)
		require.NoError(t, err)
		assert.Len(t, blocks, 1)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := svc.LoadBlocks(ctx, "10.9/unknown")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	})

	t.Run("empty doi", func(t *testing.T) {
		_, err := svc.LoadBlocks(ctx, " ")
		assert.True(t, apperrors.Is(err, apperrors.ErrCodeMissingField))
	})
}

func TestService_ImportBlocksValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, t.TempDir())

	tests := []struct {
		name   string
		blocks []models.Block
	}{
		{name: "empty", blocks: nil},
		{name: "duplicate id", blocks: []models.Block{
			{ID: 1, Type: models.BlockTypeParagraph},
			{ID: 1, Type: models.BlockTypeParagraph},
		}},
		{name: "negative page", blocks: []models.Block{{ID: 1, Page: -1, Type: models.BlockTypeParagraph}}},
		{name: "geometry out of range", blocks: []models.Block{{ID: 1, Top: 1.5, Type: models.BlockTypeParagraph}}},
		{name: "missing type", blocks: []models.Block{{ID: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ImportBlocks(ctx, testDOI, "", tt.blocks)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation), "got %v", err)
		})
	}
}

func TestService_Captions(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, t.TempDir())

	_, err := svc.LoadCaptions(ctx, testDOI)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound), "unknown document")

	require.NoError(t, svc.ImportBlocks(ctx, testDOI, "Paper", sampleBlocks()))
	captions, err := svc.LoadCaptions(ctx, testDOI)
	require.NoError(t, err)
	assert.Empty(t, captions, "known document without captions")

	require.NoError(t, svc.ImportCaptions(ctx, testDOI, sampleCaptions()))
	captions, err = svc.LoadCaptions(ctx, testDOI)
	require.NoError(t, err)
	require.Len(t, captions, 2)
	assert.Equal(t, models.Caption{ID: 1, Caption: "world", Start: 2, End: 4.5}, captions[1])

	cached, err := svc.LoadCaptions(ctx, testDOI)
	require.NoError(t, err)
	assert.Equal(t, captions, cached)

	err = svc.ImportCaptions(ctx, testDOI, []models.Caption{{Caption: "bad", Start: 5, End: 4}})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestService_ListDocuments(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, t.TempDir())

	for _, doi := range []string{"10.1/paper10", "10.1/paper2", "10.1/paper1"} {
		require.NoError(t, svc.ImportBlocks(ctx, doi, "", sampleBlocks()))
	}

	docs, err := svc.ListDocuments(ctx)
	require.NoError(t, err)
	dois := make([]string, len(docs))
	for i, d := range docs {
		dois[i] = d.DOI
	}
	assert.Equal(t, []string{"10.1/paper1", "10.1/paper2", "10.1/paper10"}, dois)
}

func TestService_MediaPaths(t *testing.T) {
	mediaDir := t.TempDir()
	svc, _ := newTestService(t, mediaDir)

	dir := svc.MediaDir(testDOI)
	assert.Equal(t, filepath.Join(mediaDir, "10-1145-3313831-3376323"), dir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PDFFile), []byte("%PDF-1.7"), 0o644))

	path, err := svc.PDFPath(testDOI)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, PDFFile), path)

	_, err = svc.VideoPath(testDOI)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	_, err = svc.PDFPath("../..")
	assert.Error(t, err)
}

func TestRepository_UpsertDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	doc, err := repo.UpsertDocument(ctx, testDOI, "First")
	require.NoError(t, err)
	assert.Equal(t, "First", doc.Title)

	doc, err = repo.UpsertDocument(ctx, testDOI, "")
	require.NoError(t, err)
	assert.Equal(t, "First", doc.Title, "empty title keeps the existing one")

	doc, err = repo.UpsertDocument(ctx, testDOI, "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", doc.Title)

	docs, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	_, err = repo.GetDocument(ctx, "10.9/none")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
