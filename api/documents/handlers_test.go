package documents_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/paperreel-api/api/documents"
	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/database"
	"github.com/killallgit/paperreel-api/internal/models"
	"github.com/killallgit/paperreel-api/internal/services/annotations"
	documentsService "github.com/killallgit/paperreel-api/internal/services/documents"
)

const testDOI = "10.1145/3313831.3376323"

type DocumentTestSuite struct {
	t      *testing.T
	docs   *documentsService.ServiceImpl
	anns   *annotations.ServiceImpl
	router *gin.Engine
}

func setupDocumentTestSuite(t *testing.T) *DocumentTestSuite {
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	docs := documentsService.NewService(documentsService.NewRepository(db.DB), documentsService.Options{
		MediaDir: t.TempDir(),
	})
	anns := annotations.NewService(annotations.NewRepository(db.DB), nil)
	deps := &types.Dependencies{
		DB:                db,
		DocumentService:   docs,
		AnnotationService: anns,
	}

	router := gin.New()
	documents.RegisterLegacyRoutes(router.Group("/api"), deps)
	documents.RegisterRoutes(router.Group("/api/v1/documents"), deps)

	return &DocumentTestSuite{t: t, docs: docs, anns: anns, router: router}
}

func (s *DocumentTestSuite) seed() {
	ctx := context.Background()
	require.NoError(s.t, s.docs.ImportBlocks(ctx, testDOI, "Paper", []models.Block{
		{ID: 0, Page: 0, Top: 0.1, Left: 0.1, Width: 0.8, Height: 0.2, Type: models.BlockTypeParagraph},
		{ID: 1, Page: 0, Top: 0.4, Left: 0.1, Width: 0.8, Height: 0.2, Type: models.BlockTypeParagraph},
	}))
	require.NoError(s.t, s.docs.ImportCaptions(ctx, testDOI, []models.Caption{
		{Caption: "first", Start: 0, End: 2},
		{Caption: "second", Start: 2, End: 5},
	}))
}

func (s *DocumentTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestGetBlocks(t *testing.T) {
	suite := setupDocumentTestSuite(t)
	suite.seed()

	t.Run("returns blocks", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/blocks/"+testDOI+".json", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var blocks []models.Block
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &blocks))
		assert.Len(t, blocks, 2)
	})

	t.Run("unknown document", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/blocks/10.9/none.json", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp types.LegacyErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("wrong extension", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/blocks/"+testDOI+".xml", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetCaptions(t *testing.T) {
	suite := setupDocumentTestSuite(t)
	suite.seed()

	w := suite.do(http.MethodGet, "/api/captions/"+testDOI+".json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[
		{"id":0,"caption":"first","start":0,"end":2},
		{"id":1,"caption":"second","start":2,"end":5}
	]`, w.Body.String())
}

func TestGetMedia(t *testing.T) {
	suite := setupDocumentTestSuite(t)
	dir := suite.docs.MediaDir(testDOI)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, documentsService.VideoFile), []byte("0123456789"), 0o644))

	t.Run("full video", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/clips/"+testDOI+"/full.mp4", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
		assert.Equal(t, "0123456789", w.Body.String())
	})

	t.Run("range request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/clips/"+testDOI+"/full.mp4", nil)
		req.Header.Set("Range", "bytes=2-5")
		w := httptest.NewRecorder()
		suite.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPartialContent, w.Code)
		assert.Equal(t, "2345", w.Body.String())
	})

	t.Run("missing pdf", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/pdf/"+testDOI+".pdf", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestImportAndListDocuments(t *testing.T) {
	suite := setupDocumentTestSuite(t)

	t.Run("rejects invalid geometry", func(t *testing.T) {
		w := suite.do(http.MethodPost, "/api/v1/documents", map[string]any{
			"doi":    "10.1/bad",
			"blocks": []map[string]any{{"id": 0, "page": 0, "top": 1.5, "type": "Paragraph"}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects missing blocks", func(t *testing.T) {
		w := suite.do(http.MethodPost, "/api/v1/documents", map[string]any{"doi": "10.1/bad"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	for _, doi := range []string{"10.1/p10", "10.1/p2"} {
		w := suite.do(http.MethodPost, "/api/v1/documents", types.ImportDocumentRequest{
			DOI:      doi,
			Blocks:   []models.Block{{ID: 0, Top: 0.1, Width: 0.5, Height: 0.1, Type: models.BlockTypeParagraph}},
			Captions: []models.Caption{{Caption: "hi", Start: 0, End: 1}},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := suite.do(http.MethodGet, "/api/v1/documents", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.DocumentsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "10.1/p2", resp.Documents[0].DOI)
	assert.Equal(t, "10.1/p10", resp.Documents[1].DOI)
}

func TestGetPlayback(t *testing.T) {
	suite := setupDocumentTestSuite(t)

	ann := models.NewAnnotations()
	ann.Highlights[0] = models.Highlight{ID: 0, Type: models.HighlightTypeText, Rects: []models.Rect{{}}, Clip: 0, Blocks: []int{0}}
	ann.Highlights[1] = models.Highlight{ID: 1, Type: models.HighlightTypeText, Rects: []models.Rect{{}}, Clip: 0, Blocks: []int{3}}
	ann.Clips[0] = models.Clip{ID: 0, Start: 0, End: 10, Highlights: []int{1, 0}, Position: 1}
	_, err := suite.anns.Save(context.Background(), testDOI, ann)
	require.NoError(t, err)

	t.Run("clip playing", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/documents/playback/"+testDOI+"?t=4.5", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.PlaybackResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, testDOI, resp.DOI)
		require.Len(t, resp.Clips, 1)
		assert.Equal(t, []int{1, 0}, []int{resp.Clips[0].Highlights[0].ID, resp.Clips[0].Highlights[1].ID})
		require.NotNil(t, resp.Clips[0].Anchor)
		assert.Equal(t, 0, *resp.Clips[0].Anchor)
	})

	t.Run("nothing playing", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/documents/playback/"+testDOI+"?t=10", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp types.PlaybackResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Clips)
	})

	t.Run("bad time", func(t *testing.T) {
		w := suite.do(http.MethodGet, "/api/v1/documents/playback/"+testDOI+"?t=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
