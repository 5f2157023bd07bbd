package documents

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/mapping"
	"github.com/killallgit/paperreel-api/internal/models"
	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

// GetBlocks returns the layout blocks of a document
// @Summary      Get document blocks
// @Description  Layout blocks of a paper, ordered by id
// @Tags         documents
// @Produce      json
// @Param        doi path string true "DOI followed by .json"
// @Success      200 {array}  models.Block
// @Failure      404 {object} types.LegacyErrorResponse
// @Router       /api/blocks/{doi}.json [get]
func GetBlocks(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		doi, ok := types.DOIParam(c, "doi", ".json")
		if !ok {
			return
		}
		blocks, err := deps.DocumentService.LoadBlocks(c.Request.Context(), doi)
		if err != nil {
			types.SendLegacyError(c, err)
			return
		}
		c.JSON(http.StatusOK, blocks)
	}
}

// GetCaptions returns the video captions of a document
// @Summary      Get document captions
// @Description  Captions of the explainer video; id equals position
// @Tags         documents
// @Produce      json
// @Param        doi path string true "DOI followed by .json"
// @Success      200 {array}  models.Caption
// @Failure      404 {object} types.LegacyErrorResponse
// @Router       /api/captions/{doi}.json [get]
func GetCaptions(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		doi, ok := types.DOIParam(c, "doi", ".json")
		if !ok {
			return
		}
		captions, err := deps.DocumentService.LoadCaptions(c.Request.Context(), doi)
		if err != nil {
			types.SendLegacyError(c, err)
			return
		}
		c.JSON(http.StatusOK, captions)
	}
}

// GetPDF streams the paper
// @Summary      Get document PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        doi path string true "DOI followed by .pdf"
// @Success      200 {file} binary
// @Success      206 {file} binary
// @Failure      404 {object} types.LegacyErrorResponse
// @Router       /api/pdf/{doi}.pdf [get]
func GetPDF(deps *types.Dependencies) gin.HandlerFunc {
	return serveMedia(deps, ".pdf", "application/pdf", func(doi string) (string, error) {
		return deps.DocumentService.PDFPath(doi)
	})
}

// GetVideo streams the explainer video
// @Summary      Get explainer video
// @Tags         documents
// @Produce      video/mp4
// @Param        doi path string true "DOI followed by /full.mp4"
// @Success      200 {file} binary
// @Success      206 {file} binary
// @Failure      404 {object} types.LegacyErrorResponse
// @Router       /api/clips/{doi}/full.mp4 [get]
func GetVideo(deps *types.Dependencies) gin.HandlerFunc {
	return serveMedia(deps, "/full.mp4", "video/mp4", func(doi string) (string, error) {
		return deps.DocumentService.VideoPath(doi)
	})
}

// serveMedia serves a file with range support.
func serveMedia(deps *types.Dependencies, suffix, contentType string, resolve func(string) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		doi, ok := types.DOIParam(c, "doi", suffix)
		if !ok {
			return
		}
		path, err := resolve(doi)
		if err != nil {
			types.SendLegacyError(c, err)
			return
		}

		f, err := os.Open(path)
		if err != nil {
			deps.Log().Error("open media", zap.String("path", path), zap.Error(err))
			types.SendLegacyError(c, apperrors.NotFound("media", doi))
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			types.SendLegacyError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "stat media"))
			return
		}

		c.Header("Content-Type", contentType)
		c.Header("Accept-Ranges", "bytes")
		http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	}
}

// ListDocuments lists the known documents
// @Summary      List documents
// @Description  Documents with imported blocks, in natural DOI order
// @Tags         documents
// @Produce      json
// @Success      200 {object} types.DocumentsResponse
// @Failure      500 {object} types.ErrorResponse
// @Router       /api/v1/documents [get]
func ListDocuments(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := deps.DocumentService.ListDocuments(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}

		summaries := make([]types.DocumentSummary, 0, len(docs))
		for _, d := range docs {
			summaries = append(summaries, types.DocumentSummary{
				DOI:       d.DOI,
				Title:     d.Title,
				UpdatedAt: d.UpdatedAt,
			})
		}
		types.SendSuccess(c, types.DocumentsResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Documents:    summaries,
			Count:        len(summaries),
		})
	}
}

// ImportDocument stores a document's blocks and captions
// @Summary      Import document
// @Description  Replace the blocks (and captions, when given) of a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        document body types.ImportDocumentRequest true "Document layout and captions"
// @Success      201 {object} types.ImportResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/documents [post]
func ImportDocument(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ImportDocumentRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}

		ctx := c.Request.Context()
		if err := deps.DocumentService.ImportBlocks(ctx, req.DOI, req.Title, req.Blocks); err != nil {
			types.SendError(c, err)
			return
		}
		if len(req.Captions) > 0 {
			if err := deps.DocumentService.ImportCaptions(ctx, req.DOI, req.Captions); err != nil {
				types.SendError(c, err)
				return
			}
		}

		deps.Log().Info("document imported",
			zap.String("doi", req.DOI),
			zap.Int("blocks", len(req.Blocks)),
			zap.Int("captions", len(req.Captions)),
		)
		types.SendCreated(c, types.ImportResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DOI:          req.DOI,
			Blocks:       len(req.Blocks),
			Captions:     len(req.Captions),
		})
	}
}

// GetPlayback answers which clips play at a video time
// @Summary      Clips playing at a time
// @Description  Saved clips whose window contains t, with their highlights in playback order
// @Tags         documents
// @Produce      json
// @Param        doi path string true "DOI"
// @Param        t query number true "Video time in seconds"
// @Success      200 {object} types.PlaybackResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /api/v1/documents/playback/{doi} [get]
func GetPlayback(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		doi, ok := types.DOIParam(c, "doi", "")
		if !ok {
			return
		}
		t, err := strconv.ParseFloat(c.Query("t"), 64)
		if err != nil || t < 0 {
			types.SendBadRequest(c, "Query parameter t must be a non-negative number of seconds")
			return
		}

		ann, err := deps.AnnotationService.Load(c.Request.Context(), doi)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.PlaybackResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			DOI:          doi,
			Time:         t,
			Clips:        playingClips(ann, t),
		})
	}
}

func playingClips(ann *models.Annotations, t float64) []types.PlayingClip {
	clips := mapping.ClipsAt(ann, t)
	out := make([]types.PlayingClip, 0, len(clips))
	for _, clip := range clips {
		pc := types.PlayingClip{Clip: clip, Highlights: make([]models.Highlight, 0, len(clip.Highlights))}
		for _, hid := range clip.Highlights {
			if h, ok := ann.Highlights[hid]; ok {
				pc.Highlights = append(pc.Highlights, h)
			}
		}
		if anchor, ok := clip.Anchor(); ok {
			pc.Anchor = &anchor
		}
		out = append(out, pc)
	}
	return out
}
