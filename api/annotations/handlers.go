package annotations

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/killallgit/paperreel-api/api/types"
)

// GetAnnotations returns the saved annotation graph of a document
// @Summary      Get annotations
// @Description  Highlights, clips and sync segments keyed by id; empty maps when nothing was saved
// @Tags         annotations
// @Produce      json
// @Param        doi path string true "DOI followed by .json"
// @Success      200 {object} models.Annotations
// @Failure      500 {object} types.LegacyErrorResponse
// @Router       /api/annotation/{doi}.json [get]
func GetAnnotations(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		doi, ok := types.DOIParam(c, "doi", ".json")
		if !ok {
			return
		}
		ann, err := deps.AnnotationService.Load(c.Request.Context(), doi)
		if err != nil {
			types.SendLegacyError(c, err)
			return
		}
		c.JSON(http.StatusOK, ann)
	}
}

// SaveAnnotations replaces the saved annotation graph of a document
// @Summary      Save annotations
// @Description  Validate and store a whole annotation graph. Only one save per document may run at a time.
// @Tags         annotations
// @Accept       json
// @Produce      json
// @Param        annotations body types.SaveAnnotationsRequest true "DOI and annotation graph"
// @Success      200 {object} types.LegacySaveResponse
// @Failure      400 {object} types.LegacyErrorResponse
// @Failure      409 {object} types.LegacyErrorResponse "A save for this document is in progress"
// @Router       /api/save_annotations [post]
func SaveAnnotations(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SaveAnnotationsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var maxErr *http.MaxBytesError
			switch {
			case errors.As(err, &maxErr):
				c.JSON(http.StatusRequestEntityTooLarge, types.LegacyErrorResponse{Error: "request body too large"})
			case errors.Is(err, io.EOF):
				c.JSON(http.StatusBadRequest, types.LegacyErrorResponse{Error: "request body is empty"})
			default:
				c.JSON(http.StatusBadRequest, types.LegacyErrorResponse{Error: "invalid request body: " + err.Error()})
			}
			return
		}

		result, err := deps.AnnotationService.Save(c.Request.Context(), req.DOI, req.Annotations())
		if err != nil {
			deps.Log().Warn("save rejected", zap.String("doi", req.DOI), zap.Error(err))
			types.SendLegacyError(c, err)
			return
		}

		c.Header("X-Revision", result.Revision)
		c.JSON(http.StatusOK, types.LegacySaveResponse{Message: http.StatusOK})
	}
}

// DeleteAnnotations removes the saved annotation graph of a document
// @Summary      Delete annotations
// @Tags         annotations
// @Produce      json
// @Param        doi path string true "DOI"
// @Success      204
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/annotations/{doi} [delete]
func DeleteAnnotations(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		doi, ok := types.DOIParam(c, "doi", "")
		if !ok {
			return
		}
		if err := deps.AnnotationService.Delete(c.Request.Context(), doi); err != nil {
			types.SendError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
