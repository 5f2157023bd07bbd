package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/paperreel-api/api/types"
	"github.com/killallgit/paperreel-api/internal/mapping"
)

// applyChange runs op on the session named in the path and writes a
// ChangeResponse. A rejected op still answers 200 with applied=false.
func applyChange(c *gin.Context, deps *types.Dependencies, op func(e *mapping.Editor) mapping.Change) {
	var change mapping.Change
	view, _, err := deps.SessionManager.Apply(c.Param("id"), func(e *mapping.Editor) bool {
		change = op(e)
		return change.Applied
	})
	if err != nil {
		types.SendError(c, err)
		return
	}
	types.SendSuccess(c, types.NewChangeResponse(view, change))
}

func applied(ok bool) mapping.Change {
	return mapping.Change{Applied: ok}
}

// OpenSession starts an authoring session
// @Summary      Open session
// @Description  Load a document's blocks, captions and saved annotations into a new editing session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body types.OpenSessionRequest true "Document to edit"
// @Success      201 {object} types.SessionResponse
// @Failure      404 {object} types.ErrorResponse "Document not found"
// @Failure      429 {object} types.ErrorResponse "Too many open sessions"
// @Router       /api/v1/sessions [post]
func OpenSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.OpenSessionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		view, err := deps.SessionManager.Open(c.Request.Context(), req.DOI)
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendCreated(c, types.SessionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Session:      view,
		})
	}
}

// GetSession returns a session's state
// @Summary      Get session
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} types.SessionResponse
// @Failure      404 {object} types.ErrorResponse
// @Failure      410 {object} types.ErrorResponse "Session expired"
// @Router       /api/v1/sessions/{id} [get]
func GetSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := deps.SessionManager.Get(c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.SessionResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Session:      view,
		})
	}
}

// CloseSession discards a session without saving
// @Summary      Close session
// @Tags         sessions
// @Param        id path string true "Session ID"
// @Success      204
// @Failure      404 {object} types.ErrorResponse
// @Router       /api/v1/sessions/{id} [delete]
func CloseSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.SessionManager.Close(c.Param("id")); err != nil {
			types.SendError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ToggleBlock clicks a block
// @Summary      Toggle block
// @Description  Select or deselect a block; while modifying a mapping, add the block to or remove it from the mapping
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        block path int true "Block ID"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/blocks/{block}/toggle [post]
func ToggleBlock(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		blockID, ok := types.ParseIntParam(c, "block")
		if !ok {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.ToggleBlock(blockID))
		})
	}
}

// SetTimeRange sets the pending video range
// @Summary      Set time range
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        range body types.TimeRangeRequest true "Range in seconds"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/range [put]
func SetTimeRange(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.TimeRangeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.SetTimeRange(*req.Start, *req.End))
		})
	}
}

// CreateMapping maps the selected blocks to the pending range
// @Summary      Create mapping
// @Description  Build highlights from the selected blocks and a clip over the pending time range
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/mappings [post]
func CreateMapping(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var clipID int
		view, ok, err := deps.SessionManager.Apply(c.Param("id"), func(e *mapping.Editor) bool {
			var created bool
			clipID, created = e.CreateMapping()
			return created
		})
		if err != nil {
			types.SendError(c, err)
			return
		}
		resp := types.NewChangeResponse(view, applied(ok))
		if ok {
			resp.ClipID = &clipID
		}
		types.SendSuccess(c, resp)
	}
}

// RemoveMapping deletes the selected mapping
// @Summary      Remove selected mapping
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/mappings [delete]
func RemoveMapping(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.RemoveMapping())
		})
	}
}

// SetSelection selects a mapping, or clears the selection when clip is null
// @Summary      Select mapping
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        selection body types.SelectionRequest true "Clip to select"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/selection [put]
func SetSelection(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SelectionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			if req.Clip == nil {
				e.ClearSelection()
				return applied(true)
			}
			return applied(e.SelectMapping(*req.Clip))
		})
	}
}

// SetMode switches between selecting, modifying and word highlighting
// @Summary      Set editor mode
// @Description  "modify" edits the selected mapping's blocks, "highlight" starts a word alignment, "idle" leaves either mode (saving a complete word alignment)
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        mode body types.ModeRequest true "Target mode"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/mode [put]
func SetMode(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.ModeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			switch req.Mode {
			case "modify":
				return applied(e.EnterModify())
			case "highlight":
				return applied(e.EnterHighlightMode())
			}
			switch e.State().Mode {
			case mapping.ModeModifying:
				return applied(e.ExitModify())
			case mapping.ModeHighlightingWords:
				return applied(e.ExitHighlightMode())
			}
			return applied(false)
		})
	}
}

// ChangeClip moves a clip's time window
// @Summary      Change clip range
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        clip path int true "Clip ID"
// @Param        range body types.TimeRangeRequest true "Range in seconds"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/clips/{clip}/range [put]
func ChangeClip(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clipID, ok := types.ParseIntParam(c, "clip")
		if !ok {
			return
		}
		var req types.TimeRangeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.ChangeClip(clipID, *req.Start, *req.End))
		})
	}
}

// ChangeHighlight adds a block to or removes a block from a clip
// @Summary      Change clip highlights
// @Description  op 1 merges the block into a continuous highlight or adds a new one; op -1 removes it and deletes emptied highlights and clips
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        clip path int true "Clip ID"
// @Param        change body types.HighlightChangeRequest true "Block and operation"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/clips/{clip}/highlights [post]
func ChangeHighlight(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clipID, ok := types.ParseIntParam(c, "clip")
		if !ok {
			return
		}
		var req types.HighlightChangeRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return e.ChangeHighlight(clipID, *req.Block, req.Op)
		})
	}
}

// ChangeClipPosition moves a clip's anchor highlight
// @Summary      Change clip anchor
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        clip path int true "Clip ID"
// @Param        position body types.PositionRequest true "Highlight to anchor on"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/clips/{clip}/position [put]
func ChangeClipPosition(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clipID, ok := types.ParseIntParam(c, "clip")
		if !ok {
			return
		}
		var req types.PositionRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.ChangeClipPosition(clipID, *req.Highlight))
		})
	}
}

// RemoveSegment deletes one of a clip's word alignments
// @Summary      Remove sync segment
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        clip path int true "Clip ID"
// @Param        index path int true "Segment index"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/clips/{clip}/segments/{index} [delete]
func RemoveSegment(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		clipID, ok := types.ParseIntParam(c, "clip")
		if !ok {
			return
		}
		index, ok := types.ParseIntParam(c, "index")
		if !ok {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.RemoveSegment(clipID, index))
		})
	}
}

// SetNote sets the selected clip's note
// @Summary      Set clip note
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        note body types.NoteRequest true "Note"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/note [put]
func SetNote(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.NoteRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.ChangeClipNote(req.Note))
		})
	}
}

// SetSupplementary sets the selected clip's supplementary flag
// @Summary      Set clip supplementary flag
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        flag body types.SupplementaryRequest true "Flag"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/supplementary [put]
func SetSupplementary(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.SupplementaryRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.ChangeClipSupp(*req.Supplementary))
		})
	}
}

// SelectWords sets the pending word alignment
// @Summary      Select words
// @Description  Replace the pending tokens and caption words while in highlight mode
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        words body types.WordsRequest true "Tokens and caption words"
// @Success      200 {object} types.ChangeResponse
// @Router       /api/v1/sessions/{id}/words [put]
func SelectWords(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.WordsRequest
		if !types.BindJSONOrError(c, &req) {
			return
		}
		applyChange(c, deps, func(e *mapping.Editor) mapping.Change {
			return applied(e.SelectWords(req.Tokens, req.Words))
		})
	}
}

// SaveSession persists the session's annotation graph
// @Summary      Save session
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} types.SaveResponse
// @Failure      400 {object} types.ErrorResponse "Graph is inconsistent"
// @Failure      409 {object} types.ErrorResponse "A save for this document is in progress"
// @Router       /api/v1/sessions/{id}/save [post]
func SaveSession(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := deps.SessionManager.Save(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		types.SendSuccess(c, types.SaveResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Annotations saved"},
			Result:       result,
		})
	}
}
