package types

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/killallgit/paperreel-api/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// ParseIntParam extracts and parses a URL parameter as int
// Returns the parsed value and sends error response if parsing fails
func ParseIntParam(c *gin.Context, paramName string) (int, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.Atoi(paramStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid " + paramName,
			Error:   string(apperrors.ErrCodeInvalidInput),
		})
		return 0, false
	}
	return value, true
}

// DOIParam reads a DOI from a catch-all route parameter. DOIs contain
// slashes, so routes capture everything after the prefix; the leading
// slash and the given suffix (".json", ".pdf", "/full.mp4") are stripped.
func DOIParam(c *gin.Context, paramName, suffix string) (string, bool) {
	doi := strings.TrimPrefix(c.Param(paramName), "/")
	if suffix != "" {
		trimmed, ok := strings.CutSuffix(doi, suffix)
		if !ok {
			SendNotFound(c, "Not found")
			return "", false
		}
		doi = trimmed
	}
	if strings.TrimSpace(doi) == "" {
		SendBadRequest(c, "DOI is required")
		return "", false
	}
	return doi, true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Error:   string(apperrors.ErrCodeInvalidInput),
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendError maps an error to its HTTP status and a structured body.
// Internal failures are not described to the client.
func SendError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := apperrors.GetHTTPCode(err)
	resp := ErrorResponse{
		Status:  StatusError,
		Message: "Internal server error",
		Error:   string(apperrors.GetCode(err)),
	}
	if appErr, ok := apperrors.As(err); ok && code < http.StatusInternalServerError {
		resp.Message = appErr.Message
		if appErr.Cause != nil && appErr.Code == apperrors.ErrCodeInvalidGraph {
			resp.Details = appErr.Cause.Error()
		} else if len(appErr.Details) > 0 {
			resp.Details = appErr.Details
		}
	}
	c.JSON(code, resp)
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: StatusError, Message: message, Error: string(apperrors.ErrCodeInvalidInput)})
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Status: StatusError, Message: message, Error: string(apperrors.ErrCodeNotFound)})
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// SendLegacyError writes the {"error": ...} body used by the /api
// endpoints consumed by the authoring UI.
func SendLegacyError(c *gin.Context, err error) {
	_ = c.Error(err)

	code := apperrors.GetHTTPCode(err)
	message := "Internal server error"
	if appErr, ok := apperrors.As(err); ok && code < http.StatusInternalServerError {
		message = appErr.Message
		if appErr.Code == apperrors.ErrCodeInvalidGraph && appErr.Cause != nil {
			message += ": " + appErr.Cause.Error()
		}
	}
	c.JSON(code, LegacyErrorResponse{Error: message})
}
