package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/focusboard/internal/apperr"
	"github.com/ErlanBelekov/focusboard/internal/domain"
	"github.com/gin-gonic/gin"
)

const (
	errInternalServer = "Internal server error"
	errInvalidBody    = "Request body must be valid JSON"
)

// known maps domain errors to the status they are reported with. The
// response message is the sentinel's own text.
var known = []struct {
	err    error
	status int
}{
	{domain.ErrBadCredentials, http.StatusUnauthorized},
	{domain.ErrMFARequired, http.StatusUnauthorized},
	{domain.ErrInvalidCode, http.StatusUnauthorized},
	{domain.ErrTokenInvalid, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},

	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrFocusSessionNotFound, http.StatusNotFound},
	{domain.ErrColumnNotFound, http.StatusNotFound},
	{domain.ErrTaskNotFound, http.StatusNotFound},
	{domain.ErrCommentNotFound, http.StatusNotFound},
	{domain.ErrTeamNotFound, http.StatusNotFound},
	{domain.ErrInvitationNotFound, http.StatusNotFound},
	{domain.ErrNotificationNotFound, http.StatusNotFound},

	{domain.ErrEmailTaken, http.StatusConflict},
	{domain.ErrTeamNameConflict, http.StatusConflict},
	{domain.ErrAlreadyMember, http.StatusConflict},

	{domain.ErrColumnNotEmpty, http.StatusBadRequest},
	{domain.ErrFocusSessionEnded, http.StatusBadRequest},
	{domain.ErrInvitationResolved, http.StatusBadRequest},
	{domain.ErrMFANotEnabled, http.StatusBadRequest},
}

// writeError reports err to the client. Anything not in the known table is
// logged and hidden behind a 500.
func writeError(c *gin.Context, logger *slog.Logger, op string, err error) {
	for _, k := range known {
		if errors.Is(err, k.err) {
			c.JSON(k.status, gin.H{"error": k.err.Error()})
			return
		}
	}
	logger.ErrorContext(c.Request.Context(), op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
}

// bind decodes the JSON body into dst and validates it. On failure the 400
// response has already been written.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody})
		return false
	}
	if err := apperr.Validate(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": apperr.MessageOf(err)})
		return false
	}
	return true
}
