package handlers

import (
	"net/http"

	"github.com/arkodev/learnhub/internal/apperr"
	"github.com/gin-gonic/gin"
)

// Every error leaves the boundary as {success:false, message} plus the
// request id when one is known. Handlers classify failures into the apperr
// taxonomy and hand them to RespondAppError; apperr.StatusOf is the single
// kind-to-status mapping.

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{
		"success": false,
		"message": message,
	}

	if id := requestIDFrom(ctx); id != "" {
		body["requestId"] = id
	}

	if details != nil {
		body["details"] = details
	}

	ctx.JSON(status, body)
}

// RespondBadRequest carries field-level details from request binding; all
// other error paths go through RespondAppError.
func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

// RespondAppError writes a taxonomy error with its mapped status.
// Unclassified errors become a 500 with the fallback message; internals
// never leak.
func RespondAppError(ctx *gin.Context, err error, fallback string) {
	RespondError(ctx, apperr.StatusOf(err), apperr.MessageOf(err, fallback), nil)
}

// errNotAuthenticated covers handlers reached without an identity in the
// request context, which only happens when the auth middleware was skipped.
func errNotAuthenticated() error {
	return apperr.New(apperr.KindUnauthenticated, "User not authenticated")
}
