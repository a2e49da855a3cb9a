package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	svcErr "github.com/oggyb/skilllink/internal/errors"
	"github.com/oggyb/skilllink/internal/utils/ctxkeys"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Message is the JSON shape of simple acknowledgements.
type Message struct {
	Message string `json:"message"`
}

// Error maps err onto a status code and writes {"detail": ...}.
// Server-side failures are logged with the request's trace id; their
// message never reaches the client.
func Error(c *gin.Context, log *slog.Logger, err error) {
	status, detail := svcErr.Map(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			"trace_id", c.GetString(ctxkeys.TraceID),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"err", err,
		)
	} else {
		log.Debug("request rejected",
			"trace_id", c.GetString(ctxkeys.TraceID),
			"status", status,
			"err", err,
		)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}

// BindError reports a request body that failed decoding or validation.
// Validation failures name the first offending field.
func BindError(c *gin.Context, log *slog.Logger, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		Error(c, log, svcErr.InvalidArgument("invalid value for field '%s' (%s)", fe.Field(), fe.Tag()))
		return
	}
	Error(c, log, svcErr.InvalidArgument("invalid request body"))
}

// NextCursor exposes the token of the following page, if any.
func NextCursor(c *gin.Context, next *string) {
	if next != nil {
		c.Header("X-Next-Cursor", *next)
	}
}
