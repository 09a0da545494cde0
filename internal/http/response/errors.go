package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// Error renders err with the status its type implies. Classified service
// errors keep their status and code; anything else is logged, recorded on
// the request span and reported as a 500.
func Error(c *gin.Context, log *logger.Logger, err error) {
	if ae, ok := apierr.As(err); ok {
		RespondError(c, ae.Status, ae.Code, ae)
		return
	}
	span := trace.SpanFromContext(c.Request.Context())
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if log != nil {
		log.Error("Request failed", "path", c.FullPath(), "method", c.Request.Method, "error", err)
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
}

// BindError renders a request binding failure as a 400, spelling out which
// fields failed validation.
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New(strings.Join(msgs, "; ")))
		return
	}
	RespondError(c, http.StatusBadRequest, "invalid_request", err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a uuid", fe.Field())
	case "url", "uri":
		return fmt.Sprintf("%s must be a url", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}
