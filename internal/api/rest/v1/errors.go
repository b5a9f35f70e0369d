package v1

import (
	"errors"
	"net/http"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"

	"github.com/gin-gonic/gin"
)

// statusFor maps the error taxonomy to HTTP status codes
func statusFor(err error) int {
	switch records.KindOf(err) {
	case records.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	case records.KindNotFound:
		return http.StatusNotFound
	case records.KindImport:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(statusFor(err), ErrorResponse{Message: err.Error()})
}

// RequireOpenStore answers 503 unless the store behind shell is open
func RequireOpenStore(shell ShellStatus) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if state := shell.State(); state != app.StateOpen {
			err := records.NewError(records.KindStoreUnavailable, ctx.FullPath(), errors.New("store is "+string(state)))
			abortWithError(ctx, err)
			return
		}
		ctx.Next()
	}
}
