package v1

import (
	"fmt"
	"net/http"

	"github.com/MGTheTrain/record-vault/internal/app"
	"github.com/MGTheTrain/record-vault/internal/domain/records"
	"github.com/MGTheTrain/record-vault/internal/infrastructure/snapshot"
	"github.com/MGTheTrain/record-vault/internal/pkg/httputil"

	"github.com/gin-gonic/gin"
)

// SnapshotHandler defines the interface for whole-store operations
type SnapshotHandler interface {
	Export(ctx *gin.Context)
	Import(ctx *gin.Context)
	Reset(ctx *gin.Context)
}

// snapshotHandler struct holds the services
type snapshotHandler struct {
	snapshotService records.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshotService records.SnapshotService) SnapshotHandler {
	return &snapshotHandler{snapshotService: snapshotService}
}

// Export handles the GET request to download the whole store
// @Summary Export the store
// @Description Download both collections as a Dexie export document.
// @Tags Snapshot
// @Produce octet-stream
// @Success 200 {file} file "Export document"
// @Failure 503 {object} ErrorResponse
// @Router /snapshot [get]
func (handler *snapshotHandler) Export(ctx *gin.Context) {
	data, err := handler.snapshotService.Export(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snapshot.DefaultFileName))
	ctx.Data(http.StatusOK, "application/octet-stream", data)
}

// Import handles the POST request to restore an uploaded export document
// @Summary Import an export document
// @Description Insert every row of the uploaded document, optionally clearing both collections first. A failed import leaves the store unchanged.
// @Tags Snapshot
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Export document"
// @Param clear query bool false "Clear both collections before importing"
// @Success 200 {object} InfoResponse
// @Failure 400 {object} ErrorResponse
// @Router /snapshot [post]
func (handler *snapshotHandler) Import(ctx *gin.Context) {
	var request ImportRequest
	if err := ctx.ShouldBindQuery(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid query: %v", err)})
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("invalid form data: %v", err)})
		return
	}

	data, _, err := httputil.ReadFormFile(form, httputil.FormFileField)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return
	}

	if err := handler.snapshotService.Import(ctx, data, records.ImportOptions{ClearBeforeImport: request.Clear}); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: app.MsgImportSuccess})
}

// Reset handles the POST request to wipe the store
// @Summary Reset the store
// @Description Delete the store and reopen it empty.
// @Tags Snapshot
// @Produce json
// @Success 200 {object} InfoResponse
// @Failure 503 {object} ErrorResponse
// @Router /reset [post]
func (handler *snapshotHandler) Reset(ctx *gin.Context) {
	if err := handler.snapshotService.Reset(ctx); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: app.MsgResetSuccess})
}
