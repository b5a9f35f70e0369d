package v1

import (
	"fmt"
	"net/http"

	"github.com/MGTheTrain/record-vault/internal/domain/records"

	"github.com/gin-gonic/gin"
)

// CompanyHandler defines the interface for handling company-related operations
type CompanyHandler interface {
	List(ctx *gin.Context)
	Add(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

// companyHandler struct holds the services
type companyHandler struct {
	companyService records.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyService records.CompanyService) CompanyHandler {
	return &companyHandler{companyService: companyService}
}

// List handles the GET request to list every company
// @Summary List companies
// @Description Fetch every company, newest first.
// @Tags Company
// @Produce json
// @Success 200 {array} CompanyResponse
// @Failure 503 {object} ErrorResponse
// @Router /companies [get]
func (handler *companyHandler) List(ctx *gin.Context) {
	companies, err := handler.companyService.List(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var listResponse = []CompanyResponse{}
	for _, company := range companies {
		listResponse = append(listResponse, newCompanyResponse(company))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// Add handles the POST request to add a company with a generated name
// @Summary Add a company
// @Description Insert a company with a generated name.
// @Tags Company
// @Produce json
// @Success 201 {object} CompanyResponse
// @Failure 503 {object} ErrorResponse
// @Router /companies [post]
func (handler *companyHandler) Add(ctx *gin.Context) {
	company, err := handler.companyService.Add(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newCompanyResponse(company))
}

// DeleteByID handles the DELETE request to remove a company by ID
// @Summary Remove a company by ID
// @Description Remove a company. Users referencing it keep the reference.
// @Tags Company
// @Produce json
// @Param id path int true "Company ID"
// @Success 200 {object} InfoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [delete]
func (handler *companyHandler) DeleteByID(ctx *gin.Context) {
	var request IDRequest
	if err := bindID(ctx, &request); err != nil {
		return
	}

	if err := handler.companyService.Remove(ctx, request.ID); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted company with id %d", request.ID)})
}

// bindID reads and validates the id path parameter; on failure it has already answered 400
func bindID(ctx *gin.Context, request *IDRequest) error {
	if err := ctx.ShouldBindUri(request); err != nil {
		err = fmt.Errorf("invalid id: %w", err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return err
	}
	if err := request.Validate(); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
		return err
	}
	return nil
}
