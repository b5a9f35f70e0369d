package v1

import (
	"fmt"
	"net/http"

	"github.com/MGTheTrain/record-vault/internal/domain/records"

	"github.com/gin-gonic/gin"
)

// UserHandler defines the interface for handling user-related operations
type UserHandler interface {
	List(ctx *gin.Context)
	Add(ctx *gin.Context)
	DeleteByID(ctx *gin.Context)
}

// userHandler struct holds the services
type userHandler struct {
	userService records.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService records.UserService) UserHandler {
	return &userHandler{userService: userService}
}

// List handles the GET request to list every user with its company name
// @Summary List users
// @Description Fetch every user, newest first, with the name of the referenced company if it still exists.
// @Tags User
// @Produce json
// @Success 200 {array} UserResponse
// @Failure 503 {object} ErrorResponse
// @Router /users [get]
func (handler *userHandler) List(ctx *gin.Context) {
	users, err := handler.userService.List(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	var listResponse = []UserResponse{}
	for _, user := range users {
		listResponse = append(listResponse, newUserResponse(user))
	}

	ctx.JSON(http.StatusOK, listResponse)
}

// Add handles the POST request to add a user with generated data
// @Summary Add a user
// @Description Insert a user with a generated name and email, assigned to a random existing company.
// @Tags User
// @Produce json
// @Success 201 {object} UserResponse
// @Failure 503 {object} ErrorResponse
// @Router /users [post]
func (handler *userHandler) Add(ctx *gin.Context) {
	user, err := handler.userService.Add(ctx)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newUserResponse(records.UserWithCompany{User: *user}))
}

// DeleteByID handles the DELETE request to remove a user by ID
// @Summary Remove a user by ID
// @Tags User
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} InfoResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [delete]
func (handler *userHandler) DeleteByID(ctx *gin.Context) {
	var request IDRequest
	if err := bindID(ctx, &request); err != nil {
		return
	}

	if err := handler.userService.Remove(ctx, request.ID); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, InfoResponse{Message: fmt.Sprintf("deleted user with id %d", request.ID)})
}
