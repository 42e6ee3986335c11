package api

import (
	"net/http"

	"github.com/AlexanderESM/calories-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func ListUsers(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := service.ListUsers(c.Request.Context(), app.UserRepo())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch users")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, users, nil)
	}
}

func GetUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := service.GetUser(c.Request.Context(), app.UserRepo(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch user")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, user, nil)
	}
}

func PostUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UserRequest
		if err := bindJSON(c, &req); err != nil {
			HandleError(c, app.Logger(), err, "Invalid request")
			return
		}
		if err := service.ValidateUserRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "User validation failed")
			return
		}

		user, err := service.CreateUser(c.Request.Context(), app.UserRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save user")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusCreated, user, nil)
	}
}

func PatchUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.UserUpdateRequest
		if err := bindJSON(c, &req); err != nil {
			HandleError(c, app.Logger(), err, "Invalid request")
			return
		}
		if err := service.ValidateUserUpdateRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "User validation failed")
			return
		}

		user, err := service.UpdateUser(c.Request.Context(), app.UserRepo(), c.Param("id"), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to update user")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, user, nil)
	}
}
