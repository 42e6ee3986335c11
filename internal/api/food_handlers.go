package api

import (
	"net/http"

	"github.com/AlexanderESM/calories-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func ListFoods(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		foods, err := service.ListFoods(c.Request.Context(), app.FoodRepo())
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch foods")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, foods, nil)
	}
}

func GetFoodByName(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		food, err := service.GetFoodByName(c.Request.Context(), app.FoodRepo(), c.Param("name"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch food")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, food, nil)
	}
}

// PostFood answers 201 with the catalog entry whether it was just inserted
// or already existed under that name.
func PostFood(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.FoodRequest
		if err := bindJSON(c, &req); err != nil {
			HandleError(c, app.Logger(), err, "Invalid request")
			return
		}
		if err := service.ValidateFoodRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "Food validation failed")
			return
		}

		food, created, err := service.CreateFood(c.Request.Context(), app.FoodRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save food")
			return
		}
		recordFoodCreate(created)
		HandleSuccess(c, app.Logger(), http.StatusCreated, food, map[string]any{"created": created})
	}
}
