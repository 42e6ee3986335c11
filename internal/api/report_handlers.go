package api

import (
	"net/http"

	"github.com/AlexanderESM/calories-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

func GetDailyCalories(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := service.DailyCalories(c.Request.Context(), app.MealRepo(), c.Param("userId"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to compute daily calories")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, gin.H{"totalCalories": total}, nil)
	}
}

func GetWithinDailyLimit(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		within, err := service.IsWithinDailyLimit(c.Request.Context(), app.UserRepo(), app.MealRepo(), c.Param("userId"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to check daily limit")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, gin.H{"withinLimit": within}, nil)
	}
}

func GetMealHistory(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		meals, err := service.MealHistory(c.Request.Context(), app.MealRepo(), c.Param("userId"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch meal history")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, newMealViews(meals), nil)
	}
}

func GetDailySummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := service.GetDailySummary(c.Request.Context(), app.UserRepo(), app.MealRepo(), c.Param("userId"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to build daily summary")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, summary, nil)
	}
}
