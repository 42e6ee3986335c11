package api

import (
	"net/http"
	"time"

	"github.com/AlexanderESM/calories-tracker/internal"
	"github.com/AlexanderESM/calories-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// mealView is a meal as rendered to clients, with its calorie total.
type mealView struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Foods         []internal.Food `json:"foods"`
	Timestamp     time.Time       `json:"timestamp"`
	TotalCalories int             `json:"total_calories"`
}

func newMealView(m *internal.Meal) mealView {
	foods := m.Foods
	if foods == nil {
		foods = []internal.Food{}
	}
	return mealView{
		ID:            m.ID,
		UserID:        m.UserID,
		Foods:         foods,
		Timestamp:     m.Timestamp,
		TotalCalories: m.TotalCalories(),
	}
}

func newMealViews(meals []internal.Meal) []mealView {
	views := make([]mealView, len(meals))
	for i := range meals {
		views[i] = newMealView(&meals[i])
	}
	return views
}

func PostMeal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.MealRequest
		if err := bindJSON(c, &req); err != nil {
			HandleError(c, app.Logger(), err, "Invalid request")
			return
		}
		if err := service.ValidateMealRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, "Meal validation failed")
			return
		}

		meal, err := service.CreateMeal(c.Request.Context(), app.UserRepo(), app.FoodRepo(), app.MealRepo(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to save meal")
			return
		}
		recordMealCreated(meal.TotalCalories())
		HandleSuccess(c, app.Logger(), http.StatusCreated, newMealView(meal), nil)
	}
}

func GetMeal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		meal, err := service.GetMeal(c.Request.Context(), app.MealRepo(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch meal")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, newMealView(meal), nil)
	}
}

func ListUserMeals(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		meals, err := service.ListUserMeals(c.Request.Context(), app.MealRepo(), c.Param("id"))
		if err != nil {
			HandleError(c, app.Logger(), err, "Failed to fetch meals")
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, newMealViews(meals), nil)
	}
}

func DeleteMeal(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.DeleteMeal(c.Request.Context(), app.MealRepo(), c.Param("id")); err != nil {
			HandleError(c, app.Logger(), err, "Failed to delete meal")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
