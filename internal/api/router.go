package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), RequestLogger(app.Logger()), MetricsMiddleware())

	r.GET("/health", GetHealth(app))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	foods := r.Group("/foods")
	foods.GET("", ListFoods(app))
	foods.GET("/:name", GetFoodByName(app))
	foods.POST("", PostFood(app))

	users := r.Group("/users")
	users.GET("", ListUsers(app))
	users.POST("", PostUser(app))
	users.GET("/:id", GetUser(app))
	users.PATCH("/:id", PatchUser(app))
	users.GET("/:id/meals", ListUserMeals(app))

	meals := r.Group("/meals")
	meals.POST("", PostMeal(app))
	meals.GET("/:id", GetMeal(app))
	meals.DELETE("/:id", DeleteMeal(app))

	reports := r.Group("/reports/:userId")
	reports.GET("/daily-calories", GetDailyCalories(app))
	reports.GET("/within-daily-limit", GetWithinDailyLimit(app))
	reports.GET("/meal-history", GetMealHistory(app))
	reports.GET("/summary", GetDailySummary(app))

	return r
}
