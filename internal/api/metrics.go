package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calories_tracker_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	foodCreates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calories_tracker_food_creates_total",
			Help: "Food create calls by outcome (created or existing)",
		},
		[]string{"outcome"},
	)
	mealsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "calories_tracker_meals_created_total",
			Help: "Meals recorded",
		},
	)
	mealCalories = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "calories_tracker_meal_calories",
			Help:    "Total calories per recorded meal",
			Buckets: []float64{100, 250, 500, 750, 1000, 1500, 2000, 3000},
		},
	)
)

func recordFoodCreate(created bool) {
	outcome := "existing"
	if created {
		outcome = "created"
	}
	foodCreates.WithLabelValues(outcome).Inc()
}

func recordMealCreated(totalCalories int) {
	mealsCreated.Inc()
	mealCalories.Observe(float64(totalCalories))
}
