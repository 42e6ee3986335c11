package internal

// Goal is the weight goal a user declares; it shifts the daily target.
type Goal string

const (
	GoalLoseWeight     Goal = "LOSE_WEIGHT"
	GoalMaintainWeight Goal = "MAINTAIN_WEIGHT"
	GoalGainWeight     Goal = "GAIN_WEIGHT"
)

const (
	activityFactor = 1.2
	goalAdjustment = 500
)

// Valid reports whether g is one of the known goals.
func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalMaintainWeight, GoalGainWeight:
		return true
	}
	return false
}

// DailyCalorieTarget computes the daily calorie target from body metrics.
// BMR uses the single-sex Mifflin-St Jeor constant (+5) for every user.
// The result is truncated toward zero and is not clamped, so extreme inputs
// may yield a negative target. An unknown goal yields 0.
func DailyCalorieTarget(weightKg, heightCm float64, ageYears int, goal Goal) int {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears) + 5
	switch goal {
	case GoalLoseWeight:
		return int(bmr*activityFactor - goalAdjustment)
	case GoalMaintainWeight:
		return int(bmr * activityFactor)
	case GoalGainWeight:
		return int(bmr*activityFactor + goalAdjustment)
	default:
		return 0
	}
}
