package match

import "fmt"

// Weights are the tunable constants of the scorer. The defaults are
// empirical; treat every value as open to revision.
type Weights struct {
	Category float64 // awarded on case-insensitive category equality
	Title    float64 // scaled by the title keyword overlap ratio
	Location float64 // awarded when one location contains the other
	DateNear float64 // awarded when the dates are at most NearDays apart
	DateFar  float64 // awarded when the dates are at most FarDays apart
	NearDays float64
	FarDays  float64

	// MinPercentage is the inclusion threshold for candidates.
	MinPercentage int

	// ConditionalMaxima drops a criterion's maximum from the denominator
	// when either record lacks the data to evaluate it.
	ConditionalMaxima bool
}

// Defaults.
const (
	DefaultCategoryWeight = 30
	DefaultTitleWeight    = 30
	DefaultLocationWeight = 20
	DefaultDateNearWeight = 20
	DefaultDateFarWeight  = 10
	DefaultNearDays       = 7
	DefaultFarDays        = 14
	DefaultMinPercentage  = 40
)

// DefaultWeights returns the 30/30/20/20 weighting with a 40% cut-off.
func DefaultWeights() Weights {
	return Weights{
		Category:      DefaultCategoryWeight,
		Title:         DefaultTitleWeight,
		Location:      DefaultLocationWeight,
		DateNear:      DefaultDateNearWeight,
		DateFar:       DefaultDateFarWeight,
		NearDays:      DefaultNearDays,
		FarDays:       DefaultFarDays,
		MinPercentage: DefaultMinPercentage,
	}
}

// Validate checks the weights are usable.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"category": w.Category, "title": w.Title, "location": w.Location,
		"date_near": w.DateNear, "date_far": w.DateFar,
		"near_days": w.NearDays, "far_days": w.FarDays,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %v", name, v)
		}
	}
	if w.Title <= 0 {
		return fmt.Errorf("title weight must be positive, got %v", w.Title)
	}
	if w.DateFar > w.DateNear {
		return fmt.Errorf("date_far (%v) must not exceed date_near (%v)", w.DateFar, w.DateNear)
	}
	if w.NearDays > w.FarDays {
		return fmt.Errorf("near_days (%v) must not exceed far_days (%v)", w.NearDays, w.FarDays)
	}
	if w.MinPercentage < 0 || w.MinPercentage > 100 {
		return fmt.Errorf("min_percentage must be between 0 and 100, got %d", w.MinPercentage)
	}
	return nil
}
