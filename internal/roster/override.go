package roster

import "fmt"

// Stat bounds for overrides and toppings.
const (
	MinLevel        = 1
	MaxLevel        = 70
	MinSkillLevel   = 1
	MaxSkillLevel   = 60
	MinStar         = 0
	MaxStar         = 5
	MaxToppings     = 5
	MaxToppingLevel = 12

	maxToppingQuality = 5.0
)

// Topping is one equipped topping on a cookie.
type Topping struct {
	Type  string `yaml:"type" json:"type"`
	Level int    `yaml:"level" json:"level"`
}

// StatOverride carries per-request stat adjustments for one cookie. Overrides
// are request-scoped and never persisted or written back to the catalog.
type StatOverride struct {
	Level      int `yaml:"level" json:"level"`
	SkillLevel int `yaml:"skill_level" json:"skillLevel"`
	// Star is the promotion grade, 0-5. The power formula weighs level,
	// skill, and toppings; star grade carries no extra weight.
	Star     int       `yaml:"star" json:"star"`
	Toppings []Topping `yaml:"toppings" json:"toppings"`
}

// Validate checks all stat bounds.
//
// Postcondition: Returns nil if the override is valid, or an error naming the
// first violated bound.
func (o StatOverride) Validate() error {
	if o.Level < MinLevel || o.Level > MaxLevel {
		return fmt.Errorf("level must be %d-%d, got %d", MinLevel, MaxLevel, o.Level)
	}
	if o.SkillLevel < MinSkillLevel || o.SkillLevel > MaxSkillLevel {
		return fmt.Errorf("skill level must be %d-%d, got %d", MinSkillLevel, MaxSkillLevel, o.SkillLevel)
	}
	if o.Star < MinStar || o.Star > MaxStar {
		return fmt.Errorf("star must be %d-%d, got %d", MinStar, MaxStar, o.Star)
	}
	if len(o.Toppings) > MaxToppings {
		return fmt.Errorf("at most %d toppings, got %d", MaxToppings, len(o.Toppings))
	}
	for i, t := range o.Toppings {
		if t.Level < 0 || t.Level > MaxToppingLevel {
			return fmt.Errorf("topping %d level must be 0-%d, got %d", i, MaxToppingLevel, t.Level)
		}
	}
	return nil
}

// toppingQuality maps the equipped toppings to a 0-5 quality value: the mean
// topping level as a fraction of the level cap, scaled to the quality cap.
// No toppings means zero quality.
func (o StatOverride) toppingQuality() float64 {
	if len(o.Toppings) == 0 {
		return 0
	}
	var sum float64
	for _, t := range o.Toppings {
		sum += float64(t.Level) / float64(MaxToppingLevel)
	}
	return sum / float64(len(o.Toppings)) * maxToppingQuality
}
