package catalog

import "github.com/healthcalc/calcchain/pkg/domain"

// DefaultChains are the guided workflows shipped with the site.
var DefaultChains = []domain.Chain{
	{
		ID:          "fitness-baseline",
		Name:        "Fitness Baseline",
		Description: "Establish where you stand today: body mass, body composition and daily energy needs.",
		Steps: []domain.Step{
			{Slug: "bmi", Label: "BMI", Description: "Body mass index from height and weight."},
			{Slug: "body-fat", Label: "Body Fat", Description: "Estimate body fat percentage."},
			{Slug: "tdee", Label: "TDEE", Description: "Total daily energy expenditure."},
		},
	},
	{
		ID:          "weight-loss",
		Name:        "Weight Loss Plan",
		Description: "Turn your energy needs into a calorie target and macro split.",
		Steps: []domain.Step{
			{Slug: "bmi", Label: "BMI", Description: "Check your starting point."},
			{Slug: "tdee", Label: "TDEE", Description: "Find your maintenance calories."},
			{Slug: "calorie-deficit", Label: "Calorie Deficit", Description: "Pick a safe weekly loss rate."},
			{Slug: "macro", Label: "Macros", Description: "Split calories into protein, carbs and fat."},
		},
	},
	{
		ID:          "muscle-gain",
		Name:        "Muscle Gain",
		Description: "Plan a lean bulk around lean body mass and protein intake.",
		Steps: []domain.Step{
			{Slug: "body-fat", Label: "Body Fat", Description: "Estimate body fat percentage."},
			{Slug: "lean-body-mass", Label: "Lean Body Mass", Description: "Weight minus fat mass."},
			{Slug: "tdee", Label: "TDEE", Description: "Find your maintenance calories."},
			{Slug: "protein", Label: "Protein", Description: "Daily protein for muscle growth."},
		},
	},
	{
		ID:          "heart-health",
		Name:        "Heart Health Check",
		Description: "Screen cardiovascular risk factors.",
		Steps: []domain.Step{
			{Slug: "blood-pressure", Label: "Blood Pressure", Description: "Classify your blood pressure reading."},
			{Slug: "resting-heart-rate", Label: "Resting Heart Rate", Description: "Compare your resting pulse."},
			{Slug: "target-heart-rate", Label: "Target Heart Rate", Description: "Training zones from age and resting pulse."},
		},
	},
	{
		ID:          "metabolic-health",
		Name:        "Metabolic Health",
		Description: "Look at weight distribution and diabetes risk together.",
		Steps: []domain.Step{
			{Slug: "bmi", Label: "BMI", Description: "Body mass index."},
			{Slug: "waist-to-hip", Label: "Waist-to-Hip Ratio", Description: "Central fat distribution."},
			{Slug: "diabetes-risk", Label: "Diabetes Risk", Description: "Type 2 diabetes risk score."},
		},
	},
	{
		ID:          "army-fitness",
		Name:        "Army Fitness",
		Description: "Check Army body composition and fitness test standards.",
		Steps: []domain.Step{
			{Slug: "army-body-fat", Label: "Army Body Fat", Description: "Tape-test body fat standard."},
			{Slug: "acft", Label: "ACFT", Description: "Army Combat Fitness Test score."},
		},
	},
}

// Default returns a catalog of DefaultChains.
func Default() *Catalog {
	return MustNew(DefaultChains...)
}
