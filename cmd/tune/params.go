package main

import (
	"github.com/pthm-cable/snakearena/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name string  // Human-readable name
	Min  float64 // Lower bound
	Max  float64 // Upper bound
}

// ParamVector maps the AI difficulty row to a flat vector.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the tunable difficulty parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "reaction_delay_ms", Min: 30, Max: 400},
			{Name: "vision_range", Min: 100, Max: 700},
			{Name: "danger_avoidance", Min: 0, Max: 1},
			{Name: "food_attraction", Min: 0, Max: 1},
			{Name: "boost_frequency", Min: 0, Max: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// FromDifficulty flattens a difficulty row. Order matches Specs.
func (pv *ParamVector) FromDifficulty(d config.DifficultyConfig) []float64 {
	return []float64{
		d.ReactionDelayMs,
		d.VisionRange,
		d.DangerAvoidance,
		d.FoodAttraction,
		d.BoostFrequency,
	}
}

// ToDifficulty builds a difficulty row from raw values, clamped to bounds.
func (pv *ParamVector) ToDifficulty(values []float64) config.DifficultyConfig {
	v := pv.Clamp(values)
	return config.DifficultyConfig{
		ReactionDelayMs: v[0],
		VisionRange:     v[1],
		DangerAvoidance: v[2],
		FoodAttraction:  v[3],
		BoostFrequency:  v[4],
	}
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}
