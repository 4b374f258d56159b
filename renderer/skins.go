// Package renderer draws the arena with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/snakearena/components"
)

// Skin is the body and head colour pair of a snake.
type Skin struct {
	Body rl.Color
	Head rl.Color
}

var skins = map[string]Skin{
	"cyan":   {Body: rl.Color{R: 40, G: 200, B: 220, A: 255}, Head: rl.Color{R: 120, G: 240, B: 255, A: 255}},
	"purple": {Body: rl.Color{R: 140, G: 80, B: 210, A: 255}, Head: rl.Color{R: 190, G: 140, B: 250, A: 255}},
	"green":  {Body: rl.Color{R: 70, G: 190, B: 90, A: 255}, Head: rl.Color{R: 140, G: 240, B: 150, A: 255}},
	"orange": {Body: rl.Color{R: 235, G: 140, B: 40, A: 255}, Head: rl.Color{R: 255, G: 190, B: 110, A: 255}},
	"pink":   {Body: rl.Color{R: 230, G: 90, B: 160, A: 255}, Head: rl.Color{R: 255, G: 150, B: 200, A: 255}},
	"gold":   {Body: rl.Color{R: 220, G: 180, B: 50, A: 255}, Head: rl.Color{R: 255, G: 225, B: 120, A: 255}},
}

// SkinColors returns the colours of a skin id. Unknown ids fall back to grey.
func SkinColors(id string) Skin {
	if s, ok := skins[id]; ok {
		return s
	}
	return Skin{Body: rl.Gray, Head: rl.LightGray}
}

// FoodColor returns the draw colour of a food kind.
func FoodColor(k components.FoodKind) rl.Color {
	switch k {
	case components.FoodBig:
		return rl.Color{R: 255, G: 220, B: 90, A: 255}
	case components.FoodSpeed:
		return rl.Color{R: 80, G: 220, B: 255, A: 255}
	case components.FoodSlow:
		return rl.Color{R: 120, G: 120, B: 200, A: 255}
	case components.FoodDouble:
		return rl.Color{R: 255, G: 150, B: 40, A: 255}
	case components.FoodMagnet:
		return rl.Color{R: 230, G: 60, B: 230, A: 255}
	case components.FoodPoison:
		return rl.Color{R: 110, G: 200, B: 40, A: 255}
	case components.FoodDrop:
		return rl.Color{R: 255, G: 255, B: 255, A: 220}
	}
	return rl.Color{R: 240, G: 110, B: 110, A: 255}
}
