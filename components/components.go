// Package components defines the data types shared by the arena systems.
package components

import "fmt"

// FoodKind identifies a food type.
type FoodKind uint8

const (
	FoodPellet FoodKind = iota // Plain pellet
	FoodBig                    // Large pellet
	FoodSpeed                  // Speed buff
	FoodSlow                   // Slow debuff
	FoodDouble                 // Score multiplier
	FoodMagnet                 // Pulls nearby food
	FoodPoison                 // Negative score, shrinks the eater
	FoodDrop                   // Spawned only from dead bodies
	NumFoodKinds
)

var foodKindNames = [NumFoodKinds]string{
	"pellet", "big", "speed", "slow", "double", "magnet", "poison", "drop",
}

// String returns the config name of the kind.
func (k FoodKind) String() string {
	if k < NumFoodKinds {
		return foodKindNames[k]
	}
	return fmt.Sprintf("FoodKind(%d)", uint8(k))
}

// ParseFoodKind resolves a config name to a FoodKind.
func ParseFoodKind(name string) (FoodKind, error) {
	for i, n := range foodKindNames {
		if n == name {
			return FoodKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown food kind %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k FoodKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *FoodKind) UnmarshalText(b []byte) error {
	parsed, err := ParseFoodKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Food holds the immutable properties of a food item.
// Its location lives in a separate Position component.
type Food struct {
	ID     uint64
	Kind   FoodKind
	Radius float64
	Value  float64
	Growth int
}
