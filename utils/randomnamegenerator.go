package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique names from a seeded source
type RandomNameGenerator struct {
	used map[string]struct{}
}

// NewRandomNameGenerator reseeds the shared randomdata source
func NewRandomNameGenerator(seed int64) *RandomNameGenerator {
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return &RandomNameGenerator{used: make(map[string]struct{})}
}

// attempts before numbered suffix is appended to exhausted pool names
const UNIQUE_NAME_ATTEMPTS = 32

func (rng *RandomNameGenerator) unique(gen func() string) string {
	for i := 0; ; i++ {
		name := gen()
		if i >= UNIQUE_NAME_ATTEMPTS {
			name = fmt.Sprintf("%s %d", name, i)
		}
		// avoid duplicate names
		if _, exists := rng.used[name]; !exists {
			rng.used[name] = struct{}{}
			return name
		}
	}
}

func (rng *RandomNameGenerator) RandomName() string {
	return rng.unique(randomdata.SillyName)
}

// CellName is town-like name for exterior cells
func (rng *RandomNameGenerator) CellName() string {
	return rng.unique(func() string { return randomdata.City() })
}

// PersonName is id for generated npcs
func (rng *RandomNameGenerator) PersonName() string {
	return rng.unique(func() string { return randomdata.FirstName(randomdata.RandomGender) })
}
