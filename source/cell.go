package source

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
)

// Terrain is landscape patch of one exterior cell
type Terrain struct {
	ID         string      `yaml:"id" json:"id"`
	Coordinate coords.Int2 `yaml:"coordinate" json:"coordinate"`
	Height     float32     `yaml:"height" json:"height"`
	Textures   []string    `yaml:"textures,omitempty" json:"textures,omitempty"`
}

// Cell is unit of source world
type Cell struct {
	Name       string
	Region     string
	Coordinate coords.Int2
	Center     mgl32.Vec3
	Terrain    *Terrain
	Contents   []content.Content
}

// CellCenter of grid coordinate in source world space
func CellCenter(c coords.Int2, cellSize float32) mgl32.Vec3 {
	half := cellSize / 2
	return mgl32.Vec3{float32(c.X)*cellSize + half, 0, float32(c.Y)*cellSize + half}
}

// DisplayName falls back to region for unnamed wilderness cells
func (c *Cell) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Region != "" {
		return c.Region
	}
	return c.Coordinate.String()
}

type World struct {
	Cells []*Cell
}

// GetCellByGrid returns exterior cell at grid coordinate or nil
func (w *World) GetCellByGrid(c coords.Int2) *Cell {
	for _, cell := range w.Cells {
		if cell.Coordinate == c {
			return cell
		}
	}
	return nil
}

// GetCellAt finds exterior cell containing absolute source position
func (w *World) GetCellAt(position mgl32.Vec3, cellSize float32) *Cell {
	x := int(math.Floor(float64(position.X() / cellSize)))
	y := int(math.Floor(float64(position.Z() / cellSize)))
	return w.GetCellByGrid(coords.Int2{X: x, Y: y})
}
