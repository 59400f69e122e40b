package tile

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/source"
)

var log = logrus.WithField("pkg", "tile")

// Handle is index of tile inside its Grid arena
type Handle int

const NoHandle Handle = -1

func (h Handle) Valid() bool { return h >= 0 }

// TerrainPatch is terrain descriptor placed in tile-relative space
type TerrainPatch struct {
	Relative mgl32.Vec3
	Terrain  *source.Terrain
}

// Base is state shared by every tile level
type Base struct {
	Map        int
	Coordinate coords.Int2
	Block      int
	Level      coords.Level

	Cells   []*source.Cell
	Terrain []TerrainPatch
	content.Lists

	grid *Grid
}

func newBase(g *Grid, level coords.Level, m, x, y, block int) Base {
	return Base{
		Map:        m,
		Coordinate: coords.Int2{X: x, Y: y},
		Block:      block,
		Level:      level,
		grid:       g,
	}
}

func (b *Base) Name() string {
	return fmt.Sprintf("m%02d_%02d_%02d_%02d", b.Map, b.Coordinate.X, b.Coordinate.Y, b.Block)
}

func (b *Base) IDList() [4]int {
	return [4]int{b.Map, b.Coordinate.X, b.Coordinate.Y, b.Block}
}

// IsEmpty tile has no cells, terrain or assets
func (b *Base) IsEmpty() bool {
	return len(b.Cells) == 0 && len(b.Terrain) == 0 && len(b.Assets) == 0
}

// Origin of tile in working space
func (b *Base) Origin() mgl32.Vec3 {
	return b.grid.Space.Origin(b.Level, b.Coordinate)
}

// PositionInside checks ABSOLUTE source position
func (b *Base) PositionInside(position mgl32.Vec3) bool {
	return b.grid.Space.Inside(b.Level, b.Coordinate, position)
}

// Relative converts absolute source position into this tile space
func (b *Base) Relative(position mgl32.Vec3) mgl32.Vec3 {
	return b.grid.Space.Relative(b.Level, b.Coordinate, position)
}

// Absolute is inverse of Relative
func (b *Base) Absolute(relative mgl32.Vec3) mgl32.Vec3 {
	return b.grid.Space.Absolute(b.Level, b.Coordinate, relative)
}

// keep places content in this tile
func (b *Base) keep(c content.Content) {
	if !c.Base().Place(b.Relative(c.Base().Position)) {
		log.WithFields(logrus.Fields{"tile": b.Name(), "content": c.Base().ID}).
			Warn("Content already placed, ignoring second placement")
		return
	}
	b.Lists.Add(c)
}

func (b *Base) miss(what string, child coords.Level, cell *source.Cell, id string) {
	log.WithFields(logrus.Fields{
		"tile":       b.Name(),
		"level":      b.Level,
		"cell":       cell.DisplayName(),
		"coordinate": cell.Coordinate,
		"content":    id,
	}).Warnf("%s fell outside of every %v tile, dropped", what, child)
}
