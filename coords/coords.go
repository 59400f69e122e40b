package coords

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Int2 struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func (c Int2) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// Level is the grid granularity of a tile. Its value is the span in leaf tiles along one axis.
type Level int

const (
	LevelTile Level = 1
	LevelBig  Level = 2
	LevelHuge Level = 4
)

func (l Level) Span() float32 {
	return float32(l)
}

func (l Level) String() string {
	switch l {
	case LevelTile:
		return "tile"
	case LevelBig:
		return "big"
	case LevelHuge:
		return "huge"
	}
	return fmt.Sprintf("level%d", int(l))
}

// Space converts between source world positions and target grid positions.
// Y is vertical, the ground plane is X/Z.
type Space struct {
	TileSize float32
	Offset   mgl32.Vec3
}

// Working returns position in target working space
func (s Space) Working(position mgl32.Vec3) mgl32.Vec3 {
	return position.Add(s.Offset)
}

// Origin of tile at coordinate c in working space
func (s Space) Origin(level Level, c Int2) mgl32.Vec3 {
	step := level.Span() * s.TileSize
	return mgl32.Vec3{float32(c.X) * step, 0, float32(c.Y) * step}
}

// Relative converts absolute source position into tile-relative position
func (s Space) Relative(level Level, c Int2, position mgl32.Vec3) mgl32.Vec3 {
	return s.Working(position).Sub(s.Origin(level, c))
}

// Absolute is inverse of Relative
func (s Space) Absolute(level Level, c Int2, relative mgl32.Vec3) mgl32.Vec3 {
	return relative.Add(s.Origin(level, c)).Sub(s.Offset)
}

// Inside checks ABSOLUTE source position against footprint of tile.
// Footprint is padded half a leaf tile on the low side, low bound inclusive, high bound exclusive.
func (s Space) Inside(level Level, c Int2, position mgl32.Vec3) bool {
	pos := s.Working(position)
	origin := s.Origin(level, c)

	x1 := origin.X() - s.TileSize*0.5
	y1 := origin.Z() - s.TileSize*0.5
	x2 := x1 + level.Span()*s.TileSize
	y2 := y1 + level.Span()*s.TileSize

	return pos.X() >= x1 && pos.X() < x2 && pos.Z() >= y1 && pos.Z() < y2
}

// TileOf returns coordinate of the tile at level whose footprint holds absolute position
func (s Space) TileOf(level Level, position mgl32.Vec3) Int2 {
	pos := s.Working(position)
	step := float64(level.Span() * s.TileSize)
	half := float64(s.TileSize) * 0.5
	return Int2{
		X: int(math.Floor((float64(pos.X()) + half) / step)),
		Y: int(math.Floor((float64(pos.Z()) + half) / step)),
	}
}

// Contains reports whether grid coordinate child of childLevel lies under parent of parentLevel
func Contains(parentLevel Level, parent Int2, childLevel Level, child Int2) bool {
	ratio := int(parentLevel) / int(childLevel)
	if ratio < 1 {
		return false
	}
	x1 := parent.X * ratio
	y1 := parent.Y * ratio
	return child.X >= x1 && child.X < x1+ratio && child.Y >= y1 && child.Y < y1+ratio
}

// Distance in grid units between two coordinates of the same level
func Distance(a, b Int2) float32 {
	return mgl32.Vec2{float32(a.X), float32(a.Y)}.Sub(mgl32.Vec2{float32(b.X), float32(b.Y)}).Len()
}
