package tile

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/source"
)

// WarpDestination is end point of load door or travel in tile-relative space
type WarpDestination struct {
	Relative mgl32.Vec3 `yaml:"-"`
	Rotation mgl32.Vec3 `yaml:"-"`
	Entity   uint32     `yaml:"entity"`
}

// Tile is the finest grid square. Only tiles own a script namespace.
type Tile struct {
	Base

	Big  Handle
	Huge Handle

	Warps []WarpDestination
}

func (t *Tile) BigTile() *BigTile {
	return t.grid.BigTile(t.Big)
}

func (t *Tile) HugeTile() *HugeTile {
	return t.grid.HugeTile(t.Huge)
}

func (t *Tile) AddCell(cell *source.Cell) {
	t.Cells = append(t.Cells, cell)
}

func (t *Tile) AddTerrain(position mgl32.Vec3, terrain *source.Terrain) {
	t.Terrain = append(t.Terrain, TerrainPatch{Relative: t.Relative(position), Terrain: terrain})
}

func (t *Tile) AddContent(cell *source.Cell, c content.Content) {
	t.keep(c)
}

// AddWarp registers destination of warp in this tile. Returns index of destination.
func (t *Tile) AddWarp(w *content.Warp) int {
	t.Warps = append(t.Warps, WarpDestination{
		Relative: t.Relative(w.Position),
		Rotation: w.Rotation,
		Entity:   w.Entity,
	})
	return len(t.Warps) - 1
}

func (t *Tile) GetRegion() string {
	cfg := t.grid.Config
	return voteRegion(t.Cells, cfg.PriorityRegion, cfg.PriorityTileCount, cfg.DefaultRegion)
}
