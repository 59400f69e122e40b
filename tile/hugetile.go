package tile

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/source"
)

// HugeTile is a 4x4 group of tiles hosting assets visible from far away.
// It links its 4 big tiles and, for terrain, its 16 tiles directly.
type HugeTile struct {
	Base

	Bigs  []Handle
	Tiles []Handle
}

func (h *HugeTile) AddBig(self Handle, big Handle) {
	h.Bigs = append(h.Bigs, big)
	h.grid.BigTile(big).Huge = self
}

func (h *HugeTile) AddTile(self Handle, t Handle) {
	h.Tiles = append(h.Tiles, t)
	h.grid.Tile(t).Huge = self
}

func (h *HugeTile) GetBigTile(position mgl32.Vec3) *BigTile {
	for _, handle := range h.Bigs {
		if b := h.grid.BigTile(handle); b.PositionInside(position) {
			return b
		}
	}
	return nil
}

func (h *HugeTile) GetTile(position mgl32.Vec3) *Tile {
	for _, handle := range h.Tiles {
		if t := h.grid.Tile(handle); t.PositionInside(position) {
			return t
		}
	}
	return nil
}

func (h *HugeTile) AddCell(cell *source.Cell) {
	h.Cells = append(h.Cells, cell)
	b := h.GetBigTile(cell.Center)
	if b == nil {
		h.miss("Cell", coords.LevelBig, cell, cell.Name)
		return
	}
	b.AddCell(cell)
}

// AddTerrain hands terrain to the leaf tile under position
func (h *HugeTile) AddTerrain(cell *source.Cell, position mgl32.Vec3, terrain *source.Terrain) {
	t := h.GetTile(position)
	if t == nil {
		h.miss("Terrain", coords.LevelTile, cell, terrain.ID)
		return
	}
	t.AddTerrain(position, terrain)
}

// AddContent classifies content by size. Scripted content always lands in a leaf tile.
func (h *HugeTile) AddContent(cell *source.Cell, c content.Content) {
	if c.Base().Scripted() {
		t := h.GetTile(cell.Center)
		if t == nil {
			h.miss("Scripted content", coords.LevelTile, cell, c.Base().ID)
			return
		}
		t.AddContent(cell, c)
		return
	}

	if a, ok := c.(*content.Asset); ok && h.grid.modelSize(a) > h.grid.Config.HugeThreshold {
		t := h.GetTile(cell.Center)
		if t == nil {
			h.miss("Content", coords.LevelTile, cell, c.Base().ID)
			return
		}
		load := t.Coordinate
		a.Load = &load
		h.keep(a)
		return
	}

	b := h.GetBigTile(cell.Center)
	if b == nil {
		h.miss("Content", coords.LevelBig, cell, c.Base().ID)
		return
	}
	b.AddContent(cell, c)
}

func (h *HugeTile) GetRegion() string {
	cfg := h.grid.Config
	return voteRegion(h.Cells, cfg.PriorityRegion, cfg.PriorityHugeCount, cfg.DefaultRegion)
}
