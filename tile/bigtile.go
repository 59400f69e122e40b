package tile

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/source"
)

// BigTile is a 2x2 group of tiles hosting medium sized assets
type BigTile struct {
	Base

	Huge  Handle
	Tiles []Handle
}

func (b *BigTile) HugeTile() *HugeTile {
	return b.grid.HugeTile(b.Huge)
}

// AddTile links child tile, tile gets back reference
func (b *BigTile) AddTile(self Handle, h Handle) {
	b.Tiles = append(b.Tiles, h)
	b.grid.Tile(h).Big = self
}

// GetTile returns first child containing absolute position, or nil
func (b *BigTile) GetTile(position mgl32.Vec3) *Tile {
	for _, h := range b.Tiles {
		if t := b.grid.Tile(h); t.PositionInside(position) {
			return t
		}
	}
	return nil
}

func (b *BigTile) AddCell(cell *source.Cell) {
	b.Cells = append(b.Cells, cell)
	t := b.GetTile(cell.Center)
	if t == nil {
		b.miss("Cell", coords.LevelTile, cell, cell.Name)
		return
	}
	t.AddCell(cell)
}

func (b *BigTile) AddContent(cell *source.Cell, c content.Content) {
	t := b.GetTile(cell.Center)
	if t == nil {
		b.miss("Content", coords.LevelTile, cell, c.Base().ID)
		return
	}

	if a, ok := c.(*content.Asset); ok && !a.Scripted() && b.grid.modelSize(a) > b.grid.Config.BigThreshold {
		load := t.Coordinate
		a.Load = &load
		b.keep(a)
		return
	}
	t.AddContent(cell, c)
}
