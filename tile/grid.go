package tile

import (
	"github.com/mogaika/worldtiles/config"
	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/source"
)

// Grid is the arena owning every tile of a layout. Tiles reference their
// parents and children by Handle into the arena.
type Grid struct {
	Space  coords.Space
	Config *config.Config
	Models source.Models

	Tiles []*Tile
	Bigs  []*BigTile
	Huges []*HugeTile
}

func NewGrid(cfg *config.Config, models source.Models) *Grid {
	return &Grid{
		Space:  cfg.Space(),
		Config: cfg,
		Models: models,
	}
}

func (g *Grid) NewTile(m, x, y, block int) Handle {
	t := &Tile{
		Base: newBase(g, coords.LevelTile, m, x, y, block),
		Big:  NoHandle,
		Huge: NoHandle,
	}
	g.Tiles = append(g.Tiles, t)
	return Handle(len(g.Tiles) - 1)
}

func (g *Grid) NewBigTile(m, x, y, block int) Handle {
	b := &BigTile{
		Base: newBase(g, coords.LevelBig, m, x, y, block),
		Huge: NoHandle,
	}
	g.Bigs = append(g.Bigs, b)
	return Handle(len(g.Bigs) - 1)
}

func (g *Grid) NewHugeTile(m, x, y, block int) Handle {
	h := &HugeTile{
		Base: newBase(g, coords.LevelHuge, m, x, y, block),
	}
	g.Huges = append(g.Huges, h)
	return Handle(len(g.Huges) - 1)
}

func (g *Grid) Tile(h Handle) *Tile {
	if h < 0 || int(h) >= len(g.Tiles) {
		return nil
	}
	return g.Tiles[h]
}

func (g *Grid) BigTile(h Handle) *BigTile {
	if h < 0 || int(h) >= len(g.Bigs) {
		return nil
	}
	return g.Bigs[h]
}

func (g *Grid) HugeTile(h Handle) *HugeTile {
	if h < 0 || int(h) >= len(g.Huges) {
		return nil
	}
	return g.Huges[h]
}

// modelSize returns effective footprint of asset. Unknown models are treated as small.
func (g *Grid) modelSize(a *content.Asset) float32 {
	if g.Models == nil {
		return 0
	}
	info, ok := g.Models.GetModel(a.Mesh)
	if !ok {
		log.WithField("mesh", a.Mesh).Debug("Model not found, treating asset as small")
		return 0
	}
	return info.Size * a.ScaleFactor()
}
