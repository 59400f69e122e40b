package layout

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"

	"github.com/mogaika/worldtiles/config"
	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/msblist"
	"github.com/mogaika/worldtiles/script"
	"github.com/mogaika/worldtiles/source"
	"github.com/mogaika/worldtiles/status"
	"github.com/mogaika/worldtiles/tile"
)

var log = logrus.WithField("pkg", "layout")

// Layout is the source world subdivided into the target tile grid
type Layout struct {
	*tile.Grid

	Config  *config.Config
	World   *source.World
	Manager *script.Manager

	hub    *status.Hub
	byGrid map[coords.Int2]tile.Handle
	byCell map[string]tile.Handle
}

// Build constructs overworld grid from msb entries and ingests the world into it.
// Hub may be nil.
func Build(cfg *config.Config, entries []msblist.Entry, world *source.World, models source.Models,
	manager *script.Manager, hub *status.Hub) (*Layout, error) {
	l := &Layout{
		Grid:    tile.NewGrid(cfg, models),
		Config:  cfg,
		World:   world,
		Manager: manager,
		hub:     hub,
		byGrid:  make(map[coords.Int2]tile.Handle),
		byCell:  make(map[string]tile.Handle),
	}

	log.Infof("Generating layout from %d msb entries and %d cells", len(entries), len(world.Cells))
	task := hub.Task("Generating layout", len(entries)+len(world.Cells))
	l.buildGrid(entries, task)
	l.ingest(task)

	if err := l.resolveWarps(); err != nil {
		return nil, errors.Wrapf(err, "Failed to resolve warps")
	}
	if err := l.generateScripts(); err != nil {
		return nil, errors.Wrapf(err, "Failed to generate scripts")
	}
	manager.Finalize()

	hub.Info("Layout ready: %d tiles, %d big tiles, %d huge tiles", len(l.Tiles), len(l.Bigs), len(l.Huges))
	return l, nil
}

func (l *Layout) buildGrid(entries []msblist.Entry, task *status.Task) {
	m := l.Config.OverworldMap
	seen := make(map[msblist.Entry]bool)
	accept := func(e msblist.Entry, block int) bool {
		if e.Map != m || e.Block != block {
			return false
		}
		if seen[e] {
			log.WithField("msb", e.String()).Warn("Duplicate msb entry")
			return false
		}
		seen[e] = true
		return true
	}

	for _, e := range entries {
		if accept(e, msblist.BLOCK_TILE) {
			h := l.NewTile(e.Map, e.X, e.Y, e.Block)
			l.byGrid[coords.Int2{X: e.X, Y: e.Y}] = h
		}
		task.Iterate()
	}

	for _, e := range entries {
		if accept(e, msblist.BLOCK_BIG) {
			bh := l.NewBigTile(e.Map, e.X, e.Y, e.Block)
			big := l.BigTile(bh)
			for th, t := range l.Tiles {
				if coords.Contains(coords.LevelBig, big.Coordinate, coords.LevelTile, t.Coordinate) {
					big.AddTile(bh, tile.Handle(th))
				}
			}
		}
	}

	for _, e := range entries {
		if accept(e, msblist.BLOCK_HUGE) {
			hh := l.NewHugeTile(e.Map, e.X, e.Y, e.Block)
			huge := l.HugeTile(hh)
			for bh, b := range l.Bigs {
				if coords.Contains(coords.LevelHuge, huge.Coordinate, coords.LevelBig, b.Coordinate) {
					huge.AddBig(hh, tile.Handle(bh))
				}
			}
			for th, t := range l.Tiles {
				if coords.Contains(coords.LevelHuge, huge.Coordinate, coords.LevelTile, t.Coordinate) {
					huge.AddTile(hh, tile.Handle(th))
				}
			}
		}
	}
	log.Infof("Grid has %d tiles, %d big tiles, %d huge tiles", len(l.Tiles), len(l.Bigs), len(l.Huges))
}

// convertEmitter turns asset whose model carries emitter nodes into emitter
func (l *Layout) convertEmitter(c content.Content) content.Content {
	a, ok := c.(*content.Asset)
	if !ok || l.Models == nil {
		return c
	}
	if info, ok := l.Models.GetModel(a.Mesh); ok && info.Emitter {
		return a.ToEmitter()
	}
	return c
}

func (l *Layout) ingest(task *status.Task) {
	for _, cell := range l.World.Cells {
		task.Iterate()

		huge := l.GetHugeTile(cell.Center)
		if huge == nil {
			log.WithFields(logrus.Fields{"cell": cell.DisplayName(), "coordinate": cell.Coordinate}).
				Warn("Cell fell outside of every huge tile, dropped")
			continue
		}

		if cell.Terrain != nil {
			huge.AddTerrain(cell, cell.Center, cell.Terrain)
		}
		huge.AddCell(cell)
		for i, c := range cell.Contents {
			c = l.convertEmitter(c)
			cell.Contents[i] = c
			huge.AddContent(cell, c)
		}

		if t := huge.GetTile(cell.Center); t != nil && cell.Name != "" {
			l.byCell[foldName(cell.Name)] = l.handleOf(t)
		}
	}
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func (l *Layout) handleOf(t *tile.Tile) tile.Handle {
	if h, ok := l.byGrid[t.Coordinate]; ok {
		return h
	}
	return tile.NoHandle
}

// GetHugeTile returns huge tile containing absolute position or nil
func (l *Layout) GetHugeTile(position mgl32.Vec3) *tile.HugeTile {
	for _, huge := range l.Huges {
		if huge.PositionInside(position) {
			return huge
		}
	}
	return nil
}

func (l *Layout) GetBigTile(position mgl32.Vec3) *tile.BigTile {
	for _, big := range l.Bigs {
		if big.PositionInside(position) {
			return big
		}
	}
	return nil
}

func (l *Layout) GetTile(position mgl32.Vec3) *tile.Tile {
	for _, t := range l.Tiles {
		if t.PositionInside(position) {
			return t
		}
	}
	return nil
}

// TileAt returns overworld tile at grid coordinate or nil
func (l *Layout) TileAt(c coords.Int2) *tile.Tile {
	if h, ok := l.byGrid[c]; ok {
		return l.Tile(h)
	}
	return nil
}

// TileByCell returns tile holding center of named exterior cell, case insensitive
func (l *Layout) TileByCell(name string) *tile.Tile {
	if h, ok := l.byCell[foldName(name)]; ok {
		return l.Tile(h)
	}
	return nil
}

// TileByName resolves m60_40_40_00 style names at every level
func (l *Layout) TileByName(name string) (*tile.Base, bool) {
	for _, t := range l.Tiles {
		if t.Name() == name {
			return &t.Base, true
		}
	}
	for _, b := range l.Bigs {
		if b.Name() == name {
			return &b.Base, true
		}
	}
	for _, h := range l.Huges {
		if h.Name() == name {
			return &h.Base, true
		}
	}
	return nil, false
}

// RegionOf returns region vote of tile or huge tile by name. Big tiles have no region.
func (l *Layout) RegionOf(name string) (string, bool) {
	for _, t := range l.Tiles {
		if t.Name() == name {
			return t.GetRegion(), true
		}
	}
	for _, h := range l.Huges {
		if h.Name() == name {
			return h.GetRegion(), true
		}
	}
	return "", false
}

// Script returns script bound to tile
// ScriptByName returns allocator of leaf tile, nil when tile issued no ids
func (l *Layout) ScriptByName(name string) (*script.Script, bool) {
	for _, t := range l.Tiles {
		if t.Name() == name {
			s := l.Manager.FindScript(t.Map, t.Coordinate.X, t.Coordinate.Y, t.Block)
			return s, s != nil
		}
	}
	return nil, false
}

func (l *Layout) Script(t *tile.Tile) (*script.Script, error) {
	return l.Manager.GetScript(t.Map, t.Coordinate.X, t.Coordinate.Y, t.Block)
}
