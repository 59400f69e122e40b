package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/layout"
	"github.com/mogaika/worldtiles/script"
	"github.com/mogaika/worldtiles/tile"
)

var log = logrus.WithField("pkg", "export")

const INDEX_FILE = "index.yaml"

type ContentEntry struct {
	Kind     content.Kind  `json:"kind" yaml:"kind"`
	ID       string        `json:"id" yaml:"id"`
	Mesh     string        `json:"mesh,omitempty" yaml:"mesh,omitempty"`
	Position [3]float32    `json:"position" yaml:"position,flow"`
	Rotation [3]float32    `json:"rotation" yaml:"rotation,flow"`
	Scale    int           `json:"scale" yaml:"scale"`
	Script   string        `json:"script,omitempty" yaml:"script,omitempty"`
	Load     *coords.Int2  `json:"load,omitempty" yaml:"load,omitempty,flow"`
	Entity   uint32        `json:"entity,omitempty" yaml:"entity,omitempty"`
	Warp     *content.Warp `json:"warp,omitempty" yaml:"warp,omitempty"`
	Witness  bool          `json:"witness,omitempty" yaml:"witness,omitempty"`
}

type TerrainEntry struct {
	ID       string     `json:"id" yaml:"id"`
	Position [3]float32 `json:"position" yaml:"position,flow"`
	Height   float32    `json:"height" yaml:"height"`
}

type WarpEntry struct {
	Position [3]float32 `json:"position" yaml:"position,flow"`
	Rotation [3]float32 `json:"rotation" yaml:"rotation,flow"`
	Entity   uint32     `json:"entity" yaml:"entity"`
}

type ScriptManifest struct {
	Name     string            `json:"name" yaml:"name"`
	Base     uint32            `json:"base" yaml:"base"`
	Entities map[string]uint32 `json:"entities" yaml:"entities"`
	Flags    []*script.Flag    `json:"flags" yaml:"flags"`
	Calls    []script.Call     `json:"calls,omitempty" yaml:"calls,omitempty"`
	Events   []*script.Event   `json:"events,omitempty" yaml:"events,omitempty"`
}

// TileManifest is everything format encoders need to write one tile
type TileManifest struct {
	Build  string `json:"build" yaml:"build"`
	Name   string `json:"name" yaml:"name"`
	Level  string `json:"level" yaml:"level"`
	Map    int    `json:"map" yaml:"map"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Block  int    `json:"block" yaml:"block"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`

	Cells    []string        `json:"cells" yaml:"cells"`
	Contents []ContentEntry  `json:"contents" yaml:"contents"`
	Terrain  []TerrainEntry  `json:"terrain,omitempty" yaml:"terrain,omitempty"`
	Warps    []WarpEntry     `json:"warps,omitempty" yaml:"warps,omitempty"`
	Script   *ScriptManifest `json:"script,omitempty" yaml:"script,omitempty"`
}

type Index struct {
	Build   string            `json:"build" yaml:"build"`
	Created time.Time         `json:"created" yaml:"created"`
	Tiles   []string          `json:"tiles" yaml:"tiles"`
	Common  []*script.Flag    `json:"common" yaml:"common"`
	Events  map[string]uint32 `json:"events" yaml:"events"`
}

func contentEntry(c content.Content) ContentEntry {
	b := c.Base()
	e := ContentEntry{
		Kind:     content.KindOf(c),
		ID:       b.ID,
		Mesh:     b.Mesh,
		Position: b.Relative,
		Rotation: b.Rotation,
		Scale:    b.Scale,
		Script:   b.Script,
		Load:     b.Load,
		Entity:   b.Entity,
	}
	switch v := c.(type) {
	case *content.Door:
		e.Warp = v.Warp
	case *content.Npc:
		e.Witness = v.Witness
	}
	return e
}

func scriptManifest(s *script.Script) *ScriptManifest {
	sm := &ScriptManifest{
		Name:     s.Name(),
		Base:     s.Base(),
		Entities: make(map[string]uint32, len(script.EntityTypes)),
		Flags:    s.Flags(),
		Calls:    s.Calls(),
		Events:   s.Events(),
	}
	for t, count := range s.EntityCounts() {
		sm.Entities[t.String()] = count
	}
	return sm
}

func baseManifest(build string, b *tile.Base) *TileManifest {
	m := &TileManifest{
		Build:    build,
		Name:     b.Name(),
		Level:    b.Level.String(),
		Map:      b.Map,
		X:        b.Coordinate.X,
		Y:        b.Coordinate.Y,
		Block:    b.Block,
		Cells:    make([]string, 0, len(b.Cells)),
		Contents: make([]ContentEntry, 0, b.Count()),
	}
	for _, cell := range b.Cells {
		m.Cells = append(m.Cells, cell.DisplayName())
	}
	b.Each(func(c content.Content) {
		m.Contents = append(m.Contents, contentEntry(c))
	})
	for _, patch := range b.Terrain {
		m.Terrain = append(m.Terrain, TerrainEntry{
			ID:       patch.Terrain.ID,
			Position: patch.Relative,
			Height:   patch.Terrain.Height,
		})
	}
	return m
}

// Manifests collects manifest of every non-empty tile at every level
func Manifests(build string, l *layout.Layout) []*TileManifest {
	result := make([]*TileManifest, 0, len(l.Tiles))
	for _, h := range l.Huges {
		if h.IsEmpty() {
			continue
		}
		m := baseManifest(build, &h.Base)
		m.Region = h.GetRegion()
		result = append(result, m)
	}
	for _, b := range l.Bigs {
		if b.IsEmpty() {
			continue
		}
		result = append(result, baseManifest(build, &b.Base))
	}
	for _, t := range l.Tiles {
		if t.IsEmpty() {
			continue
		}
		m := baseManifest(build, &t.Base)
		m.Region = t.GetRegion()
		for _, w := range t.Warps {
			m.Warps = append(m.Warps, WarpEntry{Position: w.Relative, Rotation: w.Rotation, Entity: w.Entity})
		}
		if s := l.Manager.FindScript(t.Map, t.Coordinate.X, t.Coordinate.Y, t.Block); s != nil {
			m.Script = scriptManifest(s)
		}
		result = append(result, m)
	}
	return result
}

// ManifestByName builds manifest of single tile at any level
func ManifestByName(build string, l *layout.Layout, name string) (*TileManifest, bool) {
	for _, m := range Manifests(build, l) {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

func writeYAML(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "Failed to encode %s", path)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0666); err != nil {
		return errors.Wrapf(err, "Failed to write %s", path)
	}
	return nil
}

// WriteManifests writes one yaml manifest per non-empty tile plus index into dir.
// Layout must be fully built, allocators are only read. Returns build id.
func WriteManifests(ctx context.Context, dir string, l *layout.Layout, workers int) (string, error) {
	if workers < 1 {
		workers = 1
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", errors.Wrapf(err, "Failed to create output dir")
	}

	build := uuid.New().String()
	manifests := Manifests(build, l)
	log.WithField("build", build).Infof("Writing %d tile manifests to %s", len(manifests), dir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, m := range manifests {
		m := m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writeYAML(filepath.Join(dir, m.Name+".yaml"), m)
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	index := &Index{
		Build:   build,
		Created: time.Now().UTC(),
		Tiles:   make([]string, 0, len(manifests)),
		Common:  l.Manager.Common.Flags(),
		Events:  make(map[string]uint32),
	}
	for _, m := range manifests {
		index.Tiles = append(index.Tiles, m.Name)
	}
	for e := script.CommonEvent(0); e <= script.EventRemoveItem; e++ {
		index.Events[e.String()] = l.Manager.Common.Event(e)
	}
	if err := writeYAML(filepath.Join(dir, INDEX_FILE), index); err != nil {
		return "", err
	}
	return build, nil
}
