package main

import (
	"bytes"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/Pallinder/go-randomdata"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/worldtiles/config"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/msblist"
	"github.com/mogaika/worldtiles/source"
	"github.com/mogaika/worldtiles/utils"
)

type fakeWarp struct {
	Position [3]float32 `yaml:"position,flow"`
}

type fakeContent struct {
	Kind     string      `yaml:"kind"`
	ID       string      `yaml:"id"`
	Mesh     string      `yaml:"mesh,omitempty"`
	Position [3]float32  `yaml:"position,flow"`
	Scale    int         `yaml:"scale,omitempty"`
	Job      string      `yaml:"job,omitempty"`
	Faction  string      `yaml:"faction,omitempty"`
	Alarm    int         `yaml:"alarm,omitempty"`
	Dead     bool        `yaml:"dead,omitempty"`
	Warp     *fakeWarp   `yaml:"warp,omitempty"`
	Travel   []*fakeWarp `yaml:"travel,omitempty"`
}

type fakeCell struct {
	Name     string          `yaml:"name,omitempty"`
	Region   string          `yaml:"region"`
	Grid     [2]int          `yaml:"grid,flow"`
	Terrain  *source.Terrain `yaml:"terrain,omitempty"`
	Contents []*fakeContent  `yaml:"contents,omitempty"`
}

var meshes = map[string]source.ModelInfo{
	"rock.nif":     {Size: 8},
	"house.nif":    {Size: 40},
	"tower.nif":    {Size: 110},
	"mountain.nif": {Size: 600},
	"lantern.nif":  {Size: 1, Emitter: true},
}

var factions = []string{"Mages Guild", "Fighters Guild", "Thieves Guild"}

type generator struct {
	size    int
	density int
	cfg     *config.Config
	rnd     *rand.Rand
	names   *utils.RandomNameGenerator
	regions []string
}

func (g *generator) cellPosition(x, y int) [3]float32 {
	return [3]float32{
		float32(x)*g.cfg.CellSize + g.rnd.Float32()*g.cfg.CellSize,
		0,
		float32(y)*g.cfg.CellSize + g.rnd.Float32()*g.cfg.CellSize,
	}
}

func (g *generator) asset(x, y int) *fakeContent {
	keys := make([]string, 0, len(meshes))
	for k := range meshes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	mesh := keys[g.rnd.Intn(len(keys))]
	return &fakeContent{
		Kind:     "asset",
		ID:       g.names.RandomName(),
		Mesh:     mesh,
		Position: g.cellPosition(x, y),
		Scale:    50 + g.rnd.Intn(100),
	}
}

func (g *generator) npc(x, y int) *fakeContent {
	c := &fakeContent{
		Kind:     "npc",
		ID:       g.names.PersonName(),
		Position: g.cellPosition(x, y),
		Alarm:    g.rnd.Intn(100),
		Dead:     g.rnd.Intn(10) == 0,
	}
	if randomdata.Boolean() {
		c.Faction = factions[g.rnd.Intn(len(factions))]
	}
	if g.rnd.Intn(4) == 0 {
		c.Job = "Guard"
	}
	if g.rnd.Intn(6) == 0 {
		c.Travel = []*fakeWarp{{Position: g.cellPosition(g.rnd.Intn(g.size), g.rnd.Intn(g.size))}}
	}
	return c
}

func (g *generator) cell(x, y int) *fakeCell {
	c := &fakeCell{
		Region:  g.regions[(x/4+y/4)%len(g.regions)],
		Grid:    [2]int{x, y},
		Terrain: &source.Terrain{ID: fmt.Sprintf("land_%d_%d", x, y), Height: g.rnd.Float32() * 100},
	}
	if g.rnd.Intn(3) == 0 {
		c.Name = g.names.CellName()
	}
	for i := 0; i < g.density; i++ {
		c.Contents = append(c.Contents, g.asset(x, y))
	}
	if c.Name != "" {
		for i := 0; i < 1+g.rnd.Intn(3); i++ {
			c.Contents = append(c.Contents, g.npc(x, y))
		}
		c.Contents = append(c.Contents, &fakeContent{
			Kind:     "door",
			ID:       g.names.RandomName(),
			Position: g.cellPosition(x, y),
			Warp:     &fakeWarp{Position: g.cellPosition(g.rnd.Intn(g.size), g.rnd.Intn(g.size))},
		})
	}
	if g.rnd.Intn(2) == 0 {
		c.Contents = append(c.Contents, &fakeContent{
			Kind:     "creature",
			ID:       randomdata.Noun(),
			Position: g.cellPosition(x, y),
		})
	}
	return c
}

// grid lists every tile, big tile and huge tile touched by cell centers
func (g *generator) grid(cells []*fakeCell) []msblist.Entry {
	space := g.cfg.Space()
	seen := make(map[msblist.Entry]bool)
	var entries []msblist.Entry
	for _, level := range []coords.Level{coords.LevelTile, coords.LevelBig, coords.LevelHuge} {
		block := map[coords.Level]int{
			coords.LevelTile: msblist.BLOCK_TILE,
			coords.LevelBig:  msblist.BLOCK_BIG,
			coords.LevelHuge: msblist.BLOCK_HUGE,
		}[level]
		for _, c := range cells {
			center := source.CellCenter(coords.Int2{X: c.Grid[0], Y: c.Grid[1]}, g.cfg.CellSize)
			t := space.TileOf(level, center)
			e := msblist.Entry{Map: g.cfg.OverworldMap, X: t.X, Y: t.Y, Block: block}
			if !seen[e] {
				seen[e] = true
				entries = append(entries, e)
			}
		}
	}
	return entries
}

func writeYAML(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrapf(err, "Failed to encode %s", path)
	}
	enc.Close()
	return os.WriteFile(path, buf.Bytes(), 0666)
}

func main() {
	var out string
	var size, density int
	var seed int64
	flag.StringVar(&out, "out", "fakeworld", "Output directory")
	flag.IntVar(&size, "size", 16, "World size in cells along one axis")
	flag.IntVar(&density, "density", 4, "Assets per cell")
	flag.Int64Var(&seed, "seed", 0, "Random seed")
	flag.Parse()

	g := &generator{
		size:    size,
		density: density,
		cfg:     config.Default(),
		rnd:     rand.New(rand.NewSource(seed)),
		names:   utils.NewRandomNameGenerator(seed),
	}
	for i := 0; i < 3; i++ {
		g.regions = append(g.regions, randomdata.State(randomdata.Large)+" Region")
	}
	g.regions = append(g.regions, g.cfg.PriorityRegion)

	cells := make([]*fakeCell, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			cells = append(cells, g.cell(x, y))
		}
	}

	if err := os.MkdirAll(out, 0777); err != nil {
		logrus.Fatal(err)
	}
	if err := writeYAML(filepath.Join(out, "world.yaml"), map[string]interface{}{"cells": cells}); err != nil {
		logrus.Fatal(err)
	}
	if err := writeYAML(filepath.Join(out, "models.yaml"), meshes); err != nil {
		logrus.Fatal(err)
	}

	var msb bytes.Buffer
	for _, e := range g.grid(cells) {
		fmt.Fprintf(&msb, "%d,%d,%d,%d\n", e.Map, e.X, e.Y, e.Block)
	}
	if err := os.WriteFile(filepath.Join(out, "grid.msb"), msb.Bytes(), 0666); err != nil {
		logrus.Fatal(err)
	}

	logrus.Infof("Wrote %d cells to %s", len(cells), out)
}
