package source

import (
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
)

var log = logrus.WithField("pkg", "source")

type rawWarp struct {
	Cell     string     `yaml:"cell"`
	Position [3]float32 `yaml:"position"`
	Rotation [3]float32 `yaml:"rotation"`
}

type rawContent struct {
	Kind     content.Kind `yaml:"kind"`
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	Mesh     string       `yaml:"mesh"`
	Position [3]float32   `yaml:"position"`
	Rotation [3]float32   `yaml:"rotation"`
	Scale    *int         `yaml:"scale"`
	Script   string       `yaml:"script"`

	Warp *rawWarp `yaml:"warp"`

	Job     string     `yaml:"job"`
	Faction string     `yaml:"faction"`
	Hostile bool       `yaml:"hostile"`
	Dead    bool       `yaml:"dead"`
	Alarm   int        `yaml:"alarm"`
	Travel  []*rawWarp `yaml:"travel"`

	Owner  string   `yaml:"owner"`
	Value  int      `yaml:"value"`
	Color  [4]uint8 `yaml:"color"`
	Radius float32  `yaml:"radius"`
}

type rawCell struct {
	Name     string        `yaml:"name"`
	Region   string        `yaml:"region"`
	Grid     [2]int        `yaml:"grid"`
	Terrain  *Terrain      `yaml:"terrain"`
	Contents []*rawContent `yaml:"contents"`
}

type rawWorld struct {
	Cells []*rawCell `yaml:"cells"`
}

func (rw *rawWarp) warp() *content.Warp {
	return &content.Warp{
		Cell:     rw.Cell,
		Position: mgl32.Vec3(rw.Position),
		Rotation: mgl32.Vec3(rw.Rotation),
	}
}

func (rc *rawContent) common() content.Common {
	scale := 100
	if rc.Scale != nil {
		scale = *rc.Scale
	}
	return content.Common{
		ID:       rc.ID,
		Name:     rc.Name,
		Mesh:     strings.TrimSpace(rc.Mesh),
		Position: mgl32.Vec3(rc.Position),
		Rotation: mgl32.Vec3(rc.Rotation),
		Scale:    scale,
		Script:   strings.TrimSpace(rc.Script),
	}
}

func (rc *rawContent) build() (content.Content, error) {
	c := rc.common()
	switch rc.Kind {
	case content.KindAsset:
		return &content.Asset{Common: c}, nil
	case content.KindDoor:
		d := &content.Door{Common: c}
		if rc.Warp != nil {
			d.Warp = rc.Warp.warp()
		}
		return d, nil
	case content.KindLight:
		return &content.Light{Common: c, Color: rc.Color, Radius: rc.Radius}, nil
	case content.KindEmitter:
		return &content.Emitter{Common: c}, nil
	case content.KindCreature:
		return &content.Creature{Common: c}, nil
	case content.KindNpc:
		n := &content.Npc{
			Common:  c,
			Job:     rc.Job,
			Faction: rc.Faction,
			Hostile: rc.Hostile,
			Dead:    rc.Dead,
			Alarm:   rc.Alarm,
		}
		for _, t := range rc.Travel {
			n.Travel = append(n.Travel, &content.Travel{Warp: *t.warp()})
		}
		return n, nil
	case content.KindContainer:
		return &content.Container{Common: c, Owner: rc.Owner}, nil
	case content.KindItem:
		return &content.Item{Common: c, Owner: rc.Owner, Value: rc.Value}, nil
	}
	return nil, errors.Errorf("Unknown content kind %q", rc.Kind)
}

// ParseWorld decodes yaml world description. Cell centers are derived from grid coordinate.
func ParseWorld(data []byte, cellSize float32) (*World, error) {
	var rw rawWorld
	if err := yaml.Unmarshal(data, &rw); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal world")
	}

	w := &World{Cells: make([]*Cell, 0, len(rw.Cells))}
	for iCell, rc := range rw.Cells {
		coordinate := coords.Int2{X: rc.Grid[0], Y: rc.Grid[1]}
		cell := &Cell{
			Name:       rc.Name,
			Region:     rc.Region,
			Coordinate: coordinate,
			Center:     CellCenter(coordinate, cellSize),
			Terrain:    rc.Terrain,
			Contents:   make([]content.Content, 0, len(rc.Contents)),
		}
		if cell.Terrain != nil {
			cell.Terrain.Coordinate = coordinate
		}

		for iContent, rcontent := range rc.Contents {
			c, err := rcontent.build()
			if err != nil {
				return nil, errors.Wrapf(err, "Cell %d (%q) content %d", iCell, rc.Name, iContent)
			}
			cell.Contents = append(cell.Contents, c)
		}
		w.Cells = append(w.Cells, cell)
	}

	log.WithField("cells", len(w.Cells)).Debug("world parsed")
	return w, nil
}

func LoadWorld(path string, cellSize float32) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read world %q", path)
	}
	return ParseWorld(data, cellSize)
}
