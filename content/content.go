package content

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/worldtiles/coords"
)

// Visitor must handle every content variant
type Visitor interface {
	VisitAsset(*Asset)
	VisitDoor(*Door)
	VisitLight(*Light)
	VisitEmitter(*Emitter)
	VisitCreature(*Creature)
	VisitNpc(*Npc)
	VisitContainer(*Container)
	VisitItem(*Item)
}

type Content interface {
	Accept(Visitor)
	Base() *Common
}

type Kind string

const (
	KindAsset     Kind = "asset"
	KindDoor      Kind = "door"
	KindLight     Kind = "light"
	KindEmitter   Kind = "emitter"
	KindCreature  Kind = "creature"
	KindNpc       Kind = "npc"
	KindContainer Kind = "container"
	KindItem      Kind = "item"
)

// Common fields shared by all content. Position is absolute source-world
// position, Relative is filled once when a tile accepts the content.
type Common struct {
	ID       string     `yaml:"id"`
	Name     string     `yaml:"name,omitempty"`
	Mesh     string     `yaml:"mesh,omitempty"`
	Position mgl32.Vec3 `yaml:"-"`
	Rotation mgl32.Vec3 `yaml:"-"`
	Scale    int        `yaml:"scale"` // percent, 100 = 1.0
	Script   string     `yaml:"script,omitempty"`

	Relative mgl32.Vec3   `yaml:"-"`
	Load     *coords.Int2 `yaml:"load,omitempty"` // leaf tile that streams this content in, coarse tiles only
	Entity   uint32       `yaml:"entity,omitempty"`

	placed bool
}

func (c *Common) Base() *Common { return c }

// Scripted content must live in a leaf tile
func (c *Common) Scripted() bool { return c.Script != "" }

// ScaleFactor converts percent scale to multiplier. Zero scale means unscaled.
func (c *Common) ScaleFactor() float32 {
	if c.Scale == 0 {
		return 1
	}
	return float32(c.Scale) / 100
}

// Place sets relative position. Content is placed exactly once.
func (c *Common) Place(relative mgl32.Vec3) bool {
	if c.placed {
		return false
	}
	c.Relative = relative
	c.placed = true
	return true
}

func (c *Common) Placed() bool { return c.placed }

type Asset struct{ Common }

func (a *Asset) Accept(v Visitor) { v.VisitAsset(a) }

// ToEmitter converts asset whose model carries emitter nodes
func (a *Asset) ToEmitter() *Emitter {
	return &Emitter{Common: a.Common}
}

// Warp is a load door or travel endpoint
type Warp struct {
	Cell     string     `yaml:"cell,omitempty"` // interior destination, empty for exterior
	Position mgl32.Vec3 `yaml:"-"`
	Rotation mgl32.Vec3 `yaml:"-"`

	Resolved bool   `yaml:"resolved"`
	Map      int    `yaml:"map"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
	Block    int    `yaml:"block"`
	Entity   uint32 `yaml:"entity"`
	Prompt   string `yaml:"prompt,omitempty"`
}

type Door struct {
	Common
	Warp *Warp
}

func (d *Door) Accept(v Visitor) { v.VisitDoor(d) }

type Light struct {
	Common
	Color  [4]uint8
	Radius float32
}

func (l *Light) Accept(v Visitor) { v.VisitLight(l) }

type Emitter struct{ Common }

func (e *Emitter) Accept(v Visitor) { v.VisitEmitter(e) }

type Creature struct{ Common }

func (c *Creature) Accept(v Visitor) { v.VisitCreature(c) }

type Travel struct {
	Warp `yaml:",inline"`
	Name string `yaml:"name,omitempty"`
	Cost int    `yaml:"cost"`
	Flag uint32 `yaml:"flag,omitempty"` // common flag that starts the travel
}

type Npc struct {
	Common
	Job     string
	Faction string
	Hostile bool
	Dead    bool
	Alarm   int
	Travel  []*Travel

	Witness bool // someone nearby reports crimes against this npc
}

func (n *Npc) Accept(v Visitor) { v.VisitNpc(n) }

func (n *Npc) IsGuard() bool {
	return n.Job == "Guard" || n.Job == "Ordinator Guard"
}

type Container struct {
	Common
	Owner string
}

func (c *Container) Accept(v Visitor) { v.VisitContainer(c) }

type Item struct {
	Common
	Owner string
	Value int
}

func (i *Item) Accept(v Visitor) { v.VisitItem(i) }

// KindOf returns variant tag of content
func KindOf(c Content) Kind {
	var k kindVisitor
	c.Accept(&k)
	return Kind(k)
}

type kindVisitor Kind

func (k *kindVisitor) VisitAsset(*Asset)         { *k = kindVisitor(KindAsset) }
func (k *kindVisitor) VisitDoor(*Door)           { *k = kindVisitor(KindDoor) }
func (k *kindVisitor) VisitLight(*Light)         { *k = kindVisitor(KindLight) }
func (k *kindVisitor) VisitEmitter(*Emitter)     { *k = kindVisitor(KindEmitter) }
func (k *kindVisitor) VisitCreature(*Creature)   { *k = kindVisitor(KindCreature) }
func (k *kindVisitor) VisitNpc(*Npc)             { *k = kindVisitor(KindNpc) }
func (k *kindVisitor) VisitContainer(*Container) { *k = kindVisitor(KindContainer) }
func (k *kindVisitor) VisitItem(*Item)           { *k = kindVisitor(KindItem) }
