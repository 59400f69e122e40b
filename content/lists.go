package content

// Lists holds content sorted by variant
type Lists struct {
	Assets     []*Asset
	Doors      []*Door
	Lights     []*Light
	Emitters   []*Emitter
	Creatures  []*Creature
	Npcs       []*Npc
	Containers []*Container
	Items      []*Item
}

func (l *Lists) Add(c Content) {
	c.Accept(l)
}

func (l *Lists) VisitAsset(a *Asset)         { l.Assets = append(l.Assets, a) }
func (l *Lists) VisitDoor(d *Door)           { l.Doors = append(l.Doors, d) }
func (l *Lists) VisitLight(li *Light)        { l.Lights = append(l.Lights, li) }
func (l *Lists) VisitEmitter(e *Emitter)     { l.Emitters = append(l.Emitters, e) }
func (l *Lists) VisitCreature(c *Creature)   { l.Creatures = append(l.Creatures, c) }
func (l *Lists) VisitNpc(n *Npc)             { l.Npcs = append(l.Npcs, n) }
func (l *Lists) VisitContainer(c *Container) { l.Containers = append(l.Containers, c) }
func (l *Lists) VisitItem(i *Item)           { l.Items = append(l.Items, i) }

func (l *Lists) Count() int {
	return len(l.Assets) + len(l.Doors) + len(l.Lights) + len(l.Emitters) +
		len(l.Creatures) + len(l.Npcs) + len(l.Containers) + len(l.Items)
}

// Each walks all content in variant order
func (l *Lists) Each(fn func(Content)) {
	for _, c := range l.Assets {
		fn(c)
	}
	for _, c := range l.Doors {
		fn(c)
	}
	for _, c := range l.Lights {
		fn(c)
	}
	for _, c := range l.Emitters {
		fn(c)
	}
	for _, c := range l.Creatures {
		fn(c)
	}
	for _, c := range l.Npcs {
		fn(c)
	}
	for _, c := range l.Containers {
		fn(c)
	}
	for _, c := range l.Items {
		fn(c)
	}
}
