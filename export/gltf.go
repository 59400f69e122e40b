package export

import (
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/layout"
	"github.com/mogaika/worldtiles/tile"
)

// vertical spacing between level planes of preview
const PREVIEW_LEVEL_STEP = 64

var previewLevels = []struct {
	level coords.Level
	color [4]float32
}{
	{coords.LevelTile, [4]float32{0.2, 0.7, 0.2, 1}},
	{coords.LevelBig, [4]float32{0.2, 0.3, 0.8, 1}},
	{coords.LevelHuge, [4]float32{0.8, 0.3, 0.2, 1}},
}

// PreviewGLTF writes binary gltf with one quad per non-empty tile footprint.
// Levels are stacked above each other for visual verification of the layout.
func PreviewGLTF(w io.Writer, l *layout.Layout) error {
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}})
	indices := modeler.WriteIndices(doc, []uint16{0, 2, 1, 0, 3, 2})

	meshes := make(map[coords.Level]uint32, len(previewLevels))
	for i, pl := range previewLevels {
		color := pl.color
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name:        pl.level.String(),
			DoubleSided: true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &color,
			},
		})
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: pl.level.String(),
			Primitives: []*gltf.Primitive{
				{
					Indices:    gltf.Index(indices),
					Attributes: map[string]uint32{"POSITION": positions},
					Material:   gltf.Index(uint32(i)),
				},
			},
		})
		meshes[pl.level] = uint32(len(doc.Meshes) - 1)
	}

	addNode := func(b *tile.Base, height int) {
		if b.IsEmpty() {
			return
		}
		size := l.Space.TileSize * b.Level.Span()
		origin := b.Origin()
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        b.Name(),
			Mesh:        gltf.Index(meshes[b.Level]),
			Translation: [3]float32{origin.X() - l.Space.TileSize*0.5, float32(height * PREVIEW_LEVEL_STEP), origin.Z() - l.Space.TileSize*0.5},
			Scale:       [3]float32{size, 1, size},
		})
	}
	for _, t := range l.Tiles {
		addNode(&t.Base, 0)
	}
	for _, b := range l.Bigs {
		addNode(&b.Base, 1)
	}
	for _, h := range l.Huges {
		addNode(&h.Base, 2)
	}

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
