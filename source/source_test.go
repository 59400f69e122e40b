package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
)

const testWorld = `
cells:
  - name: Seyda Neen
    region: Bitter Coast Region
    grid: [-2, -9]
    terrain: {id: land_-2_-9, height: 3.5}
    contents:
      - kind: asset
        id: ex_common_house_01
        mesh: x\ex_common_house_01.nif
        position: [-15000, 200, -71000]
        scale: 120
      - kind: door
        id: ex_door_01
        position: [-15100, 200, -71100]
        warp: {cell: "Seyda Neen, Census and Excise Office", position: [1, 2, 3]}
      - kind: npc
        id: fargoth
        job: Commoner
        alarm: 10
        script: fargothscript
        position: [-15200, 200, -71200]
        travel:
          - position: [-20000, 0, -60000]
      - kind: light
        id: light_com_candle_06
        position: [-15000, 300, -71000]
        radius: 128
      - kind: item
        id: gold_001
        value: 1
        owner: arrille
  - region: Bitter Coast Region
    grid: [-3, -9]
`

func TestParseWorld(t *testing.T) {
	w, err := ParseWorld([]byte(testWorld), 128)
	if err != nil {
		t.Fatal(err)
	}
	if len(w.Cells) != 2 {
		t.Fatalf("cells=%d; expected 2", len(w.Cells))
	}

	cell := w.Cells[0]
	if cell.Coordinate != (coords.Int2{X: -2, Y: -9}) {
		t.Errorf("Coordinate=%v", cell.Coordinate)
	}
	if cell.Center != (mgl32.Vec3{-192, 0, -1088}) {
		t.Errorf("Center=%v", cell.Center)
	}
	if cell.Terrain == nil || cell.Terrain.Coordinate != cell.Coordinate || cell.Terrain.Height != 3.5 {
		t.Errorf("Terrain=%+v", cell.Terrain)
	}
	if len(cell.Contents) != 5 {
		t.Fatalf("contents=%d; expected 5", len(cell.Contents))
	}

	asset, ok := cell.Contents[0].(*content.Asset)
	if !ok {
		t.Fatalf("content 0 is %T", cell.Contents[0])
	}
	if asset.Scale != 120 || asset.Position != (mgl32.Vec3{-15000, 200, -71000}) {
		t.Errorf("asset=%+v", asset)
	}

	door := cell.Contents[1].(*content.Door)
	if door.Warp == nil || door.Warp.Cell != "Seyda Neen, Census and Excise Office" {
		t.Errorf("door warp=%+v", door.Warp)
	}
	if door.Scale != 100 {
		t.Errorf("default scale=%d; expected 100", door.Scale)
	}

	npc := cell.Contents[2].(*content.Npc)
	if !npc.Scripted() || npc.Job != "Commoner" || len(npc.Travel) != 1 {
		t.Errorf("npc=%+v", npc)
	}

	if w.Cells[1].DisplayName() != "Bitter Coast Region" {
		t.Errorf("DisplayName()=%q", w.Cells[1].DisplayName())
	}
	if w.GetCellAt(mgl32.Vec3{-300, 0, -1100}, 128) != w.Cells[1] {
		t.Error("GetCellAt did not find cell -3,-9")
	}
	if w.GetCellAt(mgl32.Vec3{5000, 0, 5000}, 128) != nil {
		t.Error("GetCellAt found cell outside world")
	}
}

func TestParseWorldUnknownKind(t *testing.T) {
	const bad = `
cells:
  - grid: [0, 0]
    contents:
      - kind: spaceship
`
	if _, err := ParseWorld([]byte(bad), 128); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestModelCacheTable(t *testing.T) {
	mc, err := NewModelCache(TableLoader(map[string]ModelInfo{
		"X\\Ex_Common_House_01.NIF": {Size: 50},
		"l\\lantern.nif":            {Size: 2, Emitter: true},
	}))
	if err != nil {
		t.Fatal(err)
	}
	defer mc.Close()

	for i := 0; i < 2; i++ {
		mi, ok := mc.GetModel("x\\ex_common_house_01.nif")
		if !ok || mi.Size != 50 {
			t.Errorf("GetModel pass %d = %+v, %v", i, mi, ok)
		}
		mc.Wait()
	}
	if mi, ok := mc.GetModel("l/lantern.nif"); !ok || !mi.Emitter {
		t.Errorf("GetModel(lantern)=%+v, %v", mi, ok)
	}
	if _, ok := mc.GetModel("missing.nif"); ok {
		t.Error("GetModel(missing) reported found")
	}
	if _, ok := mc.GetModel(""); ok {
		t.Error("GetModel(\"\") reported found")
	}
}

func TestDirLoader(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "x"), 0777); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "x", "ex_tower.nif.yaml"), []byte("size: 300\n"), 0666); err != nil {
		t.Fatal(err)
	}

	load := DirLoader(dir)
	mi, err := load("X\\ex_tower.nif")
	if err != nil || mi.Size != 300 {
		t.Errorf("DirLoader=%+v, %v", mi, err)
	}
	if _, err := load("x\\nothing.nif"); errors.Cause(err) != ErrModelNotFound {
		t.Errorf("missing model error=%v", err)
	}
}

func TestLoadModelTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte("\"x\\\\ex_a.nif\": {size: 12}\n"), 0666); err != nil {
		t.Fatal(err)
	}
	table, err := LoadModelTable(path)
	if err != nil {
		t.Fatal(err)
	}
	if table["x\\ex_a.nif"].Size != 12 {
		t.Errorf("table=%v", table)
	}
}
