package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/mogaika/worldtiles/config"
	"github.com/mogaika/worldtiles/layout"
	"github.com/mogaika/worldtiles/msblist"
	"github.com/mogaika/worldtiles/script"
	"github.com/mogaika/worldtiles/source"
	"github.com/mogaika/worldtiles/status"
)

const testWorld = `
cells:
  - name: Caldera
    region: West Gash Region
    grid: [0, 0]
    terrain: {id: land_0_0}
    contents:
      - {kind: asset, id: tent, mesh: tent.nif, position: [64, 0, 64]}
      - {kind: creature, id: guar, position: [20, 0, 20]}
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	entries, err := msblist.Parse([]byte("60,40,40,0;60,41,40,0;60,20,20,1;60,10,10,2"))
	if err != nil {
		t.Fatal(err)
	}
	world, err := source.ParseWorld([]byte(testWorld), cfg.CellSize)
	if err != nil {
		t.Fatal(err)
	}
	models, err := source.NewModelCache(source.TableLoader(map[string]source.ModelInfo{"tent.nif": {Size: 4}}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(models.Close)
	manager, err := script.NewManager(nil, cfg.OverworldMap)
	if err != nil {
		t.Fatal(err)
	}
	hub := status.NewHub()
	l, err := layout.Build(cfg, entries, world, models, manager, hub)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(NewServer(l, hub, "test-build").Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestHandlerTiles(t *testing.T) {
	srv := newTestServer(t)
	var tiles []TileSummary
	if code := get(t, srv, "/json/tiles", &tiles); code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	if len(tiles) != 4 {
		t.Fatalf("tiles=%d; expected 4", len(tiles))
	}
	if tiles[0].Name != "m60_40_40_00" || tiles[0].Contents != 2 || tiles[0].Region != "west gash region" {
		t.Errorf("tiles[0]=%+v", tiles[0])
	}
	if tiles[1].Contents != 0 || tiles[1].Cells != 0 {
		t.Errorf("tiles[1]=%+v", tiles[1])
	}
}

func TestHandlerTileAt(t *testing.T) {
	srv := newTestServer(t)
	var tile TileSummary
	if code := get(t, srv, "/json/tile/at?x=300&z=10", &tile); code != http.StatusOK || tile.Name != "m60_41_40_00" {
		t.Errorf("tile at=%d %+v", code, tile)
	}
	if code := get(t, srv, "/json/tile/at?x=banana", nil); code != http.StatusBadRequest {
		t.Errorf("bad coordinate code=%d", code)
	}
	if code := get(t, srv, "/json/tile/at?x=-5000&z=0", nil); code != http.StatusNotFound {
		t.Errorf("outside code=%d", code)
	}
}

func TestHandlerTile(t *testing.T) {
	srv := newTestServer(t)
	var m struct {
		Build    string `json:"build"`
		Contents []struct {
			ID     string `json:"id"`
			Entity uint32 `json:"entity"`
		} `json:"contents"`
		Script struct {
			Entities map[string]uint32 `json:"entities"`
		} `json:"script"`
	}
	if code := get(t, srv, "/json/tile/m60_40_40_00", &m); code != http.StatusOK {
		t.Fatalf("code=%d", code)
	}
	if m.Build != "test-build" || len(m.Contents) != 2 || m.Script.Entities["Enemy"] != 1 {
		t.Errorf("manifest=%+v", m)
	}
	if m.Contents[1].ID != "guar" || m.Contents[1].Entity != 1040400000 {
		t.Errorf("guar=%+v", m.Contents[1])
	}

	var herr struct {
		Error string `json:"error"`
	}
	if code := get(t, srv, "/json/tile/m60_41_40_00", &herr); code != http.StatusNotFound || !strings.Contains(herr.Error, "empty") {
		t.Errorf("empty tile=%d %q", code, herr.Error)
	}
	if code := get(t, srv, "/json/tile/m60_99_99_00", &herr); code != http.StatusNotFound || !strings.Contains(herr.Error, "not found") {
		t.Errorf("missing tile=%d %q", code, herr.Error)
	}
}

func TestHandlerRegionAndFlag(t *testing.T) {
	srv := newTestServer(t)
	var region map[string]string
	if code := get(t, srv, "/json/region/m60_10_10_02", &region); code != http.StatusOK || region["region"] != "west gash region" {
		t.Errorf("region=%d %v", code, region)
	}
	if code := get(t, srv, "/json/region/m60_20_20_01", nil); code != http.StatusNotFound {
		t.Errorf("big tile region code=%d", code)
	}

	var flag struct {
		Designation string `json:"designation"`
		Name        string `json:"name"`
		ID          uint32 `json:"id"`
	}
	if code := get(t, srv, "/json/flag/deadcount/guar", &flag); code != http.StatusOK || flag.Designation != "DeadCount" || flag.ID == 0 {
		t.Errorf("flag=%d %+v", code, flag)
	}
	if code := get(t, srv, "/json/flag/nonsense/guar", nil); code != http.StatusBadRequest {
		t.Errorf("unknown designation code=%d", code)
	}
	if code := get(t, srv, "/json/flag/dead/nobody", nil); code != http.StatusNotFound {
		t.Errorf("missing flag code=%d", code)
	}
}

func TestHandlerTileFlag(t *testing.T) {
	srv := newTestServer(t)
	var flag struct {
		Designation string `json:"designation"`
		ID          uint32 `json:"id"`
	}
	// guar is the first enemy entity of m60_40_40_00
	if code := get(t, srv, "/json/tile/m60_40_40_00/flag/dead/1040400000", &flag); code != http.StatusOK ||
		flag.Designation != "Dead" || flag.ID < 1040400000 || flag.ID >= 1040410000 {
		t.Errorf("tile flag=%d %+v", code, flag)
	}

	var tests = []struct {
		path string
		code int
	}{
		{"/json/tile/m60_40_40_00/flag/deadcount/guar", http.StatusNotFound},
		{"/json/tile/m60_41_40_00/flag/dead/1040400000", http.StatusNotFound},
		{"/json/tile/m60_99_99_00/flag/dead/1040400000", http.StatusNotFound},
		{"/json/tile/m60_40_40_00/flag/nonsense/1040400000", http.StatusBadRequest},
	}
	for _, test := range tests {
		if code := get(t, srv, test.path, nil); code != test.code {
			t.Errorf("GET %s=%d; expected %d", test.path, code, test.code)
		}
	}
}

func TestHandlerDumps(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/dump/tile/m60_40_40_00")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "tent") {
		t.Errorf("dump=%s", body)
	}

	resp, err = http.Get(srv.URL + "/dump/preview.glb")
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(bytes.NewReader(body)).Decode(doc); err != nil {
		t.Fatal(err)
	}
	if len(doc.Nodes) != 3 {
		t.Errorf("preview nodes=%d; expected 3", len(doc.Nodes))
	}
}
