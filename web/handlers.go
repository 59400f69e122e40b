package web

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/worldtiles/export"
	"github.com/mogaika/worldtiles/script"
	"github.com/mogaika/worldtiles/tile"
	"github.com/mogaika/worldtiles/utils"
	"github.com/mogaika/worldtiles/webutils"
)

type TileSummary struct {
	Name     string `json:"name"`
	Level    string `json:"level"`
	Region   string `json:"region,omitempty"`
	Cells    int    `json:"cells"`
	Contents int    `json:"contents"`
}

func summary(b *tile.Base, region string) TileSummary {
	return TileSummary{
		Name:     b.Name(),
		Level:    b.Level.String(),
		Region:   region,
		Cells:    len(b.Cells),
		Contents: b.Count(),
	}
}

func (s *Server) HandlerTiles(w http.ResponseWriter, r *http.Request) {
	l := s.layout
	result := make([]TileSummary, 0, len(l.Tiles)+len(l.Bigs)+len(l.Huges))
	for _, t := range l.Tiles {
		result = append(result, summary(&t.Base, t.GetRegion()))
	}
	for _, b := range l.Bigs {
		result = append(result, summary(&b.Base, ""))
	}
	for _, h := range l.Huges {
		result = append(result, summary(&h.Base, h.GetRegion()))
	}
	webutils.WriteJson(w, result)
}

func parseCoordinate(r *http.Request, key string) (float32, error) {
	v := r.FormValue(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, errors.Errorf("param '%s' is not a number: %q", key, v)
	}
	return float32(f), nil
}

// HandlerTileAt resolves absolute source position into leaf tile
func (s *Server) HandlerTileAt(w http.ResponseWriter, r *http.Request) {
	var position mgl32.Vec3
	for i, key := range []string{"x", "y", "z"} {
		f, err := parseCoordinate(r, key)
		if err != nil {
			webutils.WriteErrorCode(w, http.StatusBadRequest, err)
			return
		}
		position[i] = f
	}
	t := s.layout.GetTile(position)
	if t == nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("No tile at %v", position))
		return
	}
	webutils.WriteJson(w, summary(&t.Base, t.GetRegion()))
}

func (s *Server) HandlerTile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if m, ok := export.ManifestByName(s.build, s.layout, name); ok {
		webutils.WriteJson(w, m)
		return
	}
	if _, ok := s.layout.TileByName(name); ok {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Tile %s is empty", name))
		return
	}
	webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Tile %s not found", name))
}

func (s *Server) HandlerRegion(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	region, ok := s.layout.RegionOf(name)
	if !ok {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Tile %s has no region", name))
		return
	}
	webutils.WriteJson(w, map[string]string{"tile": name, "region": region})
}

// HandlerTileFlag looks flag up in the allocator of one leaf tile only
func (s *Server) HandlerTileFlag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	designation, ok := script.ParseDesignation(vars["designation"])
	if !ok {
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Errorf("Unknown designation %q", vars["designation"]))
		return
	}
	sc, ok := s.layout.ScriptByName(vars["name"])
	if !ok {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Tile %s has no script", vars["name"]))
		return
	}
	f := sc.FindFlag(designation, vars["flag"])
	if f == nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Flag %v %q not found in %s", designation, vars["flag"], sc.Name()))
		return
	}
	webutils.WriteJson(w, f)
}

func (s *Server) HandlerFlag(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	designation, ok := script.ParseDesignation(vars["designation"])
	if !ok {
		webutils.WriteErrorCode(w, http.StatusBadRequest, errors.Errorf("Unknown designation %q", vars["designation"]))
		return
	}
	f := s.layout.Manager.GetFlag(designation, vars["name"])
	if f == nil {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Flag %v %q not found", designation, vars["name"]))
		return
	}
	webutils.WriteJson(w, f)
}

func (s *Server) HandlerDumpTile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	m, ok := export.ManifestByName(s.build, s.layout, name)
	if !ok {
		webutils.WriteErrorCode(w, http.StatusNotFound, errors.Errorf("Tile %s not found", name))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	webutils.WriteResult(w, []byte(utils.SDump(m)))
}

func (s *Server) HandlerPreview(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.PreviewGLTF(&buf, s.layout); err != nil {
		webutils.WriteError(w, errors.Wrapf(err, "Failed to build preview"))
		return
	}
	webutils.WriteFile(w, &buf, "preview.glb")
}
