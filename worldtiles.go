package main

import (
	"bytes"
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/worldtiles/config"
	"github.com/mogaika/worldtiles/export"
	"github.com/mogaika/worldtiles/layout"
	"github.com/mogaika/worldtiles/msblist"
	"github.com/mogaika/worldtiles/script"
	"github.com/mogaika/worldtiles/source"
	"github.com/mogaika/worldtiles/status"
	"github.com/mogaika/worldtiles/web"
)

type options struct {
	config, world, models, grid, reserved string
	out, gltf, web                        string
	verbose                               bool
}

func modelLoader(path string) (source.ModelLoader, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open models %q", path)
	}
	if st.IsDir() {
		return source.DirLoader(path), nil
	}
	table, err := source.LoadModelTable(path)
	if err != nil {
		return nil, err
	}
	return source.TableLoader(table), nil
}

func loadReserved(path string) (script.Reserved, error) {
	if path == "" {
		return script.NewReserved(nil), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read reserved flags %q", path)
	}
	ids, err := msblist.ParseNumbers(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to parse reserved flags %q", path)
	}
	return script.NewReserved(ids), nil
}

func run(ctx context.Context, o *options) error {
	cfg, err := config.Load(o.config)
	if err != nil {
		return err
	}

	gridData, err := os.ReadFile(o.grid)
	if err != nil {
		return errors.Wrapf(err, "Failed to read msb list %q", o.grid)
	}
	entries, err := msblist.Parse(gridData)
	if err != nil {
		return errors.Wrapf(err, "Failed to parse msb list %q", o.grid)
	}

	world, err := source.LoadWorld(o.world, cfg.CellSize)
	if err != nil {
		return err
	}

	loader, err := modelLoader(o.models)
	if err != nil {
		return err
	}
	models, err := source.NewModelCache(loader)
	if err != nil {
		return err
	}
	defer models.Close()

	reserved, err := loadReserved(o.reserved)
	if err != nil {
		return err
	}
	manager, err := script.NewManager(reserved, cfg.OverworldMap)
	if err != nil {
		return err
	}

	hub := status.NewHub()
	l, err := layout.Build(cfg, entries, world, models, manager, hub)
	if err != nil {
		return err
	}

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		var buf bytes.Buffer
		if err := l.Render(&buf); err == nil {
			logrus.Debugf("Layout map:\n%s", buf.String())
		}
	}

	build := ""
	if o.out != "" {
		if build, err = export.WriteManifests(ctx, o.out, l, cfg.Workers); err != nil {
			return errors.Wrapf(err, "Failed to write manifests")
		}
		hub.Info("Wrote build %s to %s", build, o.out)
	}

	if o.gltf != "" {
		f, err := os.Create(o.gltf)
		if err != nil {
			return errors.Wrapf(err, "Failed to create preview %q", o.gltf)
		}
		if err := export.PreviewGLTF(f, l); err != nil {
			f.Close()
			return errors.Wrapf(err, "Failed to write preview")
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	if o.web != "" {
		return web.NewServer(l, hub, build).Start(ctx, o.web)
	}
	return nil
}

func main() {
	var o options
	flag.StringVar(&o.config, "config", "", "Path to yaml config, defaults are used when empty")
	flag.StringVar(&o.world, "world", "", "Path to source world yaml")
	flag.StringVar(&o.models, "models", "", "Path to model table yaml or directory with model sidecars")
	flag.StringVar(&o.grid, "grid", "", "Path to msb list of target tiles")
	flag.StringVar(&o.reserved, "reserved", "", "Path to list of flag ids used by game scripts")
	flag.StringVar(&o.out, "out", "", "Directory for tile manifests")
	flag.StringVar(&o.gltf, "gltf", "", "Path of glb layout preview")
	flag.StringVar(&o.web, "web", "", "Address of lookup server, for example :8000")
	flag.BoolVar(&o.verbose, "v", false, "Debug logging")
	flag.Parse()

	if o.world == "" || o.grid == "" || o.models == "" {
		flag.PrintDefaults()
		return
	}
	if o.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, &o); err != nil {
		logrus.Fatal(err)
	}
}
