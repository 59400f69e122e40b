package source

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ModelInfo describes converted model. Size is footprint of the model at scale 1.
type ModelInfo struct {
	Size    float32 `yaml:"size"`
	Emitter bool    `yaml:"emitter"`
}

type Models interface {
	GetModel(mesh string) (ModelInfo, bool)
}

type ModelLoader func(mesh string) (ModelInfo, error)

var ErrModelNotFound = errors.New("model not found")

// ModelCache keeps recently used model infos in front of a slower loader
type ModelCache struct {
	cache  *ristretto.Cache[string, ModelInfo]
	loader ModelLoader
}

func NewModelCache(loader ModelLoader) (*ModelCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, ModelInfo]{
		NumCounters: 1 << 16,
		MaxCost:     1 << 14,
		BufferItems: 64,

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create model cache")
	}
	return &ModelCache{cache: cache, loader: loader}, nil
}

func modelKey(mesh string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(mesh), "\\", "/"))
}

func (mc *ModelCache) GetModel(mesh string) (ModelInfo, bool) {
	key := modelKey(mesh)
	if key == "" {
		return ModelInfo{}, false
	}
	if mi, ok := mc.cache.Get(key); ok {
		return mi, true
	}

	mi, err := mc.loader(key)
	if err != nil {
		log.WithField("mesh", mesh).WithError(err).Debug("model lookup failed")
		return ModelInfo{}, false
	}
	mc.cache.Set(key, mi, 1)
	return mi, true
}

// Wait flushes pending cache writes
func (mc *ModelCache) Wait() {
	mc.cache.Wait()
}

func (mc *ModelCache) Close() {
	mc.cache.Close()
}

// TableLoader serves models from in-memory table keyed by mesh path
func TableLoader(table map[string]ModelInfo) ModelLoader {
	normalized := make(map[string]ModelInfo, len(table))
	for mesh, mi := range table {
		normalized[modelKey(mesh)] = mi
	}
	return func(mesh string) (ModelInfo, error) {
		if mi, ok := normalized[modelKey(mesh)]; ok {
			return mi, nil
		}
		return ModelInfo{}, errors.Wrapf(ErrModelNotFound, "%q", mesh)
	}
}

// DirLoader reads <dir>/<mesh>.yaml sidecar files written by model converter
func DirLoader(dir string) ModelLoader {
	return func(mesh string) (ModelInfo, error) {
		path := filepath.Join(dir, filepath.FromSlash(modelKey(mesh))+".yaml")
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return ModelInfo{}, errors.Wrapf(ErrModelNotFound, "%q", mesh)
			}
			return ModelInfo{}, errors.Wrapf(err, "Failed to read %q", path)
		}
		var mi ModelInfo
		if err := yaml.Unmarshal(data, &mi); err != nil {
			return ModelInfo{}, errors.Wrapf(err, "Failed to unmarshal %q", path)
		}
		return mi, nil
	}
}

// LoadModelTable reads yaml map of mesh path to model info
func LoadModelTable(path string) (map[string]ModelInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to read models %q", path)
	}
	table := make(map[string]ModelInfo)
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal models %q", path)
	}
	return table, nil
}
