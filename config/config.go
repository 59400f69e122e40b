package config

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mogaika/worldtiles/coords"
)

const ENV_PREFIX = "WORLDTILES"

// Config holds every tunable of a conversion run. One value is built per run and
// passed to every component that needs it.
type Config struct {
	TileSize      float32    `mapstructure:"tile_size"`
	CellSize      float32    `mapstructure:"cell_size"`
	BigThreshold  float32    `mapstructure:"big_threshold"`
	HugeThreshold float32    `mapstructure:"huge_threshold"`
	WorldOffset   mgl32.Vec3 `mapstructure:"world_offset"`

	OverworldMap int `mapstructure:"overworld_map"`

	DefaultRegion     string `mapstructure:"default_region"`
	PriorityRegion    string `mapstructure:"priority_region"`
	PriorityTileCount int    `mapstructure:"priority_tile_count"`
	PriorityHugeCount int    `mapstructure:"priority_huge_count"`

	TravelDistanceCost float32 `mapstructure:"travel_distance_cost"`
	TravelDefaultCost  int     `mapstructure:"travel_default_cost"`

	Workers int `mapstructure:"workers"`
}

func Default() *Config {
	return &Config{
		TileSize:      256,
		CellSize:      128,
		BigThreshold:  60,
		HugeThreshold: 180,
		WorldOffset:   mgl32.Vec3{10240, 0, 10240},

		OverworldMap: 60,

		DefaultRegion:     "Default Region",
		PriorityRegion:    "Red Mountain Region",
		PriorityTileCount: 3,
		PriorityHugeCount: 8,

		TravelDistanceCost: 10,
		TravelDefaultCost:  50,

		Workers: 4,
	}
}

func (c *Config) Space() coords.Space {
	return coords.Space{TileSize: c.TileSize, Offset: c.WorldOffset}
}

func (c *Config) Validate() error {
	if c.TileSize <= 0 {
		return errors.Errorf("Invalid tile size %v", c.TileSize)
	}
	if c.CellSize <= 0 {
		return errors.Errorf("Invalid cell size %v", c.CellSize)
	}
	if c.BigThreshold > c.HugeThreshold {
		return errors.Errorf("Big threshold %v is above huge threshold %v", c.BigThreshold, c.HugeThreshold)
	}
	if c.OverworldMap < 0 || c.OverworldMap > 99 {
		return errors.Errorf("Overworld map id %d does not fit two digits", c.OverworldMap)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("tile_size", d.TileSize)
	v.SetDefault("cell_size", d.CellSize)
	v.SetDefault("big_threshold", d.BigThreshold)
	v.SetDefault("huge_threshold", d.HugeThreshold)
	v.SetDefault("world_offset", []float32{d.WorldOffset[0], d.WorldOffset[1], d.WorldOffset[2]})
	v.SetDefault("overworld_map", d.OverworldMap)
	v.SetDefault("default_region", d.DefaultRegion)
	v.SetDefault("priority_region", d.PriorityRegion)
	v.SetDefault("priority_tile_count", d.PriorityTileCount)
	v.SetDefault("priority_huge_count", d.PriorityHugeCount)
	v.SetDefault("travel_distance_cost", d.TravelDistanceCost)
	v.SetDefault("travel_default_cost", d.TravelDefaultCost)
	v.SetDefault("workers", d.Workers)
}

// Load reads optional yaml config file on top of defaults.
// Scalar keys can be overridden by WORLDTILES_<KEY> environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "Failed to read config %q", path)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrapf(err, "Failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
