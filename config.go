package ecs

import "github.com/BurntSushi/toml"

// WorldConfig holds the five capacity knobs that size a world's initial
// allocations. Each field
// left at zero (the Go zero value) is normalized to its documented
// default by Validate; negative values are treated the same as zero.
type WorldConfig struct {
	WorldEntitiesCache       int `toml:"world_entities_cache"`
	WorldFiltersCache        int `toml:"world_filters_cache"`
	WorldComponentPoolsCache int `toml:"world_component_pools_cache"`
	EntityComponentsCache    int `toml:"entity_components_cache"`
	FilterEntitiesCache      int `toml:"filter_entities_cache"`
}

// DefaultWorldConfig returns the documented defaults:
// 1024 entities, 128 filters, 512 component pools, 8 components per
// entity, 256 entities per filter.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		WorldEntitiesCache:       1024,
		WorldFiltersCache:        128,
		WorldComponentPoolsCache: 512,
		EntityComponentsCache:    8,
		FilterEntitiesCache:      256,
	}
}

// Validate returns a copy of c with every zero-or-negative field
// replaced by its default.
func (c WorldConfig) Validate() WorldConfig {
	d := DefaultWorldConfig()
	if c.WorldEntitiesCache <= 0 {
		c.WorldEntitiesCache = d.WorldEntitiesCache
	}
	if c.WorldFiltersCache <= 0 {
		c.WorldFiltersCache = d.WorldFiltersCache
	}
	if c.WorldComponentPoolsCache <= 0 {
		c.WorldComponentPoolsCache = d.WorldComponentPoolsCache
	}
	if c.EntityComponentsCache <= 0 {
		c.EntityComponentsCache = d.EntityComponentsCache
	}
	if c.FilterEntitiesCache <= 0 {
		c.FilterEntitiesCache = d.FilterEntitiesCache
	}
	return c
}

// LoadWorldConfig parses a TOML file of the five WorldConfig keys,
// applying Validate's zero-or-negative-selects-default rule after
// decode so a host can omit any subset of the keys.
func LoadWorldConfig(path string) (WorldConfig, error) {
	var cfg WorldConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return WorldConfig{}, err
	}
	return cfg.Validate(), nil
}
