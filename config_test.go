package ecs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorldConfigValidateFillsZeroFields(t *testing.T) {
	cfg := WorldConfig{WorldEntitiesCache: 2048}.Validate()
	d := DefaultWorldConfig()
	if cfg.WorldEntitiesCache != 2048 {
		t.Errorf("explicit field was overwritten: %d", cfg.WorldEntitiesCache)
	}
	if cfg.WorldFiltersCache != d.WorldFiltersCache {
		t.Errorf("zero field not defaulted: %d, expected %d", cfg.WorldFiltersCache, d.WorldFiltersCache)
	}
}

func TestWorldConfigValidateTreatsNegativeAsZero(t *testing.T) {
	cfg := WorldConfig{FilterEntitiesCache: -5}.Validate()
	if cfg.FilterEntitiesCache != DefaultWorldConfig().FilterEntitiesCache {
		t.Errorf("negative field not defaulted: %d", cfg.FilterEntitiesCache)
	}
}

func TestLoadWorldConfigFromTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "world.toml")
	contents := `
world_entities_cache = 4096
entity_components_cache = 16
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadWorldConfig(path)
	if err != nil {
		t.Fatalf("LoadWorldConfig: %v", err)
	}
	if cfg.WorldEntitiesCache != 4096 {
		t.Errorf("WorldEntitiesCache = %d, expected 4096", cfg.WorldEntitiesCache)
	}
	if cfg.EntityComponentsCache != 16 {
		t.Errorf("EntityComponentsCache = %d, expected 16", cfg.EntityComponentsCache)
	}
	if cfg.WorldFiltersCache != DefaultWorldConfig().WorldFiltersCache {
		t.Errorf("omitted field should default, got %d", cfg.WorldFiltersCache)
	}
}

func TestLoadWorldConfigMissingFile(t *testing.T) {
	if _, err := LoadWorldConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Errorf("expected an error loading a nonexistent config file")
	}
}
