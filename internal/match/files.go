package match

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/tuning"
)

// Every match directory carries the exact map and tuning it was played with,
// so a replay needs nothing else.
const (
	mapFile    = "map.json"
	tuningFile = "tuning.yaml"
)

func writeMatchFiles(dir string, m gamemap.GameMap, t *tuning.Tuning) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := gamemap.Write(filepath.Join(dir, mapFile), m); err != nil {
		return err
	}
	b, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, tuningFile), b, 0o644)
}

// LoadMatchFiles reads back the map and tuning stored in a match directory.
func LoadMatchFiles(dir string) (gamemap.GameMap, tuning.Tuning, error) {
	t, err := tuning.Load(filepath.Join(dir, tuningFile))
	if err != nil {
		return gamemap.GameMap{}, t, fmt.Errorf("match files: %w", err)
	}
	m, err := gamemap.Load(filepath.Join(dir, mapFile), &t)
	if err != nil {
		return m, t, fmt.Errorf("match files: %w", err)
	}
	return m, t, nil
}
