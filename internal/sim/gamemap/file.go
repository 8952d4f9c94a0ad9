package gamemap

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"battlecode.ai/internal/sim/gameerr"
	"battlecode.ai/internal/sim/tuning"
)

//go:embed map.schema.json
var mapSchemaSrc string

var mapSchema = jsonschema.MustCompileString("https://battlecode.ai/schemas/map.schema.json", mapSchemaSrc)

// Parse decodes a map file after checking it against the map schema. It does not
// run structural validation; see Load.
func Parse(raw []byte) (GameMap, error) {
	var m GameMap
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return m, gameerr.New(gameerr.CodeInvalidMapObject, "map json: %v", err)
	}
	if err := mapSchema.Validate(doc); err != nil {
		return m, gameerr.New(gameerr.CodeInvalidMapObject, "map schema: %v", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&m); err != nil {
		return m, gameerr.New(gameerr.CodeInvalidMapObject, "map decode: %v", err)
	}
	return m, nil
}

// Load reads, schema-checks and structurally validates a map file.
func Load(path string, t *tuning.Tuning) (GameMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return GameMap{}, err
	}
	m, err := Parse(raw)
	if err != nil {
		return m, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(t); err != nil {
		return m, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func Write(path string, m GameMap) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}
