package snapshot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"battlecode.ai/internal/sim/gamemap"
	"battlecode.ai/internal/sim/geom"
	"battlecode.ai/internal/sim/unit"
	"battlecode.ai/internal/sim/weather"
	"battlecode.ai/internal/sim/world/logic/ids"
	"battlecode.ai/internal/sim/world/logic/research"
)

const Version = 1

type Header struct {
	Version int         `json:"version"`
	MatchID string      `json:"match_id,omitempty"`
	Round   int         `json:"round"`
	Player  geom.Player `json:"player"`
}

// GameV1 is the logical state of a world, authoritative or filtered. Every slice
// is sorted so equal worlds export equal values.
type GameV1 struct {
	Header Header `json:"header"`

	Seed     uint64      `json:"seed"`
	Round    int         `json:"round"`
	Player   geom.Player `json:"player"`
	Filtered bool        `json:"filtered"`

	// Visible is only set for filtered worlds.
	Visible []geom.MapLocation `json:"visible,omitempty"`

	Units    []unit.Unit `json:"units"`
	Infos    []unit.Info `json:"infos,omitempty"`
	Landings []LandingV1 `json:"landings"`

	Weather weather.WeatherPattern `json:"weather"`
	Planets []PlanetV1             `json:"planets"`
	Teams   []TeamV1               `json:"teams"`
}

type LandingV1 struct {
	Round       int              `json:"round"`
	Rocket      geom.UnitID      `json:"rocket"`
	Destination geom.MapLocation `json:"destination"`
}

type PlanetV1 struct {
	Map       gamemap.PlanetMap `json:"map"`
	Karbonite [][]int           `json:"karbonite"`
}

type TeamV1 struct {
	Team      geom.Team     `json:"team"`
	IDs       ids.Generator `json:"ids"`
	Research  research.Info `json:"research"`
	Karbonite int           `json:"karbonite"`
	Arrays    []TeamArrayV1 `json:"arrays"`
}

type TeamArrayV1 struct {
	Planet  geom.Planet    `json:"planet"`
	History []ArrayEntryV1 `json:"history"`
}

type ArrayEntryV1 struct {
	Round  int   `json:"round"`
	Values []int `json:"values"`
}

// WriteSnapshot stores snap as zstd(header JSON line + JSON body).
func WriteSnapshot(path string, snap GameV1) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := json.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return enc.Close()
}

func ReadSnapshot(path string) (GameV1, error) {
	var snap GameV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The header line is duplicated inside the body.
	if _, err := br.ReadBytes('\n'); err != nil {
		return snap, fmt.Errorf("header: %w", err)
	}
	if err := json.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	if snap.Header.Version != Version {
		return snap, fmt.Errorf("snapshot version %d unsupported", snap.Header.Version)
	}
	return snap, nil
}

// ReadHeader returns only the header line, without decoding the body.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()
	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, err
	}
	err = json.Unmarshal(line, &h)
	return h, err
}
