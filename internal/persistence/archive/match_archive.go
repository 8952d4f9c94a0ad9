package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"battlecode.ai/internal/persistence/snapshot"
)

// MatchArchiveMeta is written next to the archived final snapshot of a match.
type MatchArchiveMeta struct {
	MatchID   string `json:"match_id"`
	EndRound  int    `json:"end_round"`
	Seed      uint64 `json:"seed"`
	Winner    string `json:"winner,omitempty"`
	Reason    string `json:"reason"`
	Digest    string `json:"digest"`
	Snapshot  string `json:"snapshot"`
	CreatedAt string `json:"created_at"`
}

// ArchiveFinalSnapshot copies the last snapshot of a finished match into
// `matchDir/archive/` and writes meta.json beside it. It returns the archived path.
func ArchiveFinalSnapshot(matchDir, snapshotPath string, snap snapshot.GameV1, winner, reason, digest string) (string, error) {
	if snapshotPath == "" {
		return "", fmt.Errorf("archive: empty snapshot path")
	}
	archiveDir := filepath.Join(matchDir, "archive")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", err
	}

	meta := MatchArchiveMeta{
		MatchID:   snap.Header.MatchID,
		EndRound:  snap.Round,
		Seed:      snap.Seed,
		Winner:    winner,
		Reason:    reason,
		Digest:    digest,
		Snapshot:  filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644); err != nil {
		return "", err
	}
	return dst, nil
}

// ReadMeta loads `matchDir/archive/meta.json`.
func ReadMeta(matchDir string) (MatchArchiveMeta, error) {
	var meta MatchArchiveMeta
	b, err := os.ReadFile(filepath.Join(matchDir, "archive", "meta.json"))
	if err != nil {
		return meta, err
	}
	err = json.Unmarshal(b, &meta)
	return meta, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
