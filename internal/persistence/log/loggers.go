package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/klauspost/compress/zstd"

	"battlecode.ai/internal/protocol"
	"battlecode.ai/internal/sim/geom"
)

// JSONLZstdWriter appends JSON lines to zstd files under baseDir, one file per
// segment. Each reopen starts a new zstd frame; readers decode the frames back
// to back.
type JSONLZstdWriter struct {
	baseDir string
	prefix  string

	mu     sync.Mutex
	curSeg int
	f      *os.File
	enc    *zstd.Encoder
	w      *bufio.Writer
}

func NewJSONLZstdWriter(baseDir, prefix string) *JSONLZstdWriter {
	return &JSONLZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
		curSeg:  -1,
	}
}

func (w *JSONLZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// Write appends v to segment seg. Switching segments closes the previous file.
func (w *JSONLZstdWriter) Write(seg int, v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if seg != w.curSeg || w.w == nil {
		if err := w.rotateLocked(seg); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *JSONLZstdWriter) rotateLocked(seg int) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.baseDir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(w.pathForSegment(seg), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 128*1024)
	w.curSeg = seg
	return nil
}

func (w *JSONLZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

func (w *JSONLZstdWriter) pathForSegment(seg int) string {
	return filepath.Join(w.baseDir, fmt.Sprintf("%s-%06d.jsonl.zst", w.prefix, seg))
}

// TurnEntry records one completed turn: what the player sent, what the world
// answered and the digest after the turn ended.
type TurnEntry struct {
	MatchID string                  `json:"match_id"`
	Round   int                     `json:"round"`
	Player  geom.Player             `json:"player"`
	Actions []protocol.Action       `json:"actions"`
	Results []protocol.ActionResult `json:"results"`
	Digest  string                  `json:"digest"`
}

// SegmentRounds is how many rounds share one turn log file.
const SegmentRounds = 100

// TurnLogger writes one JSONL entry per turn (compressed).
type TurnLogger struct{ w *JSONLZstdWriter }

func NewTurnLogger(matchDir string) *TurnLogger {
	return &TurnLogger{w: NewJSONLZstdWriter(filepath.Join(matchDir, "turns"), "turns")}
}

func (l *TurnLogger) WriteTurn(e TurnEntry) error { return l.w.Write(e.Round/SegmentRounds, e) }
func (l *TurnLogger) Close() error                { return l.w.Close() }

// ReadTurns decodes every turn log segment under matchDir in order.
func ReadTurns(matchDir string) ([]TurnEntry, error) {
	paths, err := filepath.Glob(filepath.Join(matchDir, "turns", "turns-*.jsonl.zst"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	var out []TurnEntry
	for _, p := range paths {
		entries, err := readTurnFile(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, entries...)
	}
	return out, nil
}

func readTurnFile(path string) ([]TurnEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []TurnEntry
	jd := json.NewDecoder(bufio.NewReaderSize(dec, 128*1024))
	for {
		var e TurnEntry
		if err := jd.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, e)
	}
}
