package persist

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/neontwilight/sim/internal/gamemap"
	"golang.org/x/crypto/blake2b"
)

// SnapshotVersion is bumped whenever the gob body changes shape.
const SnapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

// Header is written as a JSON line ahead of the gob body so tools can read
// a save's metadata without decoding the map.
type Header struct {
	Version int    `json:"version"`
	Seed    int64  `json:"seed"`
	Turn    int64  `json:"turn"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Digest  string `json:"digest"`
}

// Snapshot is the saved state of one map: terrain, occupancy and what the
// player has seen.
type Snapshot struct {
	Header   Header
	Tiles    []uint8
	Blocked  []bool
	Revealed []bool
}

// FromMap captures m at the given seed and turn.
func FromMap(m *gamemap.Map, seed, turn int64) Snapshot {
	s := Snapshot{
		Header: Header{
			Version: SnapshotVersion,
			Seed:    seed,
			Turn:    turn,
			Width:   m.Width,
			Height:  m.Height,
			Digest:  Digest(m),
		},
		Tiles:    make([]uint8, m.Len()),
		Blocked:  append([]bool(nil), m.BlockedTiles()...),
		Revealed: append([]bool(nil), m.RevealedTiles()...),
	}
	for i, t := range m.Tiles {
		s.Tiles[i] = uint8(t)
	}
	return s
}

// Restore rebuilds the map. It fails when the arrays do not match the
// recorded size.
func (s Snapshot) Restore() (*gamemap.Map, error) {
	n := s.Header.Width * s.Header.Height
	if n <= 0 || len(s.Tiles) != n || len(s.Blocked) != n || len(s.Revealed) != n {
		return nil, fmt.Errorf("snapshot %dx%d: tile arrays have %d/%d/%d entries",
			s.Header.Width, s.Header.Height, len(s.Tiles), len(s.Blocked), len(s.Revealed))
	}
	tiles := make([]gamemap.Terrain, n)
	for i, t := range s.Tiles {
		tiles[i] = gamemap.Terrain(t)
	}
	return gamemap.Restore(s.Header.Width, s.Header.Height, tiles, s.Blocked, s.Revealed), nil
}

// Digest is the hex BLAKE2b-256 of the map's size, terrain, occupancy and
// revealed tiles. Equal maps have equal digests.
func Digest(m *gamemap.Map) string {
	h, _ := blake2b.New256(nil)
	var dims [8]byte
	binary.LittleEndian.PutUint32(dims[0:], uint32(m.Width))
	binary.LittleEndian.PutUint32(dims[4:], uint32(m.Height))
	h.Write(dims[:])
	buf := make([]byte, m.Len())
	for i, t := range m.Tiles {
		buf[i] = byte(t)
	}
	h.Write(buf)
	writeBits(h, m.BlockedTiles())
	writeBits(h, m.RevealedTiles())
	return hex.EncodeToString(h.Sum(nil))
}

func writeBits(w io.Writer, bits []bool) {
	packed := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			packed[i/8] |= 1 << (i % 8)
		}
	}
	w.Write(packed)
}

// Encode writes the header line and the gob body through a zstd stream.
// level uses the zstd scale (1 fastest .. 22 smallest).
func Encode(w io.Writer, s Snapshot, level int) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	bw := bufio.NewWriter(enc)

	hb, err := json.Marshal(s.Header)
	if err != nil {
		enc.Close()
		return fmt.Errorf("encode header: %w", err)
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&s); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader) (Snapshot, error) {
	var s Snapshot
	dec, err := zstd.NewReader(r)
	if err != nil {
		return s, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return s, fmt.Errorf("read header: %w", err)
	}
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return s, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != SnapshotVersion {
		return s, fmt.Errorf("%w: %d", ErrSnapshotVersion, h.Version)
	}
	if err := gob.NewDecoder(br).Decode(&s); err != nil {
		return s, fmt.Errorf("gob decode: %w", err)
	}
	return s, nil
}

// EncodeBytes is Encode into a fresh buffer.
func EncodeBytes(s Snapshot, level int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s, level); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the snapshot to path, creating parent directories.
func WriteFile(path string, s Snapshot, level int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	if err := Encode(f, s, level); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads a snapshot written by WriteFile.
func ReadFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, path)
		}
		return Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
