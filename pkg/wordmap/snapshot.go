package wordmap

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordswap/pkg/model"
	"github.com/bastiangx/wordswap/pkg/table"
	"github.com/bastiangx/wordswap/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotVersion is the current snapshot body version.
const SnapshotVersion = 1

// A snapshot file is a little-endian int32 entry count followed by a msgpack
// encoded snapshot. Rationals are stored as "num/den" strings.
type snapshot struct {
	Version       int              `msgpack:"v"`
	MaxWordLength int              `msgpack:"max,omitempty"`
	Counts        []uint64         `msgpack:"counts"`
	Symbols       []snapshotSymbol `msgpack:"symbols"`
	Entries       []snapshotEntry  `msgpack:"entries"`
}

type snapshotSymbol struct {
	Byte uint8  `msgpack:"b"`
	Low  string `msgpack:"lo"`
	High string `msgpack:"hi"`
}

type snapshotEntry struct {
	Word   string `msgpack:"w"`
	Output string `msgpack:"o"`
	Index  int    `msgpack:"i"`
	Low    string `msgpack:"lo"`
	High   string `msgpack:"hi"`
}

// WriteTo writes the map as a snapshot.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	counts := m.model.Counts()
	snap := snapshot{
		Version:       SnapshotVersion,
		MaxWordLength: m.config.MaxWordLength,
		Counts:        counts[:],
	}
	for c := 0; c < model.AlphabetSize; c++ {
		iv, ok := m.model.Range(byte(c))
		if !ok {
			continue
		}
		snap.Symbols = append(snap.Symbols, snapshotSymbol{
			Byte: uint8(c),
			Low:  iv.Low().RatString(),
			High: iv.High().RatString(),
		})
	}
	for _, e := range m.table.Entries() {
		snap.Entries = append(snap.Entries, snapshotEntry{
			Word:   e.Word,
			Output: e.Output,
			Index:  e.Index,
			Low:    e.Interval.Low().RatString(),
			High:   e.Interval.High().RatString(),
		})
	}

	body, err := msgpack.Marshal(&snap)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(snap.Entries)))
	n, err := w.Write(header[:])
	if err != nil {
		return int64(n), fmt.Errorf("failed to write snapshot header: %w", err)
	}
	nb, err := w.Write(body)
	total := int64(n + nb)
	if err != nil {
		return total, fmt.Errorf("failed to write snapshot body: %w", err)
	}
	return total, nil
}

// Load reads a snapshot written by WriteTo. Options override the settings
// stored in the snapshot.
func Load(r io.Reader, opts ...Option) (*Map, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("negative entry count %d: %w", count, ErrCorruptSnapshot)
	}

	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w: %w", err, ErrCorruptSnapshot)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d: %w", snap.Version, ErrCorruptSnapshot)
	}
	if int(count) != len(snap.Entries) {
		return nil, fmt.Errorf("header says %d entries, body has %d: %w", count, len(snap.Entries), ErrCorruptSnapshot)
	}

	cfg := Config{MaxWordLength: snap.MaxWordLength}
	for _, opt := range opts {
		opt(&cfg)
	}

	m, err := restoreModel(snap)
	if err != nil {
		return nil, err
	}
	t, index, err := restoreTable(snap, m)
	if err != nil {
		return nil, err
	}

	log.Debugf("Loaded word map snapshot: %d words, %d symbols", t.Len(), m.Unique())
	return &Map{config: cfg, model: m, table: t, index: index}, nil
}

func restoreModel(snap snapshot) (*model.Model, error) {
	if len(snap.Counts) != model.AlphabetSize {
		return nil, fmt.Errorf("%d symbol counts, want %d: %w", len(snap.Counts), model.AlphabetSize, ErrCorruptSnapshot)
	}
	var counts, want [model.AlphabetSize]uint64
	copy(counts[:], snap.Counts)
	for _, se := range snap.Entries {
		for i := 0; i < len(se.Word); i++ {
			want[se.Word[i]]++
		}
		want[model.Terminator]++
	}
	for c := range counts {
		if counts[c] != want[c] {
			return nil, fmt.Errorf("symbol 0x%02x count %d, entries give %d: %w", c, counts[c], want[c], ErrCorruptSnapshot)
		}
	}

	m, err := model.FromCounts(counts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", err, ErrCorruptSnapshot)
	}

	if len(snap.Symbols) != m.Unique() {
		return nil, fmt.Errorf("%d stored symbols, counts give %d: %w", len(snap.Symbols), m.Unique(), ErrCorruptSnapshot)
	}
	for _, s := range snap.Symbols {
		stored, err := parseInterval(s.Low, s.High)
		if err != nil {
			return nil, fmt.Errorf("symbol 0x%02x: %v: %w", s.Byte, err, ErrCorruptSnapshot)
		}
		iv, ok := m.Range(s.Byte)
		if !ok || !iv.Equal(stored) {
			return nil, fmt.Errorf("symbol 0x%02x interval %s does not match counts: %w", s.Byte, stored, ErrCorruptSnapshot)
		}
	}
	return m, nil
}

func restoreTable(snap snapshot, m *model.Model) (*table.Table, *vocab.Index, error) {
	index := vocab.NewIndex()
	entries := make([]table.Entry, 0, len(snap.Entries))
	seen := make([]bool, len(snap.Entries))
	for _, se := range snap.Entries {
		stored, err := parseInterval(se.Low, se.High)
		if err != nil {
			return nil, nil, fmt.Errorf("entry %q: %v: %w", se.Word, err, ErrCorruptSnapshot)
		}
		iv, err := m.Encode(se.Word)
		if err != nil {
			return nil, nil, fmt.Errorf("entry %q: %w: %w", se.Word, err, ErrCorruptSnapshot)
		}
		if !iv.Equal(stored) {
			return nil, nil, fmt.Errorf("entry %q interval %s does not match model: %w", se.Word, stored, ErrCorruptSnapshot)
		}
		if se.Index < 0 || se.Index >= len(snap.Entries) {
			return nil, nil, fmt.Errorf("entry %q index %d out of range: %w", se.Word, se.Index, ErrCorruptSnapshot)
		}
		if seen[se.Index] {
			return nil, nil, fmt.Errorf("entry %q reuses index %d: %w", se.Word, se.Index, ErrCorruptSnapshot)
		}
		seen[se.Index] = true
		if _, ok := index.Insert(se.Word, se.Index); !ok {
			return nil, nil, fmt.Errorf("duplicate entry %q: %w", se.Word, ErrCorruptSnapshot)
		}
		entries = append(entries, table.Entry{
			Word:     se.Word,
			Output:   se.Output,
			Index:    se.Index,
			Interval: iv,
		})
	}
	for _, e := range entries {
		if !index.Has(e.Output) {
			return nil, nil, fmt.Errorf("entry %q output %q is not a vocabulary word: %w", e.Word, e.Output, ErrCorruptSnapshot)
		}
	}

	t, err := table.FromEntries(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", err, ErrCorruptSnapshot)
	}
	return t, index, nil
}

func parseInterval(low, high string) (model.Interval, error) {
	lo, ok := new(big.Rat).SetString(low)
	if !ok {
		return model.Interval{}, fmt.Errorf("bad rational %q", low)
	}
	hi, ok := new(big.Rat).SetString(high)
	if !ok {
		return model.Interval{}, fmt.Errorf("bad rational %q", high)
	}
	return model.NewInterval(lo, hi)
}

// SaveFile writes the snapshot to path, replacing any existing file only once
// the new one is complete.
func (m *Map) SaveFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create snapshot file in %s: %w", dir, err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	if _, err := m.WriteTo(buf); err != nil {
		tmp.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	log.Debugf("Saved word map snapshot to %s", path)
	return nil
}

// LoadFile reads a snapshot from path.
func LoadFile(path string, opts ...Option) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	m, err := Load(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return m, nil
}
