package dictionary

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/wordmap"
	"github.com/charmbracelet/log"
)

// Options locate the source and snapshot files of a Runtime.
type Options struct {
	WordsPath       string
	PermutationPath string
	SnapshotPath    string // empty disables snapshots
	MaxWordLength   int
	Seed            uint64 // used when the permutation file is missing
}

// Source tells where the current map came from.
type Source string

const (
	SourceSnapshot Source = "snapshot"
	SourceBuild    Source = "build"
)

// RuntimeInfo describes the map currently served.
type RuntimeInfo struct {
	Generation  uint64
	Source      Source
	LoadedAt    time.Time
	Words       int
	Permutation PermutationReport
}

// Runtime owns the current word map and swaps it on reload. Readers take the
// map with Current and keep using it even if a reload replaces it.
type Runtime struct {
	opts   Options
	logger *log.Logger

	// reloadMu serialises rebuilds, which may write the permutation and
	// snapshot files.
	reloadMu sync.Mutex

	mu         sync.RWMutex
	current    *wordmap.Map
	generation uint64
	source     Source
	loadedAt   time.Time
	report     PermutationReport
}

// NewRuntime creates a runtime. Nothing is loaded until Load is called.
func NewRuntime(opts Options) *Runtime {
	return &Runtime{
		opts:   opts,
		logger: logger.New("dict"),
	}
}

// Load serves the snapshot when it is valid and not older than the sources,
// otherwise builds from the sources and rewrites the snapshot.
func (rt *Runtime) Load() error {
	if rt.snapshotFresh() {
		m, err := rt.loadSnapshot()
		if err == nil {
			_, perm := m.Permutation()
			report, _ := CheckPermutation(perm, len(perm))
			rt.swap(m, SourceSnapshot, report)
			return nil
		}
		rt.logger.Warnf("Ignoring snapshot %s: %v", rt.opts.SnapshotPath, err)
	}
	return rt.Reload()
}

func (rt *Runtime) loadSnapshot() (*wordmap.Map, error) {
	if err := rt.checkSource(rt.opts.SnapshotPath, FormatSnapshot); err != nil {
		return nil, err
	}
	return wordmap.LoadFile(rt.opts.SnapshotPath, rt.mapOptions()...)
}

// Reload rebuilds from the word list and permutation. On failure the current
// map stays in place. Concurrent calls run one at a time.
func (rt *Runtime) Reload() error {
	rt.reloadMu.Lock()
	defer rt.reloadMu.Unlock()

	if err := rt.checkSource(rt.opts.WordsPath, FormatWords); err != nil {
		return err
	}
	words, err := LoadWords(rt.opts.WordsPath)
	if err != nil {
		return err
	}
	perm, err := rt.permutation(len(words))
	if err != nil {
		return err
	}

	report, err := CheckPermutation(perm, len(words))
	if err != nil {
		return fmt.Errorf("%s: %w", rt.opts.PermutationPath, err)
	}
	if !report.Bijective {
		rt.logger.Warnf("Permutation %s is not a bijection: %s", rt.opts.PermutationPath, report)
	}

	start := time.Now()
	m, err := wordmap.Build(words, perm, rt.mapOptions()...)
	if err != nil {
		return fmt.Errorf("failed to build word map from %s: %w", rt.opts.WordsPath, err)
	}
	rt.logger.Debugf("Built %d entries in %v", m.Len(), time.Since(start))

	if rt.opts.SnapshotPath != "" {
		if err := m.SaveFile(rt.opts.SnapshotPath); err != nil {
			rt.logger.Warnf("Failed to save snapshot: %v", err)
		}
	}

	rt.swap(m, SourceBuild, report)
	return nil
}

// permutation loads the permutation file, generating and saving one when it
// does not exist yet.
func (rt *Runtime) permutation(n int) ([]int, error) {
	err := rt.checkSource(rt.opts.PermutationPath, FormatPermutation)
	if err == nil {
		return LoadPermutation(rt.opts.PermutationPath)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	rt.logger.Infof("No permutation at %s, generating one (seed %d)", rt.opts.PermutationPath, rt.opts.Seed)
	perm = Shuffle(n, rt.opts.Seed)
	if err := SavePermutation(rt.opts.PermutationPath, perm); err != nil {
		rt.logger.Warnf("Failed to save generated permutation: %v", err)
	}
	return perm, nil
}

// checkSource validates a file before it is parsed. An unexpected extension is
// only noted.
func (rt *Runtime) checkSource(path string, format FileFormat) error {
	if err := ValidateFileFormat(path, format); err != nil {
		return err
	}
	if !MatchesExtension(path, format) {
		info, _ := GetFormatInfo(format)
		rt.logger.Debugf("%s does not use a %s extension %v", path, info.Description, info.Extensions)
	}
	return nil
}

func (rt *Runtime) snapshotFresh() bool {
	if rt.opts.SnapshotPath == "" {
		return false
	}
	return utils.IsNewer(rt.opts.SnapshotPath, rt.opts.WordsPath, rt.opts.PermutationPath)
}

func (rt *Runtime) mapOptions() []wordmap.Option {
	return []wordmap.Option{wordmap.WithMaxWordLength(rt.opts.MaxWordLength)}
}

func (rt *Runtime) swap(m *wordmap.Map, source Source, report PermutationReport) {
	rt.mu.Lock()
	rt.current = m
	rt.generation++
	rt.source = source
	rt.loadedAt = time.Now()
	rt.report = report
	gen := rt.generation
	rt.mu.Unlock()

	rt.logger.Infof("Serving %s words from %s (generation %d)", utils.FormatWithCommas(m.Len()), source, gen)
}

// Current returns the map being served, nil before the first Load.
func (rt *Runtime) Current() *wordmap.Map {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.current
}

// Generation increases every time the map is replaced.
func (rt *Runtime) Generation() uint64 {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.generation
}

// Info describes the current map.
func (rt *Runtime) Info() RuntimeInfo {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	info := RuntimeInfo{
		Generation:  rt.generation,
		Source:      rt.source,
		LoadedAt:    rt.loadedAt,
		Permutation: rt.report,
	}
	if rt.current != nil {
		info.Words = rt.current.Len()
	}
	return info
}

// Sources returns the files a rebuild reads.
func (rt *Runtime) Sources() []string {
	return []string{rt.opts.WordsPath, rt.opts.PermutationPath}
}
