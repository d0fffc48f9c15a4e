package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// ErrIncompatibleWire is returned for coverage files written with another
// major wire version.
var ErrIncompatibleWire = errors.New("incompatible wire version")

// ErrInvalidWorker is returned for worker ids that cannot name a file.
var ErrInvalidWorker = errors.New("invalid worker id")

const (
	wireFilePrefix = "coverage-"
	wireFileExt    = ".json"
	lockFileName   = ".lustcov.lock"
)

// CoverageStore persists and retrieves serialized coverage.
type CoverageStore interface {
	// Save writes wc into dir as coverage-<worker>.json, assigning a worker
	// id when wc has none.
	Save(dir m.Path, wc m.WireCoverage) (m.Path, error)
	// Write stores wc at path.
	Write(path m.Path, wc m.WireCoverage) error
	Load(path m.Path) (m.WireCoverage, error)
	// LoadAll reads every worker file in dir, sorted by worker id.
	LoadAll(dir m.Path) ([]m.WireCoverage, error)
}

// LocalCoverageStore keeps one JSON file per worker on the local disk.
// Writes are atomic and serialized by a lock file in the target directory.
type LocalCoverageStore struct {
	maxReaders int
}

// NewLocalCoverageStore constructs a store that loads at most maxReaders
// files at once; non-positive means one per file.
func NewLocalCoverageStore(maxReaders int) *LocalCoverageStore {
	return &LocalCoverageStore{maxReaders: maxReaders}
}

// NewWorkerID returns a fresh worker identifier.
func NewWorkerID() string {
	return uuid.NewString()
}

// CheckWorkerID rejects ids that would place a worker file outside its
// directory.
func CheckWorkerID(id string) error {
	if id == "" || strings.ContainsAny(id, "/\\\x00") || strings.Contains(id, "..") {
		return fmt.Errorf("%w %q", ErrInvalidWorker, id)
	}

	return nil
}

// WireFileName returns the file name used for worker.
func WireFileName(worker string) string {
	return wireFilePrefix + worker + wireFileExt
}

// Save writes wc into dir.
func (s *LocalCoverageStore) Save(dir m.Path, wc m.WireCoverage) (m.Path, error) {
	if wc.Worker == "" {
		wc.Worker = NewWorkerID()
	}

	if err := CheckWorkerID(wc.Worker); err != nil {
		return "", err
	}

	path := m.Path(filepath.Join(string(dir), WireFileName(wc.Worker)))

	return path, s.Write(path, wc)
}

// Write stores wc at path through a temp file and rename.
func (s *LocalCoverageStore) Write(path m.Path, wc m.WireCoverage) error {
	if wc.Version == "" {
		wc.Version = m.WireVersion
	}

	if wc.Files == nil {
		wc.Files = map[string]m.WireFile{}
	}

	dir := filepath.Dir(string(path))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", dir, err)
	}

	defer func() { _ = lock.Unlock() }()

	data, err := json.MarshalIndent(wc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".coverage-*.tmp")
	if err != nil {
		return err
	}

	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), string(path))
}

// Load reads one coverage file and checks its version.
func (s *LocalCoverageStore) Load(path m.Path) (m.WireCoverage, error) {
	var wc m.WireCoverage

	data, err := os.ReadFile(string(path))
	if err != nil {
		return wc, err
	}

	if err := json.Unmarshal(data, &wc); err != nil {
		return wc, fmt.Errorf("decode %s: %w", path, err)
	}

	if err := CheckWireVersion(wc.Version); err != nil {
		return wc, fmt.Errorf("%s: %w", path, err)
	}

	if wc.Files == nil {
		wc.Files = map[string]m.WireFile{}
	}

	return wc, nil
}

// CheckWireVersion accepts versions sharing the major of m.WireVersion.
func CheckWireVersion(version string) error {
	want := semver.MustParse(m.WireVersion)

	got, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("version %q: %w", version, ErrIncompatibleWire)
	}

	if got.Major != want.Major {
		return fmt.Errorf("version %s, want %d.x: %w", got, want.Major, ErrIncompatibleWire)
	}

	return nil
}

// LoadAll reads the worker files of dir concurrently.
func (s *LocalCoverageStore) LoadAll(dir m.Path) ([]m.WireCoverage, error) {
	paths, err := filepath.Glob(filepath.Join(string(dir), wireFilePrefix+"*"+wireFileExt))
	if err != nil {
		return nil, err
	}

	if len(paths) == 0 {
		return []m.WireCoverage{}, nil
	}

	lock := flock.New(filepath.Join(string(dir), lockFileName))
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}

	defer func() { _ = lock.Unlock() }()

	readers := s.maxReaders
	if readers <= 0 {
		readers = len(paths)
	}

	p := pool.NewWithResults[m.WireCoverage]().WithErrors().WithMaxGoroutines(readers)

	for _, path := range paths {
		p.Go(func() (m.WireCoverage, error) {
			return s.Load(m.Path(path))
		})
	}

	out, err := p.Wait()
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Worker < out[j].Worker })

	return out, nil
}
