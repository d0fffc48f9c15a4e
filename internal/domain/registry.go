package domain

import (
	"sync"

	"github.com/gohugoio/hashstructure"

	m "github.com/greggh/lust-next-sub011/internal/model"
)

// Fingerprint hashes the settings that shape a code map.
func Fingerprint(cfg m.Config) (uint64, error) {
	return hashstructure.Hash(struct {
		Keywords    bool
		TrackBlocks bool
		MaxFileSize int
		Timeout     string
		MaxDepth    int
	}{
		Keywords:    cfg.ControlFlowKeywordsExecutable,
		TrackBlocks: cfg.TrackBlocks,
		MaxFileSize: cfg.MaxFileSize,
		Timeout:     cfg.ParseTimeout,
		MaxDepth:    cfg.MaxDepth,
	}, nil)
}

type registryKey struct {
	path   m.Path
	hash   string
	config uint64
}

// Registry caches code maps by path, content hash and config fingerprint.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	maps   map[registryKey]*m.CodeMap
	hits   int
	misses int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{maps: map[registryKey]*m.CodeMap{}}
}

// Get returns the cached code map for path with the given content hash.
func (r *Registry) Get(path m.Path, hash string, cfg m.Config) (*m.CodeMap, bool) {
	fp, err := Fingerprint(cfg)
	if err != nil {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cm, ok := r.maps[registryKey{path: path, hash: hash, config: fp}]
	if ok {
		r.hits++
	} else {
		r.misses++
	}

	return cm, ok
}

// Put stores cm under its own path and hash.
func (r *Registry) Put(cm *m.CodeMap, cfg m.Config) error {
	fp, err := Fingerprint(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.maps[registryKey{path: cm.Path, hash: cm.Hash, config: fp}] = cm

	return nil
}

// GetOrCreate returns the cached code map or builds and stores a new one.
func (r *Registry) GetOrCreate(path m.Path, source []byte, cfg m.Config, build func() *m.CodeMap) *m.CodeMap {
	hash := ContentHash(source)
	if cm, ok := r.Get(path, hash, cfg); ok {
		return cm
	}

	cm := build()
	_ = r.Put(cm, cfg)

	return cm
}

// Stats reports cache hits and misses.
func (r *Registry) Stats() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.hits, r.misses
}

// Len returns the number of cached code maps.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.maps)
}
