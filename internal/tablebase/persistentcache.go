package tablebase

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dgraph-io/badger/v4"
	"github.com/chesswright/mctschess/internal/board"
)

// PersistentCachedProber wraps another prober with an on-disk Badger-backed
// cache, keyed by position hash. Unlike CachedProber's in-memory cache, hits
// here survive process restarts, which matters for the tablebase endgames a
// long-running analysis session probes over and over.
type PersistentCachedProber struct {
	inner Prober
	db    *badger.DB
}

// DefaultCacheDBDir returns the platform-specific directory the persistent
// tablebase cache is stored under.
func DefaultCacheDBDir() (string, error) {
	var baseDir string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		baseDir = filepath.Join(home, "Library", "Application Support")
	case "windows":
		baseDir = os.Getenv("APPDATA")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, "AppData", "Roaming")
		}
	default:
		baseDir = os.Getenv("XDG_DATA_HOME")
		if baseDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			baseDir = filepath.Join(home, ".local", "share")
		}
	}

	dir := filepath.Join(baseDir, "chessplay", "tbcache")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// NewPersistentCachedProber opens (or creates) a Badger database at dir and
// wraps inner with it. A dir of "" uses DefaultCacheDBDir.
func NewPersistentCachedProber(inner Prober, dir string) (*PersistentCachedProber, error) {
	if dir == "" {
		d, err := DefaultCacheDBDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &PersistentCachedProber{inner: inner, db: db}, nil
}

// Close closes the underlying database.
func (p *PersistentCachedProber) Close() error {
	return p.db.Close()
}

func probeKey(hash uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, hash)
	return key
}

func encodeProbeResult(r ProbeResult) []byte {
	buf := make([]byte, 1+8+8)
	if r.Found {
		buf[0] = 1
	}
	buf[1] = byte(r.WDL + 2)
	binary.BigEndian.PutUint64(buf[2:10], uint64(int64(r.DTZ)))
	return buf
}

func decodeProbeResult(buf []byte) ProbeResult {
	if len(buf) < 10 {
		return ProbeResult{}
	}
	return ProbeResult{
		Found: buf[0] == 1,
		WDL:   WDL(int(buf[1]) - 2),
		DTZ:   int(int64(binary.BigEndian.Uint64(buf[2:10]))),
	}
}

// Probe looks up pos.Hash in the on-disk cache before falling through to the
// wrapped prober, persisting whatever it learns.
func (p *PersistentCachedProber) Probe(pos *board.Position) ProbeResult {
	key := probeKey(pos.Hash)

	var cached ProbeResult
	found := false
	_ = p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			cached = decodeProbeResult(val)
			found = true
			return nil
		})
	})
	if found {
		return cached
	}

	result := p.inner.Probe(pos)
	_ = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, encodeProbeResult(result))
	})
	return result
}

// ProbeRoot is not cached, since it depends on the full legal move set, not
// just the position hash.
func (p *PersistentCachedProber) ProbeRoot(pos *board.Position) RootResult {
	return p.inner.ProbeRoot(pos)
}

func (p *PersistentCachedProber) MaxPieces() int {
	return p.inner.MaxPieces()
}

func (p *PersistentCachedProber) Available() bool {
	return p.inner.Available()
}
