package driver

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/vmihailenco/msgpack/v5"

	"hscript/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит отрендеренный вывод по ключу (путь корня + опции + vars).
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached render.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Root     string
	VarsHash Digest

	// Root and every included file with the content hash seen at render time.
	Deps      []string
	DepHashes []Digest

	Includes []string
	Output   []byte
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Для удобства читаемости/очистки: подкаталог "renders".
	return filepath.Join(c.dir, "renders", hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(payload)
	if err != nil {
		return err
	}
	// Атомарная замена
	return atomic.WriteFile(p, bytes.NewReader(data))
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// renderKey identifies a render of absPath under opts.
func renderKey(absPath string, opts Options) Digest {
	parts := []string{
		"render",
		absPath,
		opts.Indent,
		strconv.Itoa(opts.MaxDepth),
		strconv.Itoa(opts.MaxIncludeDepth),
		strconv.FormatBool(opts.NFC),
		strings.Join(opts.registry().Names(), ","),
	}
	parts = append(parts, opts.IncludeDirs...)
	return combineDigest(stringDigest(parts...), varsDigest(opts.Vars))
}

// payloadFresh перечитывает зависимости и сравнивает хэши содержимого.
func payloadFresh(p *DiskPayload, nfc bool) bool {
	if len(p.Deps) == 0 || len(p.Deps) != len(p.DepHashes) {
		return false
	}
	fs := source.NewFileSet()
	fs.SetNormalizeNFC(nfc)
	for i, dep := range p.Deps {
		id, err := fs.Load(dep)
		if err != nil {
			return false
		}
		if Digest(fs.Get(id).Hash) != p.DepHashes[i] {
			return false
		}
	}
	return true
}
