package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rno-g/rnobuild/mod/module"
)

// Install directory layout:
//
//	installDir/
//	  <escaped>/                      # package-level dir (cacheDir)
//	    .cache.json                   # build cache: maps "version-matrix" → buildEntry
//	  <escaped>@<version>-<matrix>/   # install prefix, matrix in DirName form
//	    include/
//	    lib/
//	    ...
const cacheFile = ".cache.json"

// buildEntry contains metadata about a single successful build.
type buildEntry struct {
	Prefix    string            `json:"prefix"`
	Commit    string            `json:"commit,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	BuildTime time.Time         `json:"build_time"`
}

// buildCache maps "version-matrix" keys to their build entries.
type buildCache struct {
	Cache map[string]*buildEntry `json:"cache"`
}

func cacheKey(version, matrix string) string {
	return version + "-" + matrix
}

func (c *buildCache) get(version, matrix string) (*buildEntry, bool) {
	entry, ok := c.Cache[cacheKey(version, matrix)]
	return entry, ok
}

func (c *buildCache) set(version, matrix string, entry *buildEntry) {
	if c.Cache == nil {
		c.Cache = make(map[string]*buildEntry)
	}
	c.Cache[cacheKey(version, matrix)] = entry
}

// cacheDir returns the package-level directory for cache storage.
func (b *Builder) cacheDir(name string) (string, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.layout.InstallDir(), escaped), nil
}

// installDir returns the default install prefix: installDir/<escaped>@<version>-<matrix>.
func (b *Builder) installDir(name, version, matrix string) (string, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(b.layout.InstallDir(), fmt.Sprintf("%s@%s-%s", escaped, version, matrix)), nil
}

// loadCache reads the cache file of a package. A missing file is an empty
// cache.
func (b *Builder) loadCache(name string) (*buildCache, error) {
	dir, err := b.cacheDir(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, cacheFile))
	if os.IsNotExist(err) {
		return &buildCache{}, nil
	}
	if err != nil {
		return nil, err
	}
	var cache buildCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(dir, cacheFile), err)
	}
	return &cache, nil
}

// saveCache writes the cache file of a package.
func (b *Builder) saveCache(name string, cache *buildCache) error {
	dir, err := b.cacheDir(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, cacheFile), data, 0o644)
}
