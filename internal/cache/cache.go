// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cache remembers which files are already formatted so unchanged
// files can be skipped on the next run. Entries are persisted with msgpack.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/petar-djukic/docformatter/internal/fileutil"
	"github.com/petar-djukic/docformatter/pkg/types"
)

// schemaVersion is bumped when the payload layout changes.
const schemaVersion uint16 = 1

// FileName is the name of the cache file inside the cache directory.
const FileName = "cache.msgpack"

// Entry describes a file as it was when it was last found formatted.
type Entry struct {
	Size      int64  `msgpack:"size"`
	ModTime   int64  `msgpack:"mtime"` // Unix nanoseconds
	ConfigKey string `msgpack:"key"`
}

type payload struct {
	Schema  uint16           `msgpack:"schema"`
	Entries map[string]Entry `msgpack:"entries"`
}

// Cache maps absolute file paths to entries. A nil *Cache is valid and
// never reports a hit. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	dirty   bool
}

// DefaultPath returns $XDG_CACHE_HOME/docformatter/cache.msgpack, falling
// back to ~/.cache when XDG_CACHE_HOME is unset.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "docformatter", FileName), nil
}

// Open loads the cache stored at path. A missing, unreadable or outdated
// cache file yields an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Entry)}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil || p.Schema != schemaVersion {
		return c, nil
	}
	if p.Entries != nil {
		c.entries = p.Entries
	}
	return c, nil
}

// Key fingerprints a format configuration. Entries recorded under another
// key are stale.
func Key(cfg types.FormatConfig) string {
	data, err := msgpack.Marshal(cfg)
	if err != nil {
		data = []byte(fmt.Sprintf("%+v", cfg))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether path was recorded as formatted with the same key
// and has not changed since.
func (c *Cache) Fresh(path string, info fs.FileInfo, key string) bool {
	if c == nil || info == nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[abs]
	return ok && e == entryFor(info, key)
}

// Record marks path as formatted under key.
func (c *Cache) Record(path string, info fs.FileInfo, key string) {
	if c == nil || info == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[abs] = entryFor(info, key)
	c.dirty = true
}

// Forget drops the entry for path.
func (c *Cache) Forget(path string) {
	if c == nil {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[abs]; ok {
		delete(c.entries, abs)
		c.dirty = true
	}
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Save writes the cache back to disk if it changed. The file is replaced
// atomically.
func (c *Cache) Save() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	data, err := msgpack.Marshal(payload{Schema: schemaVersion, Entries: c.entries})
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	if err := fileutil.WriteAtomic(c.path, data, 0o644); err != nil {
		return fmt.Errorf("saving cache: %w", err)
	}
	c.dirty = false
	return nil
}

func entryFor(info fs.FileInfo, key string) Entry {
	return Entry{Size: info.Size(), ModTime: info.ModTime().UnixNano(), ConfigKey: key}
}
