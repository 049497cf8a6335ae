package core

import (
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ShaderComponentID is a small, stable integer standing in for a
// specialization-argument type name (spec §4.6). Interning type names
// into integers keeps specialization keys cheap to compare and hash,
// following the same index-for-identity idiom as core/id.go's ID[T].
type ShaderComponentID uint32

// componentTable interns specialization-argument type names into
// ShaderComponentIDs. Unlike IdentityManager, entries are never released:
// the set of distinct type names a program can specialize to is small and
// fixed for the program's lifetime.
type componentTable struct {
	mu      sync.Mutex
	byName  map[string]ShaderComponentID
	byID    []string
}

func newComponentTable() *componentTable {
	return &componentTable{byName: make(map[string]ShaderComponentID)}
}

// intern returns name's ShaderComponentID, assigning a fresh one on first
// sight.
func (t *componentTable) intern(name string) ShaderComponentID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := ShaderComponentID(len(t.byID))
	t.byID = append(t.byID, name)
	t.byName[name] = id
	return id
}

// name returns the type name a ShaderComponentID was interned from.
func (t *componentTable) name(id ShaderComponentID) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.byID) {
		return ""
	}
	return t.byID[id]
}

// specializationKey is a pipeline's specialization arguments reduced to a
// comparable value, suitable as a map key.
type specializationKey string

// makeSpecializationKey interns every argument's type name and joins the
// resulting IDs into one comparable key. Two argument lists that intern to
// the same IDs in the same order produce the same key, regardless of
// whether the underlying ShaderObject instances differ (spec §8 property
// 6: CollectSpecializationArgs is a pure function of node shape).
func (t *componentTable) makeSpecializationKey(args []SpecializationArg) specializationKey {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		id := t.intern(arg.TypeName)
		b.WriteString(strconv.FormatUint(uint64(id), 36))
	}
	return specializationKey(b.String())
}

// PersistentCache is the external collaborator a ShaderCache may consult
// before recompiling a specialization and write through to after compiling
// one (spec §6 "persistent shader cache"). Implementations typically wrap
// an on-disk or networked blob store; tests use the in-memory
// MemoryPersistentCache below.
type PersistentCache interface {
	// QueryCache returns the cached blob for key, or ok == false if absent.
	QueryCache(key string) (data []byte, ok bool)
	// WriteCache stores data under key, overwriting any previous entry.
	WriteCache(key string, data []byte)
}

// MemoryPersistentCache is a map-backed PersistentCache, used by tests.
// A device has no persistent cache unless one is installed with
// Device.SetPersistentCache.
type MemoryPersistentCache struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryPersistentCache creates an empty in-memory persistent cache.
func NewMemoryPersistentCache() *MemoryPersistentCache {
	return &MemoryPersistentCache{data: make(map[string][]byte)}
}

func (c *MemoryPersistentCache) QueryCache(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.data[key]
	return data, ok
}

func (c *MemoryPersistentCache) WriteCache(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// pipelineCacheKey addresses one concrete (base pipeline, specialization)
// pairing within a ShaderCache.
type pipelineCacheKey struct {
	base string
	spec specializationKey
}

// ConcretePipeline is a specialized pipeline produced by a ShaderCache:
// the HAL-level compiled object plus the arguments it was specialized
// with, for diagnostics and cache inspection.
type ConcretePipeline struct {
	Handle any
	Args   []SpecializationArg
}

// SpecializeFunc compiles a pipeline against args, producing the concrete
// backend pipeline. It is supplied by the caller (Device.GetConcretePipeline
// or resolvePipelines pass it through) since ShaderCache has no HAL
// dependency of its own.
type SpecializeFunc func(args []SpecializationArg) (any, error)

// CacheableHandle is optionally implemented by a value SpecializeFunc
// returns, letting ShaderCache persist it across process runs (spec §4.6
// "writeCache(hash, blob)"). A backend whose compiled pipeline is an
// opaque native handle rather than a serializable blob simply does not
// implement it, and the persistent cache is skipped for that compile.
type CacheableHandle interface {
	CacheBlob() []byte
}

// HandleFromCache reconstructs a compiled handle from a blob previously
// returned by CacheableHandle.CacheBlob, letting a persistent-cache hit
// skip recompilation entirely (spec §4.6 "queryCache(hash) → blob"). It is
// supplied alongside compile by callers whose compiled artifact round-trips
// through bytes (e.g. a DXIL/SPIR-V blob); callers that only have an
// in-process native handle pass a nil decode and rely on compile alone.
type HandleFromCache func(blob []byte) (any, error)

// ShaderCache memoizes pipeline specialization by (base pipeline identity,
// specialization arguments), per spec §4.6. Concurrent requests for the
// same key are deduplicated with singleflight so that two goroutines
// racing to specialize the same program compile it once; the losing
// goroutines block on the winner's result rather than racing the HAL.
type ShaderCache struct {
	components *componentTable

	mu      sync.RWMutex
	entries map[pipelineCacheKey]*ConcretePipeline

	group singleflight.Group

	persistent PersistentCache
}

// NewShaderCache creates an empty shader cache. persistent may be nil, in
// which case no persistent-cache lookups or write-throughs occur.
func NewShaderCache(persistent PersistentCache) *ShaderCache {
	return &ShaderCache{
		components: newComponentTable(),
		entries:    make(map[pipelineCacheKey]*ConcretePipeline),
		persistent: persistent,
	}
}

// GetConcretePipeline returns the pipeline specialized for args under
// base's identity, compiling and caching it on first request. Concurrent
// calls with the same (base, args) share one compile call. It never
// consults the persistent cache; use GetConcretePipelineCached for a
// compile whose result can round-trip through bytes.
func (c *ShaderCache) GetConcretePipeline(base string, args []SpecializationArg, compile SpecializeFunc) (*ConcretePipeline, error) {
	return c.GetConcretePipelineCached(base, args, compile, nil)
}

// GetConcretePipelineCached is GetConcretePipeline plus a persistent-cache
// round trip (spec §4.6): on a cache miss, decode is tried against
// c.persistent.QueryCache's blob before falling back to compile, and a
// compiled result implementing CacheableHandle is written back with
// c.persistent.WriteCache. decode may be nil, in which case the persistent
// cache is only ever written to, never read from.
func (c *ShaderCache) GetConcretePipelineCached(base string, args []SpecializationArg, compile SpecializeFunc, decode HandleFromCache) (*ConcretePipeline, error) {
	specKey := c.components.makeSpecializationKey(args)
	key := pipelineCacheKey{base: base, spec: specKey}

	c.mu.RLock()
	if entry, ok := c.entries[key]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	sfKey := base + "\x00" + string(specKey)
	v, err, _ := c.group.Do(sfKey, func() (any, error) {
		// Re-check under the singleflight key: another caller may have
		// populated the cache while we waited to enter Do.
		c.mu.RLock()
		if entry, ok := c.entries[key]; ok {
			c.mu.RUnlock()
			return entry, nil
		}
		c.mu.RUnlock()

		handle, err := c.compileWithPersistentCache(sfKey, args, compile, decode)
		if err != nil {
			return nil, err
		}
		entry := &ConcretePipeline{Handle: handle, Args: args}

		c.mu.Lock()
		c.entries[key] = entry
		c.mu.Unlock()

		return entry, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ConcretePipeline), nil
}

// compileWithPersistentCache queries c.persistent before calling compile,
// and writes compile's result through to c.persistent when it is cacheable
// (spec §4.6 "queryCache(hash) → blob" / miss → compile → "writeCache(hash,
// blob)"). Both sides are skipped when c.persistent is nil; the query side
// is also skipped when decode is nil, since there is then no way to turn a
// cached blob back into a usable handle.
func (c *ShaderCache) compileWithPersistentCache(key string, args []SpecializationArg, compile SpecializeFunc, decode HandleFromCache) (any, error) {
	if c.persistent != nil && decode != nil {
		if blob, ok := c.persistent.QueryCache(key); ok {
			if handle, err := decode(blob); err == nil {
				return handle, nil
			}
		}
	}

	handle, err := compile(args)
	if err != nil {
		return nil, err
	}

	if c.persistent != nil {
		if cacheable, ok := handle.(CacheableHandle); ok {
			c.persistent.WriteCache(key, cacheable.CacheBlob())
		}
	}

	return handle, nil
}

// Evict removes every cached pipeline specialized under base, e.g. when
// its source shader module is destroyed.
func (c *ShaderCache) Evict(base string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.base == base {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached specializations, for tests.
func (c *ShaderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
