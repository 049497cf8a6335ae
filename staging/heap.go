// Package staging implements the paged upload/readback pool described in
// spec.md §4.7: a heap of fixed-size pages, each sub-allocated with
// first-fit over a sorted free list, handed out as RAII Handles.
package staging

import (
	"errors"
	"sync"

	"github.com/gogpu/rhi/core/track"
)

const (
	// DefaultAlignment is the default rounding applied to every request.
	DefaultAlignment = 1024
	// DefaultPageSize is the default size of a freshly allocated page.
	DefaultPageSize = 16 << 20 // 16 MiB
)

// ErrOutOfMemory is returned when a page cannot be allocated from the
// backing PageSource (spec.md §7 "Out of memory").
var ErrOutOfMemory = errors.New("staging: out of memory")

// PageSource is the external collaborator that backs new pages with real
// device memory (upload/readback heap). Implemented by hal.Device in
// production; tests use an in-memory fake.
type PageSource interface {
	AllocatePage(size uint64) ([]byte, error)
}

// Allocation identifies a live sub-allocation within the heap.
type Allocation struct {
	PageID track.TrackerIndex
	Offset uint64
	Size   uint64
}

// Handle is an RAII wrapper around an Allocation: Release frees it exactly
// once (spec.md §4.7 "handles are RAII and free the allocation on drop").
type Handle struct {
	heap    *Heap
	alloc   Allocation
	release sync.Once
}

// Allocation returns the underlying allocation.
func (h *Handle) Allocation() Allocation {
	return h.alloc
}

// Release frees the allocation. Safe to call more than once.
func (h *Handle) Release() {
	h.release.Do(func() {
		h.heap.Free(h.alloc)
	})
}

// node is one span (free or used) of a page, kept in offset order.
type node struct {
	offset uint64
	size   uint64
	used   bool
}

type page struct {
	id       track.TrackerIndex
	size     uint64
	used     uint64
	standard bool // true for default-sized pages eligible for reuse/retirement rules
	data     []byte
	nodes    []node // sorted by offset, covers [0, size) contiguously
}

func newPage(id track.TrackerIndex, data []byte, standard bool) *page {
	return &page{
		id:       id,
		size:     uint64(len(data)),
		standard: standard,
		data:     data,
		nodes:    []node{{offset: 0, size: uint64(len(data)), used: false}},
	}
}

// firstFit finds the first free node (in offset order) of sufficient size,
// splits it if there's a remainder, marks it used, and returns its offset.
func (p *page) firstFit(size uint64) (uint64, bool) {
	idx := -1
	for i, n := range p.nodes {
		if !n.used && n.size >= size {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false
	}

	n := p.nodes[idx]
	remainder := n.size - size
	p.nodes[idx] = node{offset: n.offset, size: size, used: true}
	if remainder > 0 {
		rem := node{offset: n.offset + size, size: remainder, used: false}
		p.nodes = append(p.nodes, node{})
		copy(p.nodes[idx+2:], p.nodes[idx+1:])
		p.nodes[idx+1] = rem
	}
	p.used += size
	return n.offset, true
}

func (p *page) free(offset uint64) {
	idx := -1
	for i, n := range p.nodes {
		if n.offset == offset {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	p.used -= p.nodes[idx].size
	p.nodes[idx].used = false

	// Coalesce with the next neighbor.
	if idx+1 < len(p.nodes) && !p.nodes[idx+1].used {
		p.nodes[idx].size += p.nodes[idx+1].size
		p.nodes = append(p.nodes[:idx+1], p.nodes[idx+2:]...)
	}
	// Coalesce with the previous neighbor.
	if idx > 0 && !p.nodes[idx-1].used {
		p.nodes[idx-1].size += p.nodes[idx].size
		p.nodes = append(p.nodes[:idx], p.nodes[idx+1:]...)
	}
}

func (p *page) isFullyFree() bool {
	return len(p.nodes) == 1 && !p.nodes[0].used
}

// Heap is a paged, lock-protected staging pool.
type Heap struct {
	mu        sync.Mutex
	alignment uint64
	pageSize  uint64
	source    PageSource
	pages     map[track.TrackerIndex]*page
	order     []track.TrackerIndex // standard pages, in creation order, for id-order scanning
	ids       *track.TrackerIndexAllocator
}

// NewHeap creates a staging heap backed by source. alignment and pageSize
// of zero use the spec's defaults (1024 B, 16 MiB).
func NewHeap(source PageSource, alignment, pageSize uint64) *Heap {
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	return &Heap{
		alignment: alignment,
		pageSize:  pageSize,
		source:    source,
		pages:     make(map[track.TrackerIndex]*page),
		ids:       track.NewTrackerIndexAllocator(),
	}
}

func alignUp(v, align uint64) uint64 {
	return (v + align - 1) / align * align
}

// Alloc reserves size bytes and returns the allocation (spec.md §4.7
// "alloc"). metadata is caller-defined and not interpreted here; it is the
// caller's responsibility to associate it with the returned Allocation.
func (h *Heap) Alloc(size uint64) (Allocation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	aligned := alignUp(size, h.alignment)

	if aligned < h.pageSize {
		for _, id := range h.order {
			p := h.pages[id]
			if off, ok := p.firstFit(aligned); ok {
				return Allocation{PageID: id, Offset: off, Size: aligned}, nil
			}
		}
	}

	pageBytes := aligned
	standard := false
	if aligned <= h.pageSize {
		pageBytes = h.pageSize
		standard = true
	}

	data, err := h.source.AllocatePage(pageBytes)
	if err != nil {
		return Allocation{}, ErrOutOfMemory
	}

	id := h.ids.Alloc()
	p := newPage(id, data, standard)
	h.pages[id] = p
	if standard {
		h.order = append(h.order, id)
	}

	off, ok := p.firstFit(aligned)
	if !ok {
		return Allocation{}, ErrOutOfMemory
	}
	return Allocation{PageID: id, Offset: off, Size: aligned}, nil
}

// AllocHandle is Alloc wrapped in an RAII Handle.
func (h *Heap) AllocHandle(size uint64) (*Handle, error) {
	a, err := h.Alloc(size)
	if err != nil {
		return nil, err
	}
	return &Handle{heap: h, alloc: a}, nil
}

// Stage allocates size bytes, maps them, copies data in, and unmaps
// (spec.md §4.7 "stage").
func (h *Heap) Stage(data []byte) (Allocation, error) {
	a, err := h.Alloc(uint64(len(data)))
	if err != nil {
		return Allocation{}, err
	}
	dst, err := h.Map(a)
	if err != nil {
		return Allocation{}, err
	}
	copy(dst, data)
	h.Unmap(a)
	return a, nil
}

// StageHandle is Stage wrapped in an RAII Handle.
func (h *Heap) StageHandle(data []byte) (*Handle, error) {
	a, err := h.Stage(data)
	if err != nil {
		return nil, err
	}
	return &Handle{heap: h, alloc: a}, nil
}

// Map returns the mapped byte range for an allocation.
func (h *Heap) Map(a Allocation) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pages[a.PageID]
	if !ok {
		return nil, errors.New("staging: unknown page")
	}
	return p.data[a.Offset : a.Offset+a.Size], nil
}

// Unmap is a no-op for pages kept permanently mapped (the common case for
// this in-process heap); present for parity with backends that require
// an explicit unmap before GPU access (spec.md §4.7 "map/unmap").
func (h *Heap) Unmap(Allocation) {}

// Free releases an allocation, coalescing with free neighbors, and retires
// pages per spec.md §4.7's retirement rule: a page is retired once fully
// free and either non-standard-sized or a second empty standard page
// would otherwise sit idle.
func (h *Heap) Free(a Allocation) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.pages[a.PageID]
	if !ok {
		return
	}
	p.free(a.Offset)

	if !p.isFullyFree() {
		return
	}

	if !p.standard {
		h.retire(a.PageID)
		return
	}

	emptyStandard := 0
	for _, id := range h.order {
		if h.pages[id].isFullyFree() {
			emptyStandard++
		}
	}
	if emptyStandard > 1 {
		h.retire(a.PageID)
	}
}

func (h *Heap) retire(id track.TrackerIndex) {
	delete(h.pages, id)
	for i, o := range h.order {
		if o == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	h.ids.Free(id)
}

// Used returns the heap's total bytes currently allocated, for tests and
// diagnostics.
func (h *Heap) Used() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var total uint64
	for _, p := range h.pages {
		total += p.used
	}
	return total
}

// PageCount returns the number of live pages.
func (h *Heap) PageCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pages)
}
