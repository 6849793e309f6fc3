// Package structures implements the old-address block registry, the
// zero-copy struct view, and the pointer/linked-list resolver (spec
// components C6-C8) — the parts of the decode pipeline that turn a decoded
// SDNA layout plus a block list into navigable, pointer-chasing values.
package structures

import (
	"github.com/scigolib/blendfile/internal/core"
)

// Registry maps a non-nil OldPointer to the block it addresses (spec §4.6).
// Built once after scanning; Nil never resolves.
type Registry struct {
	byAddr map[core.OldPointer]int // index into the owning Blocks slice
	Blocks []core.Block
}

// BuildRegistry indexes blocks by old-address. Collisions (two blocks
// sharing an old-address) are resolved by keeping the later block and
// reporting a DuplicateAddress diagnostic, per spec §4.6.
func BuildRegistry(blocks []core.Block) (*Registry, []core.Diagnostic) {
	r := &Registry{
		byAddr: make(map[core.OldPointer]int, len(blocks)),
		Blocks: blocks,
	}
	var diags []core.Diagnostic

	for i, b := range blocks {
		if b.Header.Old.IsNil() {
			continue
		}
		if prev, exists := r.byAddr[b.Header.Old]; exists {
			diags = append(diags, core.Diagnostic{
				Kind:    core.DiagDuplicateAddress,
				Message: "two blocks share the same old-address; keeping the later one",
				Block:   prev,
				Struct:  -1,
			})
		}
		r.byAddr[b.Header.Old] = i
	}

	return r, diags
}

// Find returns the block addressed by addr, if present. Nil never resolves.
func (r *Registry) Find(addr core.OldPointer) (*core.Block, bool) {
	if addr.IsNil() {
		return nil, false
	}
	idx, ok := r.byAddr[addr]
	if !ok {
		return nil, false
	}
	return &r.Blocks[idx], true
}
