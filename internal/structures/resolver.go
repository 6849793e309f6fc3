package structures

import (
	"encoding/binary"

	"github.com/scigolib/blendfile/internal/core"
)

// Resolver builds higher-level traversals (root views, pointer resolution,
// embedded linked-list walks) from a Registry and a LayoutCache (spec
// §4.8). Immutable once constructed; safe for concurrent use.
type Resolver struct {
	registry *Registry
	cache    *core.LayoutCache
	order    binary.ByteOrder
}

// NewResolver binds a Resolver to a registry, layout cache, and the file's
// byte order.
func NewResolver(registry *Registry, cache *core.LayoutCache, order binary.ByteOrder) *Resolver {
	return &Resolver{registry: registry, cache: cache, order: order}
}

// ViewForBlock constructs a root StructView over block's payload, using
// its SDNA struct index. Absent if the block carries no struct (index < 0
// or out of range).
func (r *Resolver) ViewForBlock(block *core.Block) (StructView, bool) {
	if block == nil || block.Header.SDNAIndex < 0 {
		return StructView{}, false
	}
	sdna := r.cache.SDNA()
	if block.Header.SDNAIndex >= len(sdna.Structs) {
		return StructView{}, false
	}
	layout, err := r.cache.Layout(block.Header.SDNAIndex)
	if err != nil {
		return StructView{}, false
	}
	if len(block.Payload) < layout.Size {
		return StructView{}, false
	}
	return NewStructView(r.cache, layout, block.Payload, r.order), true
}

// ViewForPtr resolves addr through the registry, then builds a root view
// over the addressed block. Absent for nil or unresolved addresses.
func (r *Resolver) ViewForPtr(addr core.OldPointer) (StructView, bool) {
	block, ok := r.registry.Find(addr)
	if !ok {
		return StructView{}, false
	}
	return r.ViewForBlock(block)
}

// ListBaseItems walks an embedded two-pointer ListBase-style head field
// (first/last) reachable from owner as listbaseField, following nextField
// on each visited node (spec §4.8). Traversal halts on a nil pointer, a
// registry miss, a revisited address (cycle guard), or — when
// expectedStructName is non-empty — when the resolved node's struct type
// name does not match. Never raises; an inconsistent graph simply yields
// a shorter sequence.
func (r *Resolver) ListBaseItems(owner StructView, listbaseField, nextField, expectedStructName string) []StructView {
	lb, ok := owner.AtMemberStruct(listbaseField)
	if !ok {
		return nil
	}
	first, ok := lb.Ptr("first")
	if !ok {
		return nil
	}

	var out []StructView
	visited := make(map[core.OldPointer]bool)
	cur := first

	for !cur.IsNil() && !visited[cur] {
		visited[cur] = true

		view, ok := r.ViewForPtr(cur)
		if !ok {
			break
		}
		if expectedStructName != "" {
			sdna := r.cache.SDNA()
			typeIdx := view.layout.TypeIndex
			if typeIdx < 0 || typeIdx >= len(sdna.TypeNames) || sdna.TypeNames[typeIdx] != expectedStructName {
				break
			}
		}

		out = append(out, view)

		next, ok := view.Ptr(nextField)
		if !ok {
			break
		}
		cur = next
	}

	return out
}
