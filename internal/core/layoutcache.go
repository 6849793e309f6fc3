package core

import "sync"

// LayoutCache interns StructLayout values per (SDNA, struct-index), per
// spec §5's shared-immutable caching requirement. One cache is built per
// opened file and shared across all derived StructViews.
type LayoutCache struct {
	sdna              *SDNA
	pointerWidth      int
	alignmentOverrides map[string]int

	mu           sync.RWMutex
	byStruct     map[int]*StructLayout
	typeToStruct map[int]int // type index -> struct index, built once
}

// NewLayoutCache builds a cache bound to sdna and the file's pointer width.
// alignmentOverrides may be nil; see ComputeLayout.
func NewLayoutCache(sdna *SDNA, pointerWidth int, alignmentOverrides map[string]int) *LayoutCache {
	typeToStruct := make(map[int]int, len(sdna.Structs))
	for i, s := range sdna.Structs {
		typeToStruct[s.TypeIndex] = i
	}
	return &LayoutCache{
		sdna:               sdna,
		pointerWidth:       pointerWidth,
		alignmentOverrides: alignmentOverrides,
		byStruct:           make(map[int]*StructLayout),
		typeToStruct:       typeToStruct,
	}
}

// Layout returns the (cached) StructLayout for structIndex.
func (c *LayoutCache) Layout(structIndex int) (*StructLayout, error) {
	c.mu.RLock()
	l, ok := c.byStruct[structIndex]
	c.mu.RUnlock()
	if ok {
		return l, nil
	}

	l, err := ComputeLayout(c.sdna, structIndex, c.pointerWidth, c.alignmentOverrides)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.byStruct[structIndex] = l
	c.mu.Unlock()
	return l, nil
}

// StructIndexForType returns the struct index whose TypeIndex equals
// typeIndex, if any type in SDNA's TYPE table has a corresponding struct
// record (spec §4.7's at_member_struct precondition).
func (c *LayoutCache) StructIndexForType(typeIndex int) (int, bool) {
	idx, ok := c.typeToStruct[typeIndex]
	return idx, ok
}

// SDNA returns the bound SDNA table.
func (c *LayoutCache) SDNA() *SDNA {
	return c.sdna
}

// PointerWidth returns the file's pointer width in bits.
func (c *LayoutCache) PointerWidth() int {
	return c.pointerWidth
}
