package structures

import (
	"encoding/binary"
	"testing"

	"github.com/scigolib/blendfile/internal/core"
	"github.com/stretchr/testify/require"
)

// buildListFixture returns an SDNA with ListBase { Node *first; Node *last; },
// Node { Node *next; }, and Owner { ListBase lb; }, mirroring the
// source's intrusive-list idiom.
func buildListFixture(t *testing.T) *core.SDNA {
	t.Helper()
	names := []string{"*next", "*first", "*last", "lb"}
	types := []string{"char", "int", "float", "ListBase", "Node", "Owner"}
	sizes := []uint16{1, 4, 4, 16, 8, 16}
	structs := []vtStruct{
		{typeIndex: 3, fields: []vtField{ // ListBase
			{typeIndex: 4, nameIndex: 1},
			{typeIndex: 4, nameIndex: 2},
		}},
		{typeIndex: 4, fields: []vtField{ // Node
			{typeIndex: 4, nameIndex: 0},
		}},
		{typeIndex: 5, fields: []vtField{ // Owner
			{typeIndex: 3, nameIndex: 3},
		}},
	}
	payload := vtBuildDNA(names, types, sizes, structs)
	sdna, err := core.DecodeSDNA(payload)
	require.NoError(t, err)
	return sdna
}

func nodeBlock(old, next uint64) core.Block {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, next)
	return core.Block{
		Header:  core.BlockHeader{Code: "DATA", Old: core.Ptr64(old), SDNAIndex: 1},
		Payload: buf,
	}
}

func ownerBlock(old, first, last uint64) core.Block {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], first)
	binary.LittleEndian.PutUint64(buf[8:16], last)
	return core.Block{
		Header:  core.BlockHeader{Code: "DATA", Old: core.Ptr64(old), SDNAIndex: 2},
		Payload: buf,
	}
}

func newListResolver(blocks []core.Block, sdna *core.SDNA) *Resolver {
	reg, _ := BuildRegistry(blocks)
	cache := core.NewLayoutCache(sdna, 64, nil)
	return NewResolver(reg, cache, binary.LittleEndian)
}

func TestResolver_ViewForBlockAndPtr(t *testing.T) {
	sdna := buildListFixture(t)
	n1 := nodeBlock(0x1000, 0)
	blocks := []core.Block{n1}
	r := newListResolver(blocks, sdna)

	v, ok := r.ViewForBlock(&blocks[0])
	require.True(t, ok)
	p, ok := v.Ptr("next")
	require.True(t, ok)
	require.True(t, p.IsNil())

	v2, ok := r.ViewForPtr(core.Ptr64(0x1000))
	require.True(t, ok)
	require.Equal(t, v.layout, v2.layout)

	_, ok = r.ViewForPtr(core.Ptr64(0x9999))
	require.False(t, ok)

	_, ok = r.ViewForPtr(core.NilPointer)
	require.False(t, ok)
}

func TestResolver_ListBaseItemsTraversesInOrder(t *testing.T) {
	sdna := buildListFixture(t)
	n1 := nodeBlock(0x1000, 0x2000)
	n2 := nodeBlock(0x2000, 0)
	owner := ownerBlock(0x500, 0x1000, 0x2000)
	blocks := []core.Block{n1, n2, owner}
	r := newListResolver(blocks, sdna)

	ownerView, ok := r.ViewForBlock(&blocks[2])
	require.True(t, ok)

	items := r.ListBaseItems(ownerView, "lb", "next", "Node")
	require.Len(t, items, 2)

	first, ok := items[0].Ptr("next")
	require.True(t, ok)
	require.Equal(t, core.Ptr64(0x2000), first)

	second, ok := items[1].Ptr("next")
	require.True(t, ok)
	require.True(t, second.IsNil())
}

func TestResolver_ListBaseItemsCycleGuard(t *testing.T) {
	sdna := buildListFixture(t)
	n1 := nodeBlock(0x1000, 0x2000)
	n2 := nodeBlock(0x2000, 0x1000) // cycle back to n1
	owner := ownerBlock(0x500, 0x1000, 0x2000)
	blocks := []core.Block{n1, n2, owner}
	r := newListResolver(blocks, sdna)

	ownerView, ok := r.ViewForBlock(&blocks[2])
	require.True(t, ok)

	items := r.ListBaseItems(ownerView, "lb", "next", "")
	require.Len(t, items, 2) // visits n1, n2, then refuses to revisit n1
}

func TestResolver_ListBaseItemsExpectedTypeMismatchHalts(t *testing.T) {
	sdna := buildListFixture(t)
	n1 := nodeBlock(0x1000, 0)
	owner := ownerBlock(0x500, 0x1000, 0x1000)
	blocks := []core.Block{n1, owner}
	r := newListResolver(blocks, sdna)

	ownerView, ok := r.ViewForBlock(&blocks[1])
	require.True(t, ok)

	items := r.ListBaseItems(ownerView, "lb", "next", "Owner") // n1 is a Node, not Owner
	require.Empty(t, items)
}

func TestResolver_ListBaseItemsEmptyWhenFirstNil(t *testing.T) {
	sdna := buildListFixture(t)
	owner := ownerBlock(0x500, 0, 0)
	blocks := []core.Block{owner}
	r := newListResolver(blocks, sdna)

	ownerView, ok := r.ViewForBlock(&blocks[0])
	require.True(t, ok)

	items := r.ListBaseItems(ownerView, "lb", "next", "")
	require.Empty(t, items)
}
