// Package blendfile decodes the binary scene-document container format:
// file header, block records, the embedded SDNA structure-definition
// table, computed struct layouts, and pointer/linked-list resolution over
// the decoded blocks.
package blendfile

import (
	"github.com/scigolib/blendfile/internal/core"
	"github.com/scigolib/blendfile/internal/source"
	"github.com/scigolib/blendfile/internal/structures"
	"github.com/scigolib/blendfile/internal/utils"
)

// OpenedFile bundles everything Open/FromBytes decode: the file header,
// the scanned blocks in file order, the decoded SDNA, the old-address
// registry, and the underlying buffer (spec §6 external interface #1).
type OpenedFile struct {
	Header      *FileHeader
	Blocks      []Block
	SDNA        *SDNA
	Diagnostics []Diagnostic

	buffer   *source.Buffer
	registry *structures.Registry
	cache    *core.LayoutCache
	resolver *structures.Resolver
}

// Open reads path (transparently decompressing a zstd/gzip/zlib envelope),
// decodes its header and blocks, and builds the SDNA/layout/registry
// machinery needed to navigate it. opts defaults to DefaultOptions() when
// omitted.
func Open(path string, opts ...Options) (*OpenedFile, error) {
	o := resolveOptions(opts)

	buf, err := source.Load(path, o.toSourceOptions())
	if err != nil {
		return nil, err
	}

	f, err := decode(buf.Bytes, o)
	if err != nil {
		buf.Close()
		return nil, utils.WithPath(err, path)
	}
	f.buffer = buf
	return f, nil
}

// FromBytes decodes an already-decompressed buffer directly, skipping the
// source loader entirely (spec §6 external interface #2).
func FromBytes(data []byte, opts ...Options) (*OpenedFile, error) {
	o := resolveOptions(opts)
	return decode(data, o)
}

func resolveOptions(opts []Options) Options {
	if len(opts) > 0 {
		return opts[0]
	}
	return DefaultOptions()
}

// decode implements the shared C2->C8 pipeline once a raw, decompressed
// buffer is in hand.
func decode(buf []byte, o Options) (*OpenedFile, error) {
	header, headerLen, err := core.DecodeHeader(buf)
	if err != nil {
		return nil, err
	}

	maxBlockSize := o.MaxBlockSize
	if maxBlockSize <= 0 {
		maxBlockSize = core.DefaultMaxBlockSize
	}
	blocks, diags, err := core.ScanAll(buf, header, headerLen, maxBlockSize)
	if err != nil {
		return nil, err
	}

	dnaIndex := -1
	for i, b := range blocks {
		if b.Header.Code == core.CodeDNA1 {
			dnaIndex = i
			break
		}
	}
	if dnaIndex < 0 {
		return nil, utils.NewError(utils.KindBadSdna, "no DNA1 block found", nil)
	}

	sdna, err := core.DecodeSDNA(blocks[dnaIndex].Payload)
	if err != nil {
		return nil, err
	}

	registry, regDiags := structures.BuildRegistry(blocks)
	diags = append(diags, regDiags...)

	cache := core.NewLayoutCache(sdna, header.PointerWidth, o.AlignmentOverrides)
	diags = append(diags, structSizeMismatchDiagnostics(sdna, cache)...)
	resolver := structures.NewResolver(registry, cache, header.ByteOrder)

	return &OpenedFile{
		Header:      header,
		Blocks:      blocks,
		SDNA:        sdna,
		Diagnostics: diags,
		registry:    registry,
		cache:       cache,
		resolver:    resolver,
	}, nil
}

// structSizeMismatchDiagnostics compares each struct's field-derived
// footprint against SDNA's declared TLEN size, flagging the rare case
// where a writer's declared struct size and its own field layout disagree
// (original_source transform.rs's size-mismatch cross-check). A struct
// that fails to compute a layout is skipped rather than treated as a
// mismatch; ComputeLayout errors surface through cache.Layout at first
// real use instead.
func structSizeMismatchDiagnostics(sdna *SDNA, cache *core.LayoutCache) []Diagnostic {
	var diags []Diagnostic
	for i := range sdna.Structs {
		layout, err := cache.Layout(i)
		if err != nil {
			continue
		}
		if layout.ComputedSize != layout.Size {
			diags = append(diags, Diagnostic{
				Kind:    DiagStructSizeMismatch,
				Message: "struct's field-derived size disagrees with its declared size",
				Block:   -1,
				Struct:  i,
				Delta:   layout.ComputedSize - layout.Size,
			})
		}
	}
	return diags
}

// Close releases the underlying buffer (a memory mapping or spilled temp
// file, if any). Safe to call on a file opened with FromBytes.
func (f *OpenedFile) Close() error {
	if f.buffer == nil {
		return nil
	}
	return f.buffer.Close()
}

// View builds a root StructView over Blocks[blockIndex], absent if the
// index is out of range or the block carries no struct (spec §6 #3).
func (f *OpenedFile) View(blockIndex int) (StructView, bool) {
	if blockIndex < 0 || blockIndex >= len(f.Blocks) {
		return StructView{}, false
	}
	return f.resolver.ViewForBlock(&f.Blocks[blockIndex])
}

// ViewForPtr resolves addr through the block registry and builds a root
// view over the addressed block (spec §6 #4).
func (f *OpenedFile) ViewForPtr(addr OldPointer) (StructView, bool) {
	return f.resolver.ViewForPtr(addr)
}

// ListWalk walks an embedded ListBase-style head field, following
// nextField pointer-to-pointer (spec §6 #5). expectedStructName may be
// empty to skip the type-match check.
func (f *OpenedFile) ListWalk(owner StructView, listbaseField, nextField, expectedStructName string) []StructView {
	return f.resolver.ListBaseItems(owner, listbaseField, nextField, expectedStructName)
}
