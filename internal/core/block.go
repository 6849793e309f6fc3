package core

import (
	"github.com/scigolib/blendfile/internal/utils"
)

// DNA1 is the block type code carrying the SDNA table; ENDB is the
// terminator code (spec §3).
const (
	CodeDNA1 = "DNA1"
	CodeENDB = "ENDB"
)

// DefaultMaxBlockSize is the per-block size ceiling applied when the caller
// does not override it (spec §4.3).
const DefaultMaxBlockSize = 100 * 1024 * 1024

// BlockHeader is the decoded fixed portion of a block record (spec §3).
type BlockHeader struct {
	Code          string
	Size          int64
	Old           OldPointer
	SDNAIndex     int
	Count         int64
	PayloadOffset int64
}

// Block pairs a BlockHeader with its payload, a slice that borrows directly
// from the scanned buffer (never copied).
type Block struct {
	Header  BlockHeader
	Payload []byte
}

// Scanner walks block records in a byte buffer, starting right after the
// file header, per the on-disk layout variant implied by h.
type Scanner struct {
	buf          []byte
	header       *FileHeader
	cursor       int64
	maxBlockSize int64
	done         bool
	err          error
}

// NewScanner returns a Scanner positioned at headerLen, the number of bytes
// DecodeHeader consumed. maxBlockSize <= 0 uses DefaultMaxBlockSize.
func NewScanner(buf []byte, h *FileHeader, headerLen int, maxBlockSize int64) *Scanner {
	if maxBlockSize <= 0 {
		maxBlockSize = DefaultMaxBlockSize
	}
	return &Scanner{
		buf:          buf,
		header:       h,
		cursor:       int64(headerLen),
		maxBlockSize: maxBlockSize,
	}
}

// Done reports whether the scanner has reached a terminal state (ENDB
// emitted, EOF reached, or an error occurred).
func (s *Scanner) Done() bool {
	return s.done
}

// Err returns the error that put the scanner in a terminal state, if any.
func (s *Scanner) Err() error {
	return s.err
}

// blockHeaderLayout describes the fixed-header shape for one
// (pointer-width, container-format) combination (spec §4.3 table).
type blockHeaderLayout struct {
	headerBytes int // total header length including the 4-byte code
	ptrWidth    int // byte width of the old-address field
}

func (s *Scanner) layout() blockHeaderLayout {
	switch {
	case s.header.PointerWidth == 32:
		return blockHeaderLayout{headerBytes: 20, ptrWidth: 4}
	case s.header.ContainerFormat == FormatV1:
		return blockHeaderLayout{headerBytes: 32, ptrWidth: 8}
	default: // ptr=64, legacy
		return blockHeaderLayout{headerBytes: 24, ptrWidth: 8}
	}
}

// Next decodes the next block header and payload. It returns (nil, false,
// nil) once the scanner has reached a terminal state (after the caller has
// already consumed ENDB on a prior call, or upon reaching EOF cleanly).
func (s *Scanner) Next() (*Block, bool, error) {
	if s.done {
		return nil, false, s.err
	}

	lay := s.layout()
	order := s.header.ByteOrder

	if s.cursor+int64(lay.headerBytes) > int64(len(s.buf)) {
		s.done = true
		return nil, false, nil
	}

	codeStart := s.cursor
	code := string(s.buf[codeStart : codeStart+4])
	p := codeStart + 4

	var size int64
	var old OldPointer
	var sdnaIndex int32
	var count int64

	switch {
	case lay.headerBytes == 32: // variant C: sdna, old(8), size(8), count(8)
		sdnaIndex = int32(order.Uint32(s.buf[p : p+4]))
		p += 4
		old = Ptr64(order.Uint64(s.buf[p : p+8]))
		p += 8
		size = int64(order.Uint64(s.buf[p : p+8]))
		p += 8
		count = int64(order.Uint64(s.buf[p : p+8]))
		p += 8
	default: // variant A (ptr=4) or B (ptr=8): size(4), old(ptrWidth), sdna(4), count(4)
		size = int64(int32(order.Uint32(s.buf[p : p+4])))
		p += 4
		if lay.ptrWidth == 4 {
			old = Ptr32(order.Uint32(s.buf[p : p+4]))
		} else {
			old = Ptr64(order.Uint64(s.buf[p : p+8]))
		}
		p += int64(lay.ptrWidth)
		sdnaIndex = int32(order.Uint32(s.buf[p : p+4]))
		p += 4
		count = int64(int32(order.Uint32(s.buf[p : p+4])))
		p += 4
	}

	if size < 0 {
		s.done = true
		s.err = utils.WithOffset(utils.NewError(utils.KindBadSdna, "declared block size is negative", nil), codeStart)
		return nil, false, s.err
	}

	if size > s.maxBlockSize {
		s.done = true
		s.err = utils.WithOffset(
			utils.WithBlock(utils.NewError(utils.KindBlockTooLarge, "block exceeds configured size ceiling", nil), -1, code),
			codeStart)
		return nil, false, s.err
	}

	payloadOffset := p
	if payloadOffset+size > int64(len(s.buf)) {
		s.done = true
		s.err = utils.WithOffset(
			utils.WithBlock(utils.NewError(utils.KindTruncatedBlock, "declared block size overruns buffer", nil), -1, code),
			codeStart)
		return nil, false, s.err
	}

	block := &Block{
		Header: BlockHeader{
			Code:          code,
			Size:          size,
			Old:           old,
			SDNAIndex:     int(sdnaIndex),
			Count:         count,
			PayloadOffset: payloadOffset,
		},
		Payload: s.buf[payloadOffset : payloadOffset+size],
	}

	s.cursor = payloadOffset + size

	if code == CodeENDB {
		s.done = true
	}

	return block, true, nil
}

// ScanAll drains the scanner into a slice, stopping per the rules in
// Scanner.Next, and returns diagnostics collected along the way (e.g. a
// nonzero-size ENDB, per spec §8 property 3).
func ScanAll(buf []byte, h *FileHeader, headerLen int, maxBlockSize int64) ([]Block, []Diagnostic, error) {
	s := NewScanner(buf, h, headerLen, maxBlockSize)
	var blocks []Block
	var diags []Diagnostic

	for {
		b, ok, err := s.Next()
		if err != nil {
			return blocks, diags, err
		}
		if !ok {
			break
		}
		blocks = append(blocks, *b)
		if b.Header.Code == CodeENDB {
			if b.Header.Size != 0 {
				diags = append(diags, Diagnostic{
					Kind:    DiagENDBSizeNonzero,
					Message: "terminator block ENDB has nonzero declared size",
					Block:   len(blocks) - 1,
					Struct:  -1,
				})
			}
			break
		}
	}

	return blocks, diags, nil
}
