package jfif

import (
	"fmt"
)

// RunLengthPair is an AC symbol: the count of zero coefficients to skip
// (high nibble) and the bit size of the following coefficient (low nibble)
type RunLengthPair uint8

// Run returns the number of zero coefficients preceding the value
func (p RunLengthPair) Run() int {
	return int(p>>4) & 0x0F
}

// Size returns the bit length of the coefficient value
func (p RunLengthPair) Size() uint {
	return uint(p) & 0x0F
}

// EndOfBlock reports whether this is the (0,0) end-of-block sentinel
func (p RunLengthPair) EndOfBlock() bool {
	return p == 0
}

// HuffmanTable is one table defined by a DHT segment, together with the
// canonical decode structure built from it
type HuffmanTable struct {
	// ID is 0-15 for DC tables and 16-31 for AC tables
	ID uint8

	// Counts holds the number of codes of each length 1..16
	Counts [MaxHuffmanCodeLength]uint8

	// Symbols are the symbols in order of increasing code length
	Symbols []byte

	// firstCode is the numerically smallest code of each length
	firstCode [MaxHuffmanCodeLength]uint32

	// valPtr is the index in Symbols of the first symbol of each length
	valPtr [MaxHuffmanCodeLength]int
}

// HuffmanTables is the content of a DHT segment, one entry per table defined
type HuffmanTables []*HuffmanTable

// HuffmanCode is a single code assignment of a table
type HuffmanCode struct {
	Length int
	Code   uint32
	Symbol byte
}

// String renders the code as its bit pattern
func (c HuffmanCode) String() string {
	return fmt.Sprintf("%0*b", c.Length, c.Code)
}

// IsAC reports whether the table decodes run-length pairs
func (h *HuffmanTable) IsAC() bool {
	return h.ID >= ACTableOffset
}

// Class returns "DC" or "AC"
func (h *HuffmanTable) Class() string {
	if h.IsAC() {
		return "AC"
	}
	return "DC"
}

// BuildHuffmanTable assigns canonical codes to symbols.
//
// Codes are handed out level by level. Every code slot left open at one
// length splits into two slots at the next; the declared number of symbols
// of that length take the leftmost open slots in order, and the remaining
// slots carry over as the next frontier.
func BuildHuffmanTable(id uint8, counts [MaxHuffmanCodeLength]uint8, symbols []byte) (*HuffmanTable, error) {
	h := &HuffmanTable{ID: id, Counts: counts}

	open := uint32(1) // the root, before any bit is read
	code := uint32(0) // next free slot at the current level
	next := 0
	for level := 0; level < MaxHuffmanCodeLength; level++ {
		open *= 2
		code <<= 1

		n := int(counts[level])
		if uint32(n) > open {
			return nil, NewJfifError(KindMissingHuffmanValues,
				fmt.Sprintf("table %d declares %d codes of length %d but only %d are available",
					id, n, level+1, open))
		}
		if next+n > len(symbols) {
			return nil, NewJfifError(KindTooManyHuffmanValues,
				fmt.Sprintf("table %d declares %d symbols but only %d are present",
					id, totalSymbols(counts), len(symbols)))
		}

		h.firstCode[level] = code
		h.valPtr[level] = next
		code += uint32(n)
		open -= uint32(n)
		next += n
	}

	h.Symbols = append([]byte(nil), symbols[:next]...)
	return h, nil
}

// totalSymbols sums the 16 code length counts
func totalSymbols(counts [MaxHuffmanCodeLength]uint8) int {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	return total
}

// Decode reads bits until they form a code of this table and returns its symbol
func (h *HuffmanTable) Decode(r *BitReader) (byte, error) {
	code := uint32(0)
	for level := 0; level < MaxHuffmanCodeLength; level++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | uint32(bit)

		if offset := code - h.firstCode[level]; code >= h.firstCode[level] && offset < uint32(h.Counts[level]) {
			return h.Symbols[h.valPtr[level]+int(offset)], nil
		}
	}

	return 0, NewJfifError(KindInvalidHuffmanCode,
		fmt.Sprintf("no code of %s table %d matches bits ending at position %d", h.Class(), h.ID, r.Position()))
}

// Codes lists every code assignment in canonical order
func (h *HuffmanTable) Codes() []HuffmanCode {
	codes := make([]HuffmanCode, 0, len(h.Symbols))
	for level := 0; level < MaxHuffmanCodeLength; level++ {
		for i := 0; i < int(h.Counts[level]); i++ {
			codes = append(codes, HuffmanCode{
				Length: level + 1,
				Code:   h.firstCode[level] + uint32(i),
				Symbol: h.Symbols[h.valPtr[level]+i],
			})
		}
	}
	return codes
}

const dhtHeaderSize = 4 + 1 + MaxHuffmanCodeLength

// ParseDHT parses a Huffman table segment. The table byte's high nibble
// selects DC (0) or AC (1); AC tables get ids 16-31. A segment may define
// several tables back to back.
func ParseDHT(data []byte) (HuffmanTables, error) {
	if err := checkSegment(data, MarkerDHT, dhtHeaderSize+1); err != nil {
		return nil, err
	}

	var tables HuffmanTables
	pos := 4
	for pos < len(data) {
		if pos+1+MaxHuffmanCodeLength > len(data) {
			return nil, errorAt(KindSizeMismatch, -1, MarkerDHT,
				"%d trailing bytes are too short for another table", len(data)-pos)
		}

		id := data[pos]
		if id >= MaxHuffmanTables {
			return nil, errorAt(KindMalformedSegment, -1, MarkerDHT,
				"table class %d is not DC or AC", id>>4)
		}

		var counts [MaxHuffmanCodeLength]uint8
		copy(counts[:], data[pos+1:pos+1+MaxHuffmanCodeLength])
		pos += 1 + MaxHuffmanCodeLength

		n := totalSymbols(counts)
		symbols := data[pos:]
		if len(symbols) > n {
			symbols = symbols[:n]
		}

		table, err := BuildHuffmanTable(id, counts, symbols)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
		pos += n
	}

	return tables, nil
}

// HuffmanTableSet indexes tables by id: DC tables at 0-15, AC at 16-31
type HuffmanTableSet [MaxHuffmanTables]*HuffmanTable

// Add stores a table, replacing any earlier table with the same id
func (s *HuffmanTableSet) Add(t *HuffmanTable) {
	s[t.ID] = t
}
