package anki

import "sync"

// crcPoly is the reversed CRC-32 polynomial used by zip tooling.
const crcPoly = 0xEDB88320

var (
	crcOnce  sync.Once
	crcTable [256]uint32
)

func crcLookupTable() *[256]uint32 {
	crcOnce.Do(func() {
		for i := range crcTable {
			c := uint32(i)
			for j := 0; j < 8; j++ {
				if c&1 != 0 {
					c = crcPoly ^ (c >> 1)
				} else {
					c >>= 1
				}
			}
			crcTable[i] = c
		}
	})
	return &crcTable
}

// CRC32 computes the standard CRC-32 checksum (polynomial 0xEDB88320,
// initial value 0xFFFFFFFF, final complement) over data. Unpackers validate
// these values for every archive entry, so the result must match what
// common zip tools produce.
func CRC32(data []byte) uint32 {
	table := crcLookupTable()
	crc := uint32(0xFFFFFFFF)
	for _, b := range data {
		crc = table[(crc^uint32(b))&0xFF] ^ (crc >> 8)
	}
	return crc ^ 0xFFFFFFFF
}
