package anki

import "encoding/binary"

// Zip structural signatures and fixed header sizes. Entries are stored
// uncompressed; all multi-byte fields are little-endian.
const (
	localHeaderSignature      = 0x04034b50
	centralDirSignature       = 0x02014b50
	endOfCentralDirSignature  = 0x06054b50
	zipVersion                = 20
	localHeaderSize           = 30
	centralDirHeaderSize      = 46
	endOfCentralDirRecordSize = 22
)

// archiveEntry is one file to be packed: a name and its raw bytes.
type archiveEntry struct {
	name string
	data []byte
}

// buildArchive assembles a minimal uncompressed zip from the entries, in
// order: per-entry local headers followed by raw data, then the central
// directory, then the end-of-central-directory trailer. No extra fields,
// comments, data descriptors, or encryption.
func buildArchive(entries []archiveEntry) []byte {
	var buf []byte
	offsets := make([]int, len(entries))
	crcs := make([]uint32, len(entries))

	for i, entry := range entries {
		offsets[i] = len(buf)
		crcs[i] = CRC32(entry.data)
		buf = appendLocalHeader(buf, entry, crcs[i])
		buf = append(buf, entry.data...)
	}

	centralDirOffset := len(buf)
	for i, entry := range entries {
		buf = appendCentralDirHeader(buf, entry, crcs[i], offsets[i])
	}
	centralDirSize := len(buf) - centralDirOffset

	return appendEndOfCentralDir(buf, len(entries), centralDirSize, centralDirOffset)
}

func appendLocalHeader(buf []byte, entry archiveEntry, crc uint32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, localHeaderSignature)
	buf = binary.LittleEndian.AppendUint16(buf, zipVersion) // version needed
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // general purpose flags
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // compression method: stored
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // mod time
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // mod date
	buf = binary.LittleEndian.AppendUint32(buf, crc)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(entry.data))) // compressed size
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(entry.data))) // uncompressed size
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entry.name)))
	buf = binary.LittleEndian.AppendUint16(buf, 0) // extra field length
	return append(buf, entry.name...)
}

func appendCentralDirHeader(buf []byte, entry archiveEntry, crc uint32, offset int) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, centralDirSignature)
	buf = binary.LittleEndian.AppendUint16(buf, zipVersion) // version made by
	buf = binary.LittleEndian.AppendUint16(buf, zipVersion) // version needed
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // general purpose flags
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // compression method: stored
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // mod time
	buf = binary.LittleEndian.AppendUint16(buf, 0)          // mod date
	buf = binary.LittleEndian.AppendUint32(buf, crc)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(entry.data))) // compressed size
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(entry.data))) // uncompressed size
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(entry.name)))
	buf = binary.LittleEndian.AppendUint16(buf, 0)              // extra field length
	buf = binary.LittleEndian.AppendUint16(buf, 0)              // comment length
	buf = binary.LittleEndian.AppendUint16(buf, 0)              // disk number start
	buf = binary.LittleEndian.AppendUint16(buf, 0)              // internal attributes
	buf = binary.LittleEndian.AppendUint32(buf, 0)              // external attributes
	buf = binary.LittleEndian.AppendUint32(buf, uint32(offset)) // local header offset
	return append(buf, entry.name...)
}

func appendEndOfCentralDir(buf []byte, entryCount, dirSize, dirOffset int) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, endOfCentralDirSignature)
	buf = binary.LittleEndian.AppendUint16(buf, 0) // disk number
	buf = binary.LittleEndian.AppendUint16(buf, 0) // central directory disk
	buf = binary.LittleEndian.AppendUint16(buf, uint16(entryCount)) // entries on this disk
	buf = binary.LittleEndian.AppendUint16(buf, uint16(entryCount)) // entries total
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dirSize))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(dirOffset))
	return binary.LittleEndian.AppendUint16(buf, 0) // comment length
}
