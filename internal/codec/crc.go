package codec

import "hash/crc32"

// crcTable is the standard zlib/PNG polynomial (§4.2), identical to the
// IEEE table the Go standard library already exposes — no pack repo
// carries a distinct third-party CRC32 implementation, so stdlib is used
// here deliberately (see DESIGN.md).
var crcTable = crc32.IEEETable

// ComputeCRC32 checksums data with the zlib/IEEE polynomial.
func ComputeCRC32(data []byte) uint32 {
	return crc32.Checksum(data, crcTable)
}
