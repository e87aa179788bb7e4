// Package persistence reads and writes dataset record files.
//
// A record file is
//
//	magic "MMPR" | version u8 | compression u8 | codec-name-len u8 | codec-name
//	| blocks... | crc32 u32
//
// Each block is [uncompressed-size u32][compressed-size u32][bytes], little
// endian. A compressed size of 0 marks a block stored as-is. The trailing
// CRC32 (IEEE) covers the blocks exactly as written.
package persistence
