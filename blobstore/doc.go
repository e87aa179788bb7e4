// Package blobstore is where converted records are written and read back.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use, and a blob must become
// visible only once it is completely written.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic temp-file writes, mmap reads
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible storage
package blobstore
