// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// # Features
//
//   - Multipart uploads for large records
//   - CRC32C integrity checks on upload
//   - Range reads
//   - Automatic pagination for listing
package s3
