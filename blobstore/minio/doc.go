// Package minio provides a BlobStore implementation using the MinIO client.
//
// It works with MinIO and other S3-compatible storage (Ceph, Garage,
// SeaweedFS) without the AWS SDK.
//
// # Basic Usage
//
//	store, err := minioblob.New("localhost:9000", "datasets", "mmprep/",
//	    minioblob.WithCredentials("minioadmin", "minioadmin"),
//	    minioblob.WithSecure(false),
//	)
package minio
