package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/mmprep/blobstore"
	"github.com/hupe1980/mmprep/blobstore/minio"
	"github.com/hupe1980/mmprep/blobstore/s3"
)

var errBadLocation = errors.New("invalid location")

// location is a parsed output directory: a local path, an S3 prefix or a
// MinIO prefix.
type location struct {
	scheme   string
	endpoint string
	bucket   string
	// prefix is the local directory for local locations.
	prefix   string
}

// parseLocation parses a local path, s3://bucket/prefix or
// minio://endpoint/bucket/prefix.
func parseLocation(raw string) (location, error) {
	switch {
	case strings.HasPrefix(raw, "s3://"):
		u, err := url.Parse(raw)
		if err != nil {
			return location{}, fmt.Errorf("%w: %w", errBadLocation, err)
		}
		if u.Host == "" {
			return location{}, fmt.Errorf("%w: %q has no bucket", errBadLocation, raw)
		}
		return location{scheme: "s3", bucket: u.Host, prefix: strings.Trim(u.Path, "/")}, nil

	case strings.HasPrefix(raw, "minio://"):
		u, err := url.Parse(raw)
		if err != nil {
			return location{}, fmt.Errorf("%w: %w", errBadLocation, err)
		}
		bucket, prefix, _ := strings.Cut(strings.Trim(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return location{}, fmt.Errorf("%w: %q needs an endpoint and a bucket", errBadLocation, raw)
		}
		return location{scheme: "minio", endpoint: u.Host, bucket: bucket, prefix: prefix}, nil

	case strings.Contains(raw, "://"):
		return location{}, fmt.Errorf("%w: unsupported scheme in %q", errBadLocation, raw)

	case raw == "":
		return location{}, fmt.Errorf("%w: empty path", errBadLocation)
	}
	return location{prefix: raw}, nil
}

// splitRecord parses the location of a record file into its directory and
// record name.
func splitRecord(raw string) (location, string, error) {
	loc, err := parseLocation(raw)
	if err != nil {
		return location{}, "", err
	}

	if loc.scheme == "" {
		return location{prefix: filepath.Dir(loc.prefix)}, filepath.Base(loc.prefix), nil
	}
	if loc.prefix == "" {
		return location{}, "", fmt.Errorf("%w: %q names no record", errBadLocation, raw)
	}

	name := path.Base(loc.prefix)
	loc.prefix = path.Dir(loc.prefix)
	if loc.prefix == "." {
		loc.prefix = ""
	}
	return loc, name, nil
}

func (l location) String() string {
	switch l.scheme {
	case "s3":
		return "s3://" + path.Join(l.bucket, l.prefix)
	case "minio":
		return "minio://" + path.Join(l.endpoint, l.bucket, l.prefix)
	}
	return l.prefix
}

// openStore connects the blob store behind l. getenv supplies the MinIO
// credentials.
func openStore(ctx context.Context, l location, getenv func(string) string) (blobstore.BlobStore, error) {
	switch l.scheme {
	case "s3":
		store, err := s3.New(ctx, l.bucket, s3.WithPrefix(l.prefix))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		store, err := minio.New(l.endpoint, l.bucket, l.prefix,
			minio.WithCredentials(getenv("MINIO_ACCESS_KEY"), getenv("MINIO_SECRET_KEY")),
			minio.WithSecure(getenv("MINIO_INSECURE") != "1"),
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return blobstore.NewLocalStore(l.prefix), nil
}
