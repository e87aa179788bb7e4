// Package mmprep converts raw multi-modal image datasets into aligned
// training records.
//
// A conversion reads the annotation files of one dataset (COCO, MIRFlickr-25K
// or NUS-WIDE), joins the per-image sources on their image key, encodes the
// categories of every image as a binary multi-label vector, and writes one
// record holding three parallel sequences: image paths, caption lists and
// label vectors. Position i of each sequence describes the same image and
// positions are ordered by ascending image key.
//
// # Quick Start
//
//	ctx := context.Background()
//	src, _ := mmprep.NewSource("coco", mmprep.DefaultSourceConfig())
//	conv := mmprep.NewConverter(mmprep.WithLogger(mmprep.NewTextLogger(slog.LevelInfo)))
//	d, _ := conv.Run(ctx, src, "/data/coco", blobstore.NewLocalStore("./out"))
//	fmt.Println(d.Len())
//
// # Records
//
// Records are written through a blobstore.BlobStore (local directory, S3 or
// MinIO) and are never left half-written. The payload is encoded by a
// codec.Codec and optionally block-compressed:
//
//	conv := mmprep.NewConverter(
//	    mmprep.WithCodec(codec.GoJSON{}),
//	    mmprep.WithCompression(persistence.CompressionZSTD),
//	)
//
// A record is read back with Converter.Load; dataset.Equal compares two
// datasets by content.
//
// # Observability
//
// Loader events (files read, joins, missing images, filtered keys) are
// forwarded to the configured Logger and MetricsCollector:
//
//	metrics := &mmprep.BasicMetricsCollector{}
//	conv := mmprep.NewConverter(mmprep.WithMetricsCollector(metrics))
//	// ... run conversions ...
//	fmt.Println(metrics.GetStats().JoinDropped)
package mmprep
