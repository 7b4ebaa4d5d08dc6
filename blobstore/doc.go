// Package blobstore provides the storage abstraction for input files,
// checkpoints and result files.
//
// BlobStore reads and writes named blobs. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic Put and append-mode writes
//   - MemoryStore: in-memory store for tests
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// Use the resolve package to turn a location such as "s3://bucket/key" into
// a store and a blob name.
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for writing
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
