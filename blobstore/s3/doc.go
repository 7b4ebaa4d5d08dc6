// Package s3 provides an Amazon S3 implementation of the blobstore.BlobStore
// interface.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := s3.NewFromConfig(cfg)
//	store := s3blob.NewStore(client, "my-bucket", "recovery/")
//
// # Features
//
//   - Multipart uploads through the S3 upload manager for streaming writes
//   - CRC32C integrity checks on Put
//   - Automatic pagination for listing
//   - Configurable prefix for sharing a bucket
package s3
