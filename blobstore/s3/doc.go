// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	client, err := s3.NewClient(ctx, s3.ClientConfig{Region: "eu-west-1"})
//	store := s3.NewStore(client, "my-bucket", "runs/2024-05", s3.WithPartSize(16<<20))
//
// # Features
//
//   - Range reads for verification of written shards
//   - Streaming multipart uploads for large shards
//   - CRC32C integrity checksums on upload
//   - Automatic pagination for listing
package s3
