// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface used for rendered item
// images. This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap.
//   - PutObject: uploads content (with size and options).
//   - StatObject / ObjectExists: presence checks used to skip re-rendering.
//   - ListObjects: lists objects under a prefix (integrity checks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	ok, err := storage.ObjectExists(ctx, client, "borgs", "live-default/42.png")
package storage
