// Package storage provides read access to S3-compatible object storage.
//
// It is used as an ingestion source: an operator uploads one prefix per
// batch, with one sub-prefix per customer, and the dispatcher reads the
// invoice files from there instead of a local directory.
//
// # Basic Usage
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "invoices",
//		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
//		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
//		Endpoint:  "http://localhost:9000", // MinIO
//		PathStyle: true,
//	})
//	if err != nil {
//		return err
//	}
//
//	objects, err := store.List(ctx, "2024-05/")
//	rc, err := store.Get(ctx, objects[0].Key)
//	defer rc.Close()
//
// # Errors
//
// S3 errors are normalized to sentinel errors so callers can use errors.Is:
//
//   - ErrInvalidConfig: missing bucket or credentials
//   - ErrNotFound: key does not exist
//   - ErrAccessDenied: credentials lack permission
//   - ErrListFailed: listing failed for another reason
package storage
