// Package storage persists uploaded room images for the detector and
// generation providers to read.
package storage

import "context"

// StoredFile identifies a persisted upload. Ref is the stable reference
// handed to collaborators (a filesystem path or an s3:// URI).
type StoredFile struct {
	Name string
	Ref  string
}

type Store interface {
	SaveUpload(ctx context.Context, data []byte, filename string) (StoredFile, error)
}
