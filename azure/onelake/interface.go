//go:generate mockgen -package mocks -destination mocks/interface.go -source=interface.go
package onelake

import (
	"context"
	"io"
)

// Uploader writes files into a lakehouse folder, replacing anything already there.
type Uploader interface {
	// UploadFile streams the file at localPath to destFolder/destFileName and returns the remote path.
	UploadFile(ctx context.Context, localPath string, destFolder string, destFileName string) (string, error)
	// Upload writes everything read from r to destFolder/destFileName and returns the remote path.
	Upload(ctx context.Context, r io.Reader, destFolder string, destFileName string) (string, error)
	// RemotePath returns the location destFolder/destFileName is written to.
	RemotePath(destFolder string, destFileName string) string
}
