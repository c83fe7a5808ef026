package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// Uploader writes lakehouse files to an S3 bucket instead of OneLake.
// Keys are {prefix}/{destFolder}/{destFileName}; S3 puts replace existing objects.
type Uploader struct {
	bucket AwsS3Bucket
	client BufferPutter
}

// NewUploader creates an Uploader using the default AWS credential chain.
func NewUploader(b AwsS3Bucket) (*Uploader, error) {
	c, err := NewBasicClient(b.Name, b.Region, b.Prefix)
	if err != nil {
		return nil, errors.Wrap(err, "error creating AWS session")
	}
	return NewUploaderWithClient(b, c), nil
}

// NewUploaderWithClient creates an Uploader around an existing client, which must apply b.Prefix itself.
func NewUploaderWithClient(b AwsS3Bucket, c BufferPutter) *Uploader {
	return &Uploader{bucket: b, client: c}
}

func (u *Uploader) RemotePath(destFolder string, destFileName string) string {
	return fmt.Sprintf("s3://%v/%v", u.bucket.Name, joinKey(u.bucket.Prefix, destFolder, destFileName))
}

func (u *Uploader) UploadFile(ctx context.Context, localPath string, destFolder string, destFileName string) (string, error) {
	remote := u.RemotePath(destFolder, destFileName)
	f, err := os.Open(localPath)
	if err != nil {
		return remote, errors.Wrapf(err, "error opening %q for upload", localPath)
	}
	defer func() {
		_ = f.Close()
	}()
	if err := u.client.BufferPut(ctx, joinKey(destFolder, destFileName), f); err != nil {
		return remote, errors.Wrapf(err, "upload to %v failed", remote)
	}
	return remote, nil
}

// Upload buffers r in memory since S3 puts need a seekable body.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, destFolder string, destFileName string) (string, error) {
	remote := u.RemotePath(destFolder, destFileName)
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return remote, errors.Wrap(err, "error reading upload content")
	}
	if err := u.client.BufferPut(ctx, joinKey(destFolder, destFileName), bytes.NewReader(data)); err != nil {
		return remote, errors.Wrapf(err, "upload to %v failed", remote)
	}
	return remote, nil
}
