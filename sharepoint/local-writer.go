package sharepoint

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/relloyd/lakepipe/constants"
	"github.com/rs/xid"
)

// LocalWriter saves files under Dir. It is used when no lakehouse is configured.
type LocalWriter struct {
	Dir string
}

func (w LocalWriter) Upload(ctx context.Context, r io.Reader, destFolder string, destFileName string) (string, error) {
	dir := filepath.Join(w.Dir, filepath.FromSlash(destFolder))
	target := filepath.Join(dir, destFileName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return target, errors.Wrapf(err, "error creating directory %q", dir)
	}
	tmp := filepath.Join(dir, "."+destFileName+"."+xid.New().String()+constants.TempFileSuffix)
	f, err := os.Create(tmp)
	if err != nil {
		return target, errors.Wrapf(err, "error creating %q", tmp)
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return target, errors.Wrapf(err, "error writing %q", tmp)
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return target, errors.Wrapf(err, "error closing %q", tmp)
	}
	if err = os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return target, errors.Wrapf(err, "error renaming %q", tmp)
	}
	return target, nil
}
