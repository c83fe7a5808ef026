package s3

import (
	"bytes"
	"context"
	"errors"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records PutObject calls; all other S3API methods are left unimplemented.
type fakeS3 struct {
	s3iface.S3API
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeS3) PutObjectWithContext(ctx aws.Context, in *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.StringValue(in.Bucket)
	f.key = aws.StringValue(in.Key)
	b, err := ioutil.ReadAll(in.Body)
	f.body = b
	return &s3.PutObjectOutput{}, err
}

func TestUploaderUploadFile(t *testing.T) {
	local := filepath.Join(t.TempDir(), "orders.parquet")
	require.NoError(t, ioutil.WriteFile(local, []byte("PAR1"), 0644))
	api := &fakeS3{}
	b := AwsS3Bucket{Name: "lake", Prefix: "landing/", Region: "eu-west-2"}
	u := NewUploaderWithClient(b, NewBasicClientWithAPI(b.Name, b.Region, b.Prefix, api))
	remote, err := u.UploadFile(context.Background(), local, "/raw/oracle/", "orders.parquet")
	require.NoError(t, err)
	assert.Equal(t, "s3://lake/landing/raw/oracle/orders.parquet", remote)
	assert.Equal(t, "lake", api.bucket)
	assert.Equal(t, "landing/raw/oracle/orders.parquet", api.key)
	assert.Equal(t, []byte("PAR1"), api.body)
}

func TestUploaderUpload(t *testing.T) {
	api := &fakeS3{}
	b := AwsS3Bucket{Name: "lake", Region: "eu-west-2"}
	u := NewUploaderWithClient(b, NewBasicClientWithAPI(b.Name, b.Region, b.Prefix, api))
	remote, err := u.Upload(context.Background(), bytes.NewBufferString("x"), "", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "s3://lake/a.txt", remote)
	assert.Equal(t, "a.txt", api.key)

	u = NewUploaderWithClient(b, NewBasicClientWithAPI(b.Name, b.Region, b.Prefix, &fakeS3{err: errors.New("AccessDenied")}))
	_, err = u.Upload(context.Background(), bytes.NewBufferString("x"), "docs", "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://lake/docs/a.txt")
}

func TestParseDSN(t *testing.T) {
	b, err := ParseDSN("s3://lake/landing/zone", "eu-west-2")
	require.NoError(t, err)
	assert.Equal(t, AwsS3Bucket{Name: "lake", Prefix: "landing/zone", Region: "eu-west-2"}, b)

	b, err = ParseDSN("lake", "eu-west-2")
	require.NoError(t, err)
	assert.Equal(t, "lake", b.Name)
	assert.Equal(t, "", b.Prefix)

	_, err = ParseDSN("gs://lake/x", "eu-west-2")
	assert.Error(t, err)
	_, err = ParseDSN("s3://lake/x", "")
	assert.Error(t, err)
}
