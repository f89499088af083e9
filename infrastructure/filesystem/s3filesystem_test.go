package filesystem

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.objects[*in.Key]))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for key := range f.objects {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(key)})
	}
	return out, nil
}

func TestBucketRoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{"other/a.txt": []byte("x")}}
	bucket := NewBucket(fake, "alumni-exports")
	ctx := context.Background()

	require.NoError(t, bucket.WriteFile(ctx, "exports/raffle/2.xlsx", "application/octet-stream", bytes.NewReader([]byte("two"))))
	require.NoError(t, bucket.WriteFile(ctx, "exports/raffle/1.xlsx", "application/octet-stream", bytes.NewReader([]byte("one"))))

	keys, err := bucket.ListFiles(ctx, "exports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/raffle/1.xlsx", "exports/raffle/2.xlsx"}, keys)

	var buf bytes.Buffer
	require.NoError(t, bucket.ReadFile(ctx, "exports/raffle/2.xlsx", &buf))
	assert.Equal(t, "two", buf.String())
}
