package filestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 is an in-memory bucket honoring If-None-Match: *.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr    error
	headErr   error
	deleteErr error
	gotBody   io.Reader
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotBody = in.Body
	if f.putErr != nil {
		return nil, f.putErr
	}
	if _, ok := f.objects[*in.Key]; ok && aws.ToString(in.IfNoneMatch) == "*" {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "At least one of the pre-conditions you specified did not hold"}
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Key] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	fake := newFakeS3()
	s := NewS3StoreWithClient(fake, "uploads")
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k_1.png", strings.NewReader("png-bytes")))

	ok, err := s.Exists(ctx, "k_1.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "k_1.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "png-bytes", string(b))

	require.NoError(t, s.Delete(ctx, "k_1.png"))
	ok, err = s.Exists(ctx, "k_1.png")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestS3Store_PutBuffersNonSeekable(t *testing.T) {
	fake := newFakeS3()
	s := NewS3StoreWithClient(fake, "uploads")

	require.NoError(t, s.Put(context.Background(), "k.pdf", io.MultiReader(strings.NewReader("a"), strings.NewReader("b"))))
	_, seekable := fake.gotBody.(io.ReadSeeker)
	assert.True(t, seekable)
	assert.Equal(t, []byte("ab"), fake.objects["k.pdf"])
}

func TestS3Store_PutExisting(t *testing.T) {
	fake := newFakeS3()
	fake.objects["k.pdf"] = []byte("old")
	s := NewS3StoreWithClient(fake, "uploads")

	err := s.Put(context.Background(), "k.pdf", strings.NewReader("new"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, []byte("old"), fake.objects["k.pdf"])
}

func TestS3Store_PutFailure(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("connection reset")
	s := NewS3StoreWithClient(fake, "uploads")

	err := s.Put(context.Background(), "k.pdf", strings.NewReader("x"))
	var se *common.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "put", se.Op)
}

func TestS3Store_Missing(t *testing.T) {
	s := NewS3StoreWithClient(newFakeS3(), "uploads")
	ctx := context.Background()

	_, err := s.Get(ctx, "nope.pdf")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = s.Delete(ctx, "nope.pdf")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestS3Store_HeadFailureIsStoreError(t *testing.T) {
	fake := newFakeS3()
	fake.headErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	s := NewS3StoreWithClient(fake, "uploads")

	_, err := s.Exists(context.Background(), "k.pdf")
	var se *common.StoreError
	require.ErrorAs(t, err, &se)

	err = s.Delete(context.Background(), "k.pdf")
	require.ErrorAs(t, err, &se)
}

func TestS3Store_DeleteFailure(t *testing.T) {
	fake := newFakeS3()
	fake.objects["k.pdf"] = []byte("x")
	fake.deleteErr = errors.New("timeout")
	s := NewS3StoreWithClient(fake, "uploads")

	err := s.Delete(context.Background(), "k.pdf")
	var se *common.StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "delete", se.Op)
}

func TestNewS3Store_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	fake := newFakeS3()
	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) S3API {
		for _, fn := range optFns {
			fn(&opts)
		}
		return fake
	}

	s, err := NewS3Store(context.Background(), S3Config{
		Region:       "us-east-1",
		AccessKey:    "minio",
		SecretKey:    "minio123",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "uploads",
	})
	require.NoError(t, err)
	assert.Equal(t, "uploads", s.bucket)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestNewS3Store_LoadError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), S3Config{Region: "r"})
	assert.EqualError(t, err, "no config")
}
