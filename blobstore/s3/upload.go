package s3

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/bagtensor/internal/hash"
)

var errAborted = errors.New("s3: upload aborted")

// upload streams shard bytes into a multipart upload running in the
// background. Nothing becomes visible until Close succeeds.
type upload struct {
	pw   *io.PipeWriter
	done chan error
	once sync.Once
	err  error
}

func startUpload(ctx context.Context, u *manager.Uploader, bucket, key string) *upload {
	pr, pw := io.Pipe()
	up := &upload{pw: pw, done: make(chan error, 1)}

	go func() {
		_, err := u.Upload(ctx, &s3.PutObjectInput{
			Bucket:            aws.String(bucket),
			Key:               aws.String(key),
			Body:              pr,
			ChecksumAlgorithm: types.ChecksumAlgorithmCrc32c,
		})
		_ = pr.CloseWithError(err)
		up.done <- err
	}()
	return up
}

func (u *upload) Write(p []byte) (int, error) {
	return u.pw.Write(p)
}

// Close completes the upload and returns its result. Later calls return the
// same result.
func (u *upload) Close() error {
	return u.finish(nil)
}

// Abort fails the stream so that the uploader drops the upload and any parts
// already sent.
func (u *upload) Abort() error {
	_ = u.finish(errAborted)
	return nil
}

func (u *upload) finish(cause error) error {
	u.once.Do(func() {
		if cause != nil {
			_ = u.pw.CloseWithError(cause)
			<-u.done
			u.err = cause
			return
		}
		_ = u.pw.Close()
		u.err = <-u.done
	})
	return u.err
}

func (u *upload) Sync() error { return nil }

// checksumCRC32C returns the checksum in the base64 big-endian form S3 expects.
func checksumCRC32C(data []byte) string {
	b := binary.BigEndian.AppendUint32(nil, hash.CRC32C(data))
	return base64.StdEncoding.EncodeToString(b)
}

func putWithChecksum(ctx context.Context, client Client, bucket, key string, data []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:         aws.String(bucket),
		Key:            aws.String(key),
		Body:           bytes.NewReader(data),
		ContentLength:  aws.Int64(int64(len(data))),
		ChecksumCRC32C: aws.String(checksumCRC32C(data)),
	})
	return err
}
