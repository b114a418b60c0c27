package trigger

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"autobk/internal/autobk"
	"autobk/internal/config"
)

// objectUploader is the part of manager.Uploader used by S3Trigger.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Trigger uploads backup requests to a bucket polled by the backup executor.
// Objects are laid out as:
//
//	<bucket>/<prefix>/<device id>/<request id>.json
type S3Trigger struct {
	uploader objectUploader
	bucket   string
	prefix   string
	requestBuilder
}

// NewS3Trigger builds an S3 client from the trigger config. Credentials come
// from s3_access_key/s3_secret_key when set, otherwise from the default AWS chain.
func NewS3Trigger(ctx context.Context, cfg config.TriggerConfig, clock autobk.Clock, idgen autobk.RequestIDGenerator) (*S3Trigger, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Trigger(manager.NewUploader(client), cfg.S3Bucket, cfg.S3Prefix, clock, idgen), nil
}

func newS3Trigger(uploader objectUploader, bucket, prefix string, clock autobk.Clock, idgen autobk.RequestIDGenerator) *S3Trigger {
	return &S3Trigger{
		uploader:       uploader,
		bucket:         bucket,
		prefix:         prefix,
		requestBuilder: newRequestBuilder(clock, idgen),
	}
}

// objectKey returns the key a request is stored under.
func (s *S3Trigger) objectKey(req *BackupRequest) string {
	return path.Join(s.prefix, strconv.FormatInt(req.DeviceID, 10), req.ID+".json")
}

func (s *S3Trigger) TriggerBackup(ctx context.Context, device *autobk.Device) (*autobk.BackupHandle, error) {
	req := s.build(device)
	data, err := req.encode()
	if err != nil {
		return nil, triggerError("uploading request", err)
	}

	key := s.objectKey(req)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, triggerError("uploading request", err)
	}

	return req.handle("s3", "s3://"+s.bucket+"/"+key), nil
}

var _ autobk.BackupTrigger = (*S3Trigger)(nil)
