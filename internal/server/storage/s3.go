// Package storage issues presigned object-storage URLs for profile photo
// uploads.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/dsalog/internal/server/config"
	"github.com/dmitrijs2005/dsalog/internal/server/models"
)

// UploadURLTTL is how long a presigned upload URL stays valid.
const UploadURLTTL = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// Presigner hands out upload slots for profile photos and resolves uploaded
// object keys to their public URL.
type Presigner interface {
	PresignPhotoUpload(ctx context.Context, userID string) (*models.PhotoUpload, error)
	PublicURL(key string) string
}

// PhotoKeyPrefix is the key prefix under which userID may upload photos.
func PhotoKeyPrefix(userID string) string {
	return "users/" + userID + "/photos/"
}

// S3Presigner presigns PUT requests against one bucket.
type S3Presigner struct {
	bucket   string
	region   string
	endpoint string
	client   *s3.PresignClient
	now      func() time.Time
}

// NewS3Presigner builds a presigner from the S3 settings in cfg. Static
// credentials are used when an access key is configured; otherwise the
// default AWS credential chain applies. A custom endpoint switches to
// path-style addressing for S3-compatible stores.
func NewS3Presigner(ctx context.Context, cfg *config.Config) (*S3Presigner, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(cfg.S3BaseEndpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Presigner{
		bucket:   cfg.S3Bucket,
		region:   cfg.S3Region,
		endpoint: endpoint,
		client:   s3.NewPresignClient(client),
		now:      time.Now,
	}, nil
}

// PresignPhotoUpload reserves a fresh key under the user's photo prefix and
// returns a PUT URL for it.
func (p *S3Presigner) PresignPhotoUpload(ctx context.Context, userID string) (*models.PhotoUpload, error) {
	d := p.now().UTC()
	key := fmt.Sprintf("%s%d/%02d/%02d/%s", PhotoKeyPrefix(userID), d.Year(), d.Month(), d.Day(), uuid.NewString())

	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(UploadURLTTL))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &models.PhotoUpload{Key: key, URL: req.URL, ExpiresAt: d.Add(UploadURLTTL)}, nil
}

// PublicURL returns the address an uploaded object is served from.
func (p *S3Presigner) PublicURL(key string) string {
	if p.endpoint != "" {
		return p.endpoint + "/" + p.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.bucket, p.region, key)
}
