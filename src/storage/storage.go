package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.shiro.blog/shiro/shiro/src/config"
	"git.shiro.blog/shiro/shiro/src/oops"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// How long a signed upload URL stays valid. Long enough for a slow connection
// to push a 10 MiB image, short enough not to be worth stealing.
const uploadURLLifetime = 15 * time.Minute

// Client talks to the S3-compatible object store that holds uploaded images.
// The zero value is not usable; call NewClient.
type Client struct {
	s3            *s3.Client
	presign       *s3.PresignClient
	bucket        string
	publicBaseUrl string
}

func NewClient() *Client {
	return NewClientWithConfig(config.Config.Storage)
}

func NewClientWithConfig(storageCfg config.StorageConfig) *Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				storageCfg.AccessKey,
				storageCfg.SecretKey,
				"",
			),
		),
		awsconfig.WithRegion(storageCfg.Region),
	)
	if err != nil {
		panic(oops.New(err, "failed to load object storage config"))
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if storageCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(storageCfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &Client{
		s3:            client,
		presign:       s3.NewPresignClient(client),
		bucket:        storageCfg.Bucket,
		publicBaseUrl: strings.TrimSuffix(storageCfg.PublicBaseUrl, "/"),
	}
}

type SignedUpload struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// SignUpload returns a time-limited URL that lets the browser PUT the image
// bytes straight into the bucket, without routing them through us.
func (c *Client) SignUpload(ctx context.Context, key string, contentType string) (SignedUpload, error) {
	req, err := c.presign.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:      &c.bucket,
			Key:         &key,
			ContentType: &contentType,
		},
		s3.WithPresignExpires(uploadURLLifetime),
	)
	if err != nil {
		return SignedUpload{}, oops.New(err, "failed to presign upload")
	}

	return SignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		ExpiresAt: time.Now().Add(uploadURLLifetime),
	}, nil
}

// DeleteObject removes an object from the bucket. An object that is already
// gone counts as success.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &c.bucket,
		Key:    &key,
	})
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) {
			switch apiError.ErrorCode() {
			case "NoSuchKey", "NotFound":
				return nil
			}
		}
		return oops.New(err, "failed to delete object %s", key)
	}
	return nil
}

func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", c.publicBaseUrl, key)
}
