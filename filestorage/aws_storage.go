package filestorage

import (
	"bytes"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const (
	defaultRegion = "us-west-2"
	acl           = "public-read"
)

// S3Client is a client for AWS S3 service
type S3Client struct {
	uploader *s3manager.Uploader
	service  *s3.S3
}

// NewAWSClient returns a client with implementation for S3. Credentials
// come from ACCESS_KEY_ID and SECRET_ACCESS_KEY, the region from
// AWS_REGION.
func NewAWSClient() (FileStorage, error) {
	accessKeyID := os.Getenv("ACCESS_KEY_ID")
	if accessKeyID == "" {
		return nil, fmt.Errorf("missing ACCESS_KEY_ID environment variable")
	}
	secretAccessKey := os.Getenv("SECRET_ACCESS_KEY")
	if secretAccessKey == "" {
		return nil, fmt.Errorf("missing SECRET_ACCESS_KEY environment variable")
	}
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = defaultRegion
	}
	config := aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewStaticCredentials(accessKeyID, secretAccessKey, ""),
	}
	sess, err := session.NewSession(&config)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session, error %v", err)
	}
	return &S3Client{
		uploader: s3manager.NewUploader(sess),
		service:  s3.New(sess),
	}, nil
}

// Upload sends b to the key fileName of bucket and returns its location.
func (awsClient *S3Client) Upload(b []byte, bucket, fileName string) (string, error) {
	up, err := awsClient.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		ACL:         aws.String(acl),
		Key:         aws.String(fileName),
		ContentType: aws.String(contentType(fileName)),
		Body:        bytes.NewReader(b),
	})
	if err != nil {
		return "", fmt.Errorf("failed to send file [%s] to bucket [%s], error %v", fileName, bucket, err)
	}
	return up.Location, nil
}

// FileExists checks if the key is on the bucket.
func (awsClient *S3Client) FileExists(bucket, fileName string) bool {
	_, err := awsClient.service.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(fileName),
	})
	return err == nil
}
