// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/MKhiriev/go-account-keeper/internal/config"
	"github.com/MKhiriev/go-account-keeper/internal/logger"
)

// deleteBatchSize is the S3 DeleteObjects limit.
const deleteBatchSize = 1000

// s3API is the subset of *s3.Client used by the home directory storage.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3HomeStorage keeps home directories as key prefixes in an S3 bucket.
// A directory is represented by a zero-byte marker object "<prefix>/".
type s3HomeStorage struct {
	client s3API
	bucket string
	root   string
	logger *logger.Logger
}

// NewS3Client builds an S3 client from the identity store settings. A
// custom endpoint (e.g. MinIO) and static credentials are optional.
func NewS3Client(ctx context.Context, cfg config.S3) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// NewS3HomeStorage returns a [HomeDirectoryStorage] over bucket with every
// directory placed below the root prefix.
func NewS3HomeStorage(client s3API, bucket, root string, logger *logger.Logger) HomeDirectoryStorage {
	logger.Debug().Str("bucket", bucket).Str("root", root).Msg("creating s3 home directory storage")
	return &s3HomeStorage{
		client: client,
		bucket: bucket,
		root:   strings.Trim(root, "/"),
		logger: logger,
	}
}

func (s *s3HomeStorage) Create(ctx context.Context, dir string, subdirs ...string) error {
	prefix, err := s.prefix(dir)
	if err != nil {
		return err
	}

	if dir != "" {
		exists, err := s.Exists(ctx, dir)
		if err != nil {
			return err
		}
		if exists {
			return ErrHomeDirectoryExists
		}
	}

	markers := []string{prefix}
	for _, sub := range subdirs {
		clean := path.Clean("/" + sub)[1:]
		if clean == "" || clean != strings.Trim(sub, "/") {
			return fmt.Errorf("%w: %q", ErrInvalidHomeDirectory, sub)
		}
		markers = append(markers, prefix+clean+"/")
	}

	for _, key := range markers {
		if key == "" {
			continue
		}
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(nil),
		})
		if err != nil {
			logger.FromContext(ctx).Err(err).Str("func", "*s3HomeStorage.Create").Str("key", key).Msg("error creating directory marker")
			return fmt.Errorf("error creating home directory: %w", err)
		}
	}

	return nil
}

func (s *s3HomeStorage) Exists(ctx context.Context, dir string) (bool, error) {
	prefix, err := s.prefix(dir)
	if err != nil {
		return false, err
	}

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("error listing home directory: %w", err)
	}

	return len(out.Contents) > 0, nil
}

// Migrate copies every object under from to the same relative key under to,
// then deletes the source objects. A failed copy deletes the objects already
// copied and leaves the source untouched. Once every object is copied the
// migration counts as done: a failed source deletion is only logged.
func (s *s3HomeStorage) Migrate(ctx context.Context, from, to string) error {
	log := logger.FromContext(ctx)

	if from == "" || to == "" {
		return fmt.Errorf("%w: cannot migrate the identity root", ErrInvalidHomeDirectory)
	}
	src, err := s.prefix(from)
	if err != nil {
		return err
	}
	dst, err := s.prefix(to)
	if err != nil {
		return err
	}

	exists, err := s.Exists(ctx, to)
	if err != nil {
		return err
	}
	if exists {
		return ErrHomeDirectoryExists
	}

	keys, err := s.listKeys(ctx, src)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		log.Warn().Str("func", "*s3HomeStorage.Migrate").Str("from", from).Msg("source home directory missing, created empty destination")
		return s.Create(ctx, to)
	}

	copied := make([]string, 0, len(keys))
	for _, key := range keys {
		target := dst + strings.TrimPrefix(key, src)
		_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
			Bucket:     aws.String(s.bucket),
			CopySource: aws.String(copySource(s.bucket, key)),
			Key:        aws.String(target),
		})
		if err != nil {
			log.Err(err).Str("func", "*s3HomeStorage.Migrate").Str("key", key).Msg("home directory copy failed, removing partial destination")
			if rmErr := s.deleteKeys(ctx, copied); rmErr != nil {
				log.Err(rmErr).Str("func", "*s3HomeStorage.Migrate").Str("to", to).Msg("error removing partial destination")
				return errors.Join(fmt.Errorf("error copying home directory: %w", err), fmt.Errorf("error removing partial destination: %w", rmErr))
			}
			return fmt.Errorf("error copying home directory: %w", err)
		}
		copied = append(copied, target)
	}

	if err := s.deleteKeys(ctx, keys); err != nil {
		log.Err(err).Str("func", "*s3HomeStorage.Migrate").Str("from", from).Msg("home directory migrated, old objects left behind")
	}

	return nil
}

func (s *s3HomeStorage) Delete(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: cannot delete the identity root", ErrInvalidHomeDirectory)
	}
	prefix, err := s.prefix(dir)
	if err != nil {
		return err
	}

	keys, err := s.listKeys(ctx, prefix)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return ErrHomeDirectoryNotFound
	}

	if err := s.deleteKeys(ctx, keys); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*s3HomeStorage.Delete").Msg("error removing home directory")
		return fmt.Errorf("error removing home directory: %w", err)
	}

	return nil
}

// prefix maps a relative directory to its key prefix, always ending in "/"
// unless it is the bucket root.
func (s *s3HomeStorage) prefix(dir string) (string, error) {
	if dir != "" && path.Clean("/" + dir)[1:] != dir {
		return "", fmt.Errorf("%w: %q", ErrInvalidHomeDirectory, dir)
	}

	p := path.Join(s.root, dir)
	if p == "" || p == "." {
		return "", nil
	}

	return p + "/", nil
}

func (s *s3HomeStorage) listKeys(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	keys := make([]string, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing home directory: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}

	return keys, nil
}

func (s *s3HomeStorage) deleteKeys(ctx context.Context, keys []string) error {
	for start := 0; start < len(keys); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(keys))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return err
		}
		if len(out.Errors) > 0 {
			return fmt.Errorf("%d objects not deleted, first: %s", len(out.Errors), aws.ToString(out.Errors[0].Key))
		}
	}

	return nil
}

func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return bucket + "/" + strings.Join(segments, "/")
}
