// Package upload_sync mirrors the local uploads directory to S3 so design
// files survive server reinstalls and the print shop can pull them from
// any machine.
package upload_sync

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// UploadSyncer pushes local files to an S3 bucket, skipping objects that
// already exist with the same size.
type UploadSyncer struct {
	s3Client *s3.Client
	bucket   string
	prefix   string
	logger   *zap.Logger
}

// NewUploadSyncer creates a syncer writing under the given key prefix.
func NewUploadSyncer(s3Client *s3.Client, bucket, prefix string, logger *zap.Logger) *UploadSyncer {
	return &UploadSyncer{
		s3Client: s3Client,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		logger:   logger,
	}
}

// Run syncs every regular file under dir. Returns the number uploaded.
func (s *UploadSyncer) Run(ctx context.Context, dir string) (int, error) {
	existing, err := s.listExisting(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing bucket: %w", err)
	}

	uploaded := 0
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := s.key(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if size, ok := existing[key]; ok && size == info.Size() {
			return nil
		}

		if err := s.putFile(ctx, path, key); err != nil {
			return fmt.Errorf("uploading %s: %w", rel, err)
		}
		s.logger.Info("uploaded", zap.String("key", key), zap.Int64("bytes", info.Size()))
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	s.logger.Info("upload sync finished", zap.Int("uploaded", uploaded), zap.Int("existing", len(existing)))
	return uploaded, nil
}

// listExisting maps object key to size for the sync prefix.
func (s *UploadSyncer) listExisting(ctx context.Context) (map[string]int64, error) {
	existing := make(map[string]int64)
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	}

	paginator := s3.NewListObjectsV2Paginator(s.s3Client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, object := range page.Contents {
			if object.Key == nil {
				continue
			}
			var size int64
			if object.Size != nil {
				size = *object.Size
			}
			existing[*object.Key] = size
		}
	}
	return existing, nil
}

func (s *UploadSyncer) putFile(ctx context.Context, path, key string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *UploadSyncer) key(rel string) string {
	return s.prefix + "/" + filepath.ToSlash(rel)
}
