package rawarchive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
)

// ObjectArchive stores unusable provider replies in an S3-compatible bucket
// (R2, MinIO) for offline inspection.
type ObjectArchive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
	now    func() time.Time

	bucketMu    sync.Mutex
	bucketReady bool
}

// NewObjectArchive constructs the archive adapter.
func NewObjectArchive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*ObjectArchive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	useSSL := !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://")
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &ObjectArchive{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "rawarchive.object"),
		now:    time.Now,
	}, nil
}

// ensureBucket checks the bucket until one attempt succeeds, so a transient
// outage at first use does not disable archiving for the process lifetime.
func (a *ObjectArchive) ensureBucket(ctx context.Context) error {
	a.bucketMu.Lock()
	defer a.bucketMu.Unlock()
	if a.bucketReady {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil || !exists {
		err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
		if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
			return fmt.Errorf("ensure bucket %s: %w", a.bucket, err)
		}
	}
	a.bucketReady = true
	return nil
}

// Save uploads text under failures/<date>/<fingerprint>-<status>.txt.
func (a *ObjectArchive) Save(ctx context.Context, fp flowgen.Fingerprint, status flowgen.UsageStatus, text string) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	key := objectKey(a.now(), fp, status)
	_, err := a.client.PutObject(ctx, a.bucket, key, strings.NewReader(text), int64(len(text)), minio.PutObjectOptions{
		ContentType:      "text/plain; charset=utf-8",
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	a.logger.Debug("archived provider reply", "key", key, "bytes", len(text))
	return nil
}

var _ flowgen.RawArchive = (*ObjectArchive)(nil)

func objectKey(at time.Time, fp flowgen.Fingerprint, status flowgen.UsageStatus) string {
	return fmt.Sprintf("failures/%s/%s-%s.txt", at.UTC().Format("2006-01-02"), fp, status)
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	host, _, _ := strings.Cut(raw, "/")
	return host
}
