package objectclient

import (
	"context"
	"strings"

	"github.com/adaeze-codes/Studyquill/internal/core"
)

var _ core.SourceFetcher = (*Fetcher)(nil)

// Fetcher resolves document ids to their source bytes in object storage.
// Ids are either plain object keys in the default bucket or full
// virtual-hosted S3 URLs.
type Fetcher struct {
	client ObjectClient
	bucket string
}

func NewFetcher(client ObjectClient, bucket string) *Fetcher {
	return &Fetcher{client: client, bucket: bucket}
}

func (f *Fetcher) Fetch(ctx context.Context, documentID string) ([]byte, error) {
	bucket, key := f.bucket, documentID
	if strings.HasPrefix(documentID, "https://") {
		bucket, key = parseS3URL(documentID)
	}
	return f.client.GetFile(ctx, bucket, key)
}

// parseS3URL extracts the bucket and key from a typical virtual-hosted-style
// S3 URL. Example: https://my-bucket.s3.us-east-2.amazonaws.com/path/to/file.pdf
func parseS3URL(u string) (bucket, key string) {
	hostPath := strings.SplitN(strings.TrimPrefix(u, "https://"), "/", 2)
	host := hostPath[0]
	if len(hostPath) == 2 {
		key = hostPath[1]
	}
	parts := strings.Split(host, ".")
	if len(parts) > 0 {
		bucket = parts[0]
	}
	return bucket, key
}
