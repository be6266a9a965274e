// Package source resolves extract command inputs: local paths, HTTP URLs,
// and s3:// object references.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Options configures remote fetches.
type Options struct {
	// S3Endpoint overrides the S3 endpoint. Empty means AWS S3.
	S3Endpoint string

	// S3Insecure disables TLS for the S3 endpoint.
	S3Insecure bool

	// HTTPTimeout caps URL downloads. Zero means one minute.
	HTTPTimeout time.Duration
}

// Fetch reads the document named by ref: an s3://bucket/key object, an
// http(s) URL, or a local file path. The returned name is the reference's
// last path element.
func Fetch(ctx context.Context, ref string, opts Options) (content []byte, name string, err error) {
	switch {
	case strings.HasPrefix(ref, "s3://"):
		return fetchS3(ctx, ref, opts)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return fetchURL(ctx, ref, opts)
	default:
		return fetchFile(ref)
	}
}

func fetchFile(p string) ([]byte, string, error) {
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", p, err)
	}
	return content, filepath.Base(p), nil
}

func fetchURL(ctx context.Context, rawURL string, opts Options) ([]byte, string, error) {
	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for %s: %w", rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetching %s: unexpected status %s", rawURL, resp.Status)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading body of %s: %w", rawURL, err)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parsing %s: %w", rawURL, err)
	}
	return content, nameFromPath(u.Path), nil
}

func fetchS3(ctx context.Context, ref string, opts Options) ([]byte, string, error) {
	bucket, key, err := parseS3Ref(ref)
	if err != nil {
		return nil, "", err
	}

	client, err := newS3Client(opts)
	if err != nil {
		return nil, "", fmt.Errorf("creating S3 client: %w", err)
	}

	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("getting object %s from bucket %s: %w", key, bucket, err)
	}
	defer obj.Close()

	content, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", fmt.Errorf("downloading object %s from bucket %s: %w", key, bucket, err)
	}
	return content, nameFromPath(key), nil
}

// parseS3Ref splits s3://bucket/key into bucket and key.
func parseS3Ref(ref string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(ref, "s3://")
	bucket, key, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("malformed S3 reference %q, want s3://bucket/key", ref)
	}
	return bucket, key, nil
}

// newS3Client builds a minio client with credentials from the environment
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN).
func newS3Client(opts Options) (*minio.Client, error) {
	endpoint := opts.S3Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewEnvAWS(),
		Secure: !opts.S3Insecure,
	})
}

func nameFromPath(p string) string {
	name := path.Base(p)
	if name == "." || name == "/" || name == "" {
		return "document.pdf"
	}
	return name
}
