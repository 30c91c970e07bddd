package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/blobstore/minio"
	"github.com/hupe1980/bagtensor/blobstore/s3"
	"github.com/hupe1980/bagtensor/internal/config"
)

// location is a parsed output location.
type location struct {
	scheme string
	bucket string
	prefix string
	path   string
}

func parseLocation(out string) (location, error) {
	if !strings.Contains(out, "://") {
		return location{scheme: "file", path: out}, nil
	}

	u, err := url.Parse(out)
	if err != nil {
		return location{}, fmt.Errorf("output %q: %w", out, err)
	}
	switch u.Scheme {
	case "file":
		return location{scheme: "file", path: u.Path}, nil
	case "s3", "minio":
		if u.Host == "" {
			return location{}, fmt.Errorf("output %q: missing bucket", out)
		}
		return location{scheme: u.Scheme, bucket: u.Host, prefix: strings.Trim(u.Path, "/")}, nil
	default:
		return location{}, fmt.Errorf("output %q: unsupported scheme %q", out, u.Scheme)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (blobstore.BlobStore, error) {
	loc, err := parseLocation(cfg.Output)
	if err != nil {
		return nil, err
	}

	switch loc.scheme {
	case "s3":
		client, err := s3.NewClient(ctx, s3.ClientConfig{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s3.NewStore(client, loc.bucket, loc.prefix), nil
	case "minio":
		if cfg.MinIO.Endpoint == "" {
			return nil, fmt.Errorf("output %s: minio.endpoint is not configured", cfg.Output)
		}
		return minio.Dial(ctx, minio.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Region:    cfg.MinIO.Region,
			Secure:    cfg.MinIO.Secure,
			Bucket:    loc.bucket,
			Prefix:    loc.prefix,
		})
	default:
		return blobstore.NewLocalStore(loc.path), nil
	}
}
