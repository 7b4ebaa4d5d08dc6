// Package resolve maps location strings to blob stores.
//
// Supported forms:
//
//	path/to/file            local file system
//	file:///abs/path        local file system
//	s3://bucket/key         Amazon S3, credentials from the default AWS chain
//	minio://host:port/bucket/key   MinIO over HTTP
//	minios://host:port/bucket/key  MinIO over HTTPS
//
// MinIO credentials come from MINIO_ROOT_USER/MINIO_ROOT_PASSWORD (or
// MINIO_ACCESS_KEY/MINIO_SECRET_KEY) and fall back to the AWS_* variables.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/bip39crack/blobstore"
	minioblob "github.com/hupe1980/bip39crack/blobstore/minio"
	s3blob "github.com/hupe1980/bip39crack/blobstore/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Scheme identifies a storage backend.
type Scheme string

const (
	SchemeLocal Scheme = "file"
	SchemeS3    Scheme = "s3"
	SchemeMinio Scheme = "minio"
)

// ErrInvalidLocation is returned for locations that cannot be parsed.
var ErrInvalidLocation = errors.New("invalid location")

// Location is a parsed location string.
type Location struct {
	Scheme Scheme
	// Host is the MinIO endpoint (host:port).
	Host string
	// Secure selects HTTPS for MinIO.
	Secure bool
	Bucket string
	// Key is the object key for remote stores or the file path for local ones.
	Key string
}

// String formats the location back into its string form.
func (l Location) String() string {
	switch l.Scheme {
	case SchemeS3:
		return "s3://" + l.Bucket + "/" + l.Key
	case SchemeMinio:
		scheme := "minio"
		if l.Secure {
			scheme = "minios"
		}
		return scheme + "://" + l.Host + "/" + l.Bucket + "/" + l.Key
	default:
		return l.Key
	}
}

// Parse parses a location string.
func Parse(location string) (Location, error) {
	if location == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}
	if !strings.Contains(location, "://") {
		return Location{Scheme: SchemeLocal, Key: location}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidLocation, location)
		}
		return Location{Scheme: SchemeLocal, Key: u.Path}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs s3://bucket/key", ErrInvalidLocation, location)
		}
		return Location{Scheme: SchemeS3, Bucket: u.Host, Key: key}, nil
	case "minio", "minios":
		bucket, key, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs %s://host/bucket/key", ErrInvalidLocation, location, u.Scheme)
		}
		return Location{Scheme: SchemeMinio, Host: u.Host, Secure: u.Scheme == "minios", Bucket: bucket, Key: key}, nil
	default:
		return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidLocation, u.Scheme)
	}
}

// Resolver builds stores for parsed locations. The zero value uses the
// default AWS configuration and environment credentials for MinIO.
type Resolver struct {
	// NewS3Client overrides how the S3 client is created.
	NewS3Client func(ctx context.Context) (s3blob.Client, error)
	// NewMinioClient overrides how the MinIO client is created.
	NewMinioClient func(endpoint string, secure bool) (*minio.Client, error)
}

// Open returns the store holding location and the blob name inside it.
func Open(ctx context.Context, location string) (blobstore.BlobStore, string, error) {
	return Resolver{}.Open(ctx, location)
}

// Open returns the store holding location and the blob name inside it.
func (r Resolver) Open(ctx context.Context, location string) (blobstore.BlobStore, string, error) {
	loc, err := Parse(location)
	if err != nil {
		return nil, "", err
	}

	switch loc.Scheme {
	case SchemeS3:
		newClient := r.NewS3Client
		if newClient == nil {
			newClient = defaultS3Client
		}
		client, err := newClient(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("s3 client: %w", err)
		}
		return s3blob.NewStore(client, loc.Bucket, ""), loc.Key, nil
	case SchemeMinio:
		newClient := r.NewMinioClient
		if newClient == nil {
			newClient = defaultMinioClient
		}
		client, err := newClient(loc.Host, loc.Secure)
		if err != nil {
			return nil, "", fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, loc.Bucket, ""), loc.Key, nil
	default:
		return blobstore.NewLocalStore(filepath.Dir(loc.Key)), filepath.Base(loc.Key), nil
	}
}

func defaultS3Client(ctx context.Context) (s3blob.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(cfg), nil
}

func defaultMinioClient(endpoint string, secure bool) (*minio.Client, error) {
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvMinio{},
		&credentials.EnvAWS{},
	})
	return minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: secure,
	})
}
