package objectstore

import (
	"context"
	"io"
)

// Store persists uploaded binaries and returns a URL clients can fetch.
type Store interface {
	// Save writes the object under the given name and returns its
	// public URL.
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	Local  *LocalConfig
	S3     *S3Config
}

// LocalConfig serves uploads from a directory on disk.
type LocalConfig struct {
	Dir     string
	BaseURL string
}

// S3Config captures bucket and credential options. Endpoint supports
// S3-compatible stores; PublicURL overrides the default object URL base.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}
