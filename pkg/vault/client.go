package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/waifuvault/waifuvault_sdk_go/internal/httpx"
)

// DefaultBaseURL is the public vault instance.
const DefaultBaseURL = "https://waifuvault.moe"

// Backend performs the vault operations. The HTTP implementation talks to a
// remote vault; pkg/vault/mock provides an in-memory one.
//
// UploadFile only receives FileBytes or RemoteURL sources: FilePath is
// resolved by the Client beforehand.
type Backend interface {
	UploadFile(ctx context.Context, src UploadSource, opts UploadOptions) (*FileRecord, error)
	FileInfo(ctx context.Context, token string, formatted *bool) (*FileRecord, error)
	DeleteFile(ctx context.Context, token string) error
	GetFile(ctx context.Context, opts GetFileOptions) ([]byte, error)
	ModifyEntry(ctx context.Context, token string, payload ModifyEntryPayload) (*FileRecord, error)

	CreateBucket(ctx context.Context) (*BucketRecord, error)
	GetBucket(ctx context.Context, token string) (*BucketRecord, error)
	DeleteBucket(ctx context.Context, token string) error

	CreateAlbum(ctx context.Context, body AlbumCreateBody) (*AlbumRecord, error)
	AssociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*AlbumRecord, error)
	DisassociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*AlbumRecord, error)
	GetAlbum(ctx context.Context, token string) (*AlbumRecord, error)
	DeleteAlbum(ctx context.Context, token string, deleteFiles bool) (*GenericSuccess, error)
	ShareAlbum(ctx context.Context, token string) (*GenericSuccess, error)
	RevokeAlbum(ctx context.Context, token string) (*GenericSuccess, error)
	DownloadAlbum(ctx context.Context, token string, fileIDs []int64) ([]byte, error)
}

// Client provides access to the vault's file, bucket and album operations.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	backend Backend
}

// New constructs an HTTP-backed client bound to baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cl, err := httpx.NewClient(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(cl), nil
}

// NewWithHTTPClient wraps an existing httpx.Client.
func NewWithHTTPClient(httpClient *httpx.Client) *Client {
	return &Client{backend: &httpBackend{client: httpClient}}
}

// NewWithBackend allows callers to provide a custom backend (e.g., mocks).
func NewWithBackend(b Backend) *Client {
	return &Client{backend: b}
}

// deleted is returned by the delete operations whose response body carries
// no information.
func deleted() *GenericSuccess {
	return &GenericSuccess{Success: true, Description: "deleted"}
}

// UploadFile uploads a file from memory, from disk or from a remote URL.
func (c *Client) UploadFile(ctx context.Context, src UploadSource, opts *UploadOptions) (*FileRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	var o UploadOptions
	if opts != nil {
		o = *opts
	}

	switch s := src.(type) {
	case FileBytes:
		return c.backend.UploadFile(ctx, s, o)
	case *FileBytes:
		if s == nil {
			return nil, fmt.Errorf("%w: upload source is nil", ErrInvalidInput)
		}
		return c.backend.UploadFile(ctx, *s, o)
	case FilePath:
		return c.uploadPath(ctx, s, o)
	case *FilePath:
		if s == nil {
			return nil, fmt.Errorf("%w: upload source is nil", ErrInvalidInput)
		}
		return c.uploadPath(ctx, *s, o)
	case RemoteURL:
		return c.uploadURL(ctx, s, o)
	case *RemoteURL:
		if s == nil {
			return nil, fmt.Errorf("%w: upload source is nil", ErrInvalidInput)
		}
		return c.uploadURL(ctx, *s, o)
	case nil:
		return nil, fmt.Errorf("%w: upload source is nil", ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unsupported upload source %T", ErrInvalidInput, src)
	}
}

func (c *Client) uploadPath(ctx context.Context, src FilePath, opts UploadOptions) (*FileRecord, error) {
	if strings.TrimSpace(src.Path) == "" {
		return nil, fmt.Errorf("%w: file path is required", ErrInvalidInput)
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, err
	}
	filename := src.Filename
	if filename == "" {
		filename = filepath.Base(src.Path)
	}
	return c.backend.UploadFile(ctx, FileBytes{Data: data, Filename: filename}, opts)
}

func (c *Client) uploadURL(ctx context.Context, src RemoteURL, opts UploadOptions) (*FileRecord, error) {
	if strings.TrimSpace(src.URL) == "" {
		return nil, fmt.Errorf("%w: url is required", ErrInvalidInput)
	}
	return c.backend.UploadFile(ctx, src, opts)
}

// FileInfo fetches the metadata of a file.
func (c *Client) FileInfo(ctx context.Context, token string, opts *FileInfoOptions) (*FileRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	var formatted *bool
	if opts != nil {
		formatted = opts.Formatted
	}
	return c.backend.FileInfo(ctx, token, formatted)
}

// DeleteFile removes a file. The returned envelope is always
// {Success: true, Description: "deleted"} when the vault accepts the call.
func (c *Client) DeleteFile(ctx context.Context, token string) (*GenericSuccess, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if err := c.backend.DeleteFile(ctx, token); err != nil {
		return nil, err
	}
	return deleted(), nil
}

// GetFile downloads the content of a file, by token or by filename.
// A rejected password is reported as ErrIncorrectPassword.
func (c *Client) GetFile(ctx context.Context, opts GetFileOptions) ([]byte, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	hasToken := opts.Token != ""
	hasName := opts.Filename != ""
	if hasToken == hasName {
		return nil, fmt.Errorf("%w: exactly one of token and filename is required", ErrInvalidInput)
	}
	return c.backend.GetFile(ctx, opts)
}

// ModifyEntry changes the password, expiry or filename visibility of a file.
func (c *Client) ModifyEntry(ctx context.Context, token string, payload *ModifyEntryPayload) (*FileRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	var p ModifyEntryPayload
	if payload != nil {
		p = *payload
	}
	return c.backend.ModifyEntry(ctx, token, p)
}

// CreateBucket creates a bucket bound to the caller's network origin.
func (c *Client) CreateBucket(ctx context.Context) (*BucketRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	return c.backend.CreateBucket(ctx)
}

// GetBucket fetches a bucket with its files and albums.
func (c *Client) GetBucket(ctx context.Context, token string) (*BucketRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: bucket token is required", ErrInvalidInput)
	}
	return c.backend.GetBucket(ctx, token)
}

// DeleteBucket deletes a bucket and every file it contains.
func (c *Client) DeleteBucket(ctx context.Context, token string) (*GenericSuccess, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: bucket token is required", ErrInvalidInput)
	}
	if err := c.backend.DeleteBucket(ctx, token); err != nil {
		return nil, err
	}
	return deleted(), nil
}

// CreateAlbum creates an empty album inside a bucket.
func (c *Client) CreateAlbum(ctx context.Context, body AlbumCreateBody) (*AlbumRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(body.BucketToken) == "" {
		return nil, fmt.Errorf("%w: bucket token is required", ErrInvalidInput)
	}
	return c.backend.CreateAlbum(ctx, body)
}

// AssociateFiles adds files to an album. The files must already belong to the
// album's bucket.
func (c *Client) AssociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*AlbumRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(albumToken) == "" {
		return nil, fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	return c.backend.AssociateFiles(ctx, albumToken, nonNilStrings(fileTokens))
}

// DisassociateFiles removes files from an album; they stay in the bucket.
func (c *Client) DisassociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*AlbumRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(albumToken) == "" {
		return nil, fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	return c.backend.DisassociateFiles(ctx, albumToken, nonNilStrings(fileTokens))
}

// GetAlbum fetches an album by its private or public token.
func (c *Client) GetAlbum(ctx context.Context, token string) (*AlbumRecord, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	return c.backend.GetAlbum(ctx, token)
}

// DeleteAlbum deletes an album. With deleteFiles the member files are removed
// from the vault too, otherwise they are only detached.
func (c *Client) DeleteAlbum(ctx context.Context, token string, deleteFiles bool) (*GenericSuccess, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	return c.backend.DeleteAlbum(ctx, token, deleteFiles)
}

// ShareAlbum makes an album publicly readable and returns its public URL.
func (c *Client) ShareAlbum(ctx context.Context, token string) (string, error) {
	if c == nil || c.backend == nil {
		return "", fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	res, err := c.backend.ShareAlbum(ctx, token)
	if err != nil {
		return "", err
	}
	return res.Description, nil
}

// RevokeAlbum invalidates the public URL of an album.
func (c *Client) RevokeAlbum(ctx context.Context, token string) (*GenericSuccess, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	return c.backend.RevokeAlbum(ctx, token)
}

// DownloadAlbum returns a zip archive of the album. fileIDs selects files by
// their numeric id; an empty list downloads everything.
func (c *Client) DownloadAlbum(ctx context.Context, token string, fileIDs []int64) ([]byte, error) {
	if c == nil || c.backend == nil {
		return nil, fmt.Errorf("vault: client is nil")
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: album token is required", ErrInvalidInput)
	}
	if fileIDs == nil {
		fileIDs = []int64{}
	}
	return c.backend.DownloadAlbum(ctx, token, fileIDs)
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
