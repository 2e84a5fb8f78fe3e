package vault

import (
	"errors"

	"github.com/waifuvault/waifuvault_sdk_go/internal/httpx"
)

// FileOptions are the flags the vault reports for a stored file.
type FileOptions struct {
	HideFilename    bool `json:"hideFilename"`
	OneTimeDownload bool `json:"oneTimeDownload"`
	Protected       bool `json:"protected"`
}

// FileRecord describes an uploaded file.
type FileRecord struct {
	Token           string          `json:"token"`
	URL             string          `json:"url"`
	RetentionPeriod RetentionPeriod `json:"retentionPeriod"`
	Bucket          *string         `json:"bucket"`
	Album           *AlbumRecord    `json:"album"`
	ID              int64           `json:"id"`
	Views           int64           `json:"views"`
	Options         FileOptions     `json:"options"`
}

// BucketRecord is a bucket together with everything it contains.
type BucketRecord struct {
	Token  string       `json:"token"`
	Files  []FileRecord `json:"files"`
	Albums []AlbumStub  `json:"albums"`
}

// AlbumStub is an album without its files, as listed inside a bucket.
type AlbumStub struct {
	Token       string  `json:"token"`
	PublicToken *string `json:"publicToken"`
	Name        string  `json:"name"`
	Bucket      string  `json:"bucket"`
	DateCreated int64   `json:"dateCreated"`
}

// AlbumRecord is a named collection of files within a bucket. PublicToken is
// only set while the album is shared.
type AlbumRecord struct {
	Token       string       `json:"token"`
	BucketToken string       `json:"bucketToken"`
	PublicToken *string      `json:"publicToken"`
	Name        string       `json:"name"`
	Files       []FileRecord `json:"files"`
	DateCreated int64        `json:"dateCreated"`
}

// GenericSuccess is the confirmation envelope for operations with no richer
// result.
type GenericSuccess struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
}

// UploadOptions control how an upload is stored. Nil pointers and empty
// strings are left out of the request.
type UploadOptions struct {
	// Expires is a number followed by m, h or d, e.g. "1h" or "2d".
	Expires         string
	HideFilename    *bool
	OneTimeDownload *bool
	// Password encrypts the file.
	Password string
	// BucketToken places the file in that bucket.
	BucketToken string
	// ClientIP is forwarded verbatim as X-Forwarded-For and X-Real-IP.
	ClientIP string
}

// UploadSource is what gets uploaded: FileBytes, FilePath or RemoteURL.
type UploadSource interface {
	isUploadSource()
}

// FileBytes uploads in-memory content. Filename should be set.
type FileBytes struct {
	Data     []byte
	Filename string
}

// FilePath uploads a file from disk. Filename defaults to the path's base name.
type FilePath struct {
	Path     string
	Filename string
}

// RemoteURL asks the vault to fetch the file itself.
type RemoteURL struct {
	URL string
}

func (FileBytes) isUploadSource() {}
func (FilePath) isUploadSource()  {}
func (RemoteURL) isUploadSource() {}

// FileInfoOptions tune FileInfo. A nil Formatted lets the server pick.
type FileInfoOptions struct {
	Formatted *bool
}

// GetFileOptions select the file to download. Exactly one of Token and
// Filename must be set. Filename is the path after /f/, e.g.
// "1710111505084/08.png".
type GetFileOptions struct {
	Token    string
	Filename string
	Password string
}

// ModifyEntryPayload changes aspects of a stored file. Only non-nil fields
// are sent. Changing the password of a protected file also requires
// PreviousPassword.
type ModifyEntryPayload struct {
	Password         *string `json:"password,omitempty"`
	PreviousPassword *string `json:"previousPassword,omitempty"`
	CustomExpiry     *string `json:"customExpiry,omitempty"`
	HideFilename     *bool   `json:"hideFilename,omitempty"`
}

// AlbumCreateBody names a new album and the bucket it lives in.
type AlbumCreateBody struct {
	Name        string `json:"name"`
	BucketToken string `json:"bucketToken"`
}

type (
	// HTTPError is returned for every non-2xx response.
	HTTPError = httpx.HTTPError
	// ErrorRecord is the decoded body of an HTTPError, when available.
	ErrorRecord = httpx.ErrorRecord
	// Option configures the HTTP transport of a Client.
	Option = httpx.Option
)

var (
	WithHTTPClient = httpx.WithHTTPClient
	WithHeaders    = httpx.WithHeaders
	WithLogger     = httpx.WithLogger
)

var (
	// ErrIncorrectPassword is returned when the vault refuses a protected
	// download (HTTP 403).
	ErrIncorrectPassword = errors.New("Password is incorrect")
	// ErrInvalidInput reports a malformed call detected before any I/O.
	ErrInvalidInput = errors.New("vault: invalid input")
)

// NewAPIError builds the error the vault returns for status with message.
func NewAPIError(status int, message string) *HTTPError {
	return httpx.NewHTTPError(status, message)
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s.
func String(s string) *string { return &s }
