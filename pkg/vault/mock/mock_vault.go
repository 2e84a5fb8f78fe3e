package mock

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/waifuvault/waifuvault_sdk_go/internal/devseed"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
)

// DefaultRetention applies when an upload does not set an expiry.
const DefaultRetention = 365 * 24 * time.Hour

var expiresPattern = regexp.MustCompile(`^(\d+)([mhd])$`)

// Fetcher retrieves the content behind a remote URL upload.
type Fetcher func(ctx context.Context, url string) (data []byte, filename string, err error)

type fileEntry struct {
	token           string
	id              int64
	filename        string
	data            []byte
	created         time.Time
	stamp           int64
	expiresAt       time.Time
	passwordHash    []byte
	hideFilename    bool
	oneTimeDownload bool
	bucket          string
	album           string
	views           int64
}

// key is the path of the file below /f/. The stamp is unique per vault, so
// keys never collide even for identical names uploaded in the same
// millisecond.
func (f *fileEntry) key() string {
	epoch := strconv.FormatInt(f.stamp, 10)
	if f.hideFilename {
		return epoch + path.Ext(f.filename)
	}
	return epoch + "/" + f.filename
}

type albumEntry struct {
	token       string
	bucket      string
	name        string
	publicToken string
	created     time.Time
}

// Mock implements vault.Backend in memory for tests and sandboxing.
type Mock struct {
	mu      sync.Mutex
	files   map[string]*fileEntry
	buckets map[string]time.Time
	albums  map[string]*albumEntry
	nextID  int64

	// lastStamp is the most recent /f/ key stamp handed out.
	lastStamp int64

	baseURL    string
	now        func() time.Time
	fetch      Fetcher
	bcryptCost int
}

var _ vault.Backend = (*Mock)(nil)

// Option configures a Mock.
type Option func(*Mock)

// WithBaseURL sets the root used when building file and album URLs.
func WithBaseURL(u string) Option {
	return func(m *Mock) {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			m.baseURL = u
		}
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Mock) {
		if now != nil {
			m.now = now
		}
	}
}

// WithFetcher enables remote URL uploads.
func WithFetcher(f Fetcher) Option {
	return func(m *Mock) {
		m.fetch = f
	}
}

// WithBcryptCost sets the cost used to hash file passwords.
func WithBcryptCost(cost int) Option {
	return func(m *Mock) {
		m.bcryptCost = cost
	}
}

// New constructs an empty vault.
func New(opts ...Option) *Mock {
	m := &Mock{
		files:      make(map[string]*fileEntry),
		buckets:    make(map[string]time.Time),
		albums:     make(map[string]*albumEntry),
		baseURL:    vault.DefaultBaseURL,
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Seed loads files from seed entries (typically decoded via
// devseed.LoadFileSeed). Buckets named by the entries are created on demand.
func (m *Mock) Seed(entries []devseed.FileSeed) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		if strings.TrimSpace(e.Filename) == "" {
			return fmt.Errorf("mock vault: seed entry missing filename")
		}
		data, err := base64.StdEncoding.DecodeString(e.Base64)
		if err != nil {
			return fmt.Errorf("mock vault: decode base64 for %s: %w", e.Filename, err)
		}
		if e.Bucket != "" {
			if _, ok := m.buckets[e.Bucket]; !ok {
				m.buckets[e.Bucket] = m.now()
			}
		}
		f, err := m.newFileLocked(data, e.Filename, vault.UploadOptions{
			Expires:         e.Expires,
			HideFilename:    vault.Bool(e.HideFilename),
			OneTimeDownload: vault.Bool(e.OneTimeDownload),
			Password:        e.Password,
			BucketToken:     e.Bucket,
		})
		if err != nil {
			return fmt.Errorf("mock vault: seed %s: %w", e.Filename, err)
		}
		if e.Token != "" {
			if _, exists := m.files[e.Token]; exists {
				return fmt.Errorf("mock vault: duplicate seed token %s", e.Token)
			}
			f.token = e.Token
		}
		m.files[f.token] = f
	}
	return nil
}

// UploadFile stores in-memory content or, when a fetcher is configured, the
// content behind a remote URL.
func (m *Mock) UploadFile(ctx context.Context, src vault.UploadSource, opts vault.UploadOptions) (*vault.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data     []byte
		filename string
	)
	switch s := src.(type) {
	case vault.FileBytes:
		data, filename = s.Data, s.Filename
		if filename == "" {
			filename = "blob"
		}
	case vault.RemoteURL:
		if m.fetch == nil {
			return nil, badRequest("Remote uploads are disabled")
		}
		var err error
		data, filename, err = m.fetch(ctx, s.URL)
		if err != nil {
			return nil, badRequest(fmt.Sprintf("Unable to fetch %s: %v", s.URL, err))
		}
		if filename == "" {
			filename = path.Base(s.URL)
		}
	default:
		return nil, badRequest(fmt.Sprintf("unsupported upload source %T", src))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	if opts.BucketToken != "" {
		if _, ok := m.buckets[opts.BucketToken]; !ok {
			return nil, badRequest("Bucket does not exist")
		}
	}
	f, err := m.newFileLocked(data, filename, opts)
	if err != nil {
		return nil, err
	}
	m.files[f.token] = f
	return m.recordLocked(f, false, true), nil
}

func (m *Mock) newFileLocked(data []byte, filename string, opts vault.UploadOptions) (*fileEntry, error) {
	retention := DefaultRetention
	if opts.Expires != "" {
		d, err := ParseExpiry(opts.Expires)
		if err != nil {
			return nil, badRequest(err.Error())
		}
		retention = d
	}
	now := m.now()
	m.nextID++
	stamp := now.UnixMilli()
	if stamp <= m.lastStamp {
		stamp = m.lastStamp + 1
	}
	m.lastStamp = stamp
	f := &fileEntry{
		token:           uuid.NewString(),
		id:              m.nextID,
		filename:        path.Base(filename),
		data:            append([]byte(nil), data...),
		created:         now,
		stamp:           stamp,
		expiresAt:       now.Add(retention),
		hideFilename:    opts.HideFilename != nil && *opts.HideFilename,
		oneTimeDownload: opts.OneTimeDownload != nil && *opts.OneTimeDownload,
		bucket:          opts.BucketToken,
	}
	if opts.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(opts.Password), m.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("mock vault: hash password: %w", err)
		}
		f.passwordHash = hash
	}
	return f, nil
}

// FileInfo returns the metadata of a stored file.
func (m *Mock) FileInfo(ctx context.Context, token string, formatted *bool) (*vault.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	f, ok := m.files[token]
	if !ok {
		return nil, fileNotFound()
	}
	return m.recordLocked(f, formatted != nil && *formatted, true), nil
}

// DeleteFile removes a stored file.
func (m *Mock) DeleteFile(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	if _, ok := m.files[token]; !ok {
		return fileNotFound()
	}
	delete(m.files, token)
	return nil
}

// GetFile returns the content of a file, counting the view. One-time
// download files are removed once served.
func (m *Mock) GetFile(ctx context.Context, opts vault.GetFileOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	var f *fileEntry
	if opts.Token != "" {
		f = m.files[opts.Token]
	} else {
		f = m.lookupKeyLocked(strings.TrimPrefix(opts.Filename, "/"))
	}
	if f == nil {
		return nil, fileNotFound()
	}
	if f.passwordHash != nil {
		if opts.Password == "" || bcrypt.CompareHashAndPassword(f.passwordHash, []byte(opts.Password)) != nil {
			return nil, vault.ErrIncorrectPassword
		}
	}
	f.views++
	if f.oneTimeDownload {
		delete(m.files, f.token)
	}
	return append([]byte(nil), f.data...), nil
}

func (m *Mock) lookupKeyLocked(key string) *fileEntry {
	for _, f := range m.files {
		if f.key() == key {
			return f
		}
	}
	return nil
}

// ModifyEntry changes the password, expiry or filename visibility of a file.
func (m *Mock) ModifyEntry(ctx context.Context, token string, payload vault.ModifyEntryPayload) (*vault.FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	f, ok := m.files[token]
	if !ok {
		return nil, fileNotFound()
	}

	var newHash []byte
	if payload.Password != nil {
		if f.passwordHash != nil {
			if payload.PreviousPassword == nil {
				return nil, badRequest("previousPassword is required to change the password of a protected file")
			}
			if bcrypt.CompareHashAndPassword(f.passwordHash, []byte(*payload.PreviousPassword)) != nil {
				return nil, badRequest("previousPassword is incorrect")
			}
		}
		if *payload.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), m.bcryptCost)
			if err != nil {
				return nil, fmt.Errorf("mock vault: hash password: %w", err)
			}
			newHash = hash
		}
	}
	var expiresAt time.Time
	if payload.CustomExpiry != nil {
		retention := DefaultRetention
		if *payload.CustomExpiry != "" {
			d, err := ParseExpiry(*payload.CustomExpiry)
			if err != nil {
				return nil, badRequest(err.Error())
			}
			retention = d
		}
		expiresAt = m.now().Add(retention)
	}

	if payload.Password != nil {
		f.passwordHash = newHash
	}
	if payload.CustomExpiry != nil {
		f.expiresAt = expiresAt
	}
	if payload.HideFilename != nil {
		f.hideFilename = *payload.HideFilename
	}
	return m.recordLocked(f, false, true), nil
}

// CreateBucket creates an empty bucket.
func (m *Mock) CreateBucket(ctx context.Context) (*vault.BucketRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	token := uuid.NewString()
	m.buckets[token] = m.now()
	return m.bucketLocked(token), nil
}

// GetBucket returns a bucket with its files and albums.
func (m *Mock) GetBucket(ctx context.Context, token string) (*vault.BucketRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	if _, ok := m.buckets[token]; !ok {
		return nil, bucketNotFound()
	}
	return m.bucketLocked(token), nil
}

// DeleteBucket removes a bucket together with its files and albums.
func (m *Mock) DeleteBucket(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[token]; !ok {
		return bucketNotFound()
	}
	for k, f := range m.files {
		if f.bucket == token {
			delete(m.files, k)
		}
	}
	for k, a := range m.albums {
		if a.bucket == token {
			delete(m.albums, k)
		}
	}
	delete(m.buckets, token)
	return nil
}

func (m *Mock) bucketLocked(token string) *vault.BucketRecord {
	rec := &vault.BucketRecord{
		Token:  token,
		Files:  []vault.FileRecord{},
		Albums: []vault.AlbumStub{},
	}
	for _, f := range m.sortedFilesLocked(func(f *fileEntry) bool { return f.bucket == token }) {
		rec.Files = append(rec.Files, *m.recordLocked(f, false, true))
	}
	for _, a := range m.sortedAlbumsLocked(token) {
		rec.Albums = append(rec.Albums, vault.AlbumStub{
			Token:       a.token,
			PublicToken: optional(a.publicToken),
			Name:        a.name,
			Bucket:      a.bucket,
			DateCreated: a.created.UnixMilli(),
		})
	}
	return rec
}

// CreateAlbum creates an empty album in an existing bucket.
func (m *Mock) CreateAlbum(ctx context.Context, body vault.AlbumCreateBody) (*vault.AlbumRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(body.Name) == "" {
		return nil, badRequest("Album name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[body.BucketToken]; !ok {
		return nil, bucketNotFound()
	}
	a := &albumEntry{
		token:   uuid.NewString(),
		bucket:  body.BucketToken,
		name:    body.Name,
		created: m.now(),
	}
	m.albums[a.token] = a
	return m.albumLocked(a), nil
}

// AssociateFiles moves files of the album's bucket into the album.
func (m *Mock) AssociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*vault.AlbumRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	a, ok := m.albums[albumToken]
	if !ok {
		return nil, albumNotFound()
	}
	files := make([]*fileEntry, 0, len(fileTokens))
	for _, t := range fileTokens {
		f, ok := m.files[t]
		if !ok {
			return nil, fileNotFound()
		}
		if f.bucket != a.bucket {
			return nil, badRequest("Every file must belong to the same bucket as the album")
		}
		files = append(files, f)
	}
	for _, f := range files {
		f.album = a.token
	}
	return m.albumLocked(a), nil
}

// DisassociateFiles detaches files from the album. They stay in the bucket.
func (m *Mock) DisassociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*vault.AlbumRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	a, ok := m.albums[albumToken]
	if !ok {
		return nil, albumNotFound()
	}
	for _, t := range fileTokens {
		if f, ok := m.files[t]; ok && f.album == a.token {
			f.album = ""
		}
	}
	return m.albumLocked(a), nil
}

// GetAlbum resolves an album by its private or public token.
func (m *Mock) GetAlbum(ctx context.Context, token string) (*vault.AlbumRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	a := m.findAlbumLocked(token)
	if a == nil {
		return nil, albumNotFound()
	}
	return m.albumLocked(a), nil
}

// DeleteAlbum removes an album. Its files are deleted too when deleteFiles is
// set, otherwise they are only detached.
func (m *Mock) DeleteAlbum(ctx context.Context, token string, deleteFiles bool) (*vault.GenericSuccess, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.albums[token]
	if !ok {
		return nil, albumNotFound()
	}
	for k, f := range m.files {
		if f.album != a.token {
			continue
		}
		if deleteFiles {
			delete(m.files, k)
		} else {
			f.album = ""
		}
	}
	delete(m.albums, token)
	return &vault.GenericSuccess{Success: true, Description: "album deleted"}, nil
}

// ShareAlbum assigns a public token, reusing the current one if the album is
// already shared, and reports the public URL.
func (m *Mock) ShareAlbum(ctx context.Context, token string) (*vault.GenericSuccess, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.albums[token]
	if !ok {
		return nil, albumNotFound()
	}
	if a.publicToken == "" {
		a.publicToken = uuid.NewString()
	}
	return &vault.GenericSuccess{Success: true, Description: m.baseURL + "/album/" + a.publicToken}, nil
}

// RevokeAlbum drops the public token of a shared album.
func (m *Mock) RevokeAlbum(ctx context.Context, token string) (*vault.GenericSuccess, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.albums[token]
	if !ok {
		return nil, albumNotFound()
	}
	if a.publicToken == "" {
		return nil, badRequest("Album is not shared")
	}
	a.publicToken = ""
	return &vault.GenericSuccess{Success: true, Description: "album unshared"}, nil
}

// DownloadAlbum zips the album's files. An empty fileIDs selects all of them.
// Password-protected files are left out.
func (m *Mock) DownloadAlbum(ctx context.Context, token string, fileIDs []int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeLocked()

	a := m.findAlbumLocked(token)
	if a == nil {
		return nil, albumNotFound()
	}
	wanted := make(map[int64]bool, len(fileIDs))
	for _, id := range fileIDs {
		wanted[id] = true
	}
	files := m.sortedFilesLocked(func(f *fileEntry) bool {
		return f.album == a.token && f.passwordHash == nil && (len(wanted) == 0 || wanted[f.id])
	})
	if len(files) == 0 {
		return nil, badRequest("No files to download")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	used := make(map[string]bool, len(files))
	for _, f := range files {
		name := f.filename
		if used[name] {
			name = strconv.FormatInt(f.id, 10) + "_" + name
		}
		used[name] = true
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: f.created})
		if err != nil {
			return nil, fmt.Errorf("mock vault: zip %s: %w", name, err)
		}
		if _, err := w.Write(f.data); err != nil {
			return nil, fmt.Errorf("mock vault: zip %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("mock vault: close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func (m *Mock) findAlbumLocked(token string) *albumEntry {
	if a, ok := m.albums[token]; ok {
		return a
	}
	for _, a := range m.albums {
		if a.publicToken != "" && a.publicToken == token {
			return a
		}
	}
	return nil
}

func (m *Mock) albumLocked(a *albumEntry) *vault.AlbumRecord {
	rec := &vault.AlbumRecord{
		Token:       a.token,
		BucketToken: a.bucket,
		PublicToken: optional(a.publicToken),
		Name:        a.name,
		Files:       []vault.FileRecord{},
		DateCreated: a.created.UnixMilli(),
	}
	for _, f := range m.sortedFilesLocked(func(f *fileEntry) bool { return f.album == a.token }) {
		rec.Files = append(rec.Files, *m.recordLocked(f, false, false))
	}
	return rec
}

// recordLocked renders f. withAlbum embeds the owning album without its
// files.
func (m *Mock) recordLocked(f *fileEntry, formatted, withAlbum bool) *vault.FileRecord {
	remaining := f.expiresAt.Sub(m.now())
	if remaining < 0 {
		remaining = 0
	}
	rec := &vault.FileRecord{
		Token:  f.token,
		URL:    m.baseURL + "/f/" + f.key(),
		Bucket: optional(f.bucket),
		ID:     f.id,
		Views:  f.views,
		Options: vault.FileOptions{
			HideFilename:    f.hideFilename,
			OneTimeDownload: f.oneTimeDownload,
			Protected:       f.passwordHash != nil,
		},
	}
	if formatted {
		rec.RetentionPeriod = vault.RetentionText(FormatRetention(remaining))
	} else {
		rec.RetentionPeriod = vault.RetentionMillis(remaining.Milliseconds())
	}
	if withAlbum && f.album != "" {
		if a, ok := m.albums[f.album]; ok {
			rec.Album = &vault.AlbumRecord{
				Token:       a.token,
				BucketToken: a.bucket,
				PublicToken: optional(a.publicToken),
				Name:        a.name,
				DateCreated: a.created.UnixMilli(),
			}
		}
	}
	return rec
}

func (m *Mock) sortedFilesLocked(keep func(*fileEntry) bool) []*fileEntry {
	out := make([]*fileEntry, 0)
	for _, f := range m.files {
		if keep(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (m *Mock) sortedAlbumsLocked(bucket string) []*albumEntry {
	out := make([]*albumEntry, 0)
	for _, a := range m.albums {
		if a.bucket == bucket {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].created.Equal(out[j].created) {
			return out[i].created.Before(out[j].created)
		}
		return out[i].token < out[j].token
	})
	return out
}

// purgeLocked drops expired files.
func (m *Mock) purgeLocked() {
	now := m.now()
	for k, f := range m.files {
		if !now.Before(f.expiresAt) {
			delete(m.files, k)
		}
	}
}

// ParseExpiry parses an expiry such as "30m", "1h" or "2d".
func ParseExpiry(s string) (time.Duration, error) {
	match := expiresPattern.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		return 0, fmt.Errorf("invalid expiry %q: expected a number followed by m, h or d", s)
	}
	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid expiry %q", s)
	}
	unit := time.Minute
	switch match[2] {
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}
	return time.Duration(n) * unit, nil
}

// FormatRetention renders d as "N days N hours N minutes N seconds", leaving
// out zero units.
func FormatRetention(d time.Duration) string {
	total := int64(d / time.Second)
	parts := make([]string, 0, 4)
	for _, u := range []struct {
		name string
		secs int64
	}{
		{"days", 86400},
		{"hours", 3600},
		{"minutes", 60},
		{"seconds", 1},
	} {
		if n := total / u.secs; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, u.name))
			total %= u.secs
		}
	}
	if len(parts) == 0 {
		return "0 seconds"
	}
	return strings.Join(parts, " ")
}

// IsNotFound reports whether err is a 404 from the vault.
func IsNotFound(err error) bool {
	var httpErr *vault.HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}

func badRequest(msg string) error {
	return vault.NewAPIError(http.StatusBadRequest, msg)
}

func fileNotFound() error {
	return vault.NewAPIError(http.StatusNotFound, "File not found")
}

func bucketNotFound() error {
	return vault.NewAPIError(http.StatusNotFound, "Bucket not found")
}

func albumNotFound() error {
	return vault.NewAPIError(http.StatusNotFound, "Album not found")
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
