package mock_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/waifuvault/waifuvault_sdk_go/internal/devseed"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault"
	"github.com/waifuvault/waifuvault_sdk_go/pkg/vault/mock"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newMock(opts ...mock.Option) (*mock.Mock, *fakeClock) {
	clock := &fakeClock{now: time.UnixMilli(1710111505084)}
	base := []mock.Option{
		mock.WithClock(clock.Now),
		mock.WithBaseURL("https://vault.test"),
		mock.WithBcryptCost(bcrypt.MinCost),
	}
	return mock.New(append(base, opts...)...), clock
}

func statusOf(err error) int {
	var httpErr *vault.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func TestMockUploadAndFetch(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("hello"), Filename: "dir/a.txt"}, vault.UploadOptions{})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if rec.Token == "" || rec.ID != 1 {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if rec.URL != "https://vault.test/f/1710111505084/a.txt" {
		t.Fatalf("unexpected url: %s", rec.URL)
	}
	if got := rec.RetentionPeriod.Duration(); got != mock.DefaultRetention {
		t.Fatalf("unexpected retention: %v", got)
	}

	data, err := m.GetFile(ctx, vault.GetFileOptions{Filename: "1710111505084/a.txt"})
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("get mismatch: %q", data)
	}

	info, err := m.FileInfo(ctx, rec.Token, nil)
	if err != nil {
		t.Fatalf("FileInfo: %v", err)
	}
	if info.Views != 1 {
		t.Fatalf("expected 1 view, got %d", info.Views)
	}
}

func TestMockSequentialIDs(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()
	for want := int64(1); want <= 3; want++ {
		rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "x.bin"}, vault.UploadOptions{})
		if err != nil {
			t.Fatalf("UploadFile: %v", err)
		}
		if rec.ID != want {
			t.Fatalf("expected id %d, got %d", want, rec.ID)
		}
	}
}

func TestMockHiddenFilename(t *testing.T) {
	m, _ := newMock()
	rec, err := m.UploadFile(context.Background(), vault.FileBytes{Data: []byte("img"), Filename: "08.png"}, vault.UploadOptions{HideFilename: vault.Bool(true)})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if rec.URL != "https://vault.test/f/1710111505084.png" {
		t.Fatalf("unexpected url: %s", rec.URL)
	}
	if !rec.Options.HideFilename {
		t.Fatalf("expected hideFilename option")
	}
}

func TestMockExpiryAndFormattedInfo(t *testing.T) {
	m, clock := newMock()
	ctx := context.Background()

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "x"}, vault.UploadOptions{Expires: "2d"})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if rec.RetentionPeriod.Milliseconds() != (48 * time.Hour).Milliseconds() {
		t.Fatalf("unexpected retention: %d", rec.RetentionPeriod.Milliseconds())
	}

	clock.Advance(16*time.Hour + 41*time.Minute + 52*time.Second)
	info, err := m.FileInfo(ctx, rec.Token, vault.Bool(true))
	if err != nil {
		t.Fatalf("FileInfo: %v", err)
	}
	if got := info.RetentionPeriod.String(); got != "1 days 7 hours 18 minutes 8 seconds" {
		t.Fatalf("unexpected formatted retention: %q", got)
	}

	clock.Advance(48 * time.Hour)
	if _, err := m.FileInfo(ctx, rec.Token, nil); statusOf(err) != http.StatusNotFound {
		t.Fatalf("expected expired file to be gone, got %v", err)
	}
}

func TestMockRejectsInvalidExpiry(t *testing.T) {
	m, _ := newMock()
	_, err := m.UploadFile(context.Background(), vault.FileBytes{Data: []byte("x")}, vault.UploadOptions{Expires: "2w"})
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestMockPasswordProtection(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("secret"), Filename: "s.txt"}, vault.UploadOptions{Password: "pw"})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if !rec.Options.Protected {
		t.Fatalf("expected protected file")
	}

	for _, pw := range []string{"", "nope"} {
		_, err := m.GetFile(ctx, vault.GetFileOptions{Token: rec.Token, Password: pw})
		if !errors.Is(err, vault.ErrIncorrectPassword) {
			t.Fatalf("password %q: expected ErrIncorrectPassword, got %v", pw, err)
		}
	}
	data, err := m.GetFile(ctx, vault.GetFileOptions{Token: rec.Token, Password: "pw"})
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if string(data) != "secret" {
		t.Fatalf("get mismatch: %q", data)
	}
}

func TestMockOneTimeDownload(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("once"), Filename: "o.txt"}, vault.UploadOptions{OneTimeDownload: vault.Bool(true)})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if _, err := m.GetFile(ctx, vault.GetFileOptions{Token: rec.Token}); err != nil {
		t.Fatalf("first GetFile: %v", err)
	}
	if _, err := m.GetFile(ctx, vault.GetFileOptions{Token: rec.Token}); !mock.IsNotFound(err) {
		t.Fatalf("expected second download to fail with 404, got %v", err)
	}
}

func TestMockModifyEntry(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "m.txt"}, vault.UploadOptions{Password: "old"})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	_, err = m.ModifyEntry(ctx, rec.Token, vault.ModifyEntryPayload{Password: vault.String("new")})
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 without previous password, got %v", err)
	}
	_, err = m.ModifyEntry(ctx, rec.Token, vault.ModifyEntryPayload{Password: vault.String("new"), PreviousPassword: vault.String("wrong")})
	if statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 with wrong previous password, got %v", err)
	}

	updated, err := m.ModifyEntry(ctx, rec.Token, vault.ModifyEntryPayload{
		Password:         vault.String("new"),
		PreviousPassword: vault.String("old"),
		CustomExpiry:     vault.String("1h"),
		HideFilename:     vault.Bool(true),
	})
	if err != nil {
		t.Fatalf("ModifyEntry: %v", err)
	}
	if !updated.Options.HideFilename || !strings.HasSuffix(updated.URL, "/f/1710111505084.txt") {
		t.Fatalf("unexpected record after modify: %#v", updated)
	}
	if updated.RetentionPeriod.Duration() != time.Hour {
		t.Fatalf("unexpected retention: %v", updated.RetentionPeriod.Duration())
	}
	if _, err := m.GetFile(ctx, vault.GetFileOptions{Token: rec.Token, Password: "new"}); err != nil {
		t.Fatalf("GetFile with new password: %v", err)
	}

	cleared, err := m.ModifyEntry(ctx, rec.Token, vault.ModifyEntryPayload{Password: vault.String(""), PreviousPassword: vault.String("new")})
	if err != nil {
		t.Fatalf("ModifyEntry clearing password: %v", err)
	}
	if cleared.Options.Protected {
		t.Fatalf("expected password to be removed")
	}
}

func TestMockDeleteFile(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "d.txt"}, vault.UploadOptions{})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if err := m.DeleteFile(ctx, rec.Token); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if err := m.DeleteFile(ctx, rec.Token); !mock.IsNotFound(err) {
		t.Fatalf("expected 404 on second delete, got %v", err)
	}
	if err := m.DeleteFile(ctx, rec.Token); err == nil || err.Error() != "Error 404 (Not Found): File not found" {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestMockRemoteURLUploads(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()
	if _, err := m.UploadFile(ctx, vault.RemoteURL{URL: "https://e.com/a.png"}, vault.UploadOptions{}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected remote uploads to be disabled, got %v", err)
	}

	var fetched string
	m, _ = newMock(mock.WithFetcher(func(_ context.Context, url string) ([]byte, string, error) {
		fetched = url
		return []byte("png"), "", nil
	}))
	rec, err := m.UploadFile(ctx, vault.RemoteURL{URL: "https://e.com/a.png"}, vault.UploadOptions{})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if fetched != "https://e.com/a.png" || !strings.HasSuffix(rec.URL, "/a.png") {
		t.Fatalf("unexpected fetch %q / url %q", fetched, rec.URL)
	}
}

func TestMockBucketLifecycle(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	bucket, err := m.CreateBucket(ctx)
	if err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	if len(bucket.Files) != 0 || len(bucket.Albums) != 0 {
		t.Fatalf("expected empty bucket: %#v", bucket)
	}

	if _, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x")}, vault.UploadOptions{BucketToken: "missing"}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown bucket, got %v", err)
	}

	rec, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "b.txt"}, vault.UploadOptions{BucketToken: bucket.Token})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if rec.Bucket == nil || *rec.Bucket != bucket.Token {
		t.Fatalf("file not in bucket: %#v", rec)
	}
	if _, err := m.CreateAlbum(ctx, vault.AlbumCreateBody{Name: "a", BucketToken: bucket.Token}); err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}

	got, err := m.GetBucket(ctx, bucket.Token)
	if err != nil {
		t.Fatalf("GetBucket: %v", err)
	}
	if len(got.Files) != 1 || len(got.Albums) != 1 {
		t.Fatalf("unexpected bucket contents: %#v", got)
	}

	if err := m.DeleteBucket(ctx, bucket.Token); err != nil {
		t.Fatalf("DeleteBucket: %v", err)
	}
	if _, err := m.FileInfo(ctx, rec.Token, nil); !mock.IsNotFound(err) {
		t.Fatalf("expected bucket files to be deleted, got %v", err)
	}
	if _, err := m.GetBucket(ctx, bucket.Token); !mock.IsNotFound(err) {
		t.Fatalf("expected bucket to be gone, got %v", err)
	}
}

func TestMockAlbumLifecycle(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	bucket, err := m.CreateBucket(ctx)
	if err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	other, err := m.CreateBucket(ctx)
	if err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}
	f1, _ := m.UploadFile(ctx, vault.FileBytes{Data: []byte("one"), Filename: "one.txt"}, vault.UploadOptions{BucketToken: bucket.Token})
	f2, _ := m.UploadFile(ctx, vault.FileBytes{Data: []byte("two"), Filename: "two.txt"}, vault.UploadOptions{BucketToken: bucket.Token})
	stray, _ := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "x.txt"}, vault.UploadOptions{BucketToken: other.Token})

	album, err := m.CreateAlbum(ctx, vault.AlbumCreateBody{Name: "holiday", BucketToken: bucket.Token})
	if err != nil {
		t.Fatalf("CreateAlbum: %v", err)
	}
	if album.PublicToken != nil || len(album.Files) != 0 {
		t.Fatalf("unexpected new album: %#v", album)
	}

	if _, err := m.AssociateFiles(ctx, album.Token, []string{f1.Token, stray.Token}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for file of another bucket, got %v", err)
	}
	album, err = m.AssociateFiles(ctx, album.Token, []string{f1.Token, f2.Token})
	if err != nil {
		t.Fatalf("AssociateFiles: %v", err)
	}
	if len(album.Files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(album.Files))
	}
	info, _ := m.FileInfo(ctx, f1.Token, nil)
	if info.Album == nil || info.Album.Token != album.Token {
		t.Fatalf("file info misses album: %#v", info.Album)
	}

	share, err := m.ShareAlbum(ctx, album.Token)
	if err != nil {
		t.Fatalf("ShareAlbum: %v", err)
	}
	publicToken := strings.TrimPrefix(share.Description, "https://vault.test/album/")
	byPublic, err := m.GetAlbum(ctx, publicToken)
	if err != nil {
		t.Fatalf("GetAlbum by public token: %v", err)
	}
	if byPublic.Token != album.Token {
		t.Fatalf("public token resolved to %s", byPublic.Token)
	}
	again, _ := m.ShareAlbum(ctx, album.Token)
	if again.Description != share.Description {
		t.Fatalf("sharing twice changed the url")
	}

	if _, err := m.RevokeAlbum(ctx, album.Token); err != nil {
		t.Fatalf("RevokeAlbum: %v", err)
	}
	if _, err := m.GetAlbum(ctx, publicToken); !mock.IsNotFound(err) {
		t.Fatalf("expected revoked public token to fail, got %v", err)
	}
	if _, err := m.RevokeAlbum(ctx, album.Token); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 revoking an unshared album, got %v", err)
	}

	album, err = m.DisassociateFiles(ctx, album.Token, []string{f2.Token})
	if err != nil {
		t.Fatalf("DisassociateFiles: %v", err)
	}
	if len(album.Files) != 1 || album.Files[0].Token != f1.Token {
		t.Fatalf("unexpected files after disassociate: %#v", album.Files)
	}

	res, err := m.DeleteAlbum(ctx, album.Token, true)
	if err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}
	if !res.Success {
		t.Fatalf("unexpected delete result: %#v", res)
	}
	if _, err := m.FileInfo(ctx, f1.Token, nil); !mock.IsNotFound(err) {
		t.Fatalf("expected album file deleted, got %v", err)
	}
	if _, err := m.FileInfo(ctx, f2.Token, nil); err != nil {
		t.Fatalf("detached file should survive: %v", err)
	}
}

func TestMockDeleteAlbumKeepsFiles(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	bucket, _ := m.CreateBucket(ctx)
	f, _ := m.UploadFile(ctx, vault.FileBytes{Data: []byte("x"), Filename: "k.txt"}, vault.UploadOptions{BucketToken: bucket.Token})
	album, _ := m.CreateAlbum(ctx, vault.AlbumCreateBody{Name: "keep", BucketToken: bucket.Token})
	if _, err := m.AssociateFiles(ctx, album.Token, []string{f.Token}); err != nil {
		t.Fatalf("AssociateFiles: %v", err)
	}
	if _, err := m.DeleteAlbum(ctx, album.Token, false); err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}
	info, err := m.FileInfo(ctx, f.Token, nil)
	if err != nil {
		t.Fatalf("FileInfo: %v", err)
	}
	if info.Album != nil {
		t.Fatalf("expected file to be detached")
	}
}

func TestMockDownloadAlbum(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	bucket, _ := m.CreateBucket(ctx)
	f1, _ := m.UploadFile(ctx, vault.FileBytes{Data: []byte("one"), Filename: "one.txt"}, vault.UploadOptions{BucketToken: bucket.Token})
	f2, _ := m.UploadFile(ctx, vault.FileBytes{Data: []byte("two"), Filename: "two.txt"}, vault.UploadOptions{BucketToken: bucket.Token})
	album, _ := m.CreateAlbum(ctx, vault.AlbumCreateBody{Name: "zip", BucketToken: bucket.Token})
	if _, err := m.AssociateFiles(ctx, album.Token, []string{f1.Token, f2.Token}); err != nil {
		t.Fatalf("AssociateFiles: %v", err)
	}

	all, err := m.DownloadAlbum(ctx, album.Token, []int64{})
	if err != nil {
		t.Fatalf("DownloadAlbum: %v", err)
	}
	if got := zipEntries(t, all); strings.Join(got, ",") != "one.txt=one,two.txt=two" {
		t.Fatalf("unexpected zip entries: %v", got)
	}

	some, err := m.DownloadAlbum(ctx, album.Token, []int64{f2.ID})
	if err != nil {
		t.Fatalf("DownloadAlbum subset: %v", err)
	}
	if got := zipEntries(t, some); strings.Join(got, ",") != "two.txt=two" {
		t.Fatalf("unexpected zip entries: %v", got)
	}

	if _, err := m.DownloadAlbum(ctx, album.Token, []int64{999}); statusOf(err) != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown ids, got %v", err)
	}
}

func zipEntries(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, _ := io.ReadAll(rc)
		_ = rc.Close()
		out = append(out, f.Name+"="+string(body))
	}
	sort.Strings(out)
	return out
}

func TestMockSeed(t *testing.T) {
	m, _ := newMock()
	seed := []devseed.FileSeed{
		{Token: "seed-1", Filename: "hello.txt", Base64: base64.StdEncoding.EncodeToString([]byte("hello")), Bucket: "bucket-1"},
		{Filename: "locked.txt", Base64: base64.StdEncoding.EncodeToString([]byte("locked")), Password: "pw", Bucket: "bucket-1"},
	}
	if err := m.Seed(seed); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	ctx := context.Background()
	data, err := m.GetFile(ctx, vault.GetFileOptions{Token: "seed-1"})
	if err != nil {
		t.Fatalf("GetFile: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("seed mismatch: %q", data)
	}
	bucket, err := m.GetBucket(ctx, "bucket-1")
	if err != nil {
		t.Fatalf("GetBucket: %v", err)
	}
	if len(bucket.Files) != 2 || !bucket.Files[1].Options.Protected {
		t.Fatalf("unexpected seeded bucket: %#v", bucket)
	}

	if err := m.Seed([]devseed.FileSeed{{Filename: "bad", Base64: "!!"}}); err == nil {
		t.Fatalf("expected invalid base64 to fail")
	}
}

func TestMockSameMillisecondUploadsGetDistinctKeys(t *testing.T) {
	m, _ := newMock()
	ctx := context.Background()

	first, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("first"), Filename: "same.txt"}, vault.UploadOptions{OneTimeDownload: vault.Bool(true)})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	second, err := m.UploadFile(ctx, vault.FileBytes{Data: []byte("second"), Filename: "same.txt"}, vault.UploadOptions{Password: "pw"})
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if first.URL != "https://vault.test/f/1710111505084/same.txt" {
		t.Fatalf("unexpected first url: %s", first.URL)
	}
	if second.URL != "https://vault.test/f/1710111505085/same.txt" {
		t.Fatalf("unexpected second url: %s", second.URL)
	}

	data, err := m.GetFile(ctx, vault.GetFileOptions{Filename: "1710111505085/same.txt", Password: "pw"})
	if err != nil {
		t.Fatalf("GetFile second: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("second mismatch: %q", data)
	}
	data, err = m.GetFile(ctx, vault.GetFileOptions{Filename: "1710111505084/same.txt"})
	if err != nil {
		t.Fatalf("GetFile first: %v", err)
	}
	if string(data) != "first" {
		t.Fatalf("first mismatch: %q", data)
	}
	if _, err := m.FileInfo(ctx, first.Token, nil); !mock.IsNotFound(err) {
		t.Fatalf("expected one-time file removed, got %v", err)
	}
	if _, err := m.FileInfo(ctx, second.Token, nil); err != nil {
		t.Fatalf("second file should remain: %v", err)
	}

	if err := m.Seed([]devseed.FileSeed{
		{Token: "s-1", Filename: "same.txt", Base64: base64.StdEncoding.EncodeToString([]byte("s1"))},
		{Token: "s-2", Filename: "same.txt", Base64: base64.StdEncoding.EncodeToString([]byte("s2"))},
	}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	a, _ := m.FileInfo(ctx, "s-1", nil)
	b, _ := m.FileInfo(ctx, "s-2", nil)
	if a == nil || b == nil || a.URL == b.URL {
		t.Fatalf("seeded files share a url: %#v %#v", a, b)
	}
}

func TestMockThroughClient(t *testing.T) {
	m, _ := newMock()
	client := vault.NewWithBackend(m)
	ctx := context.Background()

	rec, err := client.UploadFile(ctx, vault.FileBytes{Data: []byte("via client"), Filename: "c.txt"}, nil)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	res, err := client.DeleteFile(ctx, rec.Token)
	if err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if *res != (vault.GenericSuccess{Success: true, Description: "deleted"}) {
		t.Fatalf("unexpected delete result: %#v", res)
	}
}

func TestParseExpiry(t *testing.T) {
	cases := map[string]time.Duration{
		"30m": 30 * time.Minute,
		"1h":  time.Hour,
		"2d":  48 * time.Hour,
	}
	for in, want := range cases {
		got, err := mock.ParseExpiry(in)
		if err != nil || got != want {
			t.Fatalf("ParseExpiry(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"", "0d", "1w", "h", "-1h"} {
		if _, err := mock.ParseExpiry(in); err == nil {
			t.Fatalf("ParseExpiry(%q) should fail", in)
		}
	}
}

func TestFormatRetention(t *testing.T) {
	d := 332*24*time.Hour + 7*time.Hour + 18*time.Minute + 8*time.Second
	if got := mock.FormatRetention(d); got != "332 days 7 hours 18 minutes 8 seconds" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := mock.FormatRetention(90 * time.Second); got != "1 minutes 30 seconds" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := mock.FormatRetention(0); got != "0 seconds" {
		t.Fatalf("unexpected format: %q", got)
	}
}
