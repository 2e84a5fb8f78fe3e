package vault

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/waifuvault/waifuvault_sdk_go/internal/httpx"
)

// defaultUploadFilename is used for in-memory uploads without a filename.
const defaultUploadFilename = "blob"

type httpBackend struct {
	client *httpx.Client
}

func (b *httpBackend) UploadFile(ctx context.Context, src UploadSource, opts UploadOptions) (*FileRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}

	var (
		body        *bytes.Buffer
		contentType string
		err         error
	)
	switch s := src.(type) {
	case FileBytes:
		body, contentType, err = multipartBody(s, opts.Password)
		if err != nil {
			return nil, err
		}
	case RemoteURL:
		form := httpx.Params{
			{Key: "url", Value: s.URL},
			{Key: "password", Value: optional(opts.Password)},
		}
		body = bytes.NewBufferString(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	default:
		return nil, fmt.Errorf("%w: unsupported upload source %T", ErrInvalidInput, src)
	}

	header := http.Header{"Content-Type": []string{contentType}}
	if opts.ClientIP != "" {
		header.Set("X-Forwarded-For", opts.ClientIP)
		header.Set("X-Real-IP", opts.ClientIP)
	}

	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPut,
		Path:   opts.BucketToken,
		Query: httpx.Params{
			{Key: "expires", Value: optional(opts.Expires)},
			{Key: "hide_filename", Value: opts.HideFilename},
			{Key: "one_time_download", Value: opts.OneTimeDownload},
		},
		Header: header,
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var record FileRecord
	if err := httpx.DecodeJSON(resp, &record); err != nil {
		return nil, fmt.Errorf("vault: decode upload response: %w", err)
	}
	return &record, nil
}

func multipartBody(src FileBytes, password string) (*bytes.Buffer, string, error) {
	filename := src.Filename
	if filename == "" {
		filename = defaultUploadFilename
	}
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", fmt.Errorf("vault: build multipart body: %w", err)
	}
	if _, err := part.Write(src.Data); err != nil {
		return nil, "", fmt.Errorf("vault: build multipart body: %w", err)
	}
	if password != "" {
		if err := w.WriteField("password", password); err != nil {
			return nil, "", fmt.Errorf("vault: build multipart body: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("vault: build multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func (b *httpBackend) FileInfo(ctx context.Context, token string, formatted *bool) (*FileRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   token,
		Query:  httpx.Params{{Key: "formatted", Value: formatted}},
	})
	if err != nil {
		return nil, err
	}
	var record FileRecord
	if err := httpx.DecodeJSON(resp, &record); err != nil {
		return nil, fmt.Errorf("vault: decode file info: %w", err)
	}
	return &record, nil
}

func (b *httpBackend) DeleteFile(ctx context.Context, token string) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("vault: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodDelete,
		Path:   token,
	})
	if err != nil {
		return err
	}
	// The vault answers "true"; the body carries nothing else.
	return httpx.Drain(resp.Body)
}

func (b *httpBackend) GetFile(ctx context.Context, opts GetFileOptions) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}

	var fileURL string
	if opts.Filename != "" {
		fileURL = b.client.BaseURL() + "/f/" + strings.TrimPrefix(opts.Filename, "/")
	} else {
		info, err := b.FileInfo(ctx, opts.Token, nil)
		if err != nil {
			return nil, err
		}
		fileURL = info.URL
	}

	header := http.Header{}
	if opts.Password != "" {
		header.Set("x-password", opts.Password)
	}
	resp, err := b.client.Send(ctx, &httpx.Request{
		Method: http.MethodGet,
		URL:    fileURL,
		Header: header,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusForbidden {
		_ = httpx.Drain(resp.Body)
		return nil, ErrIncorrectPassword
	}
	if err := httpx.CheckError(resp); err != nil {
		return nil, err
	}
	return httpx.ReadAllAndClose(resp.Body)
}

func (b *httpBackend) ModifyEntry(ctx context.Context, token string, payload ModifyEntryPayload) (*FileRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	body, contentType, err := httpx.WithJSONBody(payload)
	if err != nil {
		return nil, fmt.Errorf("vault: encode modify payload: %w", err)
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPatch,
		Path:   token,
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var record FileRecord
	if err := httpx.DecodeJSON(resp, &record); err != nil {
		return nil, fmt.Errorf("vault: decode modify response: %w", err)
	}
	return &record, nil
}

// optional maps an empty string to an omitted parameter.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
