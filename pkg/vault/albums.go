package vault

import (
	"context"
	"fmt"
	"net/http"

	"github.com/waifuvault/waifuvault_sdk_go/internal/httpx"
)

func (b *httpBackend) CreateAlbum(ctx context.Context, body AlbumCreateBody) (*AlbumRecord, error) {
	return b.albumJSON(ctx, "album/"+body.BucketToken, body)
}

func (b *httpBackend) AssociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*AlbumRecord, error) {
	return b.albumJSON(ctx, "album/"+albumToken+"/associate", map[string][]string{"fileTokens": fileTokens})
}

func (b *httpBackend) DisassociateFiles(ctx context.Context, albumToken string, fileTokens []string) (*AlbumRecord, error) {
	return b.albumJSON(ctx, "album/"+albumToken+"/disassociate", map[string][]string{"fileTokens": fileTokens})
}

// albumJSON posts payload as JSON to path and decodes the album it returns.
func (b *httpBackend) albumJSON(ctx context.Context, path string, payload any) (*AlbumRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	body, contentType, err := httpx.WithJSONBody(payload)
	if err != nil {
		return nil, fmt.Errorf("vault: encode album request: %w", err)
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   path,
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var album AlbumRecord
	if err := httpx.DecodeJSON(resp, &album); err != nil {
		return nil, fmt.Errorf("vault: decode album: %w", err)
	}
	return &album, nil
}

func (b *httpBackend) GetAlbum(ctx context.Context, token string) (*AlbumRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   "album/" + token,
	})
	if err != nil {
		return nil, err
	}
	var album AlbumRecord
	if err := httpx.DecodeJSON(resp, &album); err != nil {
		return nil, fmt.Errorf("vault: decode album: %w", err)
	}
	return &album, nil
}

func (b *httpBackend) DeleteAlbum(ctx context.Context, token string, deleteFiles bool) (*GenericSuccess, error) {
	return b.albumSuccess(ctx, http.MethodDelete, "album/"+token, httpx.Params{{Key: "deleteFiles", Value: deleteFiles}})
}

func (b *httpBackend) ShareAlbum(ctx context.Context, token string) (*GenericSuccess, error) {
	return b.albumSuccess(ctx, http.MethodGet, "album/share/"+token, nil)
}

func (b *httpBackend) RevokeAlbum(ctx context.Context, token string) (*GenericSuccess, error) {
	return b.albumSuccess(ctx, http.MethodGet, "album/revoke/"+token, nil)
}

func (b *httpBackend) albumSuccess(ctx context.Context, method, path string, query httpx.Params) (*GenericSuccess, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: method,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	var res GenericSuccess
	if err := httpx.DecodeJSON(resp, &res); err != nil {
		return nil, fmt.Errorf("vault: decode %s response: %w", path, err)
	}
	return &res, nil
}

func (b *httpBackend) DownloadAlbum(ctx context.Context, token string, fileIDs []int64) ([]byte, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	body, contentType, err := httpx.WithJSONBody(fileIDs)
	if err != nil {
		return nil, fmt.Errorf("vault: encode album selection: %w", err)
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "album/download/" + token,
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	return httpx.ReadAllAndClose(resp.Body)
}
