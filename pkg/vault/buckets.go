package vault

import (
	"context"
	"fmt"
	"net/http"

	"github.com/waifuvault/waifuvault_sdk_go/internal/httpx"
)

func (b *httpBackend) CreateBucket(ctx context.Context) (*BucketRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodGet,
		Path:   "bucket/create",
	})
	if err != nil {
		return nil, err
	}
	var bucket BucketRecord
	if err := httpx.DecodeJSON(resp, &bucket); err != nil {
		return nil, fmt.Errorf("vault: decode bucket: %w", err)
	}
	return &bucket, nil
}

func (b *httpBackend) GetBucket(ctx context.Context, token string) (*BucketRecord, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("vault: http backend not configured")
	}
	body, contentType, err := httpx.WithJSONBody(map[string]string{"bucket_token": token})
	if err != nil {
		return nil, fmt.Errorf("vault: encode bucket request: %w", err)
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodPost,
		Path:   "bucket/get",
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	var bucket BucketRecord
	if err := httpx.DecodeJSON(resp, &bucket); err != nil {
		return nil, fmt.Errorf("vault: decode bucket: %w", err)
	}
	return &bucket, nil
}

func (b *httpBackend) DeleteBucket(ctx context.Context, token string) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("vault: http backend not configured")
	}
	resp, err := b.client.Do(ctx, &httpx.Request{
		Method: http.MethodDelete,
		Path:   "bucket/" + token,
	})
	if err != nil {
		return err
	}
	return httpx.Drain(resp.Body)
}
