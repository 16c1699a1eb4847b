package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lehmann314159/kabyedict/internal/models"
)

const defaultKVTimeout = 5 * time.Second

// KVStore implements EntryStore on a remote key-value database speaking the
// Replit DB protocol: GET <url>/<key> reads a value, POST <url> with a
// form-encoded key=value body writes one.
type KVStore struct {
	client  *resty.Client
	baseURL string
	key     string
}

// NewKVStore creates a KV store keeping the collection under key
func NewKVStore(baseURL, key string, timeout time.Duration) *KVStore {
	if timeout <= 0 {
		timeout = defaultKVTimeout
	}
	return NewKVStoreWithClient(resty.New().SetTimeout(timeout), baseURL, key)
}

// NewKVStoreWithClient creates a KV store with a custom HTTP client
func NewKVStoreWithClient(client *resty.Client, baseURL, key string) *KVStore {
	return &KVStore{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
	}
}

// Load fetches the collection blob, writing the seed collection if the key is absent
func (s *KVStore) Load(ctx context.Context) (*models.Collection, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get(s.baseURL + "/" + url.PathEscape(s.key))
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", ErrBackendUnavailable, s.key, err)
	}

	switch {
	case res.StatusCode() == http.StatusNotFound:
		seed := models.SeedCollection()
		if err := s.Save(ctx, seed); err != nil {
			return nil, err
		}
		return seed, nil
	case res.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("%w: get %s: status %d", ErrBackendUnavailable, s.key, res.StatusCode())
	}

	var coll models.Collection
	if err := json.Unmarshal(res.Body(), &coll); err != nil {
		return nil, fmt.Errorf("failed to decode value of %s: %w", s.key, err)
	}
	if coll.Words == nil {
		coll.Words = []models.Entry{}
	}
	return &coll, nil
}

// Save serializes the whole collection back under the key
func (s *KVStore) Save(ctx context.Context, coll *models.Collection) error {
	data, err := EncodeCollection(coll)
	if err != nil {
		return err
	}

	res, err := s.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{s.key: string(data)}).
		Post(s.baseURL)
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrBackendUnavailable, s.key, err)
	}
	if res.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: set %s: status %d", ErrBackendUnavailable, s.key, res.StatusCode())
	}
	if !res.IsSuccess() {
		return fmt.Errorf("%w: set %s: status %d", ErrStorageWrite, s.key, res.StatusCode())
	}
	return nil
}
