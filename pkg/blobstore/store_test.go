package blobstore_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/roomvista/decor-services/visualizer/pkg/blobstore"
	"github.com/roomvista/decor-services/visualizer/pkg/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newStoreFixture() (*mocks.HTTPClient, blobstore.Store) {
	client := &mocks.HTTPClient{}
	store := blobstore.NewStore(blobstore.Config{
		BaseURL:       "https://storage.test",
		PublicBaseURL: "https://cdn.test",
		Bucket:        "visualizer",
		APIKey:        "key",
	}, client)

	return client, store
}

func body(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewReader([]byte(s)))
}

func TestStore_Put(t *testing.T) {
	t.Run("returns the url reported by the platform", func(t *testing.T) {
		client, store := newStoreFixture()

		client.On("Post", mock.Anything,
			"https://storage.test/storage/v1/buckets/visualizer/objects/inputs/user-1/gen-1",
			mock.Anything, mock.MatchedBy(func(headers map[string]string) bool {
				return headers["Content-Type"] == "image/jpeg" &&
					headers["Authorization"] == "Bearer key"
			})).Return(&http.Response{
			StatusCode: 201,
			Body:       body(`{"key":"inputs/user-1/gen-1","url":"https://cdn.test/visualizer/inputs/user-1/gen-1"}`),
		}, nil)

		url, err := store.Put(context.Background(), "inputs/user-1/gen-1", []byte("jpeg-bytes"), "image/jpeg")

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.test/visualizer/inputs/user-1/gen-1", url)
	})

	t.Run("falls back to the public base url when the platform omits one", func(t *testing.T) {
		client, store := newStoreFixture()

		client.On("Post", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(&http.Response{StatusCode: 200, Body: body(`{"key":"outputs/user-1/gen-1"}`)}, nil)

		url, err := store.Put(context.Background(), "outputs/user-1/gen-1", []byte("png-bytes"), "image/png")

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.test/visualizer/outputs/user-1/gen-1", url)
	})

	t.Run("oversized object is rejected", func(t *testing.T) {
		client, store := newStoreFixture()

		client.On("Post", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(&http.Response{StatusCode: 413, Body: body(`{}`)}, nil)

		_, err := store.Put(context.Background(), "inputs/user-1/gen-1", []byte("huge"), "image/jpeg")

		assert.ErrorIs(t, err, blobstore.ErrTooLarge)
	})

	t.Run("platform failure surfaces as server error", func(t *testing.T) {
		client, store := newStoreFixture()

		client.On("Post", mock.Anything, mock.AnythingOfType("string"), mock.Anything, mock.Anything).
			Return(&http.Response{StatusCode: 500, Body: body(`{}`)}, nil)

		_, err := store.Put(context.Background(), "inputs/user-1/gen-1", []byte("jpeg-bytes"), "image/jpeg")

		assert.ErrorIs(t, err, blobstore.ErrServerError)
	})
}
