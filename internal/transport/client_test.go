package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/transport"
	"github.com/openshelf/openshelf/pkg/errors"
)

func TestClientHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(nil, "", time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, transport.UserAgent, got.Get("User-Agent"))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestHeaderAuth(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-API-Key")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(&transport.HeaderAuth{Header: "X-API-Key"}, "secret", time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "secret", got)
}

func TestQueryAuth(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("key")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(&transport.QueryAuth{Param: "key"}, "secret", time.Second)
	resp, err := client.Get(context.Background(), server.URL+"?q=isbn:123")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "secret", got)
}

func TestNoAuthSkipsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transport.New(nil, "unused", time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestDecodeJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"title":"Dune"}`))
		}))
		defer server.Close()

		client := transport.New(nil, "", time.Second)
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)

		var payload struct {
			Title string `json:"title"`
		}
		require.NoError(t, transport.DecodeJSON(resp, "test", &payload))
		assert.Equal(t, "Dune", payload.Title)
	})

	t.Run("server error becomes APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer server.Close()

		client := transport.New(nil, "", time.Second)
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)

		err = transport.DecodeJSON(resp, "test", &struct{}{})
		require.Error(t, err)
		assert.True(t, errors.IsProviderUnavailable(err))

		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "boom")
	})

	t.Run("malformed body becomes ParseError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"title":`))
		}))
		defer server.Close()

		client := transport.New(nil, "", time.Second)
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)

		err = transport.DecodeJSON(resp, "test", &struct{}{})
		var parseErr *errors.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "json", parseErr.Format)
	})
}

func TestDecodeXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<record><title>Dune</title></record>`))
	}))
	defer server.Close()

	client := transport.New(nil, "", time.Second)
	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)

	var payload struct {
		Title string `xml:"title"`
	}
	require.NoError(t, transport.DecodeXML(resp, "test", &payload))
	assert.Equal(t, "Dune", payload.Title)
}
