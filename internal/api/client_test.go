package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tour-booking-platform/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSendsBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	ac := &auth.Context{SessionToken: "tok-123"}

	_, err := client.Do(context.Background(), ac, http.MethodGet, "/user/me", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestDoSkipAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	ac := &auth.Context{SessionToken: "tok-123"}

	_, err := client.Do(context.Background(), ac, http.MethodPost, "/authentication/login", nil, &Options{SkipAuth: true})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestDoNilAuthContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Do(context.Background(), nil, http.MethodGet, "/odata/tour", nil, nil)
	require.NoError(t, err)
}

func TestDoNonSuccessReturnsTypedError(t *testing.T) {
	const payload = `{"message":"Email or password is incorrect"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Do(context.Background(), nil, http.MethodPost, "/authentication/login", map[string]string{}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr), "error should be *Error, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, payload, string(apiErr.Payload), "payload must be preserved byte for byte")
	assert.Equal(t, "Email or password is incorrect", apiErr.Message())
	assert.True(t, IsUnauthorized(err))
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestDoTransportErrorHasNoPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	client := NewClient(Config{BaseURL: server.URL})
	_, err := client.Do(context.Background(), nil, http.MethodGet, "/order", nil, nil)
	require.Error(t, err)

	var apiErr *Error
	assert.False(t, errors.As(err, &apiErr), "transport failures must not masquerade as API errors")
}

func TestDoJSONDecodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"userName":"Asha","email":"asha@example.com"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	var profile Profile
	err := client.DoJSON(context.Background(), nil, http.MethodGet, "/user/me", nil, &profile, nil)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)
	assert.Equal(t, "asha@example.com", profile.Email)
}

func TestResolveURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://backend:5000/api/"})

	tests := []struct {
		name string
		path string
		opts *Options
		want string
	}{
		{"default base", "/order", nil, "http://backend:5000/api/order"},
		{"missing leading slash", "order", nil, "http://backend:5000/api/order"},
		{"override base", "/media", &Options{BaseURL: strPtr("http://cdn:9000")}, "http://cdn:9000/media"},
		{"empty override keeps path as-is", "/local/health", &Options{BaseURL: strPtr("")}, "/local/health"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			if opts == nil {
				opts = &Options{}
			}
			assert.Equal(t, tt.want, client.resolveURL(tt.path, opts))
		})
	}
}

func strPtr(s string) *string { return &s }
