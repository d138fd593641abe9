package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commhub/community-settings/internal/logging"
	"github.com/commhub/community-settings/internal/settings/domain"
	"github.com/commhub/community-settings/internal/settings/service"
)

var _ service.Gateway = (*Client)(nil)

func TestClient_FetchProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/p1", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "req-1", r.Header.Get("X-Request-Id"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"ok": true, "project": {"id": "p1", "name": "Bakery", "disabled": null, "variables": "(a||b)"}}`))
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	ctx := logging.WithRequestID(context.Background(), "req-1")

	p, err := c.FetchProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Bakery", p.Name)
	assert.Nil(t, p.Disabled)
	assert.Equal(t, "(a||b)", p.Variables)
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusConflict, domain.ErrConflict},
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusTooManyRequests, domain.ErrRateLimited},
		{http.StatusServiceUnavailable, domain.ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"ok": false, "error": "nope"}`))
			}))
			defer server.Close()

			err := New(server.URL, time.Second).DeleteTag(context.Background(), "t1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestClient_CreateTagSendsEmptyIDForPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/p1/tags", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "", body["id"])
		assert.Equal(t, "Sale", body["name"])
		assert.Nil(t, body["note"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"ok": true, "tag": {"id": "t9", "project_id": "p1", "name": "Sale", "keyword": "sale", "color": "#fff"}}`))
	}))
	defer server.Close()

	tag := domain.Tag{ID: domain.NewPending(), ProjectID: "p1", Name: "Sale", Keyword: "sale", Color: "#fff"}
	created, err := New(server.URL, time.Second).CreateTag(context.Background(), "p1", tag)
	require.NoError(t, err)
	assert.Equal(t, domain.Persisted("t9"), created.ID)
}

func TestClient_ReplaceGlobalVariableDefinitions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/p1/global-variables/definitions", r.URL.Path)
		assert.Equal(t, http.MethodPut, r.Method)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"definitions": [
			{"id": "d1", "project_id": "p1", "name": "City", "placeholder_key": "city", "note": null},
			{"id": "", "project_id": "p1", "name": "Manager", "placeholder_key": "manager", "note": null}
		]}`, string(raw))
		w.Write([]byte(`{"ok": true, "definitions": [
			{"id": "d1", "name": "City", "placeholder_key": "city"},
			{"id": "d2", "name": "Manager", "placeholder_key": "manager"}
		]}`))
	}))
	defer server.Close()

	defs := []domain.GlobalVariableDefinition{
		{ID: domain.Persisted("d1"), ProjectID: "p1", Name: "City", PlaceholderKey: "city"},
		{ID: domain.NewPending(), ProjectID: "p1", Name: "Manager", PlaceholderKey: "manager"},
	}
	stored, err := New(server.URL, time.Second).ReplaceGlobalVariableDefinitions(context.Background(), "p1", defs)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, domain.Persisted("d2"), stored[1].ID)
}

func TestClient_RequestAiVariableFill(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/p1/variables/ai-fill", r.URL.Path)
		w.Write([]byte(`{"ok": true, "filled": [{"name": "Website", "value": "https://x.example"}], "new": []}`))
	}))
	defer server.Close()

	res, err := New(server.URL, time.Second).RequestAiVariableFill(context.Background(), "p1", []domain.NamedValue{{Name: "Website"}})
	require.NoError(t, err)
	assert.Equal(t, []domain.NamedValue{{Name: "Website", Value: "https://x.example"}}, res.Filled)
}

func TestClient_UnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := c.ListTags(context.Background(), "p1")
	require.Error(t, err)
}
