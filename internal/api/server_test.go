// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bookshelf/internal/api"
	"github.com/taibuivan/bookshelf/internal/library"
	"github.com/taibuivan/bookshelf/internal/platform/config"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

func newTestServer(t *testing.T) (http.Handler, *library.Service) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	service := library.NewService(library.NewMemoryRepository(), logger)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Catalogue: func() (int, int) { return service.Counts(ctx) },
	}, logger)

	cfg := &config.Config{
		ServerPort:     "0",
		Environment:    "development",
		RateLimitRPS:   100,
		RateLimitBurst: 150,
	}

	server := api.NewServer(ctx, cfg, logger, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Library:   library.NewHandler(service),
	})
	return server.Handler(), service
}

func serve(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(method, path, reader))
	return recorder
}

/*
TestServer_Health verifies the liveness probe.
*/
func TestServer_Health(t *testing.T) {
	handler, _ := newTestServer(t)

	recorder := serve(handler, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(constants.HeaderXRequestID))
	assert.Contains(t, recorder.Body.String(), `"ok"`)
}

/*
TestServer_Ready reports the catalogue counts.
*/
func TestServer_Ready(t *testing.T) {
	handler, _ := newTestServer(t)

	created := serve(handler, http.MethodPost, "/api/v1/authors",
		`{"first_name":"Jane","last_name":"Austen","email":"jane@x.com"}`)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	recorder := serve(handler, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data struct {
			Status string `json:"status"`
			Checks []struct {
				Name    string `json:"name"`
				IsOK    bool   `json:"ok"`
				Authors int    `json:"authors"`
				Books   int    `json:"books"`
			} `json:"checks"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))

	assert.Equal(t, "ready", body.Data.Status)
	require.Len(t, body.Data.Checks, 1)
	assert.True(t, body.Data.Checks[0].IsOK)
	assert.Equal(t, 1, body.Data.Checks[0].Authors)
	assert.Equal(t, 0, body.Data.Checks[0].Books)
}

/*
TestServer_Ready_Unwired reports a degraded state without a catalogue.
*/
func TestServer_Ready_Unwired(t *testing.T) {
	_, readiness := api.NewHealthHandlers(api.HealthDependencies{}, slog.New(slog.NewJSONHandler(io.Discard, nil)))

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "degraded")
}

/*
TestServer_MountsCatalogue routes versioned paths to the library handler.
*/
func TestServer_MountsCatalogue(t *testing.T) {
	handler, service := newTestServer(t)

	serve(handler, http.MethodPost, "/api/v1/authors", `{"first_name":"Jane","last_name":"Austen","email":"jane@x.com"}`)
	recorder := serve(handler, http.MethodPost, "/api/v1/books",
		`{"title":"Hello, World!","description":"Greetings","image_url":"https://example.com/c.jpg","price":"5","author_email":"jane@x.com"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	book, err := service.GetBook(context.Background(), "hello-world")
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@x.com"}, book.Authors)

	assert.Equal(t, http.StatusNotFound, serve(handler, http.MethodGet, "/api/v1/books/missing", "").Code)
}
