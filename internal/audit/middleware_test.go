package audit

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLogger struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (m *memoryLogger) Log(_ context.Context, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entry)
	return nil
}

type pingOutput struct {
	Body struct {
		OK bool `json:"ok"`
	}
}

func TestMiddlewareRecordsCalls(t *testing.T) {
	sink := &memoryLogger{}
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(sink, nil))
	huma.Register(api, huma.Operation{OperationID: "ping", Method: http.MethodGet, Path: "/ping"}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		out := &pingOutput{}
		out.Body.OK = true
		return out, nil
	})
	huma.Register(api, huma.Operation{OperationID: "boom", Method: http.MethodGet, Path: "/boom"}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		return nil, huma.NewError(http.StatusNotImplemented, "not implemented")
	})

	resp := api.Get("/ping?password=secret", "User-Agent: test-agent", "X-Forwarded-For: 203.0.113.9")
	require.Equal(t, http.StatusOK, resp.Code)
	resp = api.Get("/boom")
	require.Equal(t, http.StatusNotImplemented, resp.Code)

	require.Len(t, sink.entries, 2)
	first := sink.entries[0]
	assert.Equal(t, "ping", first.Operation)
	assert.Equal(t, http.MethodGet, first.Method)
	assert.Equal(t, "/ping", first.Path)
	assert.Equal(t, http.StatusOK, first.Status)
	assert.Equal(t, "test-agent", first.UserAgent)
	assert.Equal(t, "203.0.113.9", first.IP)
	assert.Equal(t, http.StatusNotImplemented, sink.entries[1].Status)
}

func TestMiddlewareIgnoresWriteFailures(t *testing.T) {
	sink := &memoryLogger{err: errors.New("disk full")}
	_, api := humatest.New(t)
	api.UseMiddleware(Middleware(sink, nil))
	huma.Register(api, huma.Operation{OperationID: "ping", Method: http.MethodGet, Path: "/ping"}, func(ctx context.Context, _ *struct{}) (*pingOutput, error) {
		return &pingOutput{}, nil
	})

	resp := api.Get("/ping")
	assert.Equal(t, http.StatusOK, resp.Code)
}
