package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	infraes "github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/elasticsearch"
	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/product"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// mockTransport implements http.RoundTripper for mocking Elasticsearch responses
type mockTransport struct {
	RoundTripFn func(req *http.Request) (*http.Response, error)
}

func (t *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.RoundTripFn(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header: http.Header{
			"X-Elastic-Product": []string{"Elasticsearch"},
			"Content-Type":      []string{"application/json"},
		},
	}
}

func setupMockClient(t *testing.T, fn func(req *http.Request) (*http.Response, error)) *es.Client {
	t.Helper()
	client, err := es.NewClient(es.Config{
		Transport:    &mockTransport{RoundTripFn: fn},
		DisableRetry: true,
	})
	require.NoError(t, err)
	return client
}

func observedLogger() (logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

func TestEmit_Success(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody []byte
	client := setupMockClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath, gotMethod = req.URL.Path, req.Method
		gotBody, _ = io.ReadAll(req.Body)
		return jsonResponse(http.StatusOK,
			`{"took":3,"errors":false,"items":[{"index":{"_index":"products","_id":"a1","status":201,"result":"created"}}]}`), nil
	})
	log, logs := observedLogger()

	out := storage.NewIndexer(client, "products", log).Emit(context.Background(),
		product.Record{"article_sku": "ABC-1", "name": "Foo & Bar"})

	assert.Equal(t, storage.Outcome{OK: true, SKU: "ABC-1"}, out)
	assert.Equal(t, "/_bulk", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t,
		`{"index":{"_index":"products"}}`+"\n"+`{"article_sku":"ABC-1","name":"Foo & Bar"}`+"\n",
		string(gotBody))

	entries := logs.FilterMessage("Indexed product").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ABC-1", entries[0].ContextMap()["sku"])
}

func TestEmit_Failures(t *testing.T) {
	tests := []struct {
		name       string
		respond    func(*http.Request) (*http.Response, error)
		wantReason []string
	}{
		{
			name: "item rejected",
			respond: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"errors":true,"items":[{"index":{"_index":"products","_id":"x1","status":400,`+
					`"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [price]"}}}]}`), nil
			},
			wantReason: []string{
				"failure in bulk execution:\n[0]: index [products], id [x1], message [status=400, type=mapper_parsing_exception, reason=failed to parse field [price]]",
			},
		},
		{
			name: "errors flag without item details",
			respond: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `{"errors":true,"items":[]}`), nil
			},
			wantReason: []string{"failure in bulk execution:", "no item results reported"},
		},
		{
			name: "http error status",
			respond: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusForbidden, `{"error":{"type":"cluster_block_exception"}}`), nil
			},
			wantReason: []string{"bulk request rejected", "403", "cluster_block_exception"},
		},
		{
			name: "transport error",
			respond: func(*http.Request) (*http.Response, error) {
				return nil, errors.New("connection reset by peer")
			},
			wantReason: []string{"bulk request failed", "connection reset by peer"},
		},
		{
			name: "undecodable body",
			respond: func(*http.Request) (*http.Response, error) {
				return jsonResponse(http.StatusOK, `<html>proxy error</html>`), nil
			},
			wantReason: []string{"decode bulk response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := observedLogger()
			idx := storage.NewIndexer(setupMockClient(t, tt.respond), "products", log)

			out := idx.Emit(context.Background(), product.Record{"article_sku": "SKU-7"})

			assert.False(t, out.OK)
			assert.Equal(t, "SKU-7", out.SKU)
			for _, want := range tt.wantReason {
				assert.Contains(t, out.Reason, want)
			}

			failures := logs.FilterMessage("Failed to index product").All()
			require.Len(t, failures, 1)
			assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
			assert.Equal(t, "SKU-7", failures[0].ContextMap()["sku"])
		})
	}
}

func TestEmit_UsesContextLogger(t *testing.T) {
	client := setupMockClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"errors":false,"items":[{"index":{"status":201}}]}`), nil
	})
	base, baseLogs := observedLogger()
	scoped, scopedLogs := observedLogger()

	ctx := logger.WithContext(context.Background(), scoped.With(logger.Entry("catalog.xml")))
	out := storage.NewIndexer(client, "products", base).Emit(ctx, product.Record{})

	assert.True(t, out.OK)
	assert.Empty(t, out.SKU)
	assert.Zero(t, baseLogs.Len())
	require.Equal(t, 1, scopedLogs.Len())
	assert.Equal(t, "catalog.xml", scopedLogs.All()[0].ContextMap()["entry"])
}

func TestEmit_IsNotRetried(t *testing.T) {
	bulkCalls := 0
	transport := &mockTransport{RoundTripFn: func(req *http.Request) (*http.Response, error) {
		if req.Method == http.MethodHead {
			return jsonResponse(http.StatusOK, ""), nil
		}
		bulkCalls++
		return jsonResponse(http.StatusServiceUnavailable, `{"error":"unavailable"}`), nil
	}}

	client, err := infraes.NewClient(context.Background(), infraes.Config{
		Transport:   transport,
		RetryConfig: &retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond},
	}, logger.NewNop())
	require.NoError(t, err)

	out := storage.NewIndexer(client, "products", nil).Emit(context.Background(), product.Record{"article_sku": "R"})

	assert.False(t, out.OK)
	assert.Equal(t, 1, bulkCalls)
}
