// Package storage writes product records to Elasticsearch.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/jonesrussell/north-cloud/product-ingestor/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/product-ingestor/internal/product"
)

// maxErrorBody caps how much of an error response is quoted in a Reason.
const maxErrorBody = 512

// Outcome is the result of submitting one record.
type Outcome struct {
	OK     bool
	SKU    string
	Reason string
}

// Indexer submits each record as a single-document bulk request.
type Indexer struct {
	client *es.Client
	index  string
	logger logger.Logger
}

// NewIndexer creates an Indexer writing to index.
func NewIndexer(client *es.Client, index string, log logger.Logger) *Indexer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Indexer{client: client, index: index, logger: log}
}

type bulkResponse struct {
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}

type bulkItem struct {
	Index  string     `json:"_index"`
	ID     string     `json:"_id"`
	Status int        `json:"status"`
	Error  *bulkError `json:"error,omitempty"`
}

type bulkError struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// Emit submits rec. Failures of any kind are reported in the Outcome and
// logged at error level; nothing is retried.
func (i *Indexer) Emit(ctx context.Context, rec product.Record) Outcome {
	log := logger.FromContextOr(ctx, i.logger)
	outcome := Outcome{SKU: rec.SKU()}

	if err := i.submit(ctx, rec); err != nil {
		outcome.Reason = err.Error()
		log.Error("Failed to index product",
			logger.SKU(outcome.SKU),
			logger.String("index", i.index),
			logger.Error(err),
		)
		return outcome
	}

	outcome.OK = true
	log.Info("Indexed product", logger.SKU(outcome.SKU), logger.String("index", i.index))
	return outcome
}

func (i *Indexer) submit(ctx context.Context, rec product.Record) error {
	body, err := i.bulkBody(rec)
	if err != nil {
		return err
	}

	res, err := i.client.Bulk(
		bytes.NewReader(body),
		i.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return fmt.Errorf("bulk request rejected [%s]: %s", res.Status(), strings.TrimSpace(string(msg)))
	}

	var parsed bulkResponse
	if decodeErr := json.NewDecoder(res.Body).Decode(&parsed); decodeErr != nil {
		return fmt.Errorf("decode bulk response: %w", decodeErr)
	}

	if parsed.Errors || len(parsed.Items) == 0 {
		return &BulkError{items: parsed.failures()}
	}
	return nil
}

// bulkBody renders one index action and its source as NDJSON.
func (i *Indexer) bulkBody(rec product.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	meta := map[string]any{
		"index": map[string]any{
			"_index": i.index,
		},
	}
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("failed to encode meta: %w", err)
	}
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

type failedItem struct {
	position int
	bulkItem
}

func (r *bulkResponse) failures() []failedItem {
	var out []failedItem
	for pos, item := range r.Items {
		for _, result := range item {
			if result.Error != nil || result.Status >= 300 {
				out = append(out, failedItem{position: pos, bulkItem: result})
			}
		}
	}
	return out
}

// BulkError describes the failed items of a bulk response.
type BulkError struct {
	items []failedItem
}

// Failed reports how many items failed.
func (e *BulkError) Failed() int {
	return len(e.items)
}

func (e *BulkError) Error() string {
	var b strings.Builder
	b.WriteString("failure in bulk execution:")
	if len(e.items) == 0 {
		b.WriteString("\nno item results reported")
	}
	for _, item := range e.items {
		var typ, reason string
		if item.Error != nil {
			typ, reason = item.Error.Type, item.Error.Reason
		}
		fmt.Fprintf(&b, "\n[%d]: index [%s], id [%s], message [status=%d, type=%s, reason=%s]",
			item.position, item.Index, item.ID, item.Status, typ, reason)
	}
	return b.String()
}
