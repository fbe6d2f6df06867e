package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-content-storefront/internal/domain/entity"
)

// ErrSearchDisabled is returned by a ContentIndex without a client.
var ErrSearchDisabled = errors.New("search index not configured")

// ContentIndex mirrors catalog entries into Elasticsearch for free-text search.
// A nil *ContentIndex or one without a client is a valid, disabled index.
type ContentIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewContentIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *ContentIndex {
	return &ContentIndex{ES: es, Index: index, Logger: logger}
}

func (x *ContentIndex) enabled() bool {
	return x != nil && x.ES != nil && x.Index != ""
}

// Put indexes c under its id.
func (x *ContentIndex) Put(ctx context.Context, c *entity.Content) error {
	if !x.enabled() {
		return nil
	}
	doc := map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"price":       c.Price,
		"paywalled":   c.Paywalled,
		"created_at":  c.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: x.Index, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, x.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// searchSize caps a requested result count to 1..50, defaulting to 10.
func searchSize(size int) int {
	if size <= 0 || size > 50 {
		return 10
	}
	return size
}

// Search runs a multi_match over name and description and returns matching ids by score.
func (x *ContentIndex) Search(ctx context.Context, q string, size int) ([]string, error) {
	if !x.enabled() {
		return nil, ErrSearchDisabled
	}
	size = searchSize(size)
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(x.ES.Search.WithContext(cctx), x.ES.Search.WithIndex(x.Index), x.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}

// Drop deletes the whole index. A missing index is not an error.
func (x *ContentIndex) Drop(ctx context.Context) error {
	if !x.enabled() {
		return nil
	}
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := x.ES.Indices.Delete([]string{x.Index}, x.ES.Indices.Delete.WithContext(cctx))
	if err != nil {
		return fmt.Errorf("es delete index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete index: %s", res.Status())
	}
	return nil
}
