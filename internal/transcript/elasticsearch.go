package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"id":             {"type": "keyword"},
			"conversationId": {"type": "keyword"},
			"sequence":       {"type": "integer"},
			"role":           {"type": "keyword"},
			"content":        {"type": "text"},
			"intent":         {"type": "keyword"},
			"createdAt":      {"type": "date"}
		}
	}
}`

// SearchIndex makes transcripts searchable in Elasticsearch.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (s *SearchIndex) EnsureIndex(ctx context.Context) error {
	res, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("check index: %s", res.Status())
	}

	res, err = esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index: %s", res.Status())
	}
	return nil
}

// Record indexes each entry under its id.
func (s *SearchIndex) Record(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("%w: elasticsearch: %v", ErrArchiveWriteFailed, err)
		}

		res, err := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: e.ID.String(),
			Body:       bytes.NewReader(body),
		}.Do(ctx, s.client)
		if err != nil {
			return fmt.Errorf("%w: elasticsearch: %v", ErrArchiveWriteFailed, err)
		}
		res.Body.Close()

		if res.IsError() {
			return fmt.Errorf("%w: elasticsearch: %s", ErrArchiveWriteFailed, res.Status())
		}
	}
	return nil
}

// Search returns entries whose content matches text, optionally limited to one conversation.
func (s *SearchIndex) Search(ctx context.Context, text, conversationID string, size int) ([]Entry, error) {
	boolQuery := map[string]interface{}{
		"must": []interface{}{
			map[string]interface{}{"match": map[string]interface{}{"content": text}},
		},
	}
	if conversationID != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"conversationId": conversationID}},
		}
	}
	body, _ := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  []interface{}{map[string]interface{}{"createdAt": "asc"}},
	})

	res, err := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("search transcripts: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search transcripts: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source Entry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		entries = append(entries, h.Source)
	}
	return entries, nil
}
