package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/project-nvt/posting-engine/internal/domain"
)

// ElasticsearchIndexer makes postings searchable
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
}

// NewElasticsearchIndexer creates an Elasticsearch indexer
func NewElasticsearchIndexer(addresses []string, indexName string) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
	}, nil
}

// Index indexes a single posting
func (i *ElasticsearchIndexer) Index(ctx context.Context, p *domain.SubmissionPayload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal posting: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      i.indexName,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index error: %s", res.Status())
	}

	return nil
}

// BulkIndex indexes a batch of postings
func (i *ElasticsearchIndexer) BulkIndex(ctx context.Context, payloads []*domain.SubmissionPayload) error {
	if len(payloads) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, p := range payloads {
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.indexName,
				"_id":    p.ID,
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')

		docBytes, err := json.Marshal(p)
		if err != nil {
			log.Printf("marshal posting %s: %v", p.ID, err)
			continue
		}
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				log.Printf("bulk index error for %s: %s - %s",
					item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason)
			}
		}
	}

	return nil
}

// EnsureIndex creates the postings index with Vietnamese-friendly analysis
// if it doesn't exist yet
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName})
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"vietnamese_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "asciifolding"]
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": {"type": "keyword"},
				"owner_user_id": {"type": "keyword"},
				"title": {
					"type": "text",
					"analyzer": "vietnamese_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"location": {"type": "text", "analyzer": "vietnamese_analyzer"},
				"description": {"type": "text", "analyzer": "vietnamese_analyzer"},
				"description_vi": {"type": "text", "analyzer": "vietnamese_analyzer"},
				"salary": {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
				"employment_type": {"type": "keyword"},
				"requirements": {"type": "text", "analyzer": "vietnamese_analyzer"},
				"specialties": {"type": "keyword"},
				"weekly_pay": {"type": "boolean"},
				"has_housing": {"type": "boolean"},
				"no_supply_deduction": {"type": "boolean"},
				"owner_will_train": {"type": "boolean"},
				"is_urgent": {"type": "boolean"},
				"is_nationwide": {"type": "boolean"},
				"tier": {"type": "keyword"},
				"duration_months": {"type": "integer"},
				"auto_renew": {"type": "boolean"},
				"final_price": {"type": "long"},
				"currency_code": {"type": "keyword"},
				"submitted_at": {"type": "date"}
			}
		}
	}`

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}
