// audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Repository is the append-only store behind the audit sink. Append must be
// safe for concurrent use; each call writes a single atomic record.
type Repository interface {
	Append(ctx context.Context, record Record) error
	Query(ctx context.Context, from, to time.Time, principalID, matterID string) ([]Record, error)
}

const decisionIndex = "access-decisions"

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// Append indexes one decision record.
func (r *ElasticsearchRepository) Append(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	documentID := fmt.Sprintf("%d-%s", record.Timestamp.UnixNano(), record.PrincipalID)
	if record.CheckID != "" {
		documentID = record.CheckID
	}

	req := esapi.IndexRequest{
		Index:      decisionIndex,
		DocumentID: documentID,
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing decision record: %s", res.String())
	}

	return nil
}

// Query searches decision records within a time frame, optionally filtered by
// principal and matter. Used by compliance reporting, never by the evaluators.
func (r *ElasticsearchRepository) Query(ctx context.Context, from, to time.Time, principalID, matterID string) ([]Record, error) {
	must := []interface{}{
		map[string]interface{}{
			"range": map[string]interface{}{
				"timestamp": map[string]interface{}{
					"gte": from.Format(time.RFC3339),
					"lte": to.Format(time.RFC3339),
				},
			},
		},
	}

	if principalID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"principal_id": principalID,
			},
		})
	}

	if matterID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{
				"matter_id": matterID,
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": must,
			},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, err
	}

	res, err := r.esClient.Search(
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(decisionIndex),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching decision records: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	hits := rmap["hits"].(map[string]interface{})["hits"].([]interface{})
	records := make([]Record, len(hits))
	for i, hit := range hits {
		source := hit.(map[string]interface{})["_source"]
		data, _ := json.Marshal(source)
		json.Unmarshal(data, &records[i])
	}

	return records, nil
}
