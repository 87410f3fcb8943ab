package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Maniblazestarboy/api-linkado/internal/domain/entity"
)

// SubmissionIndex keeps submissions searchable in Elasticsearch.
type SubmissionIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewSubmissionIndex(es *elasticsearch.Client, index string) *SubmissionIndex {
	return &SubmissionIndex{ES: es, IndexName: index}
}

type submissionDoc struct {
	ID        string   `json:"id"`
	Name      string   `json:"nome"`
	Contact   string   `json:"contato"`
	Plan      string   `json:"plano"`
	Instagram string   `json:"instagram"`
	Links     []string `json:"links"`
	Logo      string   `json:"logo"`
	Notes     string   `json:"observacoes"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toDoc(s *entity.Submission) submissionDoc {
	return submissionDoc{
		ID:        s.ID,
		Name:      s.Name,
		Contact:   s.Contact,
		Plan:      string(s.Plan),
		Instagram: s.Instagram,
		Links:     s.Links,
		Logo:      s.Logo,
		Notes:     s.Notes,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt: s.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func (d submissionDoc) entity() *entity.Submission {
	s := &entity.Submission{
		ID:        d.ID,
		Name:      d.Name,
		Contact:   d.Contact,
		Plan:      entity.Plan(d.Plan),
		Instagram: d.Instagram,
		Links:     d.Links,
		Logo:      d.Logo,
		Notes:     d.Notes,
		Status:    entity.SubmissionStatus(d.Status),
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339Nano, d.CreatedAt)
	s.UpdatedAt, _ = time.Parse(time.RFC3339Nano, d.UpdatedAt)
	return s
}

func (x *SubmissionIndex) Index(ctx context.Context, s *entity.Submission) error {
	b, err := json.Marshal(toDoc(s))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.IndexName, DocumentID: s.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(ctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", s.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match query over the text fields of a submission.
func (x *SubmissionIndex) Search(ctx context.Context, q string, size int) ([]*entity.Submission, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"nome^2", "instagram^2", "contato", "plano", "links", "observacoes"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	res, err := x.ES.Search(
		x.ES.Search.WithContext(ctx),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source submissionDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]*entity.Submission, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.entity())
	}
	return out, nil
}
