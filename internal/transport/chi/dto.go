package chi

import (
	"encoding/json"
	"fmt"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/metadata"
	"github.com/ridgeline-cloud/chunkdex/internal/domain/search/filter"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeCollectionNotFound = "collection_not_found"
	codeDimensionMismatch  = "dimension_mismatch"
	codeInvalidFilter      = "invalid_filter"
	codeEmbeddingProvider  = "embedding_provider_error"
	codeInternal           = "internal_error"
)

// createCollectionRequest is the body of PUT /collections/{collection}.
type createCollectionRequest struct {
	Dimensions int `json:"dimensions"`
}

// collectionResponse describes a collection.
type collectionResponse struct {
	Name       string `json:"name"`
	Dimensions int    `json:"dimensions"`
}

// documentInput is one document in an ingestion request.
type documentInput struct {
	Content  string          `json:"content"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// addDocumentsRequest is the body of POST /collections/{collection}/documents.
type addDocumentsRequest struct {
	Documents []documentInput `json:"documents"`
}

// addDocumentsResponse returns assigned ids in input order.
type addDocumentsResponse struct {
	IDs []int64 `json:"ids"`
}

// searchRequest is the body of POST /collections/{collection}/search.
type searchRequest struct {
	Query  string          `json:"query"`
	Limit  int             `json:"limit"`
	Filter json.RawMessage `json:"filter,omitempty"`
}

// documentResponse is one search hit.
type documentResponse struct {
	ID       int64        `json:"id"`
	Content  string       `json:"content"`
	Metadata metadata.Map `json:"metadata"`
	Score    float64      `json:"score"`
}

// searchResponse wraps search hits.
type searchResponse struct {
	Results []documentResponse `json:"results"`
}

// healthResponse reports component health.
type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// filterDTO is the wire shape of a filter expression. Exactly one field must
// be set per node.
type filterDTO struct {
	Eq      *eqDTO      `json:"eq,omitempty"`
	Compare *compareDTO `json:"compare,omitempty"`
	In      *inDTO      `json:"in,omitempty"`
	And     []filterDTO `json:"and,omitempty"`
	Or      []filterDTO `json:"or,omitempty"`
}

type eqDTO struct {
	Field string         `json:"field"`
	Value metadata.Value `json:"value"`
}

type compareDTO struct {
	Op    string         `json:"op"`
	Field string         `json:"field"`
	Value metadata.Value `json:"value"`
}

type inDTO struct {
	Field  string           `json:"field"`
	Values []metadata.Value `json:"values"`
}

// parseFilter decodes an optional filter body into an expression. A missing
// or null filter means "match everything".
func parseFilter(raw json.RawMessage) (*filter.Expression, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var dto filterDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidFilter, err)
	}
	expr, err := dto.toExpression()
	if err != nil {
		return nil, err
	}
	return &expr, nil
}

func (d filterDTO) toExpression() (filter.Expression, error) {
	set := 0
	if d.Eq != nil {
		set++
	}
	if d.Compare != nil {
		set++
	}
	if d.In != nil {
		set++
	}
	if d.And != nil {
		set++
	}
	if d.Or != nil {
		set++
	}
	if set != 1 {
		return filter.Expression{}, fmt.Errorf("%w: expected exactly one of eq, compare, in, and, or", domain.ErrInvalidFilter)
	}

	switch {
	case d.Eq != nil:
		return filter.Eq(d.Eq.Field, d.Eq.Value), nil
	case d.Compare != nil:
		op, err := parseCompareOp(d.Compare.Op)
		if err != nil {
			return filter.Expression{}, err
		}
		return filter.Compare(op, d.Compare.Field, d.Compare.Value), nil
	case d.In != nil:
		return filter.In(d.In.Field, d.In.Values...), nil
	case d.And != nil:
		children, err := childExpressions(d.And)
		if err != nil {
			return filter.Expression{}, err
		}
		return filter.And(children...), nil
	default:
		children, err := childExpressions(d.Or)
		if err != nil {
			return filter.Expression{}, err
		}
		return filter.Or(children...), nil
	}
}

func childExpressions(dtos []filterDTO) ([]filter.Expression, error) {
	children := make([]filter.Expression, len(dtos))
	for i, d := range dtos {
		expr, err := d.toExpression()
		if err != nil {
			return nil, err
		}
		children[i] = expr
	}
	return children, nil
}

func parseCompareOp(op string) (filter.CompareOp, error) {
	switch op {
	case "<", "lt":
		return filter.OpLess, nil
	case "=", "eq":
		return filter.OpEqual, nil
	case ">", "gt":
		return filter.OpGreater, nil
	default:
		return 0, fmt.Errorf("%w: unknown comparison operator %q", domain.ErrInvalidFilter, op)
	}
}

// documentsFromInput converts ingestion inputs into domain documents.
func documentsFromInput(inputs []documentInput) ([]domain.Document, error) {
	docs := make([]domain.Document, len(inputs))
	for i, in := range inputs {
		var meta metadata.Map
		if len(in.Metadata) > 0 && string(in.Metadata) != "null" {
			decoded, err := metadata.Decode(in.Metadata)
			if err != nil {
				return nil, fmt.Errorf("document %d: %w: %w", i, domain.ErrInvalidMetadata, err)
			}
			meta = decoded
		}
		docs[i] = domain.Document{Content: in.Content, Metadata: meta}
	}
	return docs, nil
}

func documentsToResponse(docs []domain.Document) []documentResponse {
	out := make([]documentResponse, len(docs))
	for i, doc := range docs {
		meta := doc.Metadata
		if meta == nil {
			meta = metadata.Map{}
		}
		out[i] = documentResponse{
			ID:       doc.ID,
			Content:  doc.Content,
			Metadata: meta,
			Score:    doc.Score,
		}
	}
	return out
}
