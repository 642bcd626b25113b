package service

import (
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/repository"
	"github.com/parisxmas/OxiDB/go/oxidb"
)

// SearchService runs reviewer-side queries over submitted form data:
// structured filters on individual answers, text search over the whole
// submission, or both.
type SearchService struct {
	pool *db.Pool
	subs *repository.SubmissionRepo
}

func NewSearchService(pool *db.Pool, subs *repository.SubmissionRepo) *SearchService {
	return &SearchService{pool: pool, subs: subs}
}

type SearchRequest struct {
	FormType  string                      `json:"formType"`
	Status    string                      `json:"status,omitempty"`
	Filters   map[string]FilterDescriptor `json:"filters,omitempty"`
	TextQuery string                      `json:"textQuery,omitempty"`
	Skip      int                         `json:"skip"`
	Limit     int                         `json:"limit"`
}

type FilterDescriptor struct {
	Value any `json:"value,omitempty"`
	Min   any `json:"min,omitempty"`
	Max   any `json:"max,omitempty"`
}

type SearchResult struct {
	Docs  []map[string]any `json:"docs"`
	Total int              `json:"total"`
	Mode  string           `json:"mode"`
}

func (s *SearchService) Search(req SearchRequest) (*SearchResult, error) {
	c := s.pool.Get()

	if req.Limit == 0 {
		req.Limit = 20
	}

	if req.TextQuery != "" {
		subs, err := s.subs.TextSearch(req.TextQuery, req.Skip+req.Limit)
		if err != nil {
			return nil, err
		}
		docs := make([]map[string]any, 0, len(subs))
		for i := range subs {
			if i < req.Skip {
				continue
			}
			docs = append(docs, map[string]any{
				"_id":       subs[i].ID,
				"userId":    subs[i].UserID,
				"formType":  subs[i].FormType,
				"data":      subs[i].Data,
				"status":    subs[i].Status,
				"timestamp": subs[i].Timestamp,
			})
		}
		return &SearchResult{Docs: docs, Total: len(subs), Mode: "text"}, nil
	}

	query := buildQuery(req)
	docs, err := c.Find(repository.SubmissionsCollection, query, &oxidb.FindOptions{
		Skip:  &req.Skip,
		Limit: &req.Limit,
		Sort:  map[string]any{"timestamp": -1},
	})
	if err != nil {
		return nil, err
	}
	total, _ := c.Count(repository.SubmissionsCollection, query)
	mode := "all"
	if len(req.Filters) > 0 {
		mode = "structured"
	}
	return &SearchResult{Docs: docs, Total: total, Mode: mode}, nil
}

func buildQuery(req SearchRequest) map[string]any {
	conditions := []any{}

	if req.FormType != "" {
		conditions = append(conditions, map[string]any{"formType": req.FormType})
	}
	if req.Status != "" {
		conditions = append(conditions, map[string]any{"status": req.Status})
	}

	for field, filter := range req.Filters {
		dataField := "data." + field

		if filter.Min != nil || filter.Max != nil {
			if filter.Min != nil && filter.Min != "" {
				conditions = append(conditions, map[string]any{dataField: map[string]any{"$gte": filter.Min}})
			}
			if filter.Max != nil && filter.Max != "" {
				conditions = append(conditions, map[string]any{dataField: map[string]any{"$lte": filter.Max}})
			}
			continue
		}
		if filter.Value != nil && filter.Value != "" {
			conditions = append(conditions, map[string]any{dataField: filter.Value})
		}
	}

	if len(conditions) == 0 {
		return map[string]any{}
	}
	if len(conditions) == 1 {
		return conditions[0].(map[string]any)
	}
	return map[string]any{"$and": conditions}
}
