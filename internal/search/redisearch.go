package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoplane/storefront_api/internal/config"
	"github.com/shoplane/storefront_api/internal/models"
)

const (
	productIndexName = "idx:products"
	productKeyPrefix = "product:"
)

// RediSearchBackend is the full-featured search variant: an inverted index
// with native faceting, backed by the RediSearch module.
type RediSearchBackend struct {
	client *redis.Client
}

// NewRediSearchBackend connects to Redis and ensures the product index
// exists. A connection or index failure is returned to the factory, which
// substitutes the fallback backend instead of failing startup.
func NewRediSearchBackend(ctx context.Context, cfg *config.RedisConfig) (*RediSearchBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	b := &RediSearchBackend{client: client}
	if err := b.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Name identifies the backend variant.
func (b *RediSearchBackend) Name() string {
	return "redisearch"
}

// ensureIndex creates the product index schema if it does not exist yet.
func (b *RediSearchBackend) ensureIndex(ctx context.Context) error {
	err := b.client.FTCreate(ctx, productIndexName,
		&redis.FTCreateOptions{
			OnHash: true,
			Prefix: []interface{}{productKeyPrefix},
		},
		&redis.FieldSchema{FieldName: "name", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "description", FieldType: redis.SearchFieldTypeText},
		&redis.FieldSchema{FieldName: "slug", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "brand", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "category", FieldType: redis.SearchFieldTypeTag},
		&redis.FieldSchema{FieldName: "price", FieldType: redis.SearchFieldTypeNumeric},
		&redis.FieldSchema{FieldName: "id", FieldType: redis.SearchFieldTypeNumeric},
	).Err()
	if err != nil && !strings.Contains(err.Error(), "Index already exists") {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	return nil
}

// IndexProducts writes every product as a hash under the indexed prefix.
func (b *RediSearchBackend) IndexProducts(ctx context.Context, products []models.Product) error {
	pipe := b.client.Pipeline()
	for _, p := range products {
		d := toDocument(p)
		pipe.HSet(ctx, productKeyPrefix+strconv.Itoa(d.ID), map[string]interface{}{
			"id":          d.ID,
			"name":        d.Name,
			"slug":        d.Slug,
			"description": d.Description,
			"category":    d.Category,
			"brand":       d.Brand,
			"price":       d.Price,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index products: %w", err)
	}
	return nil
}

// Search queries the inverted index and aggregates facet counts natively.
func (b *RediSearchBackend) Search(ctx context.Context, term string, opts Options) (*models.SearchResult, error) {
	query := buildQuery(term, opts.Filters)

	res, err := b.client.FTSearchWithArgs(ctx, productIndexName, query, &redis.FTSearchOptions{
		LimitOffset: (opts.Page - 1) * opts.PerPage,
		Limit:       opts.PerPage,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	hits := make([]models.SearchHit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		hits = append(hits, models.SearchHit{Document: docFromFields(doc.Fields)})
	}

	facets := make([]models.FacetCount, 0, 2)
	for _, field := range []string{"brand", "category"} {
		fc, err := b.facetCounts(ctx, query, field)
		if err != nil {
			return nil, err
		}
		facets = append(facets, fc)
	}

	return &models.SearchResult{
		Hits:        hits,
		Found:       int(res.Total),
		FacetCounts: facets,
		Page:        opts.Page,
		PerPage:     opts.PerPage,
	}, nil
}

// docFromFields rebuilds a document from the stored hash fields.
func docFromFields(fields map[string]string) models.SearchDocument {
	id, _ := strconv.Atoi(fields["id"])
	price, _ := strconv.ParseFloat(fields["price"], 64)
	return models.SearchDocument{
		ID:          id,
		Name:        fields["name"],
		Slug:        fields["slug"],
		Description: fields["description"],
		Category:    fields["category"],
		Brand:       fields["brand"],
		Price:       price,
	}
}

// facetCounts groups the matching documents by one tag field.
func (b *RediSearchBackend) facetCounts(ctx context.Context, query, field string) (models.FacetCount, error) {
	res, err := b.client.FTAggregateWithArgs(ctx, productIndexName, query, &redis.FTAggregateOptions{
		GroupBy: []redis.FTAggregateGroupBy{{
			Fields: []interface{}{"@" + field},
			Reduce: []redis.FTAggregateReducer{{Reducer: redis.SearchCount, As: "count"}},
		}},
	}).Result()
	if err != nil {
		return models.FacetCount{}, fmt.Errorf("facet aggregation failed for %s: %w", field, err)
	}

	values := make([]models.FacetValue, 0, len(res.Rows))
	for _, row := range res.Rows {
		value, _ := row.Fields[field].(string)
		if value == "" {
			continue
		}
		count := 0
		switch n := row.Fields["count"].(type) {
		case string:
			count, _ = strconv.Atoi(n)
		case int64:
			count = int(n)
		case float64:
			count = int(n)
		}
		values = append(values, models.FacetValue{Value: value, Count: count})
	}

	return models.FacetCount{Field: field, Values: values}, nil
}

// buildQuery combines the term match over name/description with tag filters.
func buildQuery(term string, filters []Filter) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("@name|description:(%s)", escapeQueryTerm(term)))
	for _, f := range filters {
		sb.WriteString(fmt.Sprintf(" @%s:{%s}", f.Field, escapeQueryTerm(f.Value)))
	}
	return sb.String()
}

// escapeQueryTerm escapes RediSearch query syntax characters.
func escapeQueryTerm(term string) string {
	var sb strings.Builder
	for _, r := range term {
		if strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*()-+=~|/\ `, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
