// Package qdrant provides a vector index backed by a Qdrant server.
package qdrant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Payload keys reserved by the index. Chunk metadata is stored alongside them.
const (
	chunkKey  = "_chunk_id"
	reportKey = "_report_id"
)

// pointNamespace derives stable point UUIDs from chunk IDs, which Qdrant
// does not accept verbatim unless they already are UUIDs.
var pointNamespace = uuid.MustParse("6f1c9d2e-3b7a-4e58-9c0d-2a8f5b1e7d43")

// Config holds Qdrant connection settings.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// Dimensions sizes new collections. Zero takes the size of the first vector.
	Dimensions int
}

// Index stores vectors as Qdrant points.
type Index struct {
	client *qdrant.Client
	dims   int

	mu      sync.Mutex
	ensured map[string]bool
}

// NewIndex creates a client for the configured server.
func NewIndex(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = domain.DefaultQdrantPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: qdrant at %s:%d: %v", domain.ErrVectorIndexUnavailable, cfg.Host, cfg.Port, err)
	}
	logger.Debug("Connected to qdrant at %s:%d", cfg.Host, cfg.Port)

	return &Index{
		client:  client,
		dims:    cfg.Dimensions,
		ensured: make(map[string]bool),
	}, nil
}

// ensureCollection creates the collection on first write.
func (x *Index) ensureCollection(ctx context.Context, name string, size int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.ensured[name] {
		return nil
	}

	exists, err := x.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check qdrant collection %s: %w", name, err)
	}
	if !exists {
		if x.dims > 0 {
			size = x.dims
		}
		err = x.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(size),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			return fmt.Errorf("create qdrant collection %s: %w", name, err)
		}
		logger.Debug("Created qdrant collection %s (%d dims)", name, size)
	}
	x.ensured[name] = true
	return nil
}

// exists reports whether a collection is present without creating it.
func (x *Index) exists(ctx context.Context, name string) (bool, error) {
	x.mu.Lock()
	ok := x.ensured[name]
	x.mu.Unlock()
	if ok {
		return true, nil
	}
	return x.client.CollectionExists(ctx, name)
}

// Upsert inserts or replaces vectors in a collection.
func (x *Index) Upsert(ctx context.Context, collection string, items []driven.VectorItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := x.ensureCollection(ctx, collection, len(items[0].Embedding)); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(items))
	for _, item := range items {
		if item.ChunkID == "" {
			return fmt.Errorf("%w: vector item without chunk ID", domain.ErrInvalidInput)
		}
		payload, err := toPayload(item)
		if err != nil {
			return err
		}
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(item.ChunkID)),
			Vectors: qdrant.NewVectors(item.Embedding...),
			Payload: payload,
		})
	}

	wait := true
	_, err := x.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert into %s: %w", collection, err)
	}
	return nil
}

// Search returns the k nearest chunks that satisfy filter.
// A collection that was never written is empty, not an error.
func (x *Index) Search(
	ctx context.Context, collection string, query []float32, k int, filter domain.MetadataFilter,
) ([]driven.VectorHit, error) {
	if k <= 0 {
		return []driven.VectorHit{}, nil
	}
	ok, err := x.exists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("check qdrant collection %s: %w", collection, err)
	}
	if !ok {
		return []driven.VectorHit{}, nil
	}

	res, err := x.client.GetPointsClient().Search(ctx, &qdrant.SearchPoints{
		CollectionName: collection,
		Vector:         query,
		Limit:          uint64(k),
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search %s: %w", collection, err)
	}
	return toHits(res.GetResult()), nil
}

// DeleteByReport removes every point belonging to a report.
func (x *Index) DeleteByReport(ctx context.Context, collection, reportID string) error {
	ok, err := x.exists(ctx, collection)
	if err != nil {
		return fmt.Errorf("check qdrant collection %s: %w", collection, err)
	}
	if !ok {
		return nil
	}

	wait := true
	_, err = x.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{Must: []*qdrant.Condition{keywordCondition(reportKey, reportID)}},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("qdrant delete report %s from %s: %w", reportID, collection, err)
	}
	return nil
}

// Close closes the gRPC connection.
func (x *Index) Close() error {
	return x.client.Close()
}

// pointID maps a chunk ID to a deterministic UUID.
func pointID(chunkID string) string {
	if _, err := uuid.Parse(chunkID); err == nil {
		return chunkID
	}
	return uuid.NewSHA1(pointNamespace, []byte(chunkID)).String()
}

func toPayload(item driven.VectorItem) (map[string]*qdrant.Value, error) {
	payload := make(map[string]*qdrant.Value, len(item.Metadata)+2)
	for key, value := range item.Metadata {
		v, err := qdrant.NewValue(value.Any())
		if err != nil {
			return nil, fmt.Errorf("convert metadata %s: %w", key, err)
		}
		payload[key] = v
	}
	payload[chunkKey] = qdrant.NewValueString(item.ChunkID)
	payload[reportKey] = qdrant.NewValueString(item.ReportID)
	return payload, nil
}

// buildFilter translates an equality filter into must-match conditions.
// Floats match through a closed range because Qdrant has no float equality.
func buildFilter(filter domain.MetadataFilter) *qdrant.Filter {
	if filter.IsEmpty() {
		return nil
	}

	keys := domain.Metadata(filter).Keys()
	conditions := make([]*qdrant.Condition, 0, len(keys))
	for _, key := range keys {
		conditions = append(conditions, condition(key, filter[key]))
	}
	return &qdrant.Filter{Must: conditions}
}

func condition(key string, v domain.MetadataValue) *qdrant.Condition {
	field := &qdrant.FieldCondition{Key: key}
	switch v.Kind() {
	case domain.KindInt:
		i, _ := v.Int()
		field.Match = &qdrant.Match{MatchValue: &qdrant.Match_Integer{Integer: i}}
	case domain.KindBool:
		b, _ := v.Bool()
		field.Match = &qdrant.Match{MatchValue: &qdrant.Match_Boolean{Boolean: b}}
	case domain.KindFloat:
		f, _ := v.Float()
		field.Range = &qdrant.Range{Gte: &f, Lte: &f}
	default:
		return keywordCondition(key, v.String())
	}
	return &qdrant.Condition{ConditionOneOf: &qdrant.Condition_Field{Field: field}}
}

func keywordCondition(key, value string) *qdrant.Condition {
	return &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key:   key,
				Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: value}},
			},
		},
	}
}

// toHits reads chunk IDs back from payloads; points written by other tools are skipped.
func toHits(points []*qdrant.ScoredPoint) []driven.VectorHit {
	hits := make([]driven.VectorHit, 0, len(points))
	for _, p := range points {
		id := p.GetPayload()[chunkKey].GetStringValue()
		if id == "" {
			continue
		}
		hits = append(hits, driven.VectorHit{ChunkID: id, Similarity: float64(p.GetScore())})
	}
	return hits
}
