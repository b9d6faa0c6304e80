package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/postprocessors/chunker"
	"github.com/custodia-labs/reportrag/internal/postprocessors/imagestrip"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(chunker.Name, buildChunker)
	r.Register(imagestrip.Name, buildImageStrip)
}

// CollectionPipelines returns the processor chain used for each vector collection.
// The text collection drops image markup before chunking; the multimodal
// collection keeps it so image references survive into retrieved chunks.
func CollectionPipelines() map[string][]string {
	return map[string][]string{
		domain.CollectionText:       {imagestrip.Name, chunker.Name},
		domain.CollectionMultimodal: {chunker.Name},
	}
}

// ChunkerConfig builds the generic chunker config from index settings.
func ChunkerConfig(s domain.IndexSettings) map[string]map[string]any {
	return map[string]map[string]any{
		chunker.Name: {
			"chunk_size": s.ChunkSize,
			"overlap":    s.ChunkOverlap,
		},
	}
}

// BuildCollectionPipelines builds one pipeline per vector collection from index settings.
func BuildCollectionPipelines(s domain.IndexSettings) (map[string]driven.PostProcessorPipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	cfgs := ChunkerConfig(s)
	out := make(map[string]driven.PostProcessorPipeline)
	for collection, names := range CollectionPipelines() {
		p, err := r.BuildPipeline(names, cfgs)
		if err != nil {
			return nil, fmt.Errorf("build %s pipeline: %w", collection, err)
		}
		out[collection] = p
	}
	return out, nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Runes per chunk (default: 1000)
//   - overlap (int): Overlapping runes between chunks (default: 200)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return chunker.New(opts...), nil
}

func buildImageStrip(_ map[string]any) (driven.PostProcessor, error) {
	return imagestrip.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
