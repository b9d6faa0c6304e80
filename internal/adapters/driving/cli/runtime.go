package cli

import (
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/reportrag/internal/adapters/driven/ai"
	"github.com/custodia-labs/reportrag/internal/adapters/driven/config/file"
	imagefs "github.com/custodia-labs/reportrag/internal/adapters/driven/imagestore/filesystem"
	"github.com/custodia-labs/reportrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reportrag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/core/services"
	"github.com/custodia-labs/reportrag/internal/normalisers"
	"github.com/custodia-labs/reportrag/internal/normalisers/markdown"
	"github.com/custodia-labs/reportrag/internal/normalisers/plaintext"
	"github.com/custodia-labs/reportrag/internal/postprocessors"
)

// Runtime is the wired retrieval and indexing stack.
type Runtime struct {
	Tools    *services.ToolService
	Index    *services.IndexService
	Supports func(path string) bool
	Warnings []string

	store *sqlite.Store
	ai    *ai.InitResult
}

// NewRuntime builds the stack described by settings. configDir holds the
// prompts and, unless settings name another, the data directory.
func NewRuntime(settings *domain.AppSettings, configDir string) (*Runtime, error) {
	dataDir := settings.DataDir
	if dataDir == "" {
		dataDir = filepath.Join(configDir, "data")
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	rt := &Runtime{store: store}

	rt.ai, err = ai.Initialise(settings, dataDir)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Warnings = rt.ai.Warnings

	images, err := imagefs.NewStore(settings.Tools.ImageRoot)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening image store: %w", err)
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("opening prompt store: %w", err)
	}

	pipelines, err := postprocessors.BuildCollectionPipelines(settings.Index)
	if err != nil {
		rt.Close()
		return nil, err
	}

	docs := store.DocumentStore()
	embedder := rt.ai.EmbeddingService
	index := rt.ai.VectorIndex
	topK := settings.Tools.TopK

	text := services.NewVectorRetriever(domain.CollectionText, topK, embedder, index, docs)
	multimodal := services.NewVectorRetriever(domain.CollectionMultimodal, topK, embedder, index, docs)

	rt.Tools = services.NewToolService(
		services.NewAssembler(services.NewImageResolver(images), settings.Tools.SourceLabel),
		toolRetrievers(text, multimodal, filterInferrer(rt.ai.LLMService, prompts)),
		settings.Tools.Timeout,
	)

	registry := newNormalisers()
	rt.Index = services.NewIndexService(docs, index, embedder, registry, pipelines, settings.Index)
	rt.Supports = registry.Supports

	return rt, nil
}

func newNormalisers() *normalisers.Registry {
	return normalisers.NewRegistry(markdown.New(), plaintext.New())
}

// NewScratchIndex runs the real normalise, chunk and embed pipeline into
// in-memory stores, so nothing it indexes outlives the process. The
// returned func releases the embedding client.
func NewScratchIndex(settings *domain.AppSettings) (*services.IndexService, func(), error) {
	embedder, err := ai.CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, nil, err
	}
	if embedder == nil {
		return nil, nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	release := func() { _ = embedder.Close() }

	pipelines, err := postprocessors.BuildCollectionPipelines(settings.Index)
	if err != nil {
		release()
		return nil, nil, err
	}

	idx := services.NewIndexService(memory.NewDocumentStore(), memory.NewVectorIndex(), embedder,
		newNormalisers(), pipelines, settings.Index)
	return idx, release, nil
}

// toolRetrievers binds each tool to its collection. The self-query and
// multimodal tools share one inferrer.
func toolRetrievers(
	text, multimodal *services.VectorRetriever, inferrer driven.FilterInferrer,
) map[domain.ToolKind]driven.Retriever {
	return map[domain.ToolKind]driven.Retriever{
		domain.ToolBasic:      text,
		domain.ToolSelfQuery:  services.NewSelfQueryRetriever(inferrer, text),
		domain.ToolMultimodal: services.NewSelfQueryRetriever(inferrer, multimodal),
	}
}

// filterInferrer asks the LLM when one is configured and falls back to rules.
func filterInferrer(llm driven.LLMService, prompts driven.PromptStore) driven.FilterInferrer {
	if llm == nil {
		return services.NewRuleFilterInferrer()
	}
	return services.NewLLMFilterInferrer(llm, prompts)
}

// Close releases the stores and AI clients.
func (r *Runtime) Close() error {
	if r.ai != nil {
		r.ai.Close()
		r.ai = nil
	}
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	return err
}
