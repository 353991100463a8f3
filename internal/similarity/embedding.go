package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/audience-simulator/internal/pkg/logger"
)

// Embedder encodes text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// BedrockEmbedder encodes text with an Amazon Titan embedding model.
type BedrockEmbedder struct {
	client  *bedrockruntime.Client
	modelID string
}

type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewBedrockEmbedder builds a Titan-backed embedder in the given region.
func NewBedrockEmbedder(ctx context.Context, region, modelID string) (*BedrockEmbedder, error) {
	if region == "" {
		region = "us-east-1"
	}
	if modelID == "" {
		modelID = "amazon.titan-embed-text-v2:0"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &BedrockEmbedder{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

// Embed implements Embedder.
func (e *BedrockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(titanEmbedRequest{InputText: text})
	if err != nil {
		return nil, err
	}
	output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(e.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("titan embed: %w", err)
	}
	var response titanEmbedResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return nil, fmt.Errorf("titan embed decode: %w", err)
	}
	if len(response.Embedding) == 0 {
		return nil, fmt.Errorf("titan embed: empty vector")
	}
	return response.Embedding, nil
}

// EmbeddingScorer scores with semantic embeddings, degrading to lexical
// Jaccard whenever encoding fails. A vector cache is optional; cache errors
// are invisible to callers.
type EmbeddingScorer struct {
	embedder Embedder
	cache    *VectorCache
	fallback Lexical
	warnOnce sync.Once
}

// NewEmbeddingScorer wraps an embedder. cache may be nil.
func NewEmbeddingScorer(embedder Embedder, cache *VectorCache) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: embedder, cache: cache}
}

// Score implements Scorer. Both texts are embedded (cache first) and
// compared by cosine similarity; any failure on either side falls back to
// the lexical score for the pair.
func (s *EmbeddingScorer) Score(ctx context.Context, a, b string) float64 {
	va, err := s.embed(ctx, a)
	if err != nil {
		return s.degrade(ctx, a, b, err)
	}
	vb, err := s.embed(ctx, b)
	if err != nil {
		return s.degrade(ctx, a, b, err)
	}
	return Cosine(va, vb)
}

func (s *EmbeddingScorer) embed(ctx context.Context, text string) ([]float64, error) {
	if s.cache != nil {
		if vec, ok := s.cache.Get(ctx, text); ok {
			return vec, nil
		}
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Put(ctx, text, vec)
	}
	return vec, nil
}

func (s *EmbeddingScorer) degrade(ctx context.Context, a, b string, err error) float64 {
	s.warnOnce.Do(func() {
		logger.Warn("embedding backend failed, using lexical similarity", "error", err)
	})
	return s.fallback.Score(ctx, a, b)
}
