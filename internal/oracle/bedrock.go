package oracle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/ignite/audience-simulator/internal/pkg/logger"
)

// systemInstruction pins the model to JSON output. Parse sites still treat
// the response as untrusted.
const systemInstruction = "You are a helpful assistant simulating a specific persona. Always respond in valid JSON when requested."

// BedrockOracle generates text via AWS Bedrock (Anthropic messages API).
// All traffic stays inside AWS; no third-party inference endpoint is called.
type BedrockOracle struct {
	client      *bedrockruntime.Client
	modelID     string
	temperature float64
	maxTokens   int
}

// bedrockRequest is the Anthropic messages payload for InvokeModel.
type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
	Temperature      float64          `json:"temperature,omitempty"`
}

type bedrockMessage struct {
	Role    string                `json:"role"`
	Content []bedrockContentBlock `json:"content"`
}

type bedrockContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type bedrockResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewBedrockOracle builds a Bedrock-backed oracle in the given region.
// Construction fails only when AWS config cannot be loaded; per-call
// failures degrade to EmptyResponse instead of erroring.
func NewBedrockOracle(ctx context.Context, region, modelID string, temperature float64, maxTokens int) (*BedrockOracle, error) {
	if region == "" {
		region = "us-east-1"
	}
	if modelID == "" {
		modelID = "anthropic.claude-3-sonnet-20240229-v1:0"
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	o := &BedrockOracle{
		client:      bedrockruntime.NewFromConfig(cfg),
		modelID:     modelID,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
	logger.Info("bedrock oracle initialized", "model", modelID, "region", region)
	return o, nil
}

// Predict sends the prompt as a single user turn. Any transport or decode
// failure is logged and degrades to EmptyResponse; failures never reach the
// pipeline.
func (o *BedrockOracle) Predict(ctx context.Context, prompt string) string {
	request := bedrockRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        o.maxTokens,
		System:           systemInstruction,
		Temperature:      o.temperature,
		Messages: []bedrockMessage{
			{Role: "user", Content: []bedrockContentBlock{{Type: "text", Text: prompt}}},
		},
	}

	body, err := json.Marshal(request)
	if err != nil {
		logger.Warn("bedrock request marshal failed", "error", err)
		return EmptyResponse
	}

	output, err := o.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(o.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		logger.Warn("bedrock invoke failed", "model", o.modelID, "error", err)
		return EmptyResponse
	}

	var response bedrockResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		logger.Warn("bedrock response decode failed", "error", err)
		return EmptyResponse
	}

	var text string
	for _, block := range response.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	logger.Debug("bedrock predict",
		"in_tokens", response.Usage.InputTokens,
		"out_tokens", response.Usage.OutputTokens)
	return text
}
