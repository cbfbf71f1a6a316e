// Package capability implements model invocation on Amazon Bedrock:
// Anthropic messages for text generation and Titan for embeddings.
package capability

import (
	"context"
	"encoding/json"
	"strings"

	"cardmind-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// InvokeAPI is the slice of the Bedrock runtime client this package
// uses. Tests substitute a fake.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockService generates text and embeddings through Bedrock.
type BedrockService struct {
	client     InvokeAPI
	textModel  string
	embedModel string
	logger     *zap.Logger
}

// NewBedrockService creates a capability service over the given runtime
// client and model ids.
func NewBedrockService(client InvokeAPI, textModel, embedModel string, logger *zap.Logger) *BedrockService {
	return &BedrockService{
		client:     client,
		textModel:  textModel,
		embedModel: embedModel,
		logger:     logger,
	}
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
}

// GenerateText invokes the text model with a single user message and
// returns the concatenated text blocks of the reply.
func (s *BedrockService) GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: []anthropicContent{{Type: "text", Text: prompt}}},
		},
	})
	if err != nil {
		return "", errors.NewInternalError("marshal generation request").WithCause(err)
	}

	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.textModel),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		s.logger.Warn("Model invocation failed",
			zap.String("model", s.textModel),
			zap.Error(err),
		)
		return "", errors.NewExternalError("bedrock", err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", errors.NewExternalError("bedrock", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed invokes the Titan embedding model and returns the vector.
func (s *BedrockService) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanEmbedRequest{InputText: text})
	if err != nil {
		return nil, errors.NewInternalError("marshal embedding request").WithCause(err)
	}

	out, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(s.embedModel),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		s.logger.Warn("Embedding invocation failed",
			zap.String("model", s.embedModel),
			zap.Error(err),
		)
		return nil, errors.NewExternalError("bedrock", err)
	}

	var resp titanEmbedResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, errors.NewExternalError("bedrock", err)
	}

	vector := make([]float32, len(resp.Embedding))
	for i, v := range resp.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}
