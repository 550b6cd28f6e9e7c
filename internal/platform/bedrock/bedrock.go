// Package bedrock adapts the Bedrock agent and model runtimes to the agent
// package's ManagedAgent and ModelRuntime interfaces.
package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	defaultMaxTokens = 800
)

// AgentClient invokes a managed Bedrock agent alias.
type AgentClient struct {
	client  *bedrockagentruntime.Client
	agentID string
	aliasID string
}

func NewAgentClient(cfg aws.Config, agentID, aliasID string) *AgentClient {
	return &AgentClient{
		client:  bedrockagentruntime.NewFromConfig(cfg),
		agentID: agentID,
		aliasID: aliasID,
	}
}

// InvokeAgent runs one agent turn and concatenates the streamed chunks.
func (c *AgentClient) InvokeAgent(ctx context.Context, sessionID, inputText string) (string, error) {
	out, err := c.client.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(c.agentID),
		AgentAliasId: aws.String(c.aliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(inputText),
		EnableTrace:  aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("invoke agent: %w", err)
	}
	stream := out.GetStream()
	defer stream.Close()

	var b strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*agenttypes.ResponseStreamMemberChunk); ok {
			b.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return "", fmt.Errorf("read agent stream: %w", err)
	}
	return b.String(), nil
}

// ModelClient performs single-turn completions against an Anthropic model.
type ModelClient struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int
}

func NewModelClient(cfg aws.Config, modelID string) *ModelClient {
	return &ModelClient{
		client:    bedrockruntime.NewFromConfig(cfg),
		modelID:   modelID,
		maxTokens: defaultMaxTokens,
	}
}

func (c *ModelClient) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := EncodeMessagesRequest(prompt, c.maxTokens)
	if err != nil {
		return "", err
	}
	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("invoke model: %w", err)
	}
	return DecodeMessagesResponse(out.Body)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Messages         []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// EncodeMessagesRequest builds the Anthropic messages body for one user turn.
func EncodeMessagesRequest(prompt string, maxTokens int) ([]byte, error) {
	return json.Marshal(messagesRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Messages:         []message{{Role: "user", Content: prompt}},
	})
}

// DecodeMessagesResponse returns the text of the first content block.
func DecodeMessagesResponse(body []byte) (string, error) {
	var resp messagesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", errors.New("model response has no content")
	}
	return resp.Content[0].Text, nil
}
