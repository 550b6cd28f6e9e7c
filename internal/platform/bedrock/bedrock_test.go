package bedrock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessagesRequest(t *testing.T) {
	body, err := EncodeMessagesRequest("Assess transport", 800)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens": 800,
		"messages": [{"role": "user", "content": "Assess transport"}]
	}`, string(body))
}

func TestDecodeMessagesResponse(t *testing.T) {
	text, err := DecodeMessagesResponse([]byte(`{"id":"msg_1","content":[{"type":"text","text":"Proceed with caution."}],"stop_reason":"end_turn"}`))
	require.NoError(t, err)
	assert.Equal(t, "Proceed with caution.", text)

	_, err = DecodeMessagesResponse([]byte(`{"content":[]}`))
	assert.Error(t, err)

	_, err = DecodeMessagesResponse([]byte(`<html>`))
	assert.Error(t, err)
}
