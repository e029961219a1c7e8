package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil knowledge service returns error", func(t *testing.T) {
		ports := &Ports{}
		server, err := NewServer(ports)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingKnowledgeService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports := &Ports{
			Knowledge: &mockKnowledge{},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	t.Run("nil knowledge service returns error", func(t *testing.T) {
		ports := &Ports{}
		err := ports.Validate()
		assert.ErrorIs(t, err, ErrMissingKnowledgeService)
	})

	t.Run("knowledge only is valid", func(t *testing.T) {
		ports := &Ports{
			Knowledge: &mockKnowledge{},
		}
		assert.NoError(t, ports.Validate())
	})
}

func TestPorts_BotResolution(t *testing.T) {
	ports := &Ports{Knowledge: &mockKnowledge{}, DefaultBot: "bot-default"}

	assert.Equal(t, "bot-explicit", ports.bot("bot-explicit"))
	assert.Equal(t, "bot-default", ports.bot(""))

	empty := &Ports{Knowledge: &mockKnowledge{}}
	assert.Empty(t, empty.bot(""))
}
