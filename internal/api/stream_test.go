package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStreamMessage_Control(t *testing.T) {
	msg, err := DecodeStreamMessage([]byte(`{"type":"connected"}`))
	require.NoError(t, err)
	assert.True(t, msg.IsControl())
	assert.Equal(t, ControlConnected, msg.Control)
	assert.Nil(t, msg.Entry)
}

func TestDecodeStreamMessage_Entry(t *testing.T) {
	data, err := EncodeEntry(sampleEntry())
	require.NoError(t, err)

	msg, err := DecodeStreamMessage(data)
	require.NoError(t, err)
	assert.False(t, msg.IsControl())
	require.NotNil(t, msg.Entry)
	assert.Equal(t, sampleEntry(), *msg.Entry)
}

func TestDecodeStreamMessage_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":      `hello`,
		"missing id":    `{"message":"x","timestamp":"2024-01-01T00:00:00Z"}`,
		"bad timestamp": `{"id":"1","timestamp":"soon"}`,
		"wrong types":   `{"id":"1","facility":"kern"}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeStreamMessage([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestEncodeControl(t *testing.T) {
	data, err := EncodeControl(ControlConnected)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"connected"}`, string(data))
}
