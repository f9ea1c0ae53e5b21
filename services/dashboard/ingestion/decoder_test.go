package ingestion

import (
	"errors"
	"testing"
	"time"

	"github.com/iulianpascalau/live-dashboard/services/dashboard/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot(t *testing.T) {
	t.Parallel()

	receivedAt := time.Date(2026, 10, 16, 8, 30, 0, 0, time.UTC)

	t.Run("malformed payloads should error", func(t *testing.T) {
		t.Parallel()

		payloads := map[string]string{
			"empty":          "",
			"truncated":      `{"numActiveConn": 4`,
			"plain text":     "hello",
			"array":          `[1, 2, 3]`,
			"number":         `42`,
			"no numeric":     `{"name": "node-1", "up": true}`,
			"empty object":   `{}`,
			"infinite value": `{"numActiveConn": "Inf"}`,
		}
		for name, payload := range payloads {
			snapshot, err := DecodeSnapshot([]byte(payload), receivedAt)
			assert.True(t, errors.Is(err, common.ErrDecode), "payload %s", name)
			assert.Empty(t, snapshot.Fields, "payload %s", name)
		}
	})
	t.Run("push channel message should decode in document order", func(t *testing.T) {
		t.Parallel()

		payload := `{"numConnPerSec":12,"numActiveConn":340,"numIpPerSec":3,"numTotalConn":98765}`
		snapshot, err := DecodeSnapshot([]byte(payload), receivedAt)
		require.Nil(t, err)

		assert.Equal(t, receivedAt, snapshot.ReceivedAt)
		assert.Equal(t, []string{"numConnPerSec", "numActiveConn", "numIpPerSec", "numTotalConn"}, snapshot.Fields)
		assert.Equal(t, map[string]float64{
			"numConnPerSec": 12,
			"numActiveConn": 340,
			"numIpPerSec":   3,
			"numTotalConn":  98765,
		}, snapshot.Values)
		assert.Equal(t, "98765", snapshot.Raw["numTotalConn"])
	})
	t.Run("numeric strings are values, other fields are raw only", func(t *testing.T) {
		t.Parallel()

		payload := `{"inboundMBps":"1.25","host":"edge-7","healthy":true,"extra":{"a":1},"numIpsPerSec":7.5,"note":null}`
		snapshot, err := DecodeSnapshot([]byte(payload), receivedAt)
		require.Nil(t, err)

		assert.Equal(t, []string{"inboundMBps", "numIpsPerSec"}, snapshot.Fields)
		assert.Equal(t, 1.25, snapshot.Values["inboundMBps"])
		assert.Equal(t, 7.5, snapshot.Values["numIpsPerSec"])
		assert.Equal(t, "1.25", snapshot.Raw["inboundMBps"])
		assert.Equal(t, "edge-7", snapshot.Raw["host"])
		assert.Equal(t, "true", snapshot.Raw["healthy"])
		assert.Equal(t, `{"a":1}`, snapshot.Raw["extra"])
		assert.Equal(t, "null", snapshot.Raw["note"])
	})
}
