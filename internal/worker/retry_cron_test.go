package worker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dlqEntry(t *testing.T, attempts int) DLQEntry {
	t.Helper()
	payload, err := json.Marshal(LowStockAlertPayload{Product: "Century Handwash", Size: "500ml", Stock: 4})
	require.NoError(t, err)
	return DLQEntry{
		OriginalQueue: QueueAlerts,
		JobType:       "low_stock_alert",
		Payload:       payload,
		Reason:        "relay down",
		Attempts:      attempts,
	}
}

func TestRebuildJob_KeepsPayloadAndAttempts(t *testing.T) {
	entry := dlqEntry(t, 2)

	job, ok := rebuildJob(entry)
	require.True(t, ok)
	assert.Equal(t, "low_stock_alert", job.Type)
	assert.Equal(t, 2, job.Attempts)

	var payload LowStockAlertPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, "Century Handwash", payload.Product)
	assert.Equal(t, 4, payload.Stock)
}

func TestRebuildJob_GivesUpAfterMaxAttempts(t *testing.T) {
	_, ok := rebuildJob(dlqEntry(t, MaxAlertAttempts))
	assert.False(t, ok)

	_, ok = rebuildJob(dlqEntry(t, MaxAlertAttempts+1))
	assert.False(t, ok)
}

func TestRebuildJob_FreshEntryIsRetryable(t *testing.T) {
	job, ok := rebuildJob(dlqEntry(t, 0))
	require.True(t, ok)
	assert.Equal(t, 0, job.Attempts)
}
