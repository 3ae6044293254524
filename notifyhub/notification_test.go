package notifyhub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Test_BuildNotification_ErrorCases is a comprehensive test covering multiple error scenarios and edge cases.
// High line count is acceptable for thorough validation of error handling logic.
//
//nolint:funlen
func Test_BuildNotification_ErrorCases(t *testing.T) {
	validTime := time.Now()
	validPayloadJSON := []byte(`{"key": "value"}`)
	validMetadataJSON := []byte(`{"meta": "data"}`)

	tests := []struct {
		name         string
		eventType    string
		occurredAt   time.Time
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{
			name:         "empty event type",
			eventType:    "",
			occurredAt:   validTime,
			payloadJSON:  validPayloadJSON,
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrEmptyEventType,
		},
		{
			name:         "invalid payload JSON",
			eventType:    "TestEvent",
			occurredAt:   validTime,
			payloadJSON:  []byte(`{"invalid": json}`),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "invalid metadata JSON",
			eventType:    "TestEvent",
			occurredAt:   validTime,
			payloadJSON:  validPayloadJSON,
			metadataJSON: []byte(`{"invalid": json}`),
			expectedErr:  ErrInvalidMetadataJSON,
		},
		{
			name:         "empty payload JSON",
			eventType:    "TestEvent",
			occurredAt:   validTime,
			payloadJSON:  []byte(``),
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "empty metadata JSON",
			eventType:    "TestEvent",
			occurredAt:   validTime,
			payloadJSON:  validPayloadJSON,
			metadataJSON: []byte(``),
			expectedErr:  ErrInvalidMetadataJSON,
		},
		{
			name:         "nil payload JSON",
			eventType:    "TestEvent",
			occurredAt:   validTime,
			payloadJSON:  nil,
			metadataJSON: validMetadataJSON,
			expectedErr:  ErrInvalidPayloadJSON,
		},
		{
			name:         "nil metadata JSON",
			eventType:    "TestEvent",
			occurredAt:   validTime,
			payloadJSON:  validPayloadJSON,
			metadataJSON: nil,
			expectedErr:  ErrInvalidMetadataJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildNotification(tt.eventType, tt.occurredAt, tt.payloadJSON, tt.metadataJSON)
			assert.ErrorContains(t, err, tt.expectedErr.Error())
		})
	}
}

func Test_BuildNotificationWithEmptyMetadata_ErrorCases(t *testing.T) {
	validTime := time.Now()

	tests := []struct {
		name        string
		eventType   string
		occurredAt  time.Time
		payloadJSON []byte
		expectedErr error
	}{
		{
			name:        "empty event type",
			eventType:   "",
			occurredAt:  validTime,
			payloadJSON: []byte(`{"key": "value"}`),
			expectedErr: ErrEmptyEventType,
		},
		{
			name:        "invalid payload JSON",
			eventType:   "TestEvent",
			occurredAt:  validTime,
			payloadJSON: []byte(`{"invalid": json}`),
			expectedErr: ErrInvalidPayloadJSON,
		},
		{
			name:        "empty payload JSON",
			eventType:   "TestEvent",
			occurredAt:  validTime,
			payloadJSON: []byte(``),
			expectedErr: ErrInvalidPayloadJSON,
		},
		{
			name:        "nil payload JSON",
			eventType:   "TestEvent",
			occurredAt:  validTime,
			payloadJSON: nil,
			expectedErr: ErrInvalidPayloadJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildNotificationWithEmptyMetadata(tt.eventType, tt.occurredAt, tt.payloadJSON)
			assert.ErrorContains(t, err, tt.expectedErr.Error())
		})
	}
}

func Test_BuildNotification_Success(t *testing.T) {
	eventType := "PriceTickReceived"
	occurredAt := time.Now()
	payloadJSON := []byte(`{"InstrumentID": "inst-123", "Venue": "XETR"}`)
	metadataJSON := []byte(`{"CorrelationID": "corr-789"}`)

	notification, err := BuildNotification(eventType, occurredAt, payloadJSON, metadataJSON)
	assert.NoError(t, err)
	assert.Equal(t, eventType, notification.EventType)
	assert.Equal(t, occurredAt, notification.OccurredAt)
	assert.Equal(t, payloadJSON, notification.PayloadJSON)
	assert.Equal(t, metadataJSON, notification.MetadataJSON)
}

func Test_BuildNotificationWithEmptyMetadata_Success(t *testing.T) {
	eventType := "SensorReadingCaptured"
	occurredAt := time.Now()
	payloadJSON := []byte(`{"SensorID": "sensor-456", "Reading": "21.50"}`)

	notification, err := BuildNotificationWithEmptyMetadata(eventType, occurredAt, payloadJSON)
	assert.NoError(t, err)
	assert.Equal(t, eventType, notification.EventType)
	assert.Equal(t, occurredAt, notification.OccurredAt)
	assert.Equal(t, payloadJSON, notification.PayloadJSON)
	assert.Equal(t, []byte(`{}`), notification.MetadataJSON)
}
