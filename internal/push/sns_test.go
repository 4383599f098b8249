// internal/push/sns_test.go
package push

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"
)

// ==========================
// Mock Implementations
// ==========================

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func testNotification() models.Notification {
	return models.Notification{
		ID:       "note-1",
		Category: models.NotificationPriceChange,
		Title:    "BTC is up 6.2%",
		Body:     "BTC is now $70000.00. Tap to review your portfolio.",
		Data:     map[string]string{"symbol": "BTC"},
		Badge:    3,
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestSNSPusher_Send_Success(t *testing.T) {
	var captured *sns.PublishInput
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{}, nil
		},
	}

	pusher := NewSNSPusherWithClient(mockSNS, logger.NewTestLogger(t))
	err := pusher.Send(context.Background(), "arn:aws:sns:endpoint/abc", testNotification())
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "arn:aws:sns:endpoint/abc", *captured.TargetArn)
	assert.Equal(t, "json", *captured.MessageStructure)

	var envelope map[string]string
	require.NoError(t, json.Unmarshal([]byte(*captured.Message), &envelope))
	assert.Contains(t, envelope, "default")
	assert.Contains(t, envelope, "APNS")

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(envelope["APNS"]), &payload))
	aps := payload["aps"].(map[string]interface{})
	alert := aps["alert"].(map[string]interface{})
	assert.Equal(t, "BTC is up 6.2%", alert["title"])
	assert.Equal(t, float64(3), aps["badge"])
	assert.Equal(t, "BTC", payload["symbol"])
}

func TestSNSPusher_Send_DisabledEndpoint(t *testing.T) {
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, &types.EndpointDisabledException{}
		},
	}

	pusher := NewSNSPusherWithClient(mockSNS, logger.NewTestLogger(t))
	err := pusher.Send(context.Background(), "arn:dead", testNotification())
	assert.ErrorIs(t, err, ErrTokenNotRegistered)
}

func TestSNSPusher_Send_UnknownEndpoint(t *testing.T) {
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, &types.NotFoundException{}
		},
	}

	pusher := NewSNSPusherWithClient(mockSNS, logger.NewTestLogger(t))
	err := pusher.Send(context.Background(), "arn:gone", testNotification())
	assert.ErrorIs(t, err, ErrTokenNotRegistered)
}

func TestSNSPusher_Send_OtherErrorIsNotTerminal(t *testing.T) {
	mockSNS := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	pusher := NewSNSPusherWithClient(mockSNS, logger.NewTestLogger(t))
	err := pusher.Send(context.Background(), "arn:ok", testNotification())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTokenNotRegistered)
}
