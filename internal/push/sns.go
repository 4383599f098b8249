// internal/push/sns.go
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"finsync-workers/internal/common/logger"
	"finsync-workers/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used here, defined for mocking.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPusher delivers notifications through SNS platform endpoints.
// Tokens are endpoint ARNs registered by the mobile client.
type SNSPusher struct {
	client SNSAPI
	logger logger.Logger
}

func NewSNSPusher(ctx context.Context, region string, log logger.Logger) (*SNSPusher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SNSPusher{
		client: sns.NewFromConfig(awsCfg),
		logger: log,
	}, nil
}

// NewSNSPusherWithClient wires an existing client, used by tests.
func NewSNSPusherWithClient(client SNSAPI, log logger.Logger) *SNSPusher {
	return &SNSPusher{client: client, logger: log}
}

type apnsAlert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type apnsAps struct {
	Alert apnsAlert `json:"alert"`
	Badge int       `json:"badge,omitempty"`
	Sound string    `json:"sound"`
}

// Send publishes one notification to the endpoint behind the token.
// A disabled or unknown endpoint maps to ErrTokenNotRegistered.
func (p *SNSPusher) Send(ctx context.Context, token string, note models.Notification) error {
	apnsPayload := map[string]interface{}{
		"aps": apnsAps{
			Alert: apnsAlert{Title: note.Title, Body: note.Body},
			Badge: note.Badge,
			Sound: "default",
		},
	}
	for k, v := range note.Data {
		apnsPayload[k] = v
	}
	apnsJSON, err := json.Marshal(apnsPayload)
	if err != nil {
		return fmt.Errorf("marshal APNS payload: %w", err)
	}

	envelope := map[string]string{
		"default": note.Body,
		"APNS":    string(apnsJSON),
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal push envelope: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(token),
		Message:          aws.String(string(body)),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		var disabled *types.EndpointDisabledException
		var notFound *types.NotFoundException
		if errors.As(err, &disabled) || errors.As(err, &notFound) {
			return ErrTokenNotRegistered
		}
		return fmt.Errorf("sns publish: %w", err)
	}

	return nil
}
