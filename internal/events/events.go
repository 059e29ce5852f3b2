// Package events publishes domain events about placed predictions.
package events

import (
	"context"

	"github.com/preston-bernstein/prediction-service/internal/domain/money"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "predictions_placed"

// PredictionPlaced is emitted after the ledger accepts a prediction.
type PredictionPlaced struct {
	PredictionID string       `json:"predictionId"`
	UserID       string       `json:"userId"`
	GameID       string       `json:"gameId"`
	Pick         string       `json:"pick"`
	Amount       money.Amount `json:"amount"`
	Balance      money.Amount `json:"balance"`
	TsUnixMs     int64        `json:"tsUnixMs"`
}

// Publisher sends prediction events.
type Publisher interface {
	PublishPredictionPlaced(ctx context.Context, e PredictionPlaced) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishPredictionPlaced(context.Context, PredictionPlaced) error { return nil }

func (NopPublisher) Close() error { return nil }
