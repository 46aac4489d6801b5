package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/centrifugal/centrifuge"

	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
	"github.com/pscheid92/moodpulse/internal/domain"
)

const insightsUpdatedType = "insights.updated"

type insightsUpdate struct {
	Type    string         `json:"type"`
	Summary domain.Summary `json:"summary"`
}

type Publisher struct {
	node      *centrifuge.Node
	wsMetrics *metrics.WebSocketMetrics
}

var _ domain.InsightsPublisher = (*Publisher)(nil)

func NewPublisher(node *centrifuge.Node, wsMetrics *metrics.WebSocketMetrics) *Publisher {
	return &Publisher{node: node, wsMetrics: wsMetrics}
}

func (p *Publisher) PublishInsightsUpdated(_ context.Context, summary domain.Summary) error {
	data, err := json.Marshal(insightsUpdate{Type: insightsUpdatedType, Summary: summary})
	if err != nil {
		return fmt.Errorf("marshal insights update: %w", err)
	}

	if _, err := p.node.Publish(InsightsChannel, data); err != nil {
		if p.wsMetrics != nil {
			p.wsMetrics.PublishErrors.Inc()
		}
		return fmt.Errorf("publish to channel %s: %w", InsightsChannel, err)
	}

	if p.wsMetrics != nil {
		p.wsMetrics.MessagesPublished.Inc()
	}
	return nil
}
