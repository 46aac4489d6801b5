package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/centrifugal/centrifuge"

	"github.com/pscheid92/moodpulse/internal/adapter/metrics"
)

// InsightsChannel carries summary updates to every connected client.
const InsightsChannel = "insights"

const brokerPrefix = "moodpulse"

type NodeConfig struct {
	LogLevel       string
	MaxConnections int // zero means unlimited
}

func NewNode(cfg NodeConfig, wsMetrics *metrics.WebSocketMetrics) (*centrifuge.Node, error) {
	conf := centrifuge.Config{LogLevel: parseCentrifugeLogLevel(cfg.LogLevel), LogHandler: slogHandler}
	node, err := centrifuge.New(conf)
	if err != nil {
		return nil, fmt.Errorf("create centrifuge node: %w", err)
	}

	var active atomic.Int64
	node.OnConnecting(onConnecting(&active, cfg.MaxConnections))
	node.OnConnect(onConnect(&active, wsMetrics))

	return node, nil
}

func onConnecting(active *atomic.Int64, maxConnections int) func(ctx context.Context, e centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
	return func(ctx context.Context, e centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
		if maxConnections > 0 && active.Load() >= int64(maxConnections) {
			slog.Warn("WebSocket connection limit reached", "limit", maxConnections)
			return centrifuge.ConnectReply{}, centrifuge.DisconnectConnectionLimit
		}

		reply := centrifuge.ConnectReply{
			Subscriptions: map[string]centrifuge.SubscribeOptions{
				InsightsChannel: {},
			},
		}
		if _, ok := centrifuge.GetCredentials(ctx); !ok {
			reply.Credentials = &centrifuge.Credentials{}
		}
		return reply, nil
	}
}

func onConnect(active *atomic.Int64, wsMetrics *metrics.WebSocketMetrics) func(client *centrifuge.Client) {
	return func(client *centrifuge.Client) {
		active.Add(1)
		slog.Debug("Client connected", "client_id", client.ID())

		if wsMetrics != nil {
			wsMetrics.ActiveConnections.Inc()
		}

		client.OnDisconnect(func(e centrifuge.DisconnectEvent) {
			active.Add(-1)
			slog.Debug("Client disconnected", "client_id", client.ID(), "reason", e.Reason)
			if wsMetrics != nil {
				wsMetrics.ActiveConnections.Dec()
			}
		})
	}
}

// SetupRedis moves fan-out onto Redis so updates published by one instance reach clients of all instances.
func SetupRedis(node *centrifuge.Node, redisAddr string) error {
	shardConfig := centrifuge.RedisShardConfig{Address: redisAddr}
	shard, err := centrifuge.NewRedisShard(node, shardConfig)
	if err != nil {
		return fmt.Errorf("create redis shard: %w", err)
	}

	brokerConfig := centrifuge.RedisBrokerConfig{Prefix: brokerPrefix, Shards: []*centrifuge.RedisShard{shard}}
	broker, err := centrifuge.NewRedisBroker(node, brokerConfig)
	if err != nil {
		return fmt.Errorf("create redis broker: %w", err)
	}
	node.SetBroker(broker)

	return nil
}

func slogHandler(entry centrifuge.LogEntry) {
	attrs := make([]any, 0, len(entry.Fields)*2)
	for k, v := range entry.Fields {
		attrs = append(attrs, k, v)
	}
	switch entry.Level {
	case centrifuge.LogLevelDebug, centrifuge.LogLevelTrace:
		slog.Debug(entry.Message, attrs...)
	case centrifuge.LogLevelInfo:
		slog.Info(entry.Message, attrs...)
	case centrifuge.LogLevelWarn:
		slog.Warn(entry.Message, attrs...)
	case centrifuge.LogLevelError:
		slog.Error(entry.Message, attrs...)
	case centrifuge.LogLevelNone:
		// EMPTY
	}
}

func parseCentrifugeLogLevel(level string) centrifuge.LogLevel {
	switch level {
	case "debug":
		return centrifuge.LogLevelDebug
	case "warn":
		return centrifuge.LogLevelWarn
	case "error":
		return centrifuge.LogLevelError
	default:
		return centrifuge.LogLevelInfo
	}
}
