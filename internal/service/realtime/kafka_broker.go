package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	myconfig "lingua_tutor_server/internal/config"
)

// KafkaBroker shares the event stream across instances. Events published on
// any instance reach the rooms of every instance; each instance delivers
// only to its own local connections, guarded by mu.
type KafkaBroker struct {
	producer *kafka.Writer
	consumer *kafka.Reader
	quit     chan struct{}

	mu    sync.RWMutex
	rooms map[string]map[*SessionConn]struct{}
}

// NewKafkaBroker builds the kafka-backed broker from config.
func NewKafkaBroker() *KafkaBroker {
	kafkaConfig := myconfig.GetConfig().KafkaConfig
	return &KafkaBroker{
		producer: &kafka.Writer{
			Addr:                   kafka.TCP(kafkaConfig.HostPort),
			Topic:                  kafkaConfig.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           kafkaConfig.Timeout * time.Second,
			RequiredAcks:           kafka.RequireNone,
			AllowAutoTopicCreation: false,
		},
		consumer: kafka.NewReader(kafka.ReaderConfig{
			Brokers:        []string{kafkaConfig.HostPort},
			Topic:          kafkaConfig.EventTopic,
			CommitInterval: kafkaConfig.Timeout * time.Second,
			GroupID:        "session_events",
			StartOffset:    kafka.LastOffset,
		}),
		quit:  make(chan struct{}),
		rooms: make(map[string]map[*SessionConn]struct{}),
	}
}

// Publish writes the event to the kafka topic, keyed by session so turns of
// one session stay on one partition.
func (b *KafkaBroker) Publish(ctx context.Context, event SessionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.SessionUuid),
		Value: value,
	})
}

// Join adds a connection to its session's room.
func (b *KafkaBroker) Join(conn *SessionConn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	room, ok := b.rooms[conn.SessionUuid]
	if !ok {
		room = make(map[*SessionConn]struct{})
		b.rooms[conn.SessionUuid] = room
	}
	room[conn] = struct{}{}
}

// Leave removes a connection from its session's room.
func (b *KafkaBroker) Leave(conn *SessionConn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room, ok := b.rooms[conn.SessionUuid]; ok {
		if _, member := room[conn]; member {
			delete(room, conn)
			close(conn.Send)
			if len(room) == 0 {
				delete(b.rooms, conn.SessionUuid)
			}
		}
	}
}

// Start consumes the topic and fans events out to local rooms. Call in a
// goroutine.
func (b *KafkaBroker) Start() {
	zap.L().Info("kafka broker started",
		zap.String("topic", myconfig.GetConfig().KafkaConfig.EventTopic),
		zap.String("partition_key", strconv.Itoa(myconfig.GetConfig().KafkaConfig.Partition)))
	for {
		select {
		case <-b.quit:
			return
		default:
		}

		msg, err := b.consumer.ReadMessage(context.Background())
		if err != nil {
			zap.L().Error("kafka consume failed", zap.Error(err))
			return
		}
		var event SessionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			zap.L().Error("event decode failed", zap.Error(err))
			continue
		}
		b.deliver(event)
	}
}

func (b *KafkaBroker) deliver(event SessionEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for conn := range b.rooms[event.SessionUuid] {
		select {
		case conn.Send <- event.Payload:
		default:
			zap.L().Warn("slow ws consumer, dropping event",
				zap.String("session", event.SessionUuid),
				zap.String("user", conn.UserUuid))
		}
	}
}

// Close releases the kafka writer and reader.
func (b *KafkaBroker) Close() {
	close(b.quit)
	if err := b.producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	if err := b.consumer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
}
