package mq

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"google.golang.org/protobuf/types/known/structpb"

	"token-launchpad-sol/internal/config"
	"token-launchpad-sol/internal/logic/domain"
	"token-launchpad-sol/internal/utils"
	"token-launchpad-sol/pkg/logger"
)

// 消息前缀中的事件类型
const (
	EventTypeTokenCreated uint32 = 1
	EventTypeTokenMinted  uint32 = 2
)

// EventPublisher 把发币/铸币事件写入 Kafka，同一 mint 的事件落在同一分区
type EventPublisher struct {
	producer   Producer
	topic      string
	partitions int
	timeout    time.Duration
}

func NewEventPublisher(producer Producer, cfg config.KafkaProducerConfig) *EventPublisher {
	partitions := cfg.Partitions
	if partitions <= 0 {
		partitions = 1
	}
	return &EventPublisher{
		producer:   producer,
		topic:      cfg.Topic,
		partitions: partitions,
		timeout:    cfg.SendTimeout(),
	}
}

func (p *EventPublisher) Publish(ctx context.Context, event domain.LaunchEvent) error {
	value, err := EncodeLaunchEvent(event)
	if err != nil {
		return err
	}
	job := &KafkaJob{
		Topic:     p.topic,
		Partition: partitionFor(event.Mint, p.partitions),
		Key:       []byte(event.Mint),
		Value:     value,
	}
	_, failed := SendKafkaJobs(ctx, p.producer, []*KafkaJob{job}, p.timeout)
	if len(failed) > 0 {
		return fmt.Errorf("publish %s event: %w", event.Kind, failed[0].Err)
	}
	logger.Debugf("[Kafka] 事件已发送: kind=%s mint=%s partition=%d", event.Kind, event.Mint, job.Partition)
	return nil
}

// Close 刷新未发送消息后关闭生产者
func (p *EventPublisher) Close() {
	if kp, ok := p.producer.(*kafka.Producer); ok {
		if remaining := kp.Flush(5000); remaining > 0 {
			logger.Warnf("[Kafka] 关闭时仍有 %d 条消息未发送", remaining)
		}
		kp.Close()
	}
}

func partitionFor(key string, partitions int) int32 {
	if partitions <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int32(h.Sum32() % uint32(partitions))
}

func eventTypeOf(kind domain.EventKind) (uint32, error) {
	switch kind {
	case domain.EventTokenCreated:
		return EventTypeTokenCreated, nil
	case domain.EventTokenMinted:
		return EventTypeTokenMinted, nil
	default:
		return 0, fmt.Errorf("unknown event kind %q", kind)
	}
}

// EncodeLaunchEvent 事件类型前缀 + structpb 载荷；amount 以字符串保存，避免超过 2^53 时丢精度
func EncodeLaunchEvent(event domain.LaunchEvent) ([]byte, error) {
	eventType, err := eventTypeOf(event.Kind)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"kind":      string(event.Kind),
		"mint":      event.Mint,
		"owner":     event.Owner,
		"signature": event.Signature,
		"decimals":  event.Decimals,
		"timestamp": event.Timestamp,
	}
	switch event.Kind {
	case domain.EventTokenCreated:
		fields["name"] = event.Name
		fields["symbol"] = event.Symbol
		fields["metadata_uri"] = event.MetadataURI
	case domain.EventTokenMinted:
		fields["amount"] = strconv.FormatUint(event.Amount, 10)
	}

	payload, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build event payload: %w", err)
	}
	return utils.EncodeEvent(eventType, payload)
}

// DecodeLaunchEvent EncodeLaunchEvent 的逆过程，供消费端和测试使用
func DecodeLaunchEvent(data []byte) (domain.LaunchEvent, error) {
	payload := &structpb.Struct{}
	eventType, err := utils.DecodeEvent(data, payload)
	if err != nil {
		return domain.LaunchEvent{}, err
	}
	f := payload.GetFields()
	str := func(k string) string { return f[k].GetStringValue() }

	ev := domain.LaunchEvent{
		Kind:        domain.EventKind(str("kind")),
		Mint:        str("mint"),
		Owner:       str("owner"),
		Signature:   str("signature"),
		Name:        str("name"),
		Symbol:      str("symbol"),
		MetadataURI: str("metadata_uri"),
		Decimals:    int(f["decimals"].GetNumberValue()),
		Timestamp:   int64(f["timestamp"].GetNumberValue()),
	}
	if want, err := eventTypeOf(ev.Kind); err != nil || want != eventType {
		return domain.LaunchEvent{}, fmt.Errorf("event type %d does not match kind %q", eventType, ev.Kind)
	}
	if s := str("amount"); s != "" {
		if ev.Amount, err = strconv.ParseUint(s, 10, 64); err != nil {
			return domain.LaunchEvent{}, fmt.Errorf("decode amount: %w", err)
		}
	}
	return ev, nil
}
