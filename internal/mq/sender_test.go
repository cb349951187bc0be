package mq

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-launchpad-sol/internal/config"
)

const testTopic = "test-topic"

// fakeProducer 按配置回写投递结果
type fakeProducer struct {
	mu         sync.Mutex
	messages   []*kafka.Message
	produceErr error
	deliverErr error
	silent     bool // 不回写投递结果，模拟超时
}

func (p *fakeProducer) Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error {
	if p.produceErr != nil {
		return p.produceErr
	}
	p.mu.Lock()
	p.messages = append(p.messages, msg)
	p.mu.Unlock()
	if p.silent {
		return nil
	}
	reply := *msg
	reply.TopicPartition.Error = p.deliverErr
	deliveryChan <- &reply
	return nil
}

func TestSendKafkaJobs(t *testing.T) {
	producer := &fakeProducer{}
	jobs := []*KafkaJob{
		{Topic: testTopic, Value: []byte("test message 1")},
		{Topic: testTopic, Value: []byte("test message 2")},
	}

	ok, failed := SendKafkaJobs(context.Background(), producer, jobs, time.Second)
	assert.Equal(t, 2, len(ok), "应该成功发送 2 条消息")
	assert.Equal(t, 0, len(failed), "不应该有失败的消息")
	assert.Len(t, producer.messages, 2)
}

func TestSendKafkaJobs_Empty(t *testing.T) {
	ok, failed := SendKafkaJobs(context.Background(), &fakeProducer{}, nil, time.Second)
	assert.Empty(t, ok)
	assert.Empty(t, failed)
}

func TestSendKafkaJobs_Failures(t *testing.T) {
	jobs := []*KafkaJob{{Topic: testTopic, Value: []byte("x")}}

	_, failed := SendKafkaJobs(context.Background(), &fakeProducer{produceErr: errors.New("queue full")}, jobs, time.Second)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Err.Error(), "queue full")

	_, failed = SendKafkaJobs(context.Background(), &fakeProducer{deliverErr: errors.New("broker down")}, jobs, time.Second)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Err.Error(), "broker down")

	_, failed = SendKafkaJobs(context.Background(), &fakeProducer{silent: true}, jobs, 5*time.Millisecond)
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].Err.Error(), "delivery timeout")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, failed = SendKafkaJobs(ctx, &fakeProducer{silent: true}, jobs, time.Second)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0].Err, context.Canceled)
}

// 需要本地 Kafka：KAFKA_TEST_BROKERS=127.0.0.1:9092
func TestSendKafkaJobs_RealKafka(t *testing.T) {
	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS not set")
	}

	producer, err := NewKafkaProducer(config.KafkaProducerConfig{
		Brokers:    brokers,
		Topic:      testTopic,
		Partitions: 1,
	})
	require.NoError(t, err)
	defer producer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, failed := SendKafkaJobs(ctx, producer, []*KafkaJob{{Topic: testTopic, Value: []byte("test message")}}, 2*time.Second)
	assert.Equal(t, 1, len(ok))
	assert.Equal(t, 0, len(failed))
	producer.Flush(1000)
}
