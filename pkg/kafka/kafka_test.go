package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	cb "github.com/Astemirdum/school-library/pkg/circuit_breaker"
	"github.com/Astemirdum/school-library/pkg/kafka"
)

type event struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
}

func newProducer(t *testing.T) *mocks.SyncProducer {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	return mocks.NewSyncProducer(t, cfg)
}

func TestPublisher_Publish(t *testing.T) {
	t.Parallel()
	producer := newProducer(t)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got event
		if err := kafka.Unmarshal(val, &got); err != nil {
			return err
		}
		if got != (event{ID: "1", Kind: "LOAN_RENTED"}) {
			return errors.Errorf("unexpected event %+v", got)
		}
		return nil
	})

	p := kafka.NewPublisher(producer, kafka.RentEventsTopic, cb.New(10, time.Minute, 0.5, 1))
	require.NoError(t, p.Publish(context.Background(), "7", event{ID: "1", Kind: "LOAN_RENTED"}))
	require.NoError(t, p.Close())
}

func TestPublisher_BreakerOpens(t *testing.T) {
	t.Parallel()
	producer := newProducer(t)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	breaker := cb.New(2, time.Minute, 0.5, 1)
	p := kafka.NewPublisher(producer, kafka.RentEventsTopic, breaker)

	err := p.Publish(context.Background(), "7", event{ID: "1"})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.Equal(t, cb.Open, breaker.State())

	// rejected without reaching the producer
	err = p.Publish(context.Background(), "7", event{ID: "2"})
	require.ErrorIs(t, err, cb.ErrOpenCB)
	require.NoError(t, p.Close())
}

func TestPublisher_CanceledContext(t *testing.T) {
	t.Parallel()
	producer := newProducer(t)
	p := kafka.NewPublisher(producer, kafka.RentEventsTopic, cb.New(10, time.Minute, 0.5, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Publish(ctx, "7", event{ID: "1"}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()
	require.False(t, kafka.Config{}.Enabled())
	require.True(t, kafka.Config{Addrs: []string{"localhost:9092"}}.Enabled())
}
