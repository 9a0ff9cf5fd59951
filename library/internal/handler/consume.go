package handler

import (
	"context"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/school-library/library/internal/errs"
	"github.com/Astemirdum/school-library/library/internal/model"
	"github.com/Astemirdum/school-library/pkg/kafka"
)

// Consumer applies rent commands read from the command topic.
type Consumer struct {
	librarySvc LibraryService
	log        *zap.Logger
}

func NewConsumer(librarySvc LibraryService, log *zap.Logger) *Consumer {
	return &Consumer{
		librarySvc: librarySvc,
		log:        log.Named("consumer"),
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if !consumer.handle(session.Context(), message.Value) {
				// Later offsets stay unmarked too: the session restarts from
				// the last committed offset, which is this message.
				return errors.Errorf("rent command at %s/%d offset %d failed",
					message.Topic, message.Partition, message.Offset)
			}
			consumer.log.Debug("message claimed",
				zap.String("topic", message.Topic),
				zap.Int64("offset", message.Offset),
				zap.Time("timestamp", message.Timestamp))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message is done with and may be marked.
// Only system failures leave it unmarked; ConsumeClaim then stops the claim
// so the message is redelivered.
func (consumer *Consumer) handle(ctx context.Context, value []byte) bool {
	var cmd model.RentCommand
	if err := kafka.Unmarshal(value, &cmd); err != nil {
		consumer.log.Error("malformed rent command", zap.ByteString("value", value), zap.Error(err))
		return true
	}

	var err error
	switch cmd.Action {
	case model.ActionRent:
		var loan model.Loan
		loan, err = consumer.librarySvc.RentBook(ctx, model.RentRequest{
			MemberID:      cmd.MemberID,
			CatalogItemID: cmd.CatalogItemID,
			RentDate:      cmd.RentDate,
			DueDate:       cmd.DueDate,
		})
		if err == nil {
			consumer.log.Info("rented", zap.Int64("rentId", loan.ID))
		}
	case model.ActionReturn:
		_, err = consumer.librarySvc.ReturnBook(ctx, cmd.LoanID)
		if err == nil {
			consumer.log.Info("returned", zap.Int64("rentId", cmd.LoanID))
		}
	default:
		consumer.log.Error("unknown rent action", zap.String("action", string(cmd.Action)))
		return true
	}
	if err == nil {
		return true
	}
	if kind, ok := errs.KindOf(err); ok {
		consumer.log.Warn("rent command rejected",
			zap.String("action", string(cmd.Action)),
			zap.Stringer("kind", kind),
			zap.Error(err))
		return true
	}
	consumer.log.Error("rent command failed", zap.String("action", string(cmd.Action)), zap.Error(err))
	return false
}
