package service

import (
	"context"
	"encoding/json"

	"ai-docflow-be/internal/dto"
	"ai-docflow-be/internal/entity"
	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/internal/pkg/mailer"
	pkgNats "ai-docflow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains session lifecycle messages: logs every
// transition, forwards it to NATS and emails an ops alert when a
// session fails. All downstream delivery is best effort; a handler's
// outcome never depends on it.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	log        logger.ILogger
	natsPub    *pkgNats.Publisher
	mail       mailer.IEmailService
	alertEmail string
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	log logger.ILogger,
	natsPub *pkgNats.Publisher,
	mail mailer.IEmailService,
	alertEmail string,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		log:        log,
		natsPub:    natsPub,
		mail:       mail,
		alertEmail: alertEmail,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.SessionLifecycleMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("consumer", "failed to unmarshal lifecycle message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads are not retriable
		return
	}

	cs.log.Info("consumer", "session lifecycle transition", map[string]interface{}{
		"session_id":  payload.SessionId,
		"tenant_id":   payload.TenantId,
		"status":      payload.Status,
		"chunk_count": payload.ChunkCount,
	})

	if cs.natsPub != nil {
		if err := cs.natsPub.Publish(ctx, payload.Status, payload); err != nil {
			cs.log.Warn("consumer", "failed to forward lifecycle event to NATS", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}

	if payload.Status == entity.SessionStatusFailed && cs.mail != nil && cs.alertEmail != "" {
		if err := cs.mail.SendIngestFailureAlert(cs.alertEmail, payload.SessionId, payload.TenantId, payload.ErrorMessage); err != nil {
			cs.log.Warn("consumer", "failed to send failure alert email", map[string]interface{}{
				"session_id": payload.SessionId,
				"error":      err.Error(),
			})
		}
	}

	msg.Ack()
}
