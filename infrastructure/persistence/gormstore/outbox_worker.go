package gormstore

import (
	"context"
	"fmt"
	"time"

	"carmarket/infrastructure/persistence/gormstore/po"
	"carmarket/pkg/logger"

	"go.uber.org/zap"
)

// OutboxPublisher relays one outbox event to the message channel
type OutboxPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}

// LoggingOutboxPublisher 未配置 Redis 时只记录日志
type LoggingOutboxPublisher struct{}

func (p *LoggingOutboxPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	logger.Info("Outbox event published",
		zap.String("event_type", eventType),
		zap.ByteString("payload", payload),
	)
	return nil
}

// OutboxStore the subset of OutboxRepository the worker drives
type OutboxStore interface {
	GetPendingEvents(ctx context.Context, limit int) ([]*po.OutboxEventPO, error)
	MarkEventProcessing(ctx context.Context, eventID string) error
	MarkEventPublished(ctx context.Context, eventID string) error
	MarkEventFailed(ctx context.Context, eventID string, maxRetries int) error
}

type OutboxWorker struct {
	repository   OutboxStore
	publisher    OutboxPublisher
	pollInterval time.Duration
	batchSize    int
	maxRetries   int
}

func NewOutboxWorker(
	repository OutboxStore,
	publisher OutboxPublisher,
	pollInterval time.Duration,
	batchSize int,
	maxRetries int,
) (*OutboxWorker, error) {
	if repository == nil {
		return nil, fmt.Errorf("outbox repository is required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher is required")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive")
	}
	if maxRetries <= 0 {
		return nil, fmt.Errorf("max retries must be positive")
	}

	return &OutboxWorker{
		repository:   repository,
		publisher:    publisher,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		maxRetries:   maxRetries,
	}, nil
}

// BatchResult 一批事件的处理结果
type BatchResult struct {
	Fetched   int
	Published int
	Failed    int
	Skipped   int
}

// Run 启动时先清空积压，之后每个轮询周期清一次；ctx 取消时返回
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.Drain(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Outbox drain failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Drain 连续处理批次，直到某批未取满或整批都没有发布成功（避免对故障通道空转）
func (w *OutboxWorker) Drain(ctx context.Context) (int, error) {
	published := 0
	for ctx.Err() == nil {
		res, err := w.ProcessBatch(ctx)
		published += res.Published
		if err != nil {
			return published, err
		}
		if res.Fetched > 0 {
			logger.Debug("Outbox batch processed",
				zap.Int("fetched", res.Fetched),
				zap.Int("published", res.Published),
				zap.Int("failed", res.Failed),
				zap.Int("skipped", res.Skipped),
			)
		}
		if res.Fetched < w.batchSize || res.Published == 0 {
			break
		}
	}
	return published, nil
}

// ProcessBatch 发布一批待处理事件；单个事件失败只计数，不中断整批
func (w *OutboxWorker) ProcessBatch(ctx context.Context) (BatchResult, error) {
	events, err := w.repository.GetPendingEvents(ctx, w.batchSize)
	if err != nil {
		return BatchResult{}, err
	}

	res := BatchResult{Fetched: len(events)}
	for _, event := range events {
		log := logger.FromContext(ctx).With(
			zap.String("event_id", event.ID),
			zap.String("event_type", event.EventType),
		)

		// 另一个 worker 已领取
		if err := w.repository.MarkEventProcessing(ctx, event.ID); err != nil {
			log.Debug("Skip claimed outbox event", zap.Error(err))
			res.Skipped++
			continue
		}

		if err := w.publisher.Publish(ctx, event.EventType, event.Payload); err != nil {
			log.Warn("Outbox publish failed", zap.Error(err))
			res.Failed++
			if failErr := w.repository.MarkEventFailed(ctx, event.ID, w.maxRetries); failErr != nil {
				log.Error("Failed to mark outbox event as failed", zap.Error(failErr))
			}
			continue
		}

		if err := w.repository.MarkEventPublished(ctx, event.ID); err != nil {
			log.Error("Failed to mark outbox event as published", zap.Error(err))
			continue
		}
		res.Published++
	}
	return res, nil
}
