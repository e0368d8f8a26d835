package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docdex"
)

// Ensure LoggingIndexService implements docdex.IndexService.
var _ docdex.IndexService = (*LoggingIndexService)(nil)

// LoggingIndexService wraps an IndexService with debug logging.
type LoggingIndexService struct {
	next   docdex.IndexService
	logger *slog.Logger
}

// NewLoggingIndexService creates a new LoggingIndexService.
func NewLoggingIndexService(next docdex.IndexService, logger *slog.Logger) *LoggingIndexService {
	return &LoggingIndexService{next: next, logger: logger}
}

// Exists delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) Exists(ctx context.Context, indexName string) (ok bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("index exists",
			"index", indexName,
			"exists", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Exists(ctx, indexName)
}

// Configure delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) Configure(ctx context.Context, indexName string, settings docdex.IndexSettings) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index configure",
			"index", indexName,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Configure(ctx, indexName, settings)
}

// BrowseAll delegates to the wrapped service and logs the record count.
func (s *LoggingIndexService) BrowseAll(ctx context.Context, indexName string, fn func(docdex.SearchRecord) error) (err error) {
	count := 0
	defer func(begin time.Time) {
		s.logger.Info("index browse",
			"index", indexName,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.BrowseAll(ctx, indexName, func(rec docdex.SearchRecord) error {
		count++
		return fn(rec)
	})
}

// UpsertBatch delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) UpsertBatch(ctx context.Context, indexName string, records []docdex.SearchRecord) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index upsert",
			"index", indexName,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpsertBatch(ctx, indexName, records)
}

// DeleteBatch delegates to the wrapped service and logs the operation.
func (s *LoggingIndexService) DeleteBatch(ctx context.Context, indexName string, objectIDs []string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("index delete",
			"index", indexName,
			"count", len(objectIDs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteBatch(ctx, indexName, objectIDs)
}
