package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/answerly/answerly-api/internal/models"
)

const extractionKeyPrefix = "answerly:extractions:"

// ExtractionRepository persists OCR audit records. Records are keyed by
// filename; writing the same filename twice keeps only the newest text.
type ExtractionRepository interface {
	Save(ctx context.Context, record models.ExtractedRecord) error
	Get(ctx context.Context, id string) (models.ExtractedRecord, error)
	List(ctx context.Context) ([]models.ExtractedRecord, error)
}

type extractionRepository struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewExtractionRepository constructs a Redis-backed extraction repository.
// A zero TTL keeps records until overwritten.
func NewExtractionRepository(client *redis.Client, ttl time.Duration) ExtractionRepository {
	return &extractionRepository{redis: client, ttl: ttl}
}

func (r *extractionRepository) Save(ctx context.Context, record models.ExtractedRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal extraction record: %w", err)
	}

	if err := r.redis.Set(ctx, extractionKeyPrefix+record.ID, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("store extraction record: %w", err)
	}

	return nil
}

func (r *extractionRepository) Get(ctx context.Context, id string) (models.ExtractedRecord, error) {
	payload, err := r.redis.Get(ctx, extractionKeyPrefix+id).Bytes()
	if err != nil {
		return models.ExtractedRecord{}, fmt.Errorf("load extraction record: %w", err)
	}

	var record models.ExtractedRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return models.ExtractedRecord{}, fmt.Errorf("decode extraction record: %w", err)
	}

	return record, nil
}

func (r *extractionRepository) List(ctx context.Context) ([]models.ExtractedRecord, error) {
	records := make([]models.ExtractedRecord, 0)

	iter := r.redis.Scan(ctx, 0, extractionKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		payload, err := r.redis.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("load extraction record: %w", err)
		}

		var record models.ExtractedRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode extraction record: %w", err)
		}
		records = append(records, record)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan extraction records: %w", err)
	}

	return records, nil
}
