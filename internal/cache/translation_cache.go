package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"pdflingua/internal/model"
)

// TranslationListCache keeps a file's full record listing in redis. A
// short-lived dirty marker set on every mutation keeps a stale list from
// being re-cached while writes are settling.
type TranslationListCache struct {
	client         *redisv9.Client
	listTTL        time.Duration
	dirtyMarkerTTL time.Duration
}

func NewTranslationListCache(client *redisv9.Client, listTTL, dirtyMarkerTTL time.Duration) *TranslationListCache {
	if listTTL <= 0 {
		listTTL = 60 * time.Second
	}
	if dirtyMarkerTTL <= 0 {
		dirtyMarkerTTL = 5 * time.Second
	}
	return &TranslationListCache{
		client:         client,
		listTTL:        listTTL,
		dirtyMarkerTTL: dirtyMarkerTTL,
	}
}

func (c *TranslationListCache) GetRecords(ctx context.Context, fileID uint) ([]model.TranslationRecord, bool, error) {
	raw, err := c.client.Get(ctx, c.listKey(fileID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get translation list failed: %w", err)
	}

	var records []model.TranslationRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached translation list failed: %w", err)
	}
	return records, true, nil
}

func (c *TranslationListCache) SetRecords(ctx context.Context, fileID uint, records []model.TranslationRecord) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal translation list failed: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(fileID), payload, c.listTTL).Err(); err != nil {
		return fmt.Errorf("redis set translation list failed: %w", err)
	}
	return nil
}

func (c *TranslationListCache) DeleteRecords(ctx context.Context, fileID uint) error {
	if err := c.client.Del(ctx, c.listKey(fileID)).Err(); err != nil {
		return fmt.Errorf("redis delete translation list failed: %w", err)
	}
	return nil
}

func (c *TranslationListCache) MarkDirty(ctx context.Context, fileID uint) error {
	if err := c.client.Set(ctx, c.dirtyKey(fileID), "1", c.dirtyMarkerTTL).Err(); err != nil {
		return fmt.Errorf("redis set dirty marker failed: %w", err)
	}
	return nil
}

func (c *TranslationListCache) IsDirty(ctx context.Context, fileID uint) (bool, error) {
	exists, err := c.client.Exists(ctx, c.dirtyKey(fileID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis check dirty marker failed: %w", err)
	}
	return exists > 0, nil
}

func (c *TranslationListCache) listKey(fileID uint) string {
	return fmt.Sprintf("translation:list:%d", fileID)
}

func (c *TranslationListCache) dirtyKey(fileID uint) string {
	return fmt.Sprintf("translation:list:dirty:%d", fileID)
}
