package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const (
	keyPrefix        = "business_config_"
	generationSuffix = "_gen"
)

// Cache снимки BusinessConfig в Redis
// Используется только для чтения при выдаче слотов; проверка при создании брони идёт по БД
type Cache struct {
	client Client
	ttl    time.Duration
}

// NewCache создает кэш конфигураций с заданным TTL
func NewCache(client Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get возвращает снимок конфигурации или ErrCacheMiss
func (c *Cache) Get(ctx context.Context, businessID int64) (*domain.BusinessConfig, error) {
	data, err := c.client.Get(ctx, key(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get: %v", ErrCache, err)
	}

	var cfg domain.BusinessConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCache, err)
	}

	return &cfg, nil
}

// Set сохраняет снимок конфигурации
func (c *Cache) Set(ctx context.Context, cfg *domain.BusinessConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrCache, err)
	}

	if err := c.client.Set(ctx, key(cfg.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %v", ErrCache, err)
	}

	return nil
}

// Generation текущее поколение снимка бизнеса
// Читается до загрузки конфигурации из БД и передаётся в Fill
func (c *Cache) Generation(ctx context.Context, businessID int64) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(businessID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: get generation: %v", ErrCache, err)
	}
	return gen, nil
}

// Fill сохраняет снимок, загруженный после чтения поколения gen
// Если за это время конфигурацию инвалидировали, снимок не сохраняется (ErrStaleSnapshot)
func (c *Cache) Fill(ctx context.Context, cfg *domain.BusinessConfig, gen int64) error {
	current, err := c.Generation(ctx, cfg.ID)
	if err != nil {
		return err
	}
	if current != gen {
		return ErrStaleSnapshot
	}

	if err := c.Set(ctx, cfg); err != nil {
		return err
	}

	// Инвалидация между проверкой и записью: убираем только что записанный снимок
	current, err = c.Generation(ctx, cfg.ID)
	if err != nil {
		return err
	}
	if current != gen {
		if err := c.client.Del(ctx, key(cfg.ID)).Err(); err != nil {
			return fmt.Errorf("%w: del stale: %v", ErrCache, err)
		}
		return ErrStaleSnapshot
	}

	return nil
}

// Invalidate удаляет снимок; вызывается после каждой записи конфигурации
// Поколение увеличивается до удаления, чтобы параллельный Fill не вернул старый снимок
func (c *Cache) Invalidate(ctx context.Context, businessID int64) error {
	if err := c.client.Incr(ctx, generationKey(businessID)).Err(); err != nil {
		return fmt.Errorf("%w: incr generation: %v", ErrCache, err)
	}
	if err := c.client.Del(ctx, key(businessID)).Err(); err != nil {
		return fmt.Errorf("%w: del: %v", ErrCache, err)
	}
	return nil
}

func key(businessID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, businessID)
}

func generationKey(businessID int64) string {
	return key(businessID) + generationSuffix
}
