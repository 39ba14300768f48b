// Package redisstore guarda el snapshot JSON de cada tienda en una clave Redis (STORE_DRIVER=redis).
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Entregas-api/internal/domain/entity"
	"github.com/jhoicas/Entregas-api/internal/domain/repository"
	"github.com/jhoicas/Entregas-api/pkg/config"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
}

// SnapshotRepo una clave por tienda: <prefix>:ledger:<shopID>, sin TTL.
type SnapshotRepo struct {
	store  cmdable
	raw    *redis.Client
	prefix string
}

// New conecta con Redis (REDIS_URL o REDIS_ADDRESS) y verifica la conexión.
func New(ctx context.Context, cfg config.RedisConfig) (*SnapshotRepo, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &SnapshotRepo{store: raw, raw: raw, prefix: cfg.KeyPrefix}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}, nil
}

// Close cierra la conexión si fue abierta por New.
func (r *SnapshotRepo) Close() error {
	if r.raw == nil {
		return nil
	}
	return r.raw.Close()
}

// Ping verifica la conexión; lo usa GET /health.
func (r *SnapshotRepo) Ping(ctx context.Context) error {
	return r.store.Ping(ctx).Err()
}

// Load lee el JSON de la tienda; redis.Nil significa tienda sin datos.
func (r *SnapshotRepo) Load(ctx context.Context, shopID string) (*entity.Snapshot, error) {
	raw, err := r.store.Get(ctx, r.key(shopID)).Result()
	if errors.Is(err, redis.Nil) {
		return entity.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	snap := entity.NewSnapshot()
	if err := json.Unmarshal([]byte(raw), snap); err != nil {
		return nil, fmt.Errorf("redis: JSON inválido para %s: %w", shopID, err)
	}
	if snap.History == nil {
		snap.History = map[string][]entity.PurchaseRecord{}
	}
	return snap, nil
}

// Save sobrescribe la clave con el snapshot completo.
func (r *SnapshotRepo) Save(ctx context.Context, shopID string, snap *entity.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: serializar: %w", err)
	}
	if err := r.store.Set(ctx, r.key(shopID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) key(shopID string) string {
	if r.prefix == "" {
		return "ledger:" + shopID
	}
	return r.prefix + ":ledger:" + shopID
}
