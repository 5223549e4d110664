package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/clients"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	goredis "github.com/redis/go-redis/v9"
)

// setStockIfUnchanged записывает остаток, только если счётчик инвалидаций товара
// совпадает с прочитанным до запроса в БД.
// KEYS: пары stock:<id>, stockgen:<id>. ARGV: TTL в мс, затем пары ожидаемый счётчик, значение.
var setStockIfUnchanged = goredis.NewScript(`
local ttl = tonumber(ARGV[1])
local written = 0
for i = 1, #KEYS, 2 do
	local n = (i + 1) / 2
	local gen = tonumber(redis.call('GET', KEYS[i + 1]) or '0')
	if gen == tonumber(ARGV[n * 2]) then
		redis.call('SET', KEYS[i], ARGV[n * 2 + 1], 'PX', ttl)
		written = written + 1
	end
end
return written
`)

// CacheRepo кэширует остатки товаров под ключами stock:<id>.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.StockConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.StockConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetStock возвращает закэшированные остатки по ID, пропуская промахи.
func (r *CacheRepo) GetStock(ctx context.Context, ids []int64) (domain.StockMap, error) {
	if len(ids) == 0 {
		return domain.StockMap{}, nil
	}
	keys := buildStockKeys(ids)

	values, err := r.client.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	models := make([]converter.StockRedisModel, 0, len(values))
	for i, val := range values {
		data, err := redisValueToBytes(val, keys[i])
		if err != nil {
			r.logger.Warnf("%v", e.Wrap(whereami.WhereAmI(), err))
		}

		if data == nil {
			continue // cache miss
		}

		var model converter.StockRedisModel
		if err := json.Unmarshal(data, &model); err != nil {
			r.logger.Warnf("Redis unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
			continue
		}

		if model.ProductID != ids[i] {
			r.logger.Warnf("Cache ID mismatch: key_id: %d, model_id: %d", ids[i], model.ProductID)
			if err := r.client.Client.Del(ctx, keys[i]).Err(); err != nil {
				r.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
			}
			continue // cache miss
		}
		models = append(models, model)
	}

	return r.conv.ToStockMap(models), nil
}

// StockGenerations возвращает счётчики инвалидаций товаров. Отсутствующий ключ означает 0.
func (r *CacheRepo) StockGenerations(ctx context.Context, ids []int64) (map[int64]int64, error) {
	gens := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return gens, nil
	}

	values, err := r.client.Client.MGet(ctx, buildGenKeys(ids)...).Result()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	for i, val := range values {
		gen, err := parseGeneration(val)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		gens[ids[i]] = gen
	}

	return gens, nil
}

// SetStock кэширует остатки с TTL из конфигурации. Товар, инвалидированный после чтения gens, пропускается.
func (r *CacheRepo) SetStock(ctx context.Context, stock domain.StockMap, gens map[int64]int64) error {
	if len(stock) == 0 {
		return nil
	}

	keys, args := r.stockWriteArgs(stock, gens)
	if len(keys) == 0 {
		return nil
	}

	written, err := setStockIfUnchanged.Run(ctx, r.client.Client, keys, args...).Int()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}
	if skipped := len(keys)/2 - written; skipped > 0 {
		r.logger.Debugf("stock cache write skipped for %d invalidated products", skipped)
	}

	return nil
}

// stockWriteArgs готовит KEYS и ARGV для setStockIfUnchanged.
// Товары без прочитанного счётчика не кэшируются.
func (r *CacheRepo) stockWriteArgs(stock domain.StockMap, gens map[int64]int64) ([]string, []any) {
	keys := make([]string, 0, len(stock)*2)
	args := make([]any, 0, len(stock)*2+1)
	args = append(args, r.cfg.StockTTL.Milliseconds())

	for _, model := range r.conv.ToRedisModels(stock) {
		gen, ok := gens[model.ProductID]
		if !ok {
			continue
		}
		data, err := json.Marshal(model)
		if err != nil {
			r.logger.Warnf("Failed to marshal stock for caching (Product ID: %d): %v", model.ProductID, e.Wrap(whereami.WhereAmI(), err))
			continue
		}
		keys = append(keys, stockKey(model.ProductID), genKey(model.ProductID))
		args = append(args, gen, string(data))
	}

	return keys, args
}

// DeleteStock сбрасывает остатки товаров и увеличивает их счётчики инвалидаций в одной транзакции.
func (r *CacheRepo) DeleteStock(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.client.Client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, buildStockKeys(ids)...)
		for _, id := range ids {
			pipe.Incr(ctx, genKey(id))
		}
		return nil
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), e.Dependency(err))
	}

	return nil
}

func buildStockKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = stockKey(id)
	}

	return keys
}

func buildGenKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = genKey(id)
	}

	return keys
}

func stockKey(id int64) string {
	return fmt.Sprintf("stock:%d", id)
}

func genKey(id int64) string {
	return fmt.Sprintf("stockgen:%d", id)
}

func parseGeneration(val any) (int64, error) {
	switch v := val.(type) {
	case nil:
		return 0, nil
	case string:
		gen, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid stock generation %q: %w", v, err)
		}
		return gen, nil
	default:
		return 0, fmt.Errorf("unexpected stock generation type %T", val)
	}
}

// redisValueToBytes конвертирует значение из Redis в []byte.
// Поддерживает string и []byte, возвращает ошибку для неизвестных типов.
func redisValueToBytes(val any, key string) ([]byte, error) {
	switch v := val.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, nil // cache miss
	default:
		return nil, fmt.Errorf("unexpected Redis value type for key %s: %T", key, val)
	}
}
