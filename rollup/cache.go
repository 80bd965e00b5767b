package rollup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"yardcore/asset"
)

// Cache is the write-through Redis mirror of computed rollup rows, so other
// processes can read them without recomputing. The compiler works fine with
// a nil cache.
type Cache struct {
	client *redis.Client
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func rollupKey(assetID string) string {
	return fmt.Sprintf("yardcore:rollup:%s", assetID)
}

const allRollupsKey = "yardcore:rollups"

func (c *Cache) Put(ctx context.Context, row asset.Maintenance) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, rollupKey(row.AssetID), data, 0)
	pipe.SAdd(ctx, allRollupsKey, row.AssetID)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *Cache) Get(ctx context.Context, assetID string) (asset.Maintenance, bool, error) {
	data, err := c.client.Get(ctx, rollupKey(assetID)).Bytes()
	if err == redis.Nil {
		return asset.Maintenance{}, false, nil
	}
	if err != nil {
		return asset.Maintenance{}, false, err
	}
	var row asset.Maintenance
	if err := json.Unmarshal(data, &row); err != nil {
		return asset.Maintenance{}, false, err
	}
	return row, true, nil
}

func (c *Cache) Delete(ctx context.Context, assetID string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, rollupKey(assetID))
	pipe.SRem(ctx, allRollupsKey, assetID)
	_, err := pipe.Exec(ctx)
	return err
}
