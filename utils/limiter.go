package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// CanSubmitBid ограничивает частоту подачи предложений провайдером:
// не чаще 1 раза в 10 секунд и не более 30 в час по одной заявке.
func CanSubmitBid(rdb *redis.Client, providerID, requestID uint) (bool, string) {
	if rdb == nil {
		return true, ""
	}
	ctx := context.Background()
	burstKey := fmt.Sprintf("bid_burst_%d", providerID)
	hourKey := fmt.Sprintf("bid_hour_%d_%d", providerID, requestID)
	if rdb.Exists(ctx, burstKey).Val() > 0 {
		return false, "Подавать предложения можно не чаще 1 раза в 10 секунд"
	}
	cnt, _ := rdb.Get(ctx, hourKey).Int()
	if cnt >= 30 {
		return false, "Не более 30 предложений в час по одной заявке"
	}
	return true, ""
}

func MarkBidSubmitted(rdb *redis.Client, providerID, requestID uint) {
	if rdb == nil {
		return
	}
	ctx := context.Background()
	burstKey := fmt.Sprintf("bid_burst_%d", providerID)
	hourKey := fmt.Sprintf("bid_hour_%d_%d", providerID, requestID)
	rdb.Set(ctx, burstKey, 1, 10*time.Second)
	rdb.Incr(ctx, hourKey)
	rdb.Expire(ctx, hourKey, time.Hour)
}
