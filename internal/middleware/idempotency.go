package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyLockTTL = 30 * time.Second

// Idempotency melindungi endpoint POST yang tidak boleh dieksekusi dua kali
// (pembuatan payroll run, proses potongan advance). Klien mengirim header
// Idempotency-Key; request kedua dengan key yang sama mendapat hasil cache.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		// Hasil request pertama sudah ada: kembalikan tanpa menyentuh service.
		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached any
			_ = json.Unmarshal([]byte(val), &cached)
			response.Success(c, http.StatusOK, cached, nil)
			c.Abort()
			return
		}

		// SetNX sebagai lock; TTL pendek supaya lock lepas sendiri kalau
		// server mati di tengah proses.
		acquired, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if !acquired {
			response.Error(c, http.StatusConflict, "PROCESSING",
				"Request is still being processed, please wait.", nil)
			c.Abort()
			return
		}

		// Handler menghapus lock dan mengisi cache setelah selesai.
		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
