package middleware

import (
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID memakai ID dari klien bila ada, kalau tidak generate sendiri.
// ID ikut di response header dan di context untuk korelasi log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set("request_id", rid)
		c.Header(requestIDHeader, rid)
		c.Request = c.Request.WithContext(
			contextutil.WithRequestID(c.Request.Context(), rid),
		)

		c.Next()
	}
}
