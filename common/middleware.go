package common

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/everFinance/payid-validator/schema"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// LimiterMiddleware period: "S"<Second>,"M"<Minute>,"H"<Hour>,"D"<Day>; limit: requests per period.
// Requests are keyed by origin and client ip; keys found in whitelist are never limited.
func LimiterMiddleware(limit int, period string, whitelist map[string]struct{}) (gin.HandlerFunc, error) {
	rate, err := limiter.NewRateFromFormatted(fmt.Sprintf("%d-%s", limit, period))
	if err != nil {
		return nil, err
	}
	middleware := mgin.NewMiddleware(limiter.New(memory.NewStore(), rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			c.JSON(http.StatusTooManyRequests, schema.RespErr{
				Err: schema.ErrLimitExceeded.Error(),
			})
		}),
		mgin.WithKeyGetter(func(c *gin.Context) string {
			return c.Request.Header.Get("origin") + "," + c.ClientIP()
		}),
		mgin.WithExcludedKey(func(originAndIp string) bool {
			if len(whitelist) == 0 {
				return false
			}
			for _, s := range strings.Split(originAndIp, ",") {
				if _, ok := whitelist[s]; ok {
					return true
				}
			}
			return false
		}))

	return middleware, nil
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
