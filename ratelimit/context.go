package ratelimit

import "github.com/gin-gonic/gin"

const limiterKey = "ratelimit"

// Use este middleware no setup do gin
func SetToContext(limiter Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(limiterKey, limiter)
		c.Next()
	}
}

func Instance(c *gin.Context) Limiter {
	v, ok := c.Get(limiterKey)
	if !ok {
		return nil
	}
	limiter, _ := v.(Limiter)
	return limiter
}
