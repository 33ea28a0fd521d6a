package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"marketplace_api/internal/api/dto"
)

// ==================== CooldownLimiter ====================

// CooldownLimiter allows one hit per key every interval.
type CooldownLimiter struct {
	locks sync.Map // key -> *lockEntry
}

type lockEntry struct {
	lastTime time.Time
	mu       sync.Mutex
}

func NewCooldownLimiter() *CooldownLimiter {
	return &CooldownLimiter{}
}

type CheckResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Check records a hit for key when the cooldown has elapsed.
func (r *CooldownLimiter) Check(key string, interval time.Duration) CheckResult {
	actual, _ := r.locks.LoadOrStore(key, &lockEntry{})
	entry := actual.(*lockEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	elapsed := time.Since(entry.lastTime)
	if elapsed < interval {
		return CheckResult{Allowed: false, RetryAfter: interval - elapsed}
	}

	entry.lastTime = time.Now()
	return CheckResult{Allowed: true}
}

// ==================== Gin middleware ====================

// LoginRateLimit throttles login attempts per client ip. A zero interval disables it.
//
//	sellers.POST("/login", middleware.LoginRateLimit(limiter, cfg.Auth.LoginCooldown), ctl.Login)
func LoginRateLimit(limiter *CooldownLimiter, interval time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if interval <= 0 {
			c.Next()
			return
		}

		result := limiter.Check("login:"+c.ClientIP(), interval)
		if !result.Allowed {
			seconds := int(math.Ceil(result.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Detail:    fmt.Sprintf("Too many login attempts, retry in %d seconds", seconds),
				ErrorCode: "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}
