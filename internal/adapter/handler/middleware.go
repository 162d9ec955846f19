package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lithammer/shortuuid/v3"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
	"github.com/srgjo27/transit_ticket/internal/platform/metrics"
)

const (
	requestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	subjectKey   = "subject"
	authErrKey   = "auth_error"
)

// RequestID reuses the caller's X-Request-ID or generates one. The id doubles
// as the correlation id of events published while serving the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = shortuuid.New()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)

		ctx := logging.ContextWithCorrelationID(c.Request.Context(), rid)
		ctx = logging.ToContext(ctx, logrus.WithField("request_id", rid))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logging.FromContext(c.Request.Context()).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"ip":         c.ClientIP(),
		})
		if sub, ok := subjectFrom(c); ok {
			entry = entry.WithField("user_id", sub.ID)
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("Request served")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("Request served")
		default:
			entry.Info("Request served")
		}
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Identify resolves a bearer token into a subject when one is present. It
// never rejects; RequireAuth does.
func Identify(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.Set(authErrKey, domain.ErrUnauthorized.WithMsg("malformed authorization header"))
			c.Next()
			return
		}

		sub, err := auth.Authenticate(strings.TrimSpace(token))
		if err != nil {
			c.Set(authErrKey, err)
			c.Next()
			return
		}

		c.Set(subjectKey, sub)
		c.Request = c.Request.WithContext(logging.ToContext(
			c.Request.Context(),
			logging.FromContext(c.Request.Context()).WithField("user_id", sub.ID),
		))
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := subjectFrom(c); ok {
			c.Next()
			return
		}

		message := domain.ErrUnauthorized.Msg
		if v, ok := c.Get(authErrKey); ok {
			if err, ok := v.(error); ok {
				message = err.Error()
			}
		}
		respondError(c, http.StatusUnauthorized, domain.ErrUnauthorized.Code, message, nil)
	}
}

// RequireRoles must run after RequireAuth.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, _ := subjectFrom(c)
		if !lo.Contains(roles, sub.Role) {
			respondError(c, http.StatusForbidden, domain.ErrForbidden.Code, "insufficient role", nil)
			return
		}
		c.Next()
	}
}

// RateLimit counts requests per user, or per client IP for anonymous
// callers. A limiter failure lets the request through.
func RateLimit(limiter ports.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if sub, ok := subjectFrom(c); ok {
			key = "user:" + sub.ID.String()
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logging.FromContext(c.Request.Context()).WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			respondError(c, http.StatusTooManyRequests, domain.ErrTooManyRequests.Code, domain.ErrTooManyRequests.Msg, nil)
			return
		}
		c.Next()
	}
}

func subjectFrom(c *gin.Context) (domain.Subject, bool) {
	v, ok := c.Get(subjectKey)
	if !ok {
		return domain.Subject{}, false
	}
	sub, ok := v.(domain.Subject)
	return sub, ok
}
