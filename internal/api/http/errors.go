package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/client"
)

// respondError maps client errors onto gateway responses. Dependency
// outages become 503 so callers can distinguish them from gateway bugs;
// upstream rejections pass through with their original status.
func (h *Handlers) respondError(c *gin.Context, err error) {
	var open *client.CircuitOpenError
	if errors.As(err, &open) {
		retryAfter := int(math.Ceil(open.RetryAfter.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":               "dependency unavailable",
			"dependency":          open.Service,
			"reason":              "circuit_open",
			"retry_after_seconds": retryAfter,
		})
		return
	}

	var unavailable *client.ServiceUnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":      "dependency unavailable",
			"dependency": unavailable.Service,
			"reason":     "unreachable",
			"attempts":   unavailable.Attempts,
		})
		return
	}

	var statusErr *client.HTTPStatusError
	if errors.As(err, &statusErr) {
		c.JSON(statusErr.StatusCode, gin.H{
			"error":           "upstream rejected request",
			"dependency":      statusErr.Service,
			"upstream_status": statusErr.StatusCode,
			"upstream_error":  upstreamDetail(statusErr.Body),
		})
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "request cancelled or timed out",
		})
		return
	}

	h.logger.Error("unexpected handler error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "internal error",
	})
}

// upstreamDetail keeps structured upstream errors structured and falls
// back to the raw text.
func upstreamDetail(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var detail interface{}
	if err := sonic.Unmarshal(body, &detail); err != nil {
		return string(body)
	}
	return detail
}
