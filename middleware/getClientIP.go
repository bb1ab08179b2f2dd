package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// TrustProxies restricts which peers may set X-Forwarded-For and X-Real-IP.
// With no proxies listed, forwarding headers are ignored and the peer
// address is the client.
func TrustProxies(r *gin.Engine, proxies []string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := r.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("invalid trusted proxies: %w", err)
	}
	return nil
}

// getClientIP returns the client address as resolved by gin against the
// trusted proxy list.
func getClientIP(c *gin.Context) string {
	return c.ClientIP()
}
