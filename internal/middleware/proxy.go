package middleware

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TrustedProxies makes c.RealIP() name the client rather than the reverse
// proxy in front of the server. Forwarding headers are believed only when
// the peer lies in trustedCIDRs; the per-IP rate limiter keys on the result.
func TrustedProxies(e *echo.Echo, trustedCIDRs []string) {
	e.IPExtractor = clientIPExtractor(trustedCIDRs)
}

// clientIPExtractor prefers X-Real-IP and otherwise walks X-Forwarded-For
// from the right, returning the first hop outside the trusted ranges.
func clientIPExtractor(trustedCIDRs []string) echo.IPExtractor {
	opts := trustOptions(trustedCIDRs)
	fromRealIP := echo.ExtractIPFromRealIPHeader(opts...)
	fromXFF := echo.ExtractIPFromXFFHeader(opts...)

	return func(req *http.Request) string {
		if req.Header.Get(echo.HeaderXRealIP) != "" {
			return fromRealIP(req)
		}
		return fromXFF(req)
	}
}

// trustOptions turns the configured CIDRs into echo trust options. Echo's
// built-in loopback and private ranges are switched off so only the
// configuration decides.
func trustOptions(cidrs []string) []echo.TrustOption {
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			slog.Warn("ignoring invalid trusted proxy CIDR", slog.String("cidr", cidr))
			continue
		}
		opts = append(opts, echo.TrustIPRange(network))
	}
	return opts
}
