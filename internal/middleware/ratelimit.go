package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hongminglow/finance-be/internal/http/respond"
)

// Limiter counts requests per client in fixed one-minute windows.
type Limiter struct {
	mu        sync.Mutex
	clients   map[string]*window
	perMinute int
	trusted   []*net.IPNet
	now       func() time.Time
}

type window struct {
	start    time.Time
	requests int
}

// NewLimiter allows perMinute requests per client and minute. Forwarding
// headers identify the client only when the peer is in trusted.
func NewLimiter(perMinute int, trusted []*net.IPNet) *Limiter {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &Limiter{clients: make(map[string]*window), perMinute: perMinute, trusted: trusted, now: time.Now}
}

// Allow records a request from key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		if len(l.clients) > 10_000 {
			l.prune(now)
		}
		l.clients[key] = &window{start: now, requests: 1}
		return true
	}
	w.requests++
	return w.requests <= l.perMinute
}

func (l *Limiter) prune(now time.Time) {
	for key, w := range l.clients {
		if now.Sub(w.start) >= time.Minute {
			delete(l.clients, key)
		}
	}
}

// Middleware answers 429 once a client exceeds the limit.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r, l.trusted)) {
			w.Header().Set("Retry-After", strconv.Itoa(60))
			respond.Error(w, http.StatusTooManyRequests, "too many attempts, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the peer address, or the first X-Forwarded-For hop (then
// X-Real-IP) when the peer is a trusted proxy.
func ClientIP(r *http.Request, trusted []*net.IPNet) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !isTrusted(net.ParseIP(peer), trusted) {
		return peer
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
		return ip.String()
	}
	return peer
}

func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
