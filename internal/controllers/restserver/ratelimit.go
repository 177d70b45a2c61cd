package restserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientIdleTimeout is how long a client's bucket is kept without requests
const clientIdleTimeout = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client address
type ipRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	r       rate.Limit
	b       int
	now     func() time.Time
}

func newIPRateLimiter(r float64, b int) *ipRateLimiter {
	return &ipRateLimiter{
		clients: make(map[string]*clientLimiter),
		r:       rate.Limit(r),
		b:       b,
		now:     time.Now,
	}
}

func (i *ipRateLimiter) allow(client string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	c, ok := i.clients[client]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(i.r, i.b)}
		i.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep drops the buckets of clients idle for longer than clientIdleTimeout
func (i *ipRateLimiter) sweep() {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := i.now().Add(-clientIdleTimeout)
	for k, c := range i.clients {
		if c.lastSeen.Before(cutoff) {
			delete(i.clients, k)
		}
	}
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
