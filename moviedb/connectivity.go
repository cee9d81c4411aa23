package moviedb

import (
	"net"
	"net/url"
	"sync"
	"time"
)

// Connectivity reports whether the backend is reachable. The client
// consults it before every request so definitely-failing calls do not burn
// the request timeout.
type Connectivity interface {
	Online() bool
}

// ConnectivityFunc adapts a plain function to the Connectivity interface.
type ConnectivityFunc func() bool

// Online implements the Connectivity interface
func (f ConnectivityFunc) Online() bool {
	return f()
}

// dialChecker probes the API host with a short TCP dial and caches the
// verdict so hot request paths do not pay a dial per call.
type dialChecker struct {
	addr    string
	timeout time.Duration
	ttl     time.Duration

	mu        sync.Mutex
	checkedAt time.Time
	online    bool
}

// newDialChecker builds the default reachability probe for a parsed base URL.
func newDialChecker(u *url.URL) *dialChecker {
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}
	return &dialChecker{
		addr:    net.JoinHostPort(u.Hostname(), port),
		timeout: 2 * time.Second,
		ttl:     10 * time.Second,
	}
}

// Online implements the Connectivity interface
func (d *dialChecker) Online() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.checkedAt.IsZero() && time.Since(d.checkedAt) < d.ttl {
		return d.online
	}

	conn, err := net.DialTimeout("tcp", d.addr, d.timeout)
	if err == nil {
		conn.Close()
	}
	d.online = err == nil
	d.checkedAt = time.Now()
	return d.online
}
