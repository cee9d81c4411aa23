package cache

import (
	"net/url"
	"strconv"
)

// Operation kinds. Detail keys live in their own namespace so invalidating
// a domain's listings never evicts a fetched detail and vice versa.
const (
	OpList    = "list"
	OpSearch  = "search"
	OpPopular = "popular"
	OpDetail  = "detail"
)

// Key identifies one cached query as a (domain, operation, parameters)
// tuple.
type Key struct {
	Domain string
	Op     string
	Params string
}

// NewKey builds a key from raw query parameters. url.Values.Encode sorts by
// key, so equivalent parameter sets canonicalize to the same string no
// matter how the caller assembled them.
func NewKey(domain, op string, params url.Values) Key {
	encoded := ""
	if params != nil {
		encoded = params.Encode()
	}
	return Key{Domain: domain, Op: op, Params: encoded}
}

// DetailKey builds the key for a single entity fetch.
func DetailKey(domain string, id int) Key {
	return Key{Domain: domain, Op: OpDetail, Params: strconv.Itoa(id)}
}

// String renders the key in domain:op:params form, used for logging and
// in-flight deduplication.
func (k Key) String() string {
	return k.Domain + ":" + k.Op + ":" + k.Params
}

// isDetail reports whether the key lives in the detail namespace.
func (k Key) isDetail() bool {
	return k.Op == OpDetail
}
