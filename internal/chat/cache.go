package chat

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ReplyCache memoizes backend replies per normalized query so repeated
// questions skip the external call.
type ReplyCache struct {
	lru *lru.Cache[string, *Reply]
}

// NewReplyCache creates a cache holding up to size replies. Size must be
// positive; lru.New only fails on a non-positive size, so the error is
// surfaced rather than swallowed.
func NewReplyCache(size int) (*ReplyCache, error) {
	c, err := lru.New[string, *Reply](size)
	if err != nil {
		return nil, err
	}

	return &ReplyCache{lru: c}, nil
}

func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func (c *ReplyCache) Get(query string) (*Reply, bool) {
	return c.lru.Get(cacheKey(query))
}

func (c *ReplyCache) Add(query string, reply *Reply) {
	c.lru.Add(cacheKey(query), reply)
}

func (c *ReplyCache) Len() int {
	return c.lru.Len()
}
