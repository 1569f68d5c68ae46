package cache

import (
	"time"

	"github.com/everFinance/payid-validator/common"
)

var log = common.NewLog("cache")

// Store keeps small lookup results, e.g. decoded X-addresses, across runs.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, entry []byte)
}

func NewLocalCache(ttl time.Duration) (Store, error) {
	return NewBigCache(ttl)
}
