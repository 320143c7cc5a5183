package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewDedupChecker_TTL(t *testing.T) {
	assert.Equal(t, defaultDedupTTL, NewDedupChecker(nil, 0).ttl)
	assert.Equal(t, defaultDedupTTL, NewDedupChecker(nil, -time.Second).ttl)
	assert.Equal(t, time.Hour, NewDedupChecker(nil, time.Hour).ttl)
}

func TestDedupChecker_KeyIsNamespaced(t *testing.T) {
	d := NewDedupChecker(nil, time.Hour)
	assert.Equal(t, "dedup:12345678901:1673778600:300", d.key("12345678901:1673778600:300"))
}
