package attribute

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kavya5jan-prog/ema-claims/internal/model"
)

// classificationCache memoizes LLM classifier verdicts so re-submitting the
// same document does not spend another gateway call.
type classificationCache struct {
	cache *gocache.Cache
}

func newClassificationCache(ttl time.Duration) *classificationCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &classificationCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *classificationCache) get(key string) (model.Classification, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(model.Classification), true
	}
	return model.Classification{}, false
}

func (c *classificationCache) set(key string, cls model.Classification) {
	c.cache.SetDefault(key, cls)
}

// cacheKey hashes the filename and content sample that feed the classifier
func cacheKey(filename, sample string) string {
	hash := sha256.Sum256([]byte(filename + "\x00" + sample))
	return "classify:v1:" + hex.EncodeToString(hash[:])
}
