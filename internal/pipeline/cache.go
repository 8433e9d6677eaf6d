package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	glc "git.lolli.tech/lollipopkit/go_lru_cacher"

	"github.com/lua2cpp/lua2cpp/internal/emit"
)

// Cache memoizes compiled module output by a content hash of the
// source text plus the emit options it was compiled with, the same
// in-process technique stdlib/lib_re.go and lib_json.go use to
// memoize a compiled regexp or parsed gjson.Result by their source
// string — unlike main.go's disk-backed bytecode cache, go_lru_cacher
// itself never touches os.TempDir.
type Cache struct {
	cacher *glc.Cacher
}

// NewCache returns an empty cache holding up to capacity entries.
func NewCache(capacity int) *Cache {
	return &Cache{cacher: glc.NewCacher(capacity)}
}

func cacheKey(source string, opts emit.Options) string {
	h := sha256.New()
	h.Write([]byte(source))
	fmt.Fprintf(h, "|project=%t|lib=%t|name=%s", opts.ProjectMode, opts.Lib, opts.ProjectName)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the module output cached for (source, opts), if any.
func (c *Cache) Get(source string, opts emit.Options) (*emit.ModuleOutput, bool) {
	v, ok := c.cacher.Get(cacheKey(source, opts))
	if !ok {
		return nil, false
	}
	out, ok := v.(*emit.ModuleOutput)
	return out, ok
}

// Put records out as the module output for (source, opts).
func (c *Cache) Put(source string, opts emit.Options, out *emit.ModuleOutput) {
	c.cacher.Set(cacheKey(source, opts), out)
}
