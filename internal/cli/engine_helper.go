package cli

import (
	"github.com/hashkv/store/internal/config"
	"github.com/hashkv/store/pkg/hashfile"
)

// withEngine opens path, builds an Engine honoring cfg's pool size
// override, runs fn, and always closes the file afterward.
func withEngine(cfg config.Config, path string, fn func(e *hashfile.Engine) error) error {
	f, err := hashfile.OpenFile(path)
	if err != nil {
		return err
	}

	var opts []hashfile.EngineOption
	if cfg.PoolSize > 0 {
		opts = append(opts, hashfile.WithBufferPool(hashfile.NewBufferPool(cfg.PoolSize)))
	}

	e := hashfile.NewEngine(f, opts...)
	defer e.Close()

	return fn(e)
}
