// Package poolcfg loads a declarative YAML description of the pools a
// process should bootstrap at startup, the same pattern the teacher
// uses for its on-disk cluster config (cmd/warren/apply.go's
// WarrenResource), narrowed to pool registry bootstrap instead of
// cluster resources.
package poolcfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/pool"
)

// PoolSpec describes one pool to create and register under
// pool.Global at startup.
type PoolSpec struct {
	Name         string `yaml:"name"`
	Domain       string `yaml:"domain"`
	BlockSize    int    `yaml:"blockSize"`
	MinChunkSize int    `yaml:"minChunkSize"`
	MaxChunkSize int    `yaml:"maxChunkSize"`
	ThreadSafe   bool   `yaml:"threadSafe"`
}

// Config is the top-level document shape: one entry per pool the
// process wants warm before the first allocation.
type Config struct {
	Pools []PoolSpec `yaml:"pools"`
}

// Load reads and parses a pool bootstrap config from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("poolcfg: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("poolcfg: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Bootstrap constructs every pool named in cfg and registers it under
// reg (typically pool.Global), keyed by its Name. Returns the created
// pools keyed the same way so callers can hand them to containers
// that need a specific pool rather than the domain default.
func Bootstrap(cfg *Config, reg *pool.Registry) (map[string]*pool.Pool, error) {
	out := make(map[string]*pool.Pool, len(cfg.Pools))
	for _, spec := range cfg.Pools {
		if spec.Name == "" {
			return nil, fmt.Errorf("poolcfg: pool entry missing name")
		}
		if _, exists := out[spec.Name]; exists {
			return nil, fmt.Errorf("poolcfg: duplicate pool name %q", spec.Name)
		}
		p := pool.New(domain.Tag(spec.Domain), spec.BlockSize, spec.MinChunkSize, spec.MaxChunkSize)
		out[spec.Name] = p
		if spec.ThreadSafe {
			reg.Register(spec.Name, pool.NewSafe(p))
		} else {
			reg.Register(spec.Name, p)
		}
	}
	return out, nil
}

// Default returns the minimal pool set every process in this module
// wants warm: one pool each for the Container, RTTI and Transaction
// domain tags, sized for small MetaObject-graph node allocations.
func Default() *Config {
	return &Config{
		Pools: []PoolSpec{
			{Name: "container-nodes", Domain: string(domain.Container), BlockSize: 32, MinChunkSize: 512, MaxChunkSize: 1 << 16, ThreadSafe: false},
			{Name: "rtti-atoms", Domain: string(domain.RTTI), BlockSize: 16, MinChunkSize: 512, MaxChunkSize: 1 << 16, ThreadSafe: false},
			{Name: "transaction-refs", Domain: string(domain.Transaction), BlockSize: 24, MinChunkSize: 512, MaxChunkSize: 1 << 15, ThreadSafe: true},
		},
	}
}
