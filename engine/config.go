package engine

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config provisions the bulk memory an Engine allocates up front. In
// the C++ original these were all constexpr; here they are the runtime
// equivalent, loadable from a file or the environment via viper so an
// embedding service can provision the engine per instrument without a
// recompile.
type Config struct {
	// MaxPriceLevels bounds the tick space: prices must fall in
	// [0, MaxPriceLevels). Provisioned at roughly 2^25 in the original
	// for full-range instruments; kept far smaller by default here so
	// tests and small embeddings don't pay for unused level arrays.
	MaxPriceLevels int

	// OrderPoolCapacity is the arena's initial slot count. It grows by
	// doubling, so this only sets the first allocation's size.
	OrderPoolCapacity int

	// RingCapacity is the SPSC output ring's size; a value that is not a
	// power of two is rounded up to the next power of two.
	RingCapacity int

	// BenchmarkMode suppresses Accepted/Cancelled event emission to cut
	// output overhead under load. Trade emission is never suppressed.
	BenchmarkMode bool
}

const (
	defaultMaxPriceLevels    = 1 << 16
	defaultOrderPoolCapacity = 1 << 16
	defaultRingCapacity      = 1 << 16
)

// DefaultConfig returns the provisioning defaults used when no
// configuration source overrides them.
func DefaultConfig() Config {
	return Config{
		MaxPriceLevels:    defaultMaxPriceLevels,
		OrderPoolCapacity: defaultOrderPoolCapacity,
		RingCapacity:      defaultRingCapacity,
		BenchmarkMode:     false,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxPriceLevels <= 0 {
		c.MaxPriceLevels = defaultMaxPriceLevels
	}
	if c.OrderPoolCapacity <= 0 {
		c.OrderPoolCapacity = defaultOrderPoolCapacity
	}
	if c.RingCapacity <= 0 {
		c.RingCapacity = defaultRingCapacity
	}
	if c.RingCapacity&(c.RingCapacity-1) != 0 {
		c.RingCapacity = nextPowerOfTwo(c.RingCapacity)
	}
	return c
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// LoadConfig reads engine provisioning from path (a viper-supported
// format — YAML, TOML, JSON) overlaid with TITANLOB_*-prefixed
// environment variables, the way the config loaders across the example
// pool's services layer viper. A missing file is not an error: the
// defaults (possibly overridden purely by environment) are used.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("titanlob")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultConfig()
	v.SetDefault("max_price_levels", cfg.MaxPriceLevels)
	v.SetDefault("order_pool_capacity", cfg.OrderPoolCapacity)
	v.SetDefault("ring_capacity", cfg.RingCapacity)
	v.SetDefault("benchmark_mode", cfg.BenchmarkMode)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	cfg.MaxPriceLevels = v.GetInt("max_price_levels")
	cfg.OrderPoolCapacity = v.GetInt("order_pool_capacity")
	cfg.RingCapacity = v.GetInt("ring_capacity")
	cfg.BenchmarkMode = v.GetBool("benchmark_mode")

	return cfg.withDefaults(), nil
}
