package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pathquery/pkg/api"
	"github.com/matzehuels/pathquery/pkg/pipeline"
	"github.com/matzehuels/pathquery/pkg/store"
)

// Environment variables that override the config file.
const (
	envRedisAddr = "PATHQUERY_REDIS_ADDR"
	envMongoURI  = "PATHQUERY_MONGO_URI"
)

// Backend names accepted in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Config is the optional config file. Every field has a usable default, so
// a missing file is not an error.
type Config struct {
	Query QueryConfig `toml:"query"`
	Cache CacheConfig `toml:"cache"`
	Store StoreConfig `toml:"store"`
	Serve ServeConfig `toml:"serve"`
}

// QueryConfig holds defaults for query flags.
type QueryConfig struct {
	Limit     int    `toml:"limit"`
	Direction string `toml:"direction"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis or none
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	Prefix    string `toml:"prefix"` // namespaces keys in a shared backend
}

// StoreConfig selects where named networks live.
type StoreConfig struct {
	Backend       string `toml:"backend"` // file or mongo
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// ServeConfig configures the serve command.
type ServeConfig struct {
	Addr         string `toml:"addr"`
	QueryTimeout string `toml:"query_timeout"`
}

func defaultConfig() Config {
	return Config{
		Query: QueryConfig{Limit: pipeline.DefaultLimit, Direction: pipeline.DefaultDirection},
		Cache: CacheConfig{Backend: backendFile},
		Store: StoreConfig{Backend: backendFile, MongoDatabase: store.DefaultMongoDatabase},
		Serve: ServeConfig{Addr: api.DefaultAddr, QueryTimeout: api.DefaultQueryTimeout.String()},
	}
}

// loadConfig reads the config file at path over the defaults. An empty path
// means the default location, which may be absent.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		case err != nil:
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		default:
			if undec := md.Undecoded(); len(undec) > 0 {
				return Config{}, fmt.Errorf("load config %s: unknown keys %v", path, undec)
			}
		}
	}

	if addr := os.Getenv(envRedisAddr); addr != "" {
		cfg.Cache.Backend = backendRedis
		cfg.Cache.RedisAddr = addr
	}
	if uri := os.Getenv(envMongoURI); uri != "" {
		cfg.Store.Backend = backendMongo
		cfg.Store.MongoURI = uri
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case backendFile, backendNone:
	case backendRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend redis needs redis_addr or %s", envRedisAddr)
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case backendFile:
	case backendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store backend mongo needs mongo_uri or %s", envMongoURI)
		}
	default:
		return fmt.Errorf("unknown store backend %q (want file or mongo)", c.Store.Backend)
	}
	return nil
}

// defaultConfigPath returns $XDG_CONFIG_HOME/pathquery/config.toml, or ""
// when no config directory can be determined.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}
