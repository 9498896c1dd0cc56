package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/revtext"
)

type fileConfig struct {
	Key       string          `toml:"key"`
	Alphabet  string          `toml:"alphabet"`
	TextOnly  bool            `toml:"text_only"`
	MaxInput  int             `toml:"max_input"`
	LogLevel  string          `toml:"log_level"`
	LogFormat string          `toml:"log_format"`
	Store     fileStoreConfig `toml:"store"`
}

type fileStoreConfig struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
	Namespace string `toml:"namespace"`
	TTL       string `toml:"ttl"`
}

type storeConfig struct {
	Backend   string
	Dir       string
	RedisAddr string
	Namespace string
	TTL       time.Duration
}

type config struct {
	Codec     revtext.Options
	LogLevel  zapcore.Level
	LogFormat string // console | json
	Store     storeConfig
}

var backends = map[string]bool{"file": true, "redis": true}

// inProcess stores lose their contents when the command exits.
var inProcess = map[string]bool{"bigcache": true, "ristretto": true}

func defaultConfig() config {
	return config{
		Codec:     revtext.Options{Alphabet: revtext.Base64URL},
		LogLevel:  zapcore.WarnLevel,
		LogFormat: "console",
		Store: storeConfig{
			Backend:   "file",
			Dir:       "./output/vault",
			RedisAddr: "127.0.0.1:6379",
			Namespace: "revtext",
		},
	}
}

// loadConfig reads path over the defaults. An empty path yields the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load revtext config: %w", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return config{}, fmt.Errorf("load revtext config: unknown key %q", undec[0].String())
	}

	if meta.IsDefined("key") {
		cfg.Codec.Key = []byte(raw.Key)
	}
	if meta.IsDefined("alphabet") {
		a, err := revtext.ParseAlphabet(raw.Alphabet)
		if err != nil {
			return config{}, err
		}
		cfg.Codec.Alphabet = a
	}
	if meta.IsDefined("text_only") {
		cfg.Codec.TextOnly = raw.TextOnly
	}
	if meta.IsDefined("max_input") {
		cfg.Codec.MaxInput = raw.MaxInput
	}
	if meta.IsDefined("log_level") {
		lvl, err := zapcore.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = lvl
	}
	if meta.IsDefined("log_format") {
		f := strings.ToLower(strings.TrimSpace(raw.LogFormat))
		if f != "console" && f != "json" {
			return config{}, fmt.Errorf("unknown log_format %q", raw.LogFormat)
		}
		cfg.LogFormat = f
	}

	if meta.IsDefined("store", "backend") {
		b := strings.ToLower(strings.TrimSpace(raw.Store.Backend))
		if inProcess[b] {
			return config{}, fmt.Errorf("store backend %q is in-process and cannot keep values between runs; use file or redis", b)
		}
		if !backends[b] {
			return config{}, fmt.Errorf("unknown store backend %q", raw.Store.Backend)
		}
		cfg.Store.Backend = b
	}
	if meta.IsDefined("store", "dir") {
		cfg.Store.Dir = strings.TrimSpace(raw.Store.Dir)
	}
	if meta.IsDefined("store", "redis_addr") {
		cfg.Store.RedisAddr = strings.TrimSpace(raw.Store.RedisAddr)
	}
	if meta.IsDefined("store", "namespace") {
		if ns := strings.TrimSpace(raw.Store.Namespace); ns != "" {
			cfg.Store.Namespace = ns
		}
	}
	if meta.IsDefined("store", "ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Store.TTL))
		if err != nil {
			return config{}, fmt.Errorf("parse store.ttl: %w", err)
		}
		cfg.Store.TTL = d
	}

	return cfg, nil
}
