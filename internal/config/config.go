package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

type Config struct {
	ListenAddr string
	BaseURL    string
	DataFile   string

	CookieHashKey  []byte
	CookieBlockKey []byte
}

func FromEnv() (Config, error) {
	cfg := Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		BaseURL:    getenv("BASE_URL", "http://localhost:8080"),
		DataFile:   getenv("DATA_FILE", "askbox.json"),
	}

	hashKey := os.Getenv("COOKIE_HASH_KEY")
	blockKey := os.Getenv("COOKIE_BLOCK_KEY")
	if hashKey == "" || blockKey == "" {
		return Config{}, fmt.Errorf("COOKIE_HASH_KEY and COOKIE_BLOCK_KEY are required (base64, see `askbox keys`)")
	}

	var err error
	cfg.CookieHashKey, err = decodeB64(hashKey)
	if err != nil {
		return Config{}, fmt.Errorf("COOKIE_HASH_KEY: %w", err)
	}
	cfg.CookieBlockKey, err = decodeB64(blockKey)
	if err != nil {
		return Config{}, fmt.Errorf("COOKIE_BLOCK_KEY: %w", err)
	}

	return cfg, nil
}

func decodeB64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
