package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr     string `yaml:"listen_addr" json:"listen_addr"`
	MetaDSN        string `yaml:"meta_dsn" json:"meta_dsn"`
	SpoolDir       string `yaml:"spool_dir" json:"spool_dir"`
	UploadsDir     string `yaml:"uploads_dir" json:"uploads_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes" json:"max_upload_bytes"`
}

// Load читает YAML-конфигурацию, применяет ENV-переопределения и возвращает актуальную структуру.
func Load() (*Config, error) {
	path := getenv("CONFIG_PATH", "./config.yaml")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	// ENV override
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("META_DSN"); v != "" {
		c.MetaDSN = v
	}
	if v := os.Getenv("SPOOL_DIR"); v != "" {
		c.SpoolDir = v
	}
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		c.UploadsDir = v
	}
	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxUploadBytes = n
		}
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ListenAddr) == "" {
		c.ListenAddr = ":8080"
	}
	if strings.TrimSpace(c.SpoolDir) == "" {
		c.SpoolDir = "./spool"
	}
	if strings.TrimSpace(c.UploadsDir) == "" {
		c.UploadsDir = "./uploads"
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}

	return def
}
