// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// StructuredFileConfig mirrors [StructuredConfig] with the key names used
// in JSON and YAML configuration files.
type StructuredFileConfig struct {
	App struct {
		TokenSignKey  string   `json:"token_sign_key" yaml:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer" yaml:"token_issuer"`
		TokenDuration Duration `json:"token_duration" yaml:"token_duration"`
		Argon         struct {
			Time      uint32 `json:"time" yaml:"time"`
			MemoryKiB uint32 `json:"memory_kib" yaml:"memory_kib"`
			Threads   uint8  `json:"threads" yaml:"threads"`
			KeyLength uint32 `json:"key_length" yaml:"key_length"`
		} `json:"argon" yaml:"argon"`
		ReservedUsernames []string `json:"reserved_usernames" yaml:"reserved_usernames"`
		AdminPassword     string   `json:"admin_password" yaml:"admin_password"`
		CommonPassword    string   `json:"common_password" yaml:"common_password"`
		Version           string   `json:"version" yaml:"version"`
	} `json:"app,omitempty" yaml:"app,omitempty"`

	Storage struct {
		Profiles struct {
			DSN string `json:"dsn" yaml:"dsn"`
		} `json:"profiles,omitempty" yaml:"profiles,omitempty"`

		Identity struct {
			DSN         string `json:"dsn" yaml:"dsn"`
			HomeBackend string `json:"home_backend" yaml:"home_backend"`
			Root        string `json:"root" yaml:"root"`
			S3          struct {
				Bucket          string `json:"bucket" yaml:"bucket"`
				Region          string `json:"region" yaml:"region"`
				Endpoint        string `json:"endpoint" yaml:"endpoint"`
				AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
				SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
				UsePathStyle    bool   `json:"use_path_style" yaml:"use_path_style"`
			} `json:"s3" yaml:"s3"`
		} `json:"identity,omitempty" yaml:"identity,omitempty"`
	} `json:"storage,omitempty" yaml:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		LoginRateLimit float64  `json:"login_rate_limit" yaml:"login_rate_limit"`
		LoginBurst     int      `json:"login_burst" yaml:"login_burst"`
	} `json:"server,omitempty" yaml:"server,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address" yaml:"http_address"`
		RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
		Token          string   `json:"token" yaml:"token"`
	} `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	Workers struct {
		AuditInterval Duration `json:"audit_interval" yaml:"audit_interval"`
	} `json:"workers,omitempty" yaml:"workers,omitempty"`
}

func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading a config file: %w", err)
	}

	var fileCfg StructuredFileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding yaml configs: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("error decoding json configs: %w", err)
		}
	}

	return fileCfg.toStructured(), nil
}

func (f *StructuredFileConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenSignKey:  f.App.TokenSignKey,
			TokenIssuer:   f.App.TokenIssuer,
			TokenDuration: time.Duration(f.App.TokenDuration),
			Argon: Argon{
				Time:      f.App.Argon.Time,
				MemoryKiB: f.App.Argon.MemoryKiB,
				Threads:   f.App.Argon.Threads,
				KeyLength: f.App.Argon.KeyLength,
			},
			ReservedUsernames: f.App.ReservedUsernames,
			AdminPassword:     f.App.AdminPassword,
			CommonPassword:    f.App.CommonPassword,
			Version:           f.App.Version,
		},
		Storage: Storage{
			Profiles: Profiles{
				DSN: f.Storage.Profiles.DSN,
			},
			Identity: Identity{
				DSN:         f.Storage.Identity.DSN,
				HomeBackend: f.Storage.Identity.HomeBackend,
				Root:        f.Storage.Identity.Root,
				S3: S3{
					Bucket:          f.Storage.Identity.S3.Bucket,
					Region:          f.Storage.Identity.S3.Region,
					Endpoint:        f.Storage.Identity.S3.Endpoint,
					AccessKeyID:     f.Storage.Identity.S3.AccessKeyID,
					SecretAccessKey: f.Storage.Identity.S3.SecretAccessKey,
					UsePathStyle:    f.Storage.Identity.S3.UsePathStyle,
				},
			},
		},
		Server: Server{
			HTTPAddress:    f.Server.HTTPAddress,
			RequestTimeout: time.Duration(f.Server.RequestTimeout),
			LoginRateLimit: f.Server.LoginRateLimit,
			LoginBurst:     f.Server.LoginBurst,
		},
		Adapter: Adapter{
			HTTPAddress:    f.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(f.Adapter.RequestTimeout),
			Token:          f.Adapter.Token,
		},
		Workers: Workers{
			AuditInterval: time.Duration(f.Workers.AuditInterval),
		},
	}
}

// Duration is a wrapper around time.Duration that decodes from strings like
// "1h" or "30s" in both JSON and YAML files. Bare numbers are nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		return d.set(value)
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*d = Duration(time.Duration(n))
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) set(s string) error {
	tmp, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(tmp)
	return nil
}
