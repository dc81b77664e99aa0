// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/clientid"
	"codeberg.org/inkpost/inkpost/core/idgen"
	"codeberg.org/inkpost/inkpost/core/imageurl"
	"codeberg.org/inkpost/inkpost/core/store"
	"codeberg.org/inkpost/inkpost/core/upload"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"INKPOST_HOST,overwrite" yaml:"host"`
		Port                     string      `env:"INKPOST_PORT,overwrite" yaml:"port"`
		UnixSocket               string      `env:"INKPOST_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"INKPOST_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
		UnixSocketUser           string      `env:"INKPOST_UNIXSOCKET_USER" yaml:"unixSocketUser"`
		UnixSocketGroup          string      `env:"INKPOST_UNIXSOCKET_GROUP" yaml:"unixSocketGroup"`
		RepoURL                  string      `env:"INKPOST_REPO_URL,overwrite" yaml:"repoUrl"`
		// hex v4.public secret key signing Client cookies
		Secret                   string      `env:"INKPOST_SECRET" yaml:"secret"`
	} `yaml:"basic"`

	Log struct {
		Level   string   `env:"INKPOST_LOG_LEVEL,overwrite" yaml:"logLevel"`
		Outputs []string `env:"INKPOST_LOG_OUTPUTS,overwrite" yaml:"logOutputs"`
		Format  string   `env:"INKPOST_LOG_FORMAT,overwrite" yaml:"logFormat"`
	} `yaml:"log"`

	Render struct {
		DefaultGenerator string        `env:"INKPOST_DEFAULT_GENERATOR,overwrite" yaml:"defaultGenerator"`
		ImageProxy       string        `env:"INKPOST_IMAGEPROXY,overwrite" yaml:"imageProxy"`
		MaxContentBytes  int           `env:"INKPOST_MAX_CONTENT_BYTES,overwrite" yaml:"maxContentBytes"`
		Timeout          time.Duration `env:"INKPOST_RENDER_TIMEOUT,overwrite" yaml:"timeout"`
	} `yaml:"render"`

	Store struct {
		Backend    string `env:"INKPOST_STORE,overwrite" yaml:"backend"`
		Path       string `env:"INKPOST_STORE_PATH,overwrite" yaml:"path"`
		QuotaBytes int64  `env:"INKPOST_STORE_QUOTA,overwrite" yaml:"quotaBytes"`
		MaxEntries int    `env:"INKPOST_STORE_MAX_ENTRIES,overwrite" yaml:"maxEntries"`
		Compress   bool   `env:"INKPOST_STORE_COMPRESS,overwrite" yaml:"compress"`
	} `yaml:"store"`

	Upload struct {
		URLPath      string `env:"INKPOST_UPLOAD_URL_PATH,overwrite" yaml:"urlPath"`
		DataURLPath  string `env:"INKPOST_UPLOAD_DATAURL_PATH,overwrite" yaml:"dataUrlPath"`
		ErrorPath    string `env:"INKPOST_UPLOAD_ERROR_PATH,overwrite" yaml:"errorPath"`
		MaxBodyBytes int64  `env:"INKPOST_UPLOAD_MAX_BODY,overwrite" yaml:"maxBodyBytes"`
	} `yaml:"upload"`

	HTTP struct {
		CORSOrigins []string `env:"INKPOST_CORS_ORIGINS,overwrite" yaml:"corsOrigins"`
		RateLimit   float64  `env:"INKPOST_RATE_LIMIT,overwrite" yaml:"rateLimit"`
		RateBurst   int      `env:"INKPOST_RATE_BURST,overwrite" yaml:"rateBurst"`
		RateExempt  []string `env:"INKPOST_RATE_EXEMPT,overwrite" yaml:"rateExempt"`
		IPv4Prefix  int      `env:"INKPOST_IPV4_PREFIX,overwrite" yaml:"ipv4Prefix"`
		IPv6Prefix  int      `env:"INKPOST_IPV6_PREFIX,overwrite" yaml:"ipv6Prefix"`
	} `yaml:"http"`

	Instance struct {
		StartingTime      string           `yaml:"-"`
		FileServerCacheID string           `yaml:"-"`
		ClientSigner      *clientid.Signer `yaml:"-"`
	} `yaml:"-"`

	Development struct {
		InDevelopment bool   `env:"INKPOST_DEV" yaml:"inDevelopment"`
		DumpRenders   bool   `env:"INKPOST_DUMP_RENDERS,overwrite" yaml:"dumpRenders"`
		DumpDirectory string `env:"INKPOST_DUMP_DIRECTORY,overwrite" yaml:"dumpDirectory"`
	} `yaml:"development"`

	Internationalization struct {
		// Missing keys are logged once per locale+key and visibly wrapped.
		StrictMissingKeys bool `env:"INKPOST_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"internationalization"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	path := resolveConfigPath(parseCommandLineArgs())

	if err := cfg.load(path); err != nil {
		return err
	}

	cfg.print()

	if isContainerized() && cfg.Basic.UnixSocket == "" && cfg.Basic.Host != "0.0.0.0" && cfg.Basic.Host != "::" {
		log.Warn().
			Str("host", cfg.Basic.Host).
			Msg("Running in a container but not bound to a wildcard address ('0.0.0.0' or '::'); the editor may be unreachable from outside")
	}

	return nil
}

// load applies defaults, the YAML file, .env, the environment and validation
// in that order.
func (cfg *ServerConfig) load(configFilePath string) error {
	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Request()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	loadDotEnv()

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	return nil
}

// resolveConfigPath picks the config file: an explicit -config flag, then
// INKPOST_CONFIGFILE, then ./config.yaml falling back to ./config.yml.
func resolveConfigPath(flagValue string) string {
	explicit := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	if explicit {
		return flagValue
	}

	if env := os.Getenv("INKPOST_CONFIGFILE"); env != "" {
		return env
	}

	if _, err := os.Stat(flagValue); os.IsNotExist(err) {
		if _, err := os.Stat("./config.yml"); err == nil {
			return "./config.yml"
		}
	}

	return flagValue
}

// StoreOptions converts the Store section for store.Open.
func (cfg *ServerConfig) StoreOptions() store.Options {
	return store.Options{
		Kind:       cfg.Store.Backend,
		Path:       cfg.Store.Path,
		QuotaBytes: cfg.Store.QuotaBytes,
		MaxEntries: cfg.Store.MaxEntries,
		Compress:   cfg.Store.Compress,
	}
}

var ephemeralSigner = sync.OnceValue(clientid.NewEphemeralSigner)

// ClientSigner signs Client cookies with the key from Basic.Secret, or with a
// key generated for this process when none is configured.
func (cfg *ServerConfig) ClientSigner() *clientid.Signer {
	if cfg.Instance.ClientSigner != nil {
		return cfg.Instance.ClientSigner
	}

	return ephemeralSigner()
}

// UploadPaths converts the Upload section for upload.Decode.
func (cfg *ServerConfig) UploadPaths() upload.Paths {
	return upload.Paths{
		URL:       cfg.Upload.URLPath,
		IsDataURL: cfg.Upload.DataURLPath,
		Error:     cfg.Upload.ErrorPath,
	}
}

// ProxyBase is the preview image proxy prefix.
func (cfg *ServerConfig) ProxyBase() string {
	if cfg.Render.ImageProxy == "" {
		return imageurl.DefaultProxyBase
	}

	return cfg.Render.ImageProxy
}

var staticSkippedPathPrefixes = []string{"/css/", "/js/", "/img/", "/healthz"}

// ShouldSkipServerLogging reports whether a request bypasses the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// isContainerized checks for common indicators of a container. It is a heuristic.
func isContainerized() bool {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true
	}

	for _, marker := range []string{"/.dockerenv", "/.containerenv"} {
		if _, err := os.Stat(marker); err == nil {
			return true
		}
	}

	// #nosec G304 -- well-known system file
	cgroup, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	for _, keyword := range []string{"docker", "kubepods", "containerd", "lxc", "crio", ".machine"} {
		if strings.Contains(string(cgroup), keyword) {
			return true
		}
	}

	return false
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration as a human-readable string such as "30s".
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
