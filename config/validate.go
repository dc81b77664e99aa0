// Copyright 2025 - 2026, the InkPost contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/inkpost/inkpost/core/clientid"
	"codeberg.org/inkpost/inkpost/core/generator"
	"codeberg.org/inkpost/inkpost/core/store"
	"codeberg.org/inkpost/inkpost/server/utils"
)

// validation errors.
var (
	errUnixSocketWithHostPort       = errors.New("unix socket configured - cannot specify Host and Port simultaneously")
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errUnixSocketUserDoesNotExist   = errors.New("user does not exist")
	errUnixSocketGroupDoesNotExist  = errors.New("group does not exist")
	errInvalidLogLevel              = errors.New("invalid Log.Level")
	errInvalidLogFormat             = errors.New("invalid Log.Format")
	errInvalidStoreBackend          = errors.New("invalid Store.Backend")
	errEmptyStorePath               = errors.New("Store.Path cannot be empty for the sqlite backend")
	errNegativeStoreLimit           = errors.New("store limits cannot be negative")
	errInvalidImageProxy            = errors.New("Render.ImageProxy must be an absolute http(s) URL prefix")
	errInvalidRenderLimit           = errors.New("Render.MaxContentBytes and Render.Timeout must be positive")
	errEmptyUploadPath              = errors.New("Upload.URLPath cannot be empty")
	errInvalidUploadLimit           = errors.New("Upload.MaxBodyBytes must be positive")
	errInvalidRate                  = errors.New("HTTP.RateLimit and HTTP.RateBurst cannot be negative")
	errInvalidIPv4Prefix            = errors.New("IPv4 prefix must be between 0 and 32")
	errInvalidIPv6Prefix            = errors.New("IPv6 prefix must be between 0 and 128")
	errSecretInvalid                = errors.New("basic.secret is not a valid paseto key")
)

const defaultPort = "8383"

var (
	fileModeOctalRegexp  = regexp.MustCompile(`^0?[0-7]{3}$`)
	fileModeStringRegexp = regexp.MustCompile(`^(?:[r-][w-][x-]){3}$`)
	digitsRegexp         = regexp.MustCompile(`^[0-9]+$`)
)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	repoURL, err := utils.ParseURL(cfg.Basic.RepoURL, "Repo")
	if err != nil {
		return fmt.Errorf("invalid repo URL: %w", err)
	}

	cfg.Basic.RepoURL = repoURL.String()

	if err := cfg.loadSecret(); err != nil {
		return err
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	if !generator.Known(cfg.Render.DefaultGenerator) {
		return fmt.Errorf("Render.DefaultGenerator: %w: %q", generator.ErrUnknownGenerator, cfg.Render.DefaultGenerator)
	}

	if cfg.Render.ImageProxy != "" {
		u, err := url.Parse(cfg.Render.ImageProxy)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", errInvalidImageProxy, cfg.Render.ImageProxy)
		}
	}

	if cfg.Render.MaxContentBytes <= 0 || cfg.Render.Timeout <= 0 {
		return errInvalidRenderLimit
	}

	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	switch cfg.Store.Backend {
	case store.KindMemory:
	case store.KindSQLite:
		if cfg.Store.Path == "" {
			return errEmptyStorePath
		}
	default:
		return fmt.Errorf("%w: %q", errInvalidStoreBackend, cfg.Store.Backend)
	}

	if cfg.Store.QuotaBytes < 0 || cfg.Store.MaxEntries < 0 {
		return errNegativeStoreLimit
	}

	if cfg.Upload.URLPath == "" {
		return errEmptyUploadPath
	}

	if cfg.Upload.MaxBodyBytes <= 0 {
		return errInvalidUploadLimit
	}

	if cfg.HTTP.RateLimit < 0 || cfg.HTTP.RateBurst < 0 {
		return errInvalidRate
	}

	if cfg.HTTP.IPv4Prefix < 0 || cfg.HTTP.IPv4Prefix > 32 {
		return errInvalidIPv4Prefix
	}

	if cfg.HTTP.IPv6Prefix < 0 || cfg.HTTP.IPv6Prefix > 128 {
		return errInvalidIPv6Prefix
	}

	return nil
}

// loadSecret parses Basic.Secret into the client signer and clears it so the
// printed configuration never contains it.
func (cfg *ServerConfig) loadSecret() error {
	if cfg.Basic.Secret == "" {
		log.Warn().Msg("basic.secret is not set; editors lose their stored configs when the server restarts")

		cfg.Instance.ClientSigner = nil

		return nil
	}

	signer, err := clientid.LoadSigner(cfg.Basic.Secret)
	if err != nil {
		log.Error().
			Err(err).
			Msgf("Generated secret key (put this in config.yaml)\nbasic:\n  secret: \"%s\"", clientid.NewSecretKeyHex())

		return errSecretInvalid
	}

	cfg.Instance.ClientSigner = signer
	cfg.Basic.Secret = ""

	return nil
}

func (cfg *ServerConfig) validateListener() error {
	b := &cfg.Basic

	if b.UnixSocket == "" {
		if b.Host == "" {
			b.Host = "localhost"
		}

		if b.Port == "" {
			b.Port = defaultPort
		}

		return nil
	}

	if b.Host != "" || b.Port != "" {
		return errUnixSocketWithHostPort
	}

	mode, err := parseFileMode(b.RawUnixSocketPermissions)
	if err != nil {
		return err
	}

	b.UnixSocketPermissions = mode

	if b.UnixSocketUser != "" {
		lookup := user.Lookup
		if digitsRegexp.MatchString(b.UnixSocketUser) {
			lookup = user.LookupId
		}

		if _, err := lookup(b.UnixSocketUser); err != nil {
			return errUnixSocketUserDoesNotExist
		}
	}

	if b.UnixSocketGroup != "" {
		lookup := user.LookupGroup
		if digitsRegexp.MatchString(b.UnixSocketGroup) {
			lookup = user.LookupGroupId
		}

		if _, err := lookup(b.UnixSocketGroup); err != nil {
			return errUnixSocketGroupDoesNotExist
		}
	}

	return nil
}

// parseFileMode accepts octal ("660", "0660") or symbolic ("rw-rw----")
// permissions. Empty means 0666.
func parseFileMode(raw string) (os.FileMode, error) {
	switch {
	case raw == "":
		return 0o666, nil

	case fileModeOctalRegexp.MatchString(raw):
		n, _ := strconv.ParseUint(raw, 8, 32)

		return os.FileMode(n), nil

	case fileModeStringRegexp.MatchString(raw):
		var mode os.FileMode

		for i, c := range raw {
			if c != '-' {
				mode |= 1 << (8 - i)
			}
		}

		return mode, nil

	default:
		return 0, errUnixSocketInvalidPermissions
	}
}
