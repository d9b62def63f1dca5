package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	shlex "github.com/anmitsu/go-shlex"
	"github.com/danmuck/neobuild/pkg/command"
	"github.com/danmuck/neobuild/pkg/rebuild"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const DefaultPath = "neobuild.toml"

// fileConfig mirrors neobuild.toml.
type fileConfig struct {
	Source      string `toml:"source" validate:"required"`
	Helper      string `toml:"helper" validate:"required"`
	Sentinel    string `toml:"sentinel" validate:"required"`
	Shell       string `toml:"shell" validate:"oneof=bash sh dash"`
	Relaunch    string `toml:"relaunch" validate:"oneof=exec spawn"`
	Diagnostics bool   `toml:"diagnostics"`
	StatusAddr  string `toml:"status_addr" validate:"omitempty,hostname_port"`
	StatusToken string `toml:"status_token,omitempty"`
	ConfigFile  string `toml:"config_file"`
	LogLevel    string `toml:"log_level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
}

// Project is the resolved build script configuration.
type Project struct {
	Source      string           `json:"source"`
	Helper      []string         `json:"helper"`
	Sentinel    string           `json:"sentinel"`
	Shell       command.Shell    `json:"shell"`
	Relaunch    rebuild.Strategy `json:"relaunch"`
	Diagnostics bool             `json:"diagnostics"`
	StatusAddr  string           `json:"status_addr,omitempty"`
	StatusToken string           `json:"-"`
	ConfigFile  string           `json:"config_file,omitempty"`
	LogLevel    string           `json:"log_level"`
}

var validate = validator.New()

func defaultFileConfig() fileConfig {
	return fileConfig{
		Source:   "neo.go",
		Helper:   rebuild.DefaultHelper,
		Sentinel: rebuild.DefaultSentinel,
		Shell:    "sh",
		Relaunch: string(rebuild.StrategyExec),
		LogLevel: "info",
	}
}

// DefaultProject returns the settings used when no file is present.
func DefaultProject() Project {
	p, err := resolve(defaultFileConfig())
	if err != nil {
		panic(err)
	}
	return p
}

// Load reads path and overlays every defined key on the defaults.
func Load(path string) (Project, error) {
	cfg := defaultFileConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Project{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		log.Warn().Str("path", path).Str("key", key.String()).Msg("unknown config key ignored")
	}

	if meta.IsDefined("source") {
		cfg.Source = strings.TrimSpace(raw.Source)
	}
	if meta.IsDefined("helper") {
		cfg.Helper = strings.TrimSpace(raw.Helper)
	}
	if meta.IsDefined("sentinel") {
		cfg.Sentinel = strings.TrimSpace(raw.Sentinel)
	}
	if meta.IsDefined("shell") {
		cfg.Shell = strings.ToLower(strings.TrimSpace(raw.Shell))
	}
	if meta.IsDefined("relaunch") {
		cfg.Relaunch = strings.ToLower(strings.TrimSpace(raw.Relaunch))
	}
	if meta.IsDefined("diagnostics") {
		cfg.Diagnostics = raw.Diagnostics
	}
	if meta.IsDefined("status_addr") {
		cfg.StatusAddr = strings.TrimSpace(raw.StatusAddr)
	}
	if meta.IsDefined("status_token") {
		cfg.StatusToken = strings.TrimSpace(raw.StatusToken)
	}
	if meta.IsDefined("config_file") {
		cfg.ConfigFile = strings.TrimSpace(raw.ConfigFile)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(raw.LogLevel))
	}

	p, err := resolve(cfg)
	if err != nil {
		return Project{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return p, nil
}

func resolve(cfg fileConfig) (Project, error) {
	if err := validate.Struct(cfg); err != nil {
		return Project{}, err
	}
	if strings.ContainsAny(cfg.Sentinel, " \t") {
		return Project{}, fmt.Errorf("sentinel %q must be a single token", cfg.Sentinel)
	}
	if _, err := rebuild.BinaryPath(cfg.Source); err != nil {
		return Project{}, err
	}
	helper, err := shlex.Split(cfg.Helper, true)
	if err != nil {
		return Project{}, fmt.Errorf("parse helper: %w", err)
	}
	if len(helper) == 0 {
		return Project{}, fmt.Errorf("helper is empty")
	}
	shell, _ := command.ParseShell(cfg.Shell)
	return Project{
		Source:      cfg.Source,
		Helper:      helper,
		Sentinel:    cfg.Sentinel,
		Shell:       shell,
		Relaunch:    rebuild.Strategy(cfg.Relaunch),
		Diagnostics: cfg.Diagnostics,
		StatusAddr:  cfg.StatusAddr,
		StatusToken: cfg.StatusToken,
		ConfigFile:  cfg.ConfigFile,
		LogLevel:    cfg.LogLevel,
	}, nil
}

// SupervisorConfig converts the project into supervisor settings.
func (p Project) SupervisorConfig() rebuild.Config {
	return rebuild.Config{
		Helper:      append([]string(nil), p.Helper...),
		Sentinel:    p.Sentinel,
		Shell:       p.Shell,
		Strategy:    p.Relaunch,
		Diagnostics: p.Diagnostics,
	}
}
