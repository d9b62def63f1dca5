// neo is an example build program that keeps its own binary current.
//
// Build it once with `scripts/buildneo neo.go`. Afterwards every run checks
// whether neo.go is newer than ./neo, rebuilds and relaunches itself if so, and
// then compiles the C program described by its KEY=VALUE settings:
//
//	./neo CC=clang SRC=temporary.c OUT=main RUN=true
package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/danmuck/neobuild/internal/config"
	"github.com/danmuck/neobuild/internal/history"
	"github.com/danmuck/neobuild/internal/logging"
	"github.com/danmuck/neobuild/internal/observability"
	"github.com/danmuck/neobuild/internal/server"
	"github.com/danmuck/neobuild/internal/tools"
	"github.com/danmuck/neobuild/pkg/buildfs"
	"github.com/danmuck/neobuild/pkg/command"
	"github.com/danmuck/neobuild/pkg/neoconf"
	"github.com/danmuck/neobuild/pkg/process"
	"github.com/danmuck/neobuild/pkg/rebuild"
	"github.com/rs/zerolog"
)

const projectFile = "neobuild.toml"

func main() {
	logger := observability.InitLogger("neo")

	project, err := loadProject()
	if err != nil {
		logger.Fatal().Err(err).Msg("project config")
	}
	if lvl, ok := logging.ParseLevel(project.LogLevel); ok {
		logger = logger.Level(lvl)
	}

	cfg := project.SupervisorConfig()
	cfg.Logger = &logger
	sup, err := rebuild.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("rebuild supervisor")
	}
	if err := selfRebuild(logger, sup, project.Source, os.Args); err != nil {
		logger.Fatal().Err(err).Msg("self rebuild")
	}

	settings := loadSettings(logger, project)

	recorder := history.NewRecorder(0)
	if project.StatusAddr != "" {
		status := server.New(server.Config{
			Addr:     project.StatusAddr,
			Token:    project.StatusToken,
			Recorder: recorder,
			Logger:   &logger,
		})
		if _, err := status.Start(); err != nil {
			logger.Warn().Err(err).Msg("status server unavailable")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = status.Shutdown(ctx)
			}()
		}
	}

	launcher := process.NewLauncher(process.WithLogger(logger), process.WithObserver(recorder))
	if err := build(logger, launcher, project, settings); err != nil {
		logger.Error().Err(err).Msg("build failed")
		os.Exit(1)
	}
}

// selfRebuild keeps the current binary running when the rebuild or the
// relaunch fails. Only a broken freshness check stops the build.
func selfRebuild(logger zerolog.Logger, sup *rebuild.Supervisor, source string, argv []string) error {
	state, err := sup.Run(source, argv)
	if rebuild.Recoverable(err) {
		logger.Warn().Err(err).Str("state", state.String()).Msg("continuing with the current binary")
		return nil
	}
	return err
}

func loadProject() (config.Project, error) {
	if _, err := os.Stat(projectFile); buildfs.IsNotExist(err) {
		return config.DefaultProject(), nil
	}
	return config.Load(projectFile)
}

// loadSettings layers command line KEY=VALUE pairs over the project's record file.
func loadSettings(logger zerolog.Logger, project config.Project) map[string]string {
	parser := neoconf.NewParser(neoconf.WithLogger(logger))
	settings := map[string]string{
		"CC":  "cc",
		"SRC": "temporary.c",
		"OUT": "main",
		"DIR": "build",
	}
	if project.ConfigFile != "" {
		res, err := parser.ParseFile(buildfs.OS(), project.ConfigFile)
		if err != nil && !errors.Is(err, neoconf.ErrEmpty) {
			logger.Warn().Err(err).Str("path", project.ConfigFile).Msg("build settings skipped")
		}
		for k, v := range res.Map() {
			settings[k] = v
		}
	}
	res, err := parser.ParseArgs(os.Args)
	if err != nil && !errors.Is(err, neoconf.ErrEmpty) {
		logger.Warn().Err(err).Msg("command line settings skipped")
	}
	for k, v := range res.Map() {
		settings[k] = v
	}
	return settings
}

func build(logger zerolog.Logger, launcher *process.Launcher, project config.Project, settings map[string]string) error {
	fsys := buildfs.OS()
	if err := buildfs.Mkdir(fsys, settings["DIR"], 0); err != nil && !buildfs.IsExist(err) {
		return err
	}
	out := filepath.Join(settings["DIR"], settings["OUT"])

	if upToDate, err := buildfs.Newer(fsys, out, settings["SRC"]); err == nil && upToDate {
		logger.Info().Str("out", out).Msg("output newer than source, skipping compile")
		return runOutput(launcher, project, settings, out)
	}

	if err := tools.ShellAvailable(project.Shell); err != nil {
		return err
	}
	compile, err := command.New(project.Shell)
	if err != nil {
		return err
	}
	defer compile.Release()
	if err := compile.Append(tools.Quote(settings["CC"]), "-Wall"); err != nil {
		return err
	}
	if flags, ok := settings["CFLAGS"]; ok {
		if err := compile.Append(flags); err != nil {
			return err
		}
	}
	if err := compile.Append(tools.Quote(settings["SRC"]), "-o", tools.Quote(out)); err != nil {
		return err
	}

	report, err := launcher.Sync(compile, project.Diagnostics)
	if err != nil {
		return err
	}
	if !report.Success() {
		return errors.New(report.Describe())
	}
	return runOutput(launcher, project, settings, out)
}

// runOutput starts the built program when RUN=true and waits for it.
func runOutput(launcher *process.Launcher, project config.Project, settings map[string]string, out string) error {
	if settings["RUN"] != "true" {
		return nil
	}
	run, err := command.From(project.Shell, tools.Quote(out))
	if err != nil {
		return err
	}
	defer run.Release()
	pid, err := launcher.Async(run)
	if err != nil {
		return err
	}
	_, err = launcher.Reap(pid, true)
	return err
}
