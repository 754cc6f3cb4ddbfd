package cli

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/UsatovPavel/RIID/internal/build"
	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/errors"
	"github.com/UsatovPavel/RIID/internal/params"
)

// projectRequest describes the project a command operates on.
type projectRequest struct {
	flags   *GlobalFlags
	env     *environment
	workers int
	stdout  io.Writer
	live    io.Writer
}

// loadProject parses the build parameters, loads the layered configuration
// and configures the project. Every error it returns is a configuration
// error, so it is wrapped to exit with code 2.
func loadProject(ctx context.Context, req projectRequest) (context.Context, *build.Project, error) {
	buildID := uuid.NewString()
	logger := GetLogger().With().Str("build_id", buildID).Logger()
	ctx = logger.WithContext(ctx)

	p, err := params.Parse(req.flags.Props)
	if err != nil {
		return ctx, nil, errors.NewExitCode2Error(err)
	}

	cfg, err := config.LoadWithOverrides(ctx, projectDir(req.flags), &config.Config{Workers: req.workers})
	if err != nil {
		return ctx, nil, errors.NewExitCode2Error(err)
	}

	project, err := build.New(ctx, build.Options{
		ProjectDir: req.flags.ProjectDir,
		Config:     cfg,
		Params:     p,
		Runner:     req.env.runner,
		Stdout:     req.stdout,
		Live:       req.live,
		BuildID:    buildID,
	})
	if err != nil {
		return ctx, nil, errors.NewExitCode2Error(err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("project", project.Dir()).
		Strs("params", p.Properties()).
		Str("toolchain", project.Toolchain().String()).
		Msg("build configured")
	return ctx, project, nil
}

func projectDir(flags *GlobalFlags) string {
	if flags.ProjectDir == "" {
		return "."
	}
	return flags.ProjectDir
}
