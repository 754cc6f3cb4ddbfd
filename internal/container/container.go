// Package container wraps the container runtime for building the demo and
// test images and running the test suite inside the test image.
package container

import (
	"context"

	"github.com/UsatovPavel/RIID/internal/command"
	"github.com/UsatovPavel/RIID/internal/config"
	"github.com/UsatovPavel/RIID/internal/constants"
	"github.com/UsatovPavel/RIID/internal/params"
)

// Orchestrator runs container runtime commands from the project directory.
// Failures carry the runtime's exit code as a *command.ExitError.
type Orchestrator struct {
	exec       *command.Executor
	cfg        config.DockerConfig
	projectDir string
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(exec *command.Executor, cfg config.DockerConfig, projectDir string) *Orchestrator {
	return &Orchestrator{exec: exec, cfg: cfg, projectDir: projectDir}
}

// BuildDemoArgs returns the argv that builds the demo image.
func (o *Orchestrator) BuildDemoArgs() []string {
	return []string{o.cfg.Binary, "build", "-t", o.cfg.DemoImage, "."}
}

// BuildTestImageArgs returns the argv that builds the test image from the
// builder stage.
func (o *Orchestrator) BuildTestImageArgs() []string {
	return []string{o.cfg.Binary, "build", "--target", o.cfg.Target, "-t", o.cfg.TestImage, "."}
}

// RunTestsArgs returns the argv that runs the test task inside the test
// image. The invocation's parameters are forwarded with disableLocal set,
// since tests needing the host cannot run in the container.
func (o *Orchestrator) RunTestsArgs(p params.Params) []string {
	args := []string{
		o.cfg.Binary, "run", "--rm",
		"-v", o.cfg.Volume + ":" + o.cfg.MountPoint,
		o.cfg.TestImage,
	}
	args = append(args, o.cfg.DriverCommand...)
	args = append(args, constants.TaskTest)
	return append(args, p.WithDisableLocal().Properties()...)
}

// BuildDemo builds the demo image.
func (o *Orchestrator) BuildDemo(ctx context.Context) error {
	return o.run(ctx, constants.TaskDockerBuild, o.BuildDemoArgs())
}

// BuildTestImage builds the test image.
func (o *Orchestrator) BuildTestImage(ctx context.Context) error {
	return o.run(ctx, constants.TaskDockerBuildTestImage, o.BuildTestImageArgs())
}

// RunTests runs the test suite inside the test image.
func (o *Orchestrator) RunTests(ctx context.Context, p params.Params) error {
	return o.run(ctx, constants.TaskDockerRunTests, o.RunTestsArgs(p))
}

func (o *Orchestrator) run(ctx context.Context, label string, args []string) error {
	_, err := o.exec.Run(ctx, command.Cmd{Args: args, Dir: o.projectDir, Label: label})
	return err
}
