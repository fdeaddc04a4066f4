// Package container builds and runs the game's GPU image through the docker
// CLI. It only composes command lines; docker does the work.
package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ajxudir/acerun/pkg/cmdexec"
	"github.com/ajxudir/acerun/pkg/config"
	"github.com/ajxudir/acerun/pkg/errors"
	"github.com/ajxudir/acerun/pkg/verbose"
)

// DockerBinary is the docker CLI executable.
const DockerBinary = "docker"

// GPUsNone disables the --gpus flag on docker run.
const GPUsNone = "none"

// mkdirAllFunc creates the output directory. It can be replaced in tests.
var mkdirAllFunc = os.MkdirAll

// absFunc resolves the output directory for the bind mount. It can be
// replaced in tests.
var absFunc = filepath.Abs

// Client drives docker for one container configuration.
//
// Fields:
//   - cfg: Image, build, and mount settings
//   - baseDir: Directory that relative paths in cfg resolve against
//   - exec: Program runner, cmdexec.Run by default
//   - stdin, stdout, stderr: Terminal streams handed to docker
//   - dryRun: Print commands instead of running them
type Client struct {
	cfg     config.ContainerCfg
	baseDir string
	exec    cmdexec.RunFunc
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	dryRun  bool
}

// Option configures a Client.
type Option func(*Client)

// WithExecutor replaces the program runner.
func WithExecutor(fn cmdexec.RunFunc) Option {
	return func(c *Client) { c.exec = fn }
}

// WithStreams sets the streams docker is attached to.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(c *Client) {
		c.stdin, c.stdout, c.stderr = stdin, stdout, stderr
	}
}

// WithDryRun makes Build and Run print the docker command instead of
// executing it.
func WithDryRun(dryRun bool) Option {
	return func(c *Client) { c.dryRun = dryRun }
}

// WithBaseDir sets the directory relative paths resolve against.
func WithBaseDir(dir string) Option {
	return func(c *Client) { c.baseDir = dir }
}

// New creates a Client for cfg.
func New(cfg config.ContainerCfg, opts ...Option) *Client {
	c := &Client{
		cfg:     cfg,
		baseDir: ".",
		exec:    cmdexec.Run,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// BuildArgs returns the docker build invocation:
// docker build -t <image> -f <dockerfile> <context>.
func (c *Client) BuildArgs() []string {
	return []string{
		DockerBinary, "build",
		"-t", c.cfg.Image,
		"-f", c.resolve(c.cfg.Dockerfile),
		c.resolve(c.cfg.Context),
	}
}

// RunArgs returns the docker run invocation with the output directory
// bind-mounted and extra forwarded to the image's entry point.
//
// Parameters:
//   - extra: Arguments appended after the image name
//
// Returns:
//   - []string: Full argv starting with "docker"
//   - error: When the output directory cannot be made absolute
func (c *Client) RunArgs(extra []string) ([]string, error) {
	hostDir, err := absFunc(c.resolve(c.cfg.OutputDir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir %s: %w", c.cfg.OutputDir, err)
	}

	argv := []string{DockerBinary, "run", "--rm", "-it"}
	if c.cfg.GPUs != "" && c.cfg.GPUs != GPUsNone {
		argv = append(argv, "--gpus", c.cfg.GPUs)
	}
	argv = append(argv, "-v", hostDir+":"+c.cfg.MountPath, c.cfg.Image)
	return append(argv, extra...), nil
}

// Build builds the image.
//
// Returns:
//   - error: *errors.ExitError carrying docker's exit code on failure
func (c *Client) Build(ctx context.Context) error {
	return c.execute(ctx, c.BuildArgs())
}

// Run creates the output directory and starts the image attached to the
// terminal.
//
// Parameters:
//   - ctx: Cancelling ctx stops the container's docker client
//   - extra: Arguments forwarded to the image's entry point
//
// Returns:
//   - error: When the output directory cannot be created, or docker exits nonzero
func (c *Client) Run(ctx context.Context, extra []string) error {
	argv, err := c.RunArgs(extra)
	if err != nil {
		return err
	}

	if !c.dryRun {
		out := c.resolve(c.cfg.OutputDir)
		if err := mkdirAllFunc(out, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir %s: %w", out, err)
		}
		verbose.Printf("Output directory ready: %s", out)
	}
	return c.execute(ctx, argv)
}

func (c *Client) execute(ctx context.Context, argv []string) error {
	if c.dryRun {
		_, _ = fmt.Fprintln(c.stdout, cmdexec.Join(argv))
		return nil
	}

	spec := cmdexec.Spec{Command: argv[0], Args: argv[1:], Stdin: c.stdin, Interactive: true}
	outcome := c.exec(ctx, spec, c.stdout, c.stderr)
	if outcome.Success() {
		return nil
	}
	if outcome.Err != nil {
		return errors.NewExitError(outcome.ExitCode, fmt.Errorf("docker %s: %w", argv[1], outcome.Err))
	}
	return errors.NewExitErrorf(outcome.ExitCode, "docker %s exited with code %d", argv[1], outcome.ExitCode)
}
