// Package runner assembles the scraper's container image and runs it as a
// single process. Build failures abort before any image is produced; at
// run time the container's exit code is surfaced unchanged, with logs
// streamed live so output is visible before the process finishes.
package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

const pingTimeout = 5 * time.Second

type Runner struct {
	cli *client.Client
}

// New creates a runner talking to the local Docker daemon. DOCKER_HOST and
// friends are honored through the SDK's environment detection.
func New() (*Runner, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Runner{cli: cli}, nil
}

// Ping verifies the Docker daemon is reachable before any build is attempted.
func (r *Runner) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := r.cli.Ping(pingCtx); err != nil {
		return fmt.Errorf("docker daemon is not responding: %w", err)
	}
	return nil
}

func (r *Runner) Close() error {
	if r.cli != nil {
		return r.cli.Close()
	}
	return nil
}

// BuildImage assembles an image from contextDir following spec and tags it.
// Any build step failing (dependency download included) aborts the build
// and no image is tagged.
func (r *Runner) BuildImage(ctx context.Context, spec BuildSpec, contextDir, tag string) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	buildContext, err := tarBuildContext(contextDir, spec.Dockerfile())
	if err != nil {
		return err
	}

	log.Printf("🔨 Building image %s from %s (base: %s)", tag, contextDir, spec.BaseImage)
	resp, err := r.cli.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: dockerfileName,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("image build request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := drainBuildOutput(resp.Body); err != nil {
		return fmt.Errorf("image build failed: %w", err)
	}

	log.Printf("✅ Image %s built", tag)
	return nil
}

// buildMessage is one JSON line of the daemon's build output stream.
type buildMessage struct {
	Stream string `json:"stream"`
	Error  string `json:"error"`
}

// drainBuildOutput relays build progress to the log and converts an error
// message in the stream into a returned error.
func drainBuildOutput(body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var msg buildMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if msg.Error != "" {
			return fmt.Errorf("%s", msg.Error)
		}
		if line := trimNewline(msg.Stream); line != "" {
			log.Printf("   %s", line)
		}
	}
	return scanner.Err()
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// RunOptions configure one container execution.
type RunOptions struct {
	Image string
	//extra arguments appended to the image entrypoint
	Args []string
	//environment passed to the process, "KEY=value" entries
	Env []string
	//Unbuffered asks the entrypoint to flush log output immediately; it is
	//forwarded as the -unbuffered flag
	Unbuffered bool
}

// Run starts one container and blocks until its process exits, streaming
// logs to this process's stdout/stderr as they are produced. Returns the
// container's exit code; 0 means success. The container is removed
// afterwards.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (int64, error) {
	args := opts.Args
	if opts.Unbuffered {
		args = append(append([]string(nil), args...), "-unbuffered")
	}

	created, err := r.cli.ContainerCreate(ctx,
		&container.Config{
			Image: opts.Image,
			Cmd:   args,
			Env:   opts.Env,
		},
		&container.HostConfig{},
		nil, nil, "")
	if err != nil {
		return -1, fmt.Errorf("failed to create container: %w", err)
	}
	containerID := created.ID

	defer func() {
		//cleanup uses a fresh context: the run context may already be done
		rmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.cli.ContainerRemove(rmCtx, containerID, container.RemoveOptions{Force: true}); err != nil {
			log.Printf("⚠️ Failed to remove container %s: %v", containerID[:12], err)
		}
	}()

	if err := r.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return -1, fmt.Errorf("failed to start container: %w", err)
	}
	log.Printf("🚀 Container %s started (image %s)", containerID[:12], opts.Image)

	//follow logs so lines surface while the process runs, not at exit
	logs, err := r.cli.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return -1, fmt.Errorf("failed to attach to container logs: %w", err)
	}

	logsDone := make(chan struct{})
	go func() {
		defer close(logsDone)
		defer logs.Close()
		if _, err := stdcopy.StdCopy(os.Stdout, os.Stderr, logs); err != nil && err != io.EOF {
			log.Printf("⚠️ Log streaming ended: %v", err)
		}
	}()

	statusCh, errCh := r.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		return -1, fmt.Errorf("failed to wait for container: %w", err)
	case status := <-statusCh:
		<-logsDone
		if status.Error != nil {
			return status.StatusCode, fmt.Errorf("container error: %s", status.Error.Message)
		}
		return status.StatusCode, nil
	case <-ctx.Done():
		return -1, ctx.Err()
	}
}
