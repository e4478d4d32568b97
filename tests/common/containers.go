// Package common provides the shared testcontainers harness for the
// integration suite: it builds the toolbench:test image once per test
// process and runs one server container shared by all API tests.
package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	imageBuildOnce  sync.Once
	imageBuildError error
	serverContainer *ServerContainer
	serverOnce      sync.Once
	serverStartErr  error
)

// ServerContainer wraps one running toolbench server container.
type ServerContainer struct {
	container testcontainers.Container
	ctx       context.Context
	cancel    context.CancelFunc
	url       string
}

// URL returns the base URL of the running server.
func (s *ServerContainer) URL() string {
	return s.url
}

// CollectLogs saves container stdout/stderr to dir/.
func (s *ServerContainer) CollectLogs(dir string) {
	if s == nil || s.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	os.MkdirAll(dir, 0755)

	reader, err := s.container.Logs(ctx)
	if err != nil {
		return
	}
	defer reader.Close()

	logs, err := io.ReadAll(reader)
	if err != nil {
		return
	}
	os.WriteFile(filepath.Join(dir, "toolbench.log"), logs, 0644)
}

// Cleanup tears down the container.
// Uses a fresh context for teardown in case the main context expired.
func (s *ServerContainer) Cleanup() {
	if s == nil {
		return
	}

	cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cleanupCancel()

	if s.container != nil {
		s.container.Terminate(cleanupCtx)
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// FindProjectRoot walks up from the working directory to the directory
// holding go.mod.
func FindProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "."
		}
		dir = parent
	}
}

// buildServerImage builds the toolbench:test Docker image once per test run.
func buildServerImage() error {
	imageBuildOnce.Do(func() {
		ctx := context.Background()
		projectRoot := FindProjectRoot()

		req := testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    projectRoot,
					Dockerfile: "tests/docker/Dockerfile.server",
					Repo:       "toolbench",
					Tag:        "test",
					KeepImage:  true,
				},
			},
		}

		_, imageBuildError = testcontainers.GenericContainer(ctx, req)
		if imageBuildError != nil {
			// Image may have built successfully even if container creation failed
			if strings.Contains(imageBuildError.Error(), "toolbench:test") {
				imageBuildError = nil
			}
		}
	})
	return imageBuildError
}

// startServerContainer runs toolbench:test and waits for its health check.
func startServerContainer() (*ServerContainer, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	ctr, err := testcontainers.Run(ctx, "toolbench:test",
		testcontainers.WithExposedPorts("4310/tcp"),
		testcontainers.WithEnv(map[string]string{
			"TOOLBENCH_SERVER_HOST": "0.0.0.0",
			"TOOLBENCH_LOG_LEVEL":   "debug",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/api/health").WithPort("4310/tcp").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start toolbench server: %w", err)
	}

	mappedPort, err := ctr.MappedPort(ctx, "4310/tcp")
	if err != nil {
		ctr.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("get host: %w", err)
	}

	return &ServerContainer{
		container: ctr,
		ctx:       ctx,
		cancel:    cancel,
		url:       fmt.Sprintf("http://%s:%s", host, mappedPort.Port()),
	}, nil
}

// StartServer starts the test server (one per test process).
// Returns nil when TOOLBENCH_TEST_URL is set (manual mode -- tests use the
// existing server).
func StartServer(t *testing.T) *ServerContainer {
	t.Helper()
	if os.Getenv("TOOLBENCH_TEST_URL") != "" {
		return nil
	}

	serverOnce.Do(func() {
		if err := buildServerImage(); err != nil {
			serverStartErr = fmt.Errorf("build server image: %w", err)
			return
		}
		var err error
		serverContainer, err = startServerContainer()
		if err != nil {
			serverStartErr = err
		}
	})

	if serverStartErr != nil {
		t.Fatalf("Failed to start test environment: %v", serverStartErr)
	}
	return serverContainer
}

// BaseURL resolves the server URL for a test: the manual-mode URL when set,
// otherwise the shared container's mapped address.
func BaseURL(t *testing.T) string {
	t.Helper()
	if url := os.Getenv("TOOLBENCH_TEST_URL"); url != "" {
		return url
	}
	ctr := StartServer(t)
	if ctr == nil {
		t.Fatal("no test server available")
	}
	return ctr.URL()
}
