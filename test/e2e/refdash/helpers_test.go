package refdash_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/toshilabs/toshiref/pkg/refsdk"
)

/*
 * Common constants and helper functions for refdash end-to-end tests.
 * The service runs with the HTTP approver endpoint instead of Telegram so
 * tests can play the approver.
 */

const (
	testImageName = "toshiref-refdash-test:latest"

	sharedKey     = "e2e-shared-key"
	approverToken = "e2e-approver-token"
)

// TestMain builds the Docker image once before all tests and cleans it up
// after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building refdash Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up refdash Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/refdash/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

type containerOptions struct {
	env      map[string]string
	networks []string

	// defaultRateLimits keeps production limits; most tests relax them.
	defaultRateLimits bool
}

func baseEnv() map[string]string {
	return map[string]string{
		"AUTH_SHARED_KEY":  sharedKey,
		"APPROVER_TOKEN":   approverToken,
		"DATABASE_FILE":    "/data/refdash.db",
		"AUTH_PEPPER_FILE": "/data/pepper",
		"REFERRAL_LINK":    "https://t.me/toshi_referral_bot?start={ref}",
		"ENV":              "test",
		"LOG_LEVEL":        "info",
		"LOG_FORMAT":       "json",
	}
}

// setupRefdash starts the service in a container and returns the base URL.
func setupRefdash(t *testing.T, opts containerOptions) string {
	t.Helper()
	ctx := context.Background()

	env := baseEnv()
	if !opts.defaultRateLimits {
		// Tests issue codes back to back, well past the brute force limit.
		env["RATELIMIT_ISSUE_REQUESTS"] = "1000"
		env["RATELIMIT_ISSUE_BURST"] = "1000"
	}
	for k, v := range opts.env {
		env[k] = v
	}

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env:          env,
		Networks:     opts.networks,
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// setupRedisNetwork starts redis on a private network and returns the
// network name and the address the service should dial.
func setupRedisNetwork(t *testing.T) (string, string) {
	t.Helper()
	ctx := context.Background()

	nw, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := nw.Remove(ctx); err != nil {
			t.Logf("failed to remove network: %v", err)
		}
	})

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          "redis:7-alpine",
			ExposedPorts:   []string{"6379/tcp"},
			Networks:       []string{nw.Name},
			NetworkAliases: map[string][]string{nw.Name: {"redis"}},
			WaitingFor:     wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return nw.Name, "redis:6379"
}

func newClient(baseURL string) *refsdk.Client {
	c := refsdk.NewClient(baseURL)
	c.PollInterval = 200 * time.Millisecond
	return c
}

// signIn begins an authorization, approves it over the approver endpoint
// and returns the resulting session.
func signIn(t *testing.T, client *refsdk.Client) *refsdk.Session {
	t.Helper()
	ctx := t.Context()

	code, err := client.Begin(ctx, sharedKey, "")
	require.NoError(t, err)
	require.Regexp(t, `^[0-9a-f]{32}$`, code)

	resp, err := client.Decide(ctx, approverToken, code, "accept")
	require.NoError(t, err)
	require.Equal(t, refsdk.StatusAccepted, resp.Status)

	session, err := client.WaitForApproval(ctx, code)
	require.NoError(t, err)
	require.Regexp(t, `^[0-9a-f]{64}$`, session.Token())
	return session
}

func assertHealthy(t *testing.T, health *refsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}
