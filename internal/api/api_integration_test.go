//go:build integration

// internal/api/api_integration_test.go
package api_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"wakala-ledger/pkg/db"
)

// startPostgres runs a throwaway PostgreSQL container for the test.
func startPostgres(t *testing.T) db.Config {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "ledger",
			"POSTGRES_PASSWORD": "ledger",
			"POSTGRES_DB":       "ledger_test",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return db.Config{
		Driver:   db.DriverPostgres,
		Host:     host,
		Port:     port,
		User:     "ledger",
		Password: "ledger",
		DBName:   "ledger_test",
		SSLMode:  "disable",
	}
}

func TestLedgerAPIPostgres(t *testing.T) {
	server := newTestServer(t, startPostgres(t))
	runLedgerScenario(t, server.URL)
}
