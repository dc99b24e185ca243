package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ESContainer is a running single-node Elasticsearch test container
// with security disabled.
type ESContainer struct {
	Container testcontainers.Container
	Address   string
}

func NewESContainer(ctx context.Context) (*ESContainer, error) {
	esContainer, err := elasticsearch.Run(ctx,
		"docker.elastic.co/elasticsearch/elasticsearch:8.12.0",
		elasticsearch.WithPassword(""),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/").
				WithPort("9200").
				WithStartupTimeout(90*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}

	host, err := esContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch host: %w", err)
	}

	port, err := esContainer.MappedPort(ctx, "9200")
	if err != nil {
		return nil, fmt.Errorf("failed to get elasticsearch port: %w", err)
	}

	return &ESContainer{
		Container: esContainer,
		Address:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

func NewESContainerWithCleanup(ctx context.Context, tb testing.TB) *ESContainer {
	tb.Helper()

	container, err := NewESContainer(ctx)
	if err != nil {
		tb.Fatalf("failed to create elasticsearch container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container.Container); err != nil {
			tb.Logf("failed to terminate elasticsearch container: %v", err)
		}
	})

	return container
}
