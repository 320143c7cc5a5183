package app

import (
	"context"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ReadinessReport struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Ready is true when every dependency answered.
func (r ReadinessReport) Ready() bool {
	return r.Status == "ok"
}

// Health checks that the storage dependencies are reachable.
type Health struct {
	deps map[string]Pinger
}

func NewHealth(deps map[string]Pinger) *Health {
	return &Health{deps: deps}
}

// Readiness pings every dependency within readinessTimeout.
func (h *Health) Readiness(ctx context.Context) ReadinessReport {
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.deps))
	for name := range h.deps {
		names = append(names, name)
	}
	sort.Strings(names)

	report := ReadinessReport{Status: "ok", Dependencies: make(map[string]DependencyStatus, len(names))}
	for _, name := range names {
		if err := h.deps[name].Ping(ctx); err != nil {
			report.Dependencies[name] = DependencyStatus{Status: "unhealthy", Error: err.Error()}
			report.Status = "degraded"
			continue
		}
		report.Dependencies[name] = DependencyStatus{Status: "ok"}
	}
	return report
}

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx, nil); err != nil {
		return err
	}
	return p.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
