package database

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/deppfellow/animedb/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	obs := config.DefaultObservabilityConfig()
	obs.Logging.Level = "info"
	return &config.Config{
		Primary: config.Primary{Env: env},
		Database: config.DatabaseConfig{
			Host:     "::1",
			Port:     5432,
			User:     "anime",
			Password: "pa:ss@word",
			Name:     "animedb",
			SSLMode:  "disable",
			MaxConns: 7,
		},
		Observability: obs,
	}
}

func TestDSNEscapesPasswordAndIPv6(t *testing.T) {
	dsn := DSN(testConfig("production").Database)
	assert.Equal(t, "postgres://anime:pa%3Ass%40word@[::1]:5432/animedb?sslmode=disable", dsn)
}

func TestPoolConfigTracers(t *testing.T) {
	logger := zerolog.Nop()

	cfg, err := poolConfig(testConfig("production"), &logger)
	require.NoError(t, err)
	assert.Equal(t, int32(7), cfg.MaxConns)
	assert.IsType(t, &slowQueryTracer{}, cfg.ConnConfig.Tracer)

	cfg, err = poolConfig(testConfig("local"), &logger)
	require.NoError(t, err)
	mt, ok := cfg.ConnConfig.Tracer.(*multiTracer)
	require.True(t, ok)
	require.Len(t, mt.tracers, 2)
	assert.IsType(t, &tracelog.TraceLog{}, mt.tracers[1])

	noSlow := testConfig("production")
	noSlow.Observability.Logging.SlowQueryThreshold = 0
	cfg, err = poolConfig(noSlow, &logger)
	require.NoError(t, err)
	assert.Nil(t, cfg.ConnConfig.Tracer)
}

type recordingTracer struct {
	name  string
	calls *[]string
}

func (r recordingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	*r.calls = append(*r.calls, r.name+":start")
	return ctx
}

func (r recordingTracer) TraceQueryEnd(_ context.Context, _ *pgx.Conn, _ pgx.TraceQueryEndData) {
	*r.calls = append(*r.calls, r.name+":end")
}

func TestMultiTracerCallsEveryTracerInOrder(t *testing.T) {
	var calls []string
	mt := &multiTracer{tracers: []pgx.QueryTracer{
		recordingTracer{name: "a", calls: &calls},
		recordingTracer{name: "b", calls: &calls},
	}}

	ctx := mt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "select 1"})
	mt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	assert.Equal(t, []string{"a:start", "b:start", "a:end", "b:end"}, calls)
}

func TestSlowQueryTracer(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tr := newSlowQueryTracer(&logger, 100*time.Millisecond)
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return clock }

	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "select fast"})
	clock = clock.Add(10 * time.Millisecond)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})
	assert.Empty(t, buf.String())

	ctx = tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "select slow"})
	clock = clock.Add(250 * time.Millisecond)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{
		CommandTag: pgconn.NewCommandTag("SELECT 1"),
		Err:        errors.New("boom"),
	})
	out := buf.String()
	assert.Contains(t, out, `"sql":"select slow"`)
	assert.Contains(t, out, `"message":"slow query"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestEmbeddedMigrations(t *testing.T) {
	fsys, err := MigrationsFS()
	require.NoError(t, err)

	body, err := fs.ReadFile(fsys, "001_create_schema.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "profiles_profile_name_key")
	assert.Contains(t, string(body), "---- create above / drop below ----")

	// Profile ids are int64 in Go; int4 columns would reject large ids at bind time.
	assert.Regexp(t, `(?m)^\s*id\s+BIGINT\s+PRIMARY KEY`, string(body))
	assert.Regexp(t, `(?m)^\s*profile_id\s+BIGINT\s+NOT NULL REFERENCES profiles`, string(body))
}
