package testing

import (
	"context"
	"fmt"

	"github.com/2beens/gymsession/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// PostgresResource is a migrated postgres running in docker.
type PostgresResource struct {
	Port   string
	Params db.NewDBPoolParams
	Pool   *pgxpool.Pool
	close  func()
}

func (r *PostgresResource) Close() {
	if r.Pool != nil {
		r.Pool.Close()
	}
	if r.close != nil {
		r.close()
	}
}

func NewDockerPool() (*dockertest.Pool, error) {
	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("create dockertest pool: %w", err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("ping docker: %w", err)
	}
	return pool, nil
}

// RunPostgres starts postgres, waits for it and applies all migrations.
func RunPostgres(ctx context.Context, pool *dockertest.Pool, dbName string) (*PostgresResource, error) {
	pgResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_DB=" + dbName,
			"POSTGRES_HOST_AUTH_METHOD=trust",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("dockerpool run postgres: %w", err)
	}

	res := &PostgresResource{
		Port: pgResource.GetPort("5432/tcp"),
		close: func() {
			if err := pgResource.Close(); err != nil {
				fmt.Printf("postgres teardown: %s\n", err)
			}
		},
	}
	res.Params = db.NewDBPoolParams{
		DBHost: "localhost",
		DBPort: res.Port,
		DBName: dbName,
		DBUser: "postgres",
	}

	res.Pool, err = db.NewDBPool(ctx, res.Params)
	if err != nil {
		res.Close()
		return nil, err
	}

	if err := pool.Retry(func() error {
		return res.Pool.Ping(ctx)
	}); err != nil {
		res.Close()
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	if err := db.RunMigrations(res.Params.ConnString()); err != nil {
		res.Close()
		return nil, err
	}

	return res, nil
}

// RunRedis starts redis and returns its host port and a teardown func.
func RunRedis(pool *dockertest.Pool) (string, func(), error) {
	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", nil, fmt.Errorf("run redis: %w", err)
	}

	teardown := func() {
		if err := redisResource.Close(); err != nil {
			fmt.Printf("redis teardown: %s\n", err)
		}
	}
	return redisResource.GetPort("6379/tcp"), teardown, nil
}
