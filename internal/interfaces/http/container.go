package http

import (
	"context"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/config"
	"github.com/bagcheck-inc/bagcheck/internal/infrastructure/metrics"
	"github.com/bagcheck-inc/bagcheck/internal/interfaces/http/middleware"
	"github.com/bagcheck-inc/bagcheck/internal/shared/logger"
)

// Container holds infrastructure components, repositories, use cases and
// handlers. It wires everything together and owns the resources released by Shutdown.
type Container struct {
	// Core infrastructure
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Interface
	redis   *redis.Client
	metrics *metrics.Metrics

	// Adapters (storage, email, rendering, locking)
	svcs *services

	// Repositories
	repos *repositories

	// Use cases
	ucs *allUseCases

	// Handlers
	hdlrs *allHandlers

	rateLimiter *middleware.RateLimiter
}

// NewContainer creates a Container with all dependencies wired together.
// The Redis connection is verified before anything else is built.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine:  gin.New(),
		db:      db,
		cfg:     cfg,
		log:     log,
		metrics: metrics.NewDefault(),
	}

	// Section 1: Redis, repositories
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// Section 2: storage, email, certificate rendering, locks
	if err := c.initServices(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	// Section 3: use cases
	c.initUseCases()

	// Section 4: handlers and middlewares
	c.initHandlers()

	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	c.redis = redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})
	if err := c.redis.Ping(ctx).Err(); err != nil {
		_ = c.redis.Close()
		return fmt.Errorf("failed to connect to redis at %s: %w", c.cfg.Redis.GetAddr(), err)
	}
	c.log.Infow("redis connection established", "address", c.cfg.Redis.GetAddr())

	c.repos = newRepositories(c.db)
	return nil
}

// Engine returns the gin engine. SetupRoutes must be called first.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown releases the Redis client and the object storage client.
func (c *Container) Shutdown() {
	if c.svcs != nil {
		if closer, ok := c.svcs.rawStore.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				c.log.Warnw("failed to close image store", "error", err)
			}
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("failed to close redis client", "error", err)
		}
	}
}
