package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	activitymod "github.com/example/taskboard/modules/activity"
	apimod "github.com/example/taskboard/modules/api"
	cachemod "github.com/example/taskboard/modules/cache"
	taskmod "github.com/example/taskboard/modules/task"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	dbPath := getEnv("DB_PATH", "./tasks.db")
	httpPort := getEnvInt("HTTP_PORT", 3000)
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	cachePrefix := getEnv("CACHE_PREFIX", "task:")
	activityLimit := getEnvInt("ACTIVITY_LIMIT", 100)

	log.Println("=== Taskboard ===")
	log.Printf("Database: %s", dbPath)
	log.Printf("HTTP Port: %d", httpPort)
	log.Printf("Redis: %s", redisAddr)
	log.Printf("Cache TTL: %s", cacheTTL)

	cacheModule := cachemod.NewModule(redisAddr, cachePrefix, cacheTTL)
	taskModule := taskmod.NewModule(dbPath)
	activityModule := activitymod.NewModule(activityLimit)
	apiModule := apimod.NewModule(httpPort)

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Order: independent modules first, then modules with dependencies
	app.Register(cacheModule)
	app.Register(activityModule)
	app.Register(taskModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// The cache connects during start, so the read cache is wired afterwards.
	// A nil cache leaves the task services reading straight from the store.
	if c := cacheModule.GetCache(); c != nil {
		taskModule.SetCache(c)
	}

	printStartupInfo(httpPort)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(port int) {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d):", port)
	log.Println("  POST   /api/v1/tasks            - Create a task")
	log.Println("  GET    /api/v1/tasks            - List tasks (filters: completed, priority, category, due_before)")
	log.Println("  GET    /api/v1/tasks/:id        - Get a task by ID")
	log.Println("  PATCH  /api/v1/tasks/:id        - Partially update a task")
	log.Println("  DELETE /api/v1/tasks/:id        - Delete a task")
	log.Println("  POST   /api/v1/tasks/:id/toggle - Toggle completion")
	log.Println("  GET    /api/v1/categories       - List distinct categories")
	log.Println("  GET    /api/v1/activity         - Recent activity feed")
	log.Println("  GET    /health                  - Health check")
	log.Println("")
	log.Println("Services (via NATS request-reply):")
	log.Println("  services.task.{create,get,list,update,delete,toggle,categories}")
	log.Println("  services.activity.recent")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
