package main

import (
	"context"
	"log"

	"github.com/SakshamA8/caseclosed/internal/bootstrap"
	"github.com/SakshamA8/caseclosed/internal/config"
	"github.com/SakshamA8/caseclosed/internal/server"
	"github.com/SakshamA8/caseclosed/internal/tracer"
)

func main() {
	// 1. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
