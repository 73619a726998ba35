package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/embedkit/zoom-embed/pkg/config"
	"github.com/embedkit/zoom-embed/pkg/dom"
	"github.com/embedkit/zoom-embed/pkg/grid"
	"github.com/embedkit/zoom-embed/pkg/log"
	"github.com/embedkit/zoom-embed/pkg/server"
	"github.com/embedkit/zoom-embed/pkg/session"
	"github.com/embedkit/zoom-embed/pkg/simsdk"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Init("info")
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	log.Init(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	log.Info("Starting embed controller...")

	// Host document scaffold: a window and a page carrying the meeting
	// container. A real host wires its own tree here.
	window := dom.NewWindow(1280, 720)
	doc := dom.NewDocument()
	container := dom.NewElement("div")
	container.SetID(dom.ContainerID)
	container.SetMeasuredSize(1280, 660)
	doc.Body().AppendChild(container)

	// Simulated SDK driver; swap for the real bridge in production.
	factory := simsdk.NewFactory()

	compositor := grid.NewCompositor(doc, cfg.Grid)
	controller := session.NewController(factory, doc, window, compositor, cfg.Session)

	feed := server.NewEventFeed(controller, cfg)
	httpServer := server.NewHTTPServer(controller, feed, cfg)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpServer,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	waitForShutdown(srv, controller)
}

func waitForShutdown(srv *http.Server, controller *session.Controller) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// End the session first so no media outlives the process surface.
	controller.EndSession(ctx)
	log.Info("Session ended")

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Error during HTTP server shutdown: %v", err)
	} else {
		log.Info("HTTP server shut down successfully")
	}

	log.Info("Shutdown complete.")
}
