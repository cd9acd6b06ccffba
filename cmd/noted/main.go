package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/notedmedia/noted/internal/catalog/repository"
	"github.com/notedmedia/noted/internal/config"
	"github.com/notedmedia/noted/internal/insights"
	"github.com/notedmedia/noted/pkg/database"
	"github.com/notedmedia/noted/pkg/interfaces"
	"github.com/notedmedia/noted/pkg/logger"
)

func main() {
	cfg := config.Load()

	zapLogger, err := logger.NewZapLogger(cfg.Log.Environment == "development")
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync()
	log := interfaces.Logger(zapLogger)

	db, cleanup, err := database.Open(cfg, zapLogger.Zap())
	if err != nil {
		log.Fatal("Failed to open database", interfaces.Error(err))
	}
	defer cleanup()

	repo := repository.NewGormRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "mcp" {
		tool := insights.NewNotesTool(repo, log)
		server := insights.NewMCPServer(tool)
		log.Info("Serving notes over MCP stdio")
		if err := insights.ServeMCP(ctx, server); err != nil {
			log.Fatal("MCP server failed", interfaces.Error(err))
		}
		return
	}

	items, err := repo.ListMediaItems(ctx)
	if err != nil {
		log.Fatal("Failed to list media items", interfaces.Error(err))
	}
	notes, err := repo.ListNotes(ctx)
	if err != nil {
		log.Fatal("Failed to list notes", interfaces.Error(err))
	}

	log.Info("Database ready",
		interfaces.String("driver", cfg.Database.Driver),
		interfaces.Int("media_items", len(items)),
		interfaces.Int("notes", len(notes)),
		interfaces.Bool("insights_enabled", cfg.Insights.Enabled))
}
