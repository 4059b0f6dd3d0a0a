package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/wgsldoc/internal/mcp"
	"github.com/dshills/wgsldoc/internal/storage"
)

// newIndexCmd creates the "index" command.
func newIndexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Store the registered shaders in the SQLite symbol index",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			_, err = a.index(cmd.Context(), store)
			return err
		},
	}
}

// newServeCmd creates the "serve" command.
func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Index the shaders and serve the index as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if _, err := a.index(ctx, store); err != nil {
				return err
			}

			server, err := mcp.NewServer(store, mcp.Options{
				Document: a.cfg.Name,
				Reload: a.reload,
				Logger: a.logger,
			})
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}
			a.logger.Info("MCP server ready, listening on stdio",
				"build_mode", storage.BuildMode,
				"driver", storage.DriverName)
			return server.Serve(ctx)
		},
	}
}

// reload drops every cached parse result and loads the shaders again.
// Entries for files edited or deleted since the last load would otherwise
// stay resident until evicted.
func (a *app) reload(ctx context.Context) (storage.Source, error) {
	purged := a.cache.Size()
	a.cache.Purge()
	a.logger.Debug("parse cache purged", "entries", purged)

	reg, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func (a *app) openStorage() (*storage.SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.DB), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	store, err := storage.NewSQLiteStorage(a.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return store, nil
}

// index loads the shaders and replaces the stored copy of the document
func (a *app) index(ctx context.Context, store storage.Storage) (*storage.Document, error) {
	reg, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := store.ReplaceDocument(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to index document: %w", err)
	}
	a.logger.Info("document indexed",
		"name", doc.Name,
		"modules", doc.ModuleCount,
		"db", a.cfg.DB)
	return doc, nil
}
