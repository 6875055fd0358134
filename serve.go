package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/contact"
	"github.com/Zachkp/devfolio/internal/content"
	"github.com/Zachkp/devfolio/internal/store"
	"github.com/Zachkp/devfolio/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio web server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	site, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	relay, err := newRelay(cfg.Relay)
	if err != nil {
		return err
	}

	srv, err := web.New(web.Deps{
		Site:      site,
		Contact:   contact.NewService(relay, st, logger.Named("contact")),
		Store:     st,
		Timing:    cfg.Timing(),
		Admin:     web.AdminCredentials{Username: cfg.Admin.Username, Password: cfg.Admin.Password},
		Retention: cfg.VisitorRetention,
		Mode:      cfg.GinMode,
		Logger:    logger.Named("web"),
	})
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", httpSrv.Addr), zap.String("relay", cfg.Relay.Kind))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// privacy cleanup once at start and then daily
		srv.CleanupVisitors(ctx, cfg.VisitorRetention)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				srv.CleanupVisitors(ctx, cfg.VisitorRetention)
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newRelay(rc config.RelayConfig) (contact.Relay, error) {
	switch rc.Kind {
	case "smtp":
		return &contact.SMTPRelay{
			Host:     rc.SMTPHost,
			Port:     rc.SMTPPort,
			Username: rc.SMTPUser,
			Password: rc.SMTPPass,
			To:       rc.ToEmail,
		}, nil
	case "http":
		return &contact.HTTPRelay{
			Endpoint:   rc.HTTPEndpoint,
			ServiceID:  rc.HTTPServiceID,
			TemplateID: rc.HTTPTemplateID,
			PublicKey:  rc.HTTPPublicKey,
		}, nil
	case "log":
		return &contact.LogRelay{Logger: logger.Named("relay")}, nil
	default:
		return nil, fmt.Errorf("unknown relay %q", rc.Kind)
	}
}
