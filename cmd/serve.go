package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"shortly/internal/controllers"
	"shortly/internal/jwt"
	"shortly/internal/middleware"
	"shortly/internal/service"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	if cfg.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}
	if cfg.AdminPassword == "" {
		slog.WarnContext(ctx, "ADMIN_PASSWORD is not set, login is disabled")
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	jwtService := jwt.NewJWTService(cfg.SecretKey, cfg.SessionTTL)

	slugService := service.NewSlugService(st.repo)
	linkService := service.NewLinkService(st.repo, slugService, service.NewTitleFetcher(cfg.TitleFetchTimeout), service.LinkServiceConfig{
		CreatedBy:    cfg.CreatedBy,
		SlugLength:   cfg.SlugLength,
		SlugAttempts: cfg.SlugAttempts,
		ListLimit:    cfg.ListLimit,
	})
	authService, err := service.NewAuthService(cfg.AdminPassword, jwtService)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := controllers.NewRouter(controllers.RouterConfig{
		Logger:          slog.Default(),
		JWT:             jwtService,
		Links:           controllers.NewLinkController(linkService, slugService, cfg.BaseURL, cfg.HomeURL, cfg.SlugLength, cfg.SlugAttempts),
		Auth:            controllers.NewAuthController(authService, cfg.SecureCookies()),
		QRCode:          controllers.NewQRCodeController(linkService, cfg.BaseURL),
		GeneralLimiter:  middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		AuthLimiter:     middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitAuthRPS), cfg.RateLimitAuthBurst),
		RedirectLimiter: middleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRedirectRPS), cfg.RateLimitRedirectBurst),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "server starting", "addr", srv.Addr, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to serve on (overrides PORT)")
}
