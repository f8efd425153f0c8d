package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/udfnd/zoomclass/internal/api"
	"github.com/udfnd/zoomclass/internal/audit"
	"github.com/udfnd/zoomclass/internal/config"
	"github.com/udfnd/zoomclass/internal/service"
	"github.com/udfnd/zoomclass/internal/signer"
	"github.com/udfnd/zoomclass/internal/storage"
	"github.com/udfnd/zoomclass/internal/zoom"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ZoomClass server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		cfgFile, _ := cmd.Flags().GetString("config")

		cfg, err := config.LoadServer(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr != "" {
			cfg.Addr = addr
		}

		creds := config.LoadCredentials()
		logCredentialSummary(creds)

		auditor, err := audit.FromConfig(cfg.Audit.Enabled, cfg.Audit.Type, cfg.Audit.Path)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

		zoomCfg := zoom.Config{
			AccountID:    creds.AccountID,
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			APIKey:       creds.APIKey,
			APISecret:    creds.APISecret,
			TokenURL:     cfg.Zoom.TokenURL,
			APIBaseURL:   cfg.Zoom.APIBaseURL,
			HTTPClient:   httpClient,
		}
		zoomClient := zoom.NewClient(zoom.NewAuthenticator(zoomCfg), zoomCfg)

		var store *storage.Gateway
		if creds.HasStorageCredentials() {
			store = storage.NewGateway(creds.SupabaseURL, creds.SupabaseServiceKey, httpClient)
		}

		svc := service.NewMeetingService(
			creds,
			signer.New(creds.SDKKey, creds.SDKSecret),
			zoomClient,
			store,
			auditor,
		)

		srv := api.NewServer(svc)
		server := &http.Server{
			Addr:    cfg.Addr,
			Handler: srv.Routes(),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", cfg.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

// logCredentialSummary reports which credential sets are configured without
// revealing anything about their values.
func logCredentialSummary(creds config.Credentials) {
	log.Info().
		Bool("sdk", creds.HasSDKCredentials()).
		Bool("oauth", creds.HasOAuthCredentials()).
		Bool("legacy_api", creds.HasLegacyCredentials()).
		Bool("storage", creds.HasStorageCredentials()).
		Msg("credential summary")

	if !creds.HasSDKCredentials() {
		log.Warn().Msg("meeting SDK credentials missing: signature endpoints will fail")
	}
	if !creds.HasAPICredentials() {
		log.Warn().Msg("Zoom API credentials missing: meeting creation and host signatures will fail")
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
	serveCmd.Flags().StringP("config", "c", "", "path to the server config file")
}
