package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gattbridge/gattbridge/internal/attr"
	"github.com/gattbridge/gattbridge/internal/ble"
	"github.com/gattbridge/gattbridge/internal/bridge"
)

// serveConfig carries everything the core components need, parsed and
// validated here and passed into their constructors unchanged.
type serveConfig struct {
	ScanTime     time.Duration `default:"15s"`
	PollInterval time.Duration `default:"5s"`
	Listen       string        `default:":3000"`
	ServiceUUID  string        `default:"895225fe-acaf-4f21-b0e7-1adb51e11653"`
	AttrsFile    string
}

var serveCfg serveConfig

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve <device-name>",
	Short: "Connect to the peripheral and serve its attributes over HTTP",
	Long: `Connects to the BLE peripheral advertising the given display name,
resolves its GATT service, and serves every declared attribute as a
JSON HTTP endpoint until the first fatal failure.

The process follows a fail-fast discipline: if the HTTP server stops or
the connection supervisor observes the peripheral gone, the whole
process exits and relies on an external supervisor to restart it.

Examples:
  # Serve the ornament's attributes on the default port
  gattbridge serve "Ammar Ratnani EE 256"

  # Custom scan window, poll interval, and listen address
  gattbridge serve --scan-time 30s --poll-interval 2s --listen :8080 "Ammar Ratnani EE 256"

  # Replace the built-in attribute table
  gattbridge serve --attrs ./attributes.yaml "Ammar Ratnani EE 256"`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	defaults.SetDefaults(&serveCfg)

	serveCmd.Flags().DurationVar(&serveCfg.ScanTime, "scan-time", serveCfg.ScanTime, "Time to scan for the peripheral")
	serveCmd.Flags().DurationVar(&serveCfg.PollInterval, "poll-interval", serveCfg.PollInterval, "Connectivity poll interval")
	serveCmd.Flags().StringVar(&serveCfg.Listen, "listen", serveCfg.Listen, "HTTP listen address")
	serveCmd.Flags().StringVar(&serveCfg.ServiceUUID, "service-uuid", serveCfg.ServiceUUID, "128-bit UUID of the attribute service")
	serveCmd.Flags().StringVar(&serveCfg.AttrsFile, "attrs", "", "YAML attribute table replacing the built-in one")
}

func runServe(cmd *cobra.Command, args []string) error {
	displayName := args[0]

	logger, err := configureLogger(cmd)
	if err != nil {
		return err
	}

	serviceUUID, err := uuid.Parse(serveCfg.ServiceUUID)
	if err != nil {
		return fmt.Errorf("invalid service UUID %q: %w", serveCfg.ServiceUUID, err)
	}

	registry := attr.DefaultRegistry()
	if serveCfg.AttrsFile != "" {
		registry, err = attr.LoadRegistry(serveCfg.AttrsFile)
		if err != nil {
			return err
		}
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	ctx := context.Background()

	peripheral, err := ble.Connect(ctx, displayName, serveCfg.ScanTime, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := peripheral.Disconnect(); err != nil {
			logger.WithError(err).Warn("Failed to disconnect peripheral")
		}
	}()

	service, err := peripheral.Service(serviceUUID.String())
	if err != nil {
		return err
	}

	br := bridge.New(peripheral, service, logger)
	router := bridge.NewRouter(br, registry, logger)
	srv := &http.Server{Addr: serveCfg.Listen, Handler: router}

	// Both long-lived activities run under one group; the first failure
	// cancels the other and ends the process.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithFields(logrus.Fields{
			"listen":     serveCfg.Listen,
			"attributes": registry.Len(),
		}).Info("Serving attribute API")
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		return errors.New("http server exited unexpectedly")
	})

	g.Go(func() error {
		return bridge.NewSupervisor(peripheral, serveCfg.PollInterval, logger).Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
