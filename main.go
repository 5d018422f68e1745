package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.bug.st/serial"

	"github.com/lotharelvin/ODrive/ascii"
	"github.com/lotharelvin/ODrive/axis"
)

const (
	hwVersionMajor   = 3
	hwVersionMinor   = 4
	hwVersionVoltage = 24

	fwVersionMajor    = 0
	fwVersionMinor    = 4
	fwVersionRevision = 12
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port carrying the command stream")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP command bridge")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("save-file", "", "Path where the save command persists configuration")
	flag.String("serial-number", "", "Serial number reported by the info command")
	configPath := flag.String("config", "", "Path to a TOML config file")
	flag.Parse()

	opts := []ConfigOption{WithDefaults()}
	if *configPath != "" {
		opts = append(opts, WithFile(*configPath))
	}
	opts = append(opts, WithEnv(), WithFlags(flag.CommandLine))

	config, err := LoadConfig(opts...)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	axes := [ascii.AxisCount]*axis.Axis{
		axis.New(axis.Config{}),
		axis.New(axis.Config{}),
	}

	store := axis.NewStore()
	axis.RegisterAxis(store, "axis0", axes[0])
	axis.RegisterAxis(store, "axis1", axes[1])

	persister := &axis.Persister{
		Path:   config.SaveFile,
		Axes:   axes[:],
		Logger: logger.With("component", "persister"),
	}

	interp := &ascii.Interpreter{
		Axes:       [ascii.AxisCount]ascii.Axis{axes[0], axes[1]},
		Properties: store,
		Saver:      persister,
		Info: ascii.DeviceInfo{
			HWVersionMajor:    hwVersionMajor,
			HWVersionMinor:    hwVersionMinor,
			HWVersionVoltage:  hwVersionVoltage,
			FWVersionMajor:    fwVersionMajor,
			FWVersionMinor:    fwVersionMinor,
			FWVersionRevision: fwVersionRevision,
			SerialNumber:      config.SerialNumber,
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dialer := ascii.SerialDialer{
		PortName: config.SerialPort,
		Mode:     &serial.Mode{BaudRate: config.BaudRate},
	}
	transport, err := dialer.Dial(ctx)
	if err != nil {
		logger.Error("Failed to open serial port", "port", config.SerialPort, "error", err)
		os.Exit(1)
	}

	session, err := ascii.NewSession(transport, interp, logger.With("component", "session"))
	if err != nil {
		logger.Error("Failed to create session", "error", err)
		os.Exit(1)
	}

	logger.Info("Starting command protocol", "port", config.SerialPort, "baud", config.BaudRate)

	sessionErrs := make(chan error, 1)
	go func() {
		sessionErrs <- session.Run(ctx)
	}()

	httpServer := &http.Server{
		Addr: config.BindAddress,
		Handler: &Server{
			Logger:  logger.With("component", "server"),
			Session: session,
		},
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP command bridge", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	select {
	case sig := <-sigChan:
		logger.Info("Received shutdown signal", "signal", sig)
	case err := <-sessionErrs:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Session stopped", "error", err)
		}
	}

	cancel()

	logger.Info("Closing transport")
	if err := transport.Close(); err != nil {
		logger.Error("Failed to close transport", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Closing HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to gracefully shutdown server", "error", err)
		os.Exit(1)
	}
}
