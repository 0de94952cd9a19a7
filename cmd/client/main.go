package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"socialclient/pkg/logger"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "CLIENT_LOGGER_MODE"
	EnvLoggerLevel = "CLIENT_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger = "failed to initialize logger"
	ErrSyncLogger = "failed to sync logger"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

func main() {
	env := logger.Production
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "development" {
		env = logger.Development
	}

	level := os.Getenv(EnvLoggerLevel)
	if level == "" {
		level = "warn"
	}

	log, err := logger.NewLogger(env, level)
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := logger.Log(ctx).Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		if err := newRootCommand().ExecuteContext(ctx); err != nil {
			if _, writeErr := fmt.Fprintf(os.Stderr, "error: %v\n", err); writeErr != nil {
				panic(writeErr)
			}
			exitCode = 1
		}
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
