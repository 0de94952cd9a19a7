// Package shutdown реализует корректное завершение процесса: ожидание сигнала
// SIGINT/SIGTERM или отмены контекста и параллельный запуск хуков остановки.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"socialclient/pkg/logger"
)

// Hook - функция освобождения ресурса при остановке.
type Hook func(context.Context) error

const (
	logShutdownStarted  = "shutdown started"
	logShutdownHookFail = "shutdown hook failed"
	logShutdownTimeout  = "shutdown timeout exceeded"
)

// Wait блокируется до получения SIGINT/SIGTERM или отмены ctx,
// затем выполняет все хуки параллельно в пределах timeout.
func Wait(ctx context.Context, timeout time.Duration, hooks ...Hook) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	log := logger.Log(ctx)

	select {
	case sig := <-sigCh:
		log.Info(ctx, logShutdownStarted, zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.Info(ctx, logShutdownStarted, zap.String("reason", "context done"))
	}

	hookCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, hook := range hooks {
		wg.Add(1)
		go func(fn Hook) {
			defer wg.Done()
			if err := fn(hookCtx); err != nil {
				log.Warn(hookCtx, logShutdownHookFail, zap.Error(err))
			}
		}(hook)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-hookCtx.Done():
		log.Warn(ctx, logShutdownTimeout, zap.Duration("timeout", timeout))
	}
}
