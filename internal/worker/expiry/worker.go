package expiry

import (
	"context"
	"sync"
	"time"
)

const defaultInterval = time.Minute

// Expirer переводит просроченные pending бронирования в expired
type Expirer interface {
	ExpirePending(ctx context.Context) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Worker периодически запускает истечение pending бронирований
// Capacity уже не учитывает просроченные pending, worker только фиксирует статус в БД
type Worker struct {
	expirer  Expirer
	interval time.Duration
	logger   Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewWorker создает worker с заданным интервалом
func NewWorker(expirer Expirer, interval time.Duration, logger Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		expirer:  expirer,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start запускает worker в отдельной горутине
// Первый проход выполняется сразу, затем по тикеру
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop останавливает worker и ждёт завершения текущего прохода, вызывается после Start
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.doneCh
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.logger.Info("Expiry worker: started, interval=%s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Expiry worker: context done, stopping")
			return
		case <-w.stopCh:
			w.logger.Info("Expiry worker: stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, w.interval)
	defer cancel()

	if _, err := w.expirer.ExpirePending(sweepCtx); err != nil {
		w.logger.Error("Expiry worker: sweep failed: %v", err)
	}
}
