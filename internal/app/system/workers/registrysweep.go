// internal/app/system/workers/registrysweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/app/store/integrity"
	noticestore "github.com/AfrozSheikh/krushivarsa/internal/app/store/notices"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// RegistrySweep is a background worker that deactivates expired notices and
// audits the cross-collection variety references, logging anything the
// best-effort cascade left dangling.
type RegistrySweep struct {
	db       *mongo.Database
	notices  *noticestore.Store
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewRegistrySweep creates a new sweep worker running every interval.
func NewRegistrySweep(db *mongo.Database, logger *zap.Logger, interval time.Duration) *RegistrySweep {
	return &RegistrySweep{
		db:       db,
		notices:  noticestore.New(db),
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *RegistrySweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("registry sweep worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *RegistrySweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("registry sweep worker stopped")
}

func (w *RegistrySweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *RegistrySweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.notices.DeactivateExpired(ctx)
	if err != nil {
		w.log.Error("deactivate expired notices", zap.Error(err))
	} else if count > 0 {
		w.log.Info("deactivated expired notices", zap.Int64("count", count))
	}

	findings, err := integrity.Check(ctx, w.db)
	if err != nil {
		w.log.Error("reference audit", zap.Error(err))
		return
	}
	for _, f := range findings {
		w.log.Warn("dangling reference", zap.String("finding", f))
	}
}
