package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunScheduler runs the worker pool that services fired pick timers until ctx is done.
func (o *Orchestrator) RunScheduler(ctx context.Context) error {
	log.Info().
		Str("instance", o.instanceID).
		Int("workers", o.numWorkers).
		Msg("scheduler started")

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < o.numWorkers; i++ {
		wg.Add(1)
		go o.worker(ctx, &wg, i)
	}

	if o.leaser != nil {
		wg.Add(1)
		go o.renewLeases(ctx, &wg)
	}

	<-ctx.Done()
	log.Info().Str("instance", o.instanceID).Msg("shutting down workers")
	wg.Wait()
	o.shutdown()
	log.Info().Str("instance", o.instanceID).Msg("all workers shut down")
	return nil
}

// shutdown stops every live timer.
func (o *Orchestrator) shutdown() {
	o.stopOnce.Do(func() {
		o.bgMu.Lock()
		close(o.stopped)
		o.bgMu.Unlock()
	})

	o.mu.RLock()
	insts := make([]*instance, 0, len(o.drafts))
	for _, inst := range o.drafts {
		insts = append(insts, inst)
	}
	o.mu.RUnlock()

	for _, inst := range insts {
		inst.mu.Lock()
		o.cancelTimerLocked(inst)
		inst.mu.Unlock()
	}
	o.bg.Wait()
}

// worker processes draft timeouts from the work channel
func (o *Orchestrator) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", o.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case item := <-o.workCh:
			log.Debug().
				Str("draft_id", item.draftID.String()).
				Str("instance", o.instanceID).
				Int("worker_id", workerID).
				Int("overall_pick", item.overall).
				Msg("worker handling timeout")
			o.handleTimeout(ctx, item)
		}
	}
}

// handleTimeout services a fired timer unless it went stale while queued.
func (o *Orchestrator) handleTimeout(ctx context.Context, item timeout) {
	o.mu.RLock()
	inst, ok := o.drafts[item.draftID]
	o.mu.RUnlock()
	if !ok {
		return
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if item.gen != inst.timerGen || inst.state.draft.CurrentOverall != item.overall {
		log.Debug().
			Str("draft_id", item.draftID.String()).
			Int("overall_pick", item.overall).
			Msg("skipping stale timeout")
		return
	}
	// fired; the timer no longer blocks scheduling
	inst.timer = nil
	inst.timerCancel = nil

	log.Info().
		Str("draft_id", item.draftID.String()).
		Int("overall_pick", item.overall).
		Str("instance", o.instanceID).
		Msg("pick clock expired")
	o.onClockExpiredLocked(ctx, inst)
}

// renewLeases keeps this instance's claim on its live drafts and drops drafts it lost.
func (o *Orchestrator) renewLeases(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(o.cfg.LeaseRenewEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.renewOnce(ctx)
		}
	}
}

func (o *Orchestrator) renewOnce(ctx context.Context) {
	o.mu.RLock()
	live := make(map[uuid.UUID]*instance, len(o.drafts))
	for id, inst := range o.drafts {
		live[id] = inst
	}
	o.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(live))
	for id, inst := range live {
		inst.mu.Lock()
		terminal := inst.state.draft.Status.Terminal()
		inst.mu.Unlock()
		if !terminal {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		held, err := o.leaser.Renew(ctx, id, o.instanceID)
		if err != nil {
			log.Warn().Err(err).Str("draft_id", id.String()).Msg("failed to renew draft lease")
			continue
		}
		if !held {
			log.Warn().Str("draft_id", id.String()).Str("instance", o.instanceID).Msg("draft lease lost, dropping draft")
			o.evict(id)
		}
	}
}

// evict forgets a draft and stops its timer.
func (o *Orchestrator) evict(draftID uuid.UUID) {
	o.mu.Lock()
	inst, ok := o.drafts[draftID]
	delete(o.drafts, draftID)
	o.mu.Unlock()
	if !ok {
		return
	}
	inst.mu.Lock()
	o.cancelTimerLocked(inst)
	inst.mu.Unlock()
}
