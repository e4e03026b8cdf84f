// File: services/reconcile.go
package services

import (
	"context"

	"church-site/logger"
	"church-site/store"
)

// ReconcileReport counts what a reconciliation pass changed.
type ReconcileReport struct {
	EventsReady    int
	EventsRemoved  int
	LeadersReady   int
	LeadersRemoved int
}

// Reconciler settles rows left pending by an interrupted upload: a row whose
// file landed becomes visible, a row whose file never landed is deleted.
type Reconciler struct {
	Events  store.EventStore
	Leaders store.LeaderStore
	Files   *FileStore
}

// Run makes one pass over pending events and leaders.
func (r *Reconciler) Run(ctx context.Context) (ReconcileReport, error) {
	var rep ReconcileReport

	events, err := r.Events.ListPending(ctx)
	if err != nil {
		return rep, err
	}
	for _, e := range events {
		ok, err := r.Files.Exists(AreaPosters, e.PosterFilename)
		if err != nil {
			return rep, err
		}
		if ok {
			if err := r.Events.MarkReady(ctx, e.ID); err != nil {
				return rep, err
			}
			rep.EventsReady++
			continue
		}
		if err := r.Events.Delete(ctx, e.ID); err != nil {
			return rep, err
		}
		logger.Warn.Printf("[Reconciler.Run] Removed event %d, poster %q never arrived", e.ID, e.PosterFilename)
		rep.EventsRemoved++
	}

	leaders, err := r.Leaders.ListPending(ctx)
	if err != nil {
		return rep, err
	}
	for _, l := range leaders {
		ok, err := r.Files.Exists(AreaStaff, l.ImageFilename)
		if err != nil {
			return rep, err
		}
		if ok {
			if err := r.Leaders.MarkReady(ctx, l.ID); err != nil {
				return rep, err
			}
			rep.LeadersReady++
			continue
		}
		if err := r.Leaders.Delete(ctx, l.ID); err != nil {
			return rep, err
		}
		logger.Warn.Printf("[Reconciler.Run] Removed leader %d, image %q never arrived", l.ID, l.ImageFilename)
		rep.LeadersRemoved++
	}

	logger.Info.Printf("[Reconciler.Run] %+v", rep)
	return rep, nil
}
