package dashboard

import (
	"context"
	"time"

	"vetclinic-dashboard/internal/domain/appointments"
	"vetclinic-dashboard/internal/domain/inventory"
	"vetclinic-dashboard/internal/loader"

	"golang.org/x/sync/errgroup"
)

// OccupationPercent es un valor fijo hasta que exista un cálculo real de ocupación.
const OccupationPercent = 85

type Service struct {
	upcoming *loader.Loader[appointments.Appointment]
	alerts   *loader.Loader[inventory.Item]
	now      func() time.Time
}

func NewService(upcoming *loader.Loader[appointments.Appointment], alerts *loader.Loader[inventory.Item]) *Service {
	return &Service{
		upcoming: upcoming,
		alerts:   alerts,
		now:      time.Now,
	}
}

type Overview struct {
	Upcoming          loader.Result[appointments.Appointment]
	Alerts            loader.Result[inventory.Item]
	OccupationPercent int
	GeneratedAt       time.Time
}

// Load trae las dos colecciones en paralelo. Los loaders absorben los
// errores de lectura, así que el grupo nunca falla.
func (s *Service) Load(ctx context.Context) Overview {
	var out Overview

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Upcoming = s.upcoming.Load(gctx)
		return nil
	})
	g.Go(func() error {
		out.Alerts = s.alerts.Load(gctx)
		return nil
	})
	_ = g.Wait()

	out.OccupationPercent = OccupationPercent
	out.GeneratedAt = s.now()
	return out
}
