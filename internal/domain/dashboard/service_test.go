package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetclinic-dashboard/internal/domain/appointments"
	"vetclinic-dashboard/internal/domain/inventory"
	"vetclinic-dashboard/internal/loader"
	"vetclinic-dashboard/internal/platform/logger"

	"go.uber.org/goleak"
)

func TestLoad_OneFailingSectionDoesNotBlankTheOther(t *testing.T) {
	defer goleak.VerifyNone(t)

	q := 3
	upcoming := loader.New[appointments.Appointment]("dashboard.appointments", func(ctx context.Context) ([]appointments.Appointment, error) {
		return nil, errors.New("timeout")
	}, logger.NewNop())
	alerts := loader.New[inventory.Item]("dashboard.alerts", func(ctx context.Context) ([]inventory.Item, error) {
		return []inventory.Item{{ID: "i1", Name: "Vacina V10", Quantity: &q}}, nil
	}, logger.NewNop())

	svc := NewService(upcoming, alerts)
	fixed := time.Date(2024, 5, 18, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	ov := svc.Load(context.Background())

	if ov.Upcoming.Status != loader.StatusFailed || ov.Upcoming.State != loader.StateReadyEmpty {
		t.Fatalf("unexpected upcoming result: %+v", ov.Upcoming)
	}
	if ov.Alerts.State != loader.StateReady || len(ov.Alerts.Items) != 1 {
		t.Fatalf("unexpected alerts result: %+v", ov.Alerts)
	}
	if ov.OccupationPercent != 85 {
		t.Fatalf("expected placeholder occupation 85, got %d", ov.OccupationPercent)
	}
	if !ov.GeneratedAt.Equal(fixed) {
		t.Fatalf("unexpected generated_at %v", ov.GeneratedAt)
	}
}
