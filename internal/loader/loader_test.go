package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"vetclinic-dashboard/internal/adapters/storage/memory"
	"vetclinic-dashboard/internal/platform/logger"
	"vetclinic-dashboard/internal/ports/backend"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestNew_StartsIdle(t *testing.T) {
	l := New[item]("inventory", func(ctx context.Context) ([]item, error) { return nil, nil }, nil)

	snap := l.Snapshot()
	require.Equal(t, StateIdle, snap.State)
	require.NotNil(t, snap.Items)
	require.Empty(t, snap.Items)
}

func TestLoad_Ready(t *testing.T) {
	l := New[item]("inventory", func(ctx context.Context) ([]item, error) {
		return []item{{ID: "1", Name: "Vacina"}}, nil
	}, logger.NewNop())

	res := l.Load(context.Background())
	require.Equal(t, StateReady, res.State)
	require.Equal(t, StatusReady, res.Status)
	require.Len(t, res.Items, 1)
	require.NoError(t, res.Err)
	require.Equal(t, res.State, l.Snapshot().State)
}

func TestLoad_EmptyIsReadyEmpty(t *testing.T) {
	l := New[item]("finance", func(ctx context.Context) ([]item, error) { return nil, nil }, logger.NewNop())

	res := l.Load(context.Background())
	require.Equal(t, StateReadyEmpty, res.State)
	require.Equal(t, StatusReady, res.Status)
	require.NotNil(t, res.Items)
}

func TestLoad_FailureLooksEmptyButReportsFailed(t *testing.T) {
	boom := errors.New("connection refused")
	l := New[item]("patients", func(ctx context.Context) ([]item, error) { return nil, boom }, logger.NewNop())

	res := l.Load(context.Background())
	require.Equal(t, StateReadyEmpty, res.State)
	require.Equal(t, StatusFailed, res.Status)
	require.ErrorIs(t, res.Err, boom)
	require.Empty(t, res.Items)
}

func TestLoad_IsLoadingWhileFetching(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	l := New[item]("agenda", func(ctx context.Context) ([]item, error) {
		close(entered)
		<-release
		return []item{{ID: "a"}}, nil
	}, logger.NewNop())

	done := make(chan Result[item])
	go func() { done <- l.Load(context.Background()) }()

	<-entered
	require.Equal(t, StateLoading, l.Snapshot().State)
	require.Equal(t, StatusLoading, l.Snapshot().Status)

	close(release)
	res := <-done
	require.Equal(t, StateReady, res.State)
}

func TestLoad_StaleResponseNeverOverwritesNewer(t *testing.T) {
	var calls atomic.Int32
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})

	l := New[item]("patients", func(ctx context.Context) ([]item, error) {
		if calls.Add(1) == 1 {
			close(firstEntered)
			<-releaseFirst
			return []item{{ID: "old"}}, nil
		}
		return []item{{ID: "new"}}, nil
	}, logger.NewNop())

	var wg sync.WaitGroup
	var first Result[item]
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = l.Load(context.Background())
	}()

	<-firstEntered
	second := l.Reload(context.Background())
	require.Equal(t, "new", second.Items[0].ID)

	close(releaseFirst)
	wg.Wait()

	require.Equal(t, "new", first.Items[0].ID)
	require.Equal(t, "new", l.Snapshot().Items[0].ID)
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	l := New[item]("services", func(ctx context.Context) ([]item, error) {
		return []item{{ID: "1", Name: "Consulta"}}, nil
	}, logger.NewNop())
	l.Load(context.Background())

	snap := l.Snapshot()
	snap.Items[0].Name = "mutated"

	require.Equal(t, "Consulta", l.Snapshot().Items[0].Name)
}

func TestFromQuery_DecodesRows(t *testing.T) {
	g := memory.NewGateway()
	_, err := g.Insert(context.Background(), backend.Services, backend.Row{"title": "Banho", "category": "Estética"})
	require.NoError(t, err)
	_, err = g.Insert(context.Background(), backend.Services, backend.Row{"title": "Consulta", "category": "Clínica"})
	require.NoError(t, err)

	fetch := FromQuery[struct {
		Title string `json:"title"`
	}](g, backend.Query{Collection: backend.Services}.OrderBy("title", true))

	l := New("services", fetch, logger.NewNop())
	res := l.Load(context.Background())

	require.Equal(t, StateReady, res.State)
	require.Len(t, res.Items, 2)
	require.Equal(t, "Consulta", res.Items[0].Title)
}
