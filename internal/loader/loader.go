// Package loader trae la colección de una vista desde el backend y mantiene
// su estado (idle, loading, ready, ready-empty).
package loader

import (
	"context"
	"slices"
	"sync"
	"time"

	"vetclinic-dashboard/internal/platform/logger"
	"vetclinic-dashboard/internal/ports/backend"
)

type State string

const (
	StateIdle       State = "idle"
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateReadyEmpty State = "ready-empty"
)

// Status distingue una vista vacía de una lectura fallida.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

type Result[T any] struct {
	State    State     `json:"state"`
	Status   Status    `json:"status"`
	Items    []T       `json:"items"`
	LoadedAt time.Time `json:"loaded_at"`
	Err      error     `json:"-"`
}

// Fetcher trae todas las filas de la vista (sin paginación).
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// FromQuery arma un Fetcher que ejecuta q y decodifica las filas en T.
func FromQuery[T any](g backend.Gateway, q backend.Query) Fetcher[T] {
	return func(ctx context.Context) ([]T, error) {
		rows, err := g.Select(ctx, q)
		if err != nil {
			return nil, err
		}
		return backend.Decode[T](rows)
	}
}

type Loader[T any] struct {
	name  string
	fetch Fetcher[T]
	log   logger.Logger
	now   func() time.Time

	mu      sync.Mutex
	seq     uint64
	applied uint64
	result  Result[T]
}

func New[T any](name string, fetch Fetcher[T], log logger.Logger) *Loader[T] {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader[T]{
		name:  name,
		fetch: fetch,
		log:   log.With(map[string]any{"view": name}),
		now:   time.Now,
		result: Result[T]{
			State: StateIdle,
			Items: []T{},
		},
	}
}

func (l *Loader[T]) Name() string {
	return l.name
}

// Load trae la colección una vez. Un error se registra y la vista queda
// vacía (ready-empty, Status=failed); no hay reintentos.
// Si mientras tanto terminó una carga más nueva, se conserva esa.
func (l *Loader[T]) Load(ctx context.Context) Result[T] {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.result.State = StateLoading
	l.result.Status = StatusLoading
	l.mu.Unlock()

	items, err := l.fetch(ctx)

	next := Result[T]{LoadedAt: l.now()}
	switch {
	case err != nil:
		l.log.Error("view load failed", map[string]any{"error": err, "seq": seq})
		next.State = StateReadyEmpty
		next.Status = StatusFailed
		next.Items = []T{}
		next.Err = err
	case len(items) == 0:
		next.State = StateReadyEmpty
		next.Status = StatusReady
		next.Items = []T{}
	default:
		next.State = StateReady
		next.Status = StatusReady
		next.Items = items
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq < l.applied {
		l.log.Debug("stale view load discarded", map[string]any{"seq": seq, "applied": l.applied})
		return l.snapshotLocked()
	}
	l.applied = seq
	l.result = next
	return l.snapshotLocked()
}

// Reload es el disparador explícito de refresco (p.ej. después de un alta).
func (l *Loader[T]) Reload(ctx context.Context) Result[T] {
	return l.Load(ctx)
}

// Snapshot devuelve el último resultado sin ir al backend.
func (l *Loader[T]) Snapshot() Result[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Loader[T]) snapshotLocked() Result[T] {
	out := l.result
	out.Items = slices.Clone(l.result.Items)
	if out.Items == nil {
		out.Items = []T{}
	}
	return out
}
