package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"

	port "vetclinic-dashboard/internal/ports/assistant"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeCompleter struct {
	mu      sync.Mutex
	calls   int
	prompts []string
	systems []string

	reply string
	err   error
	block chan struct{}
	enter chan struct{}
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt, system string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	f.systems = append(f.systems, system)
	f.mu.Unlock()

	if f.enter != nil {
		close(f.enter)
	}
	if f.block != nil {
		<-f.block
	}
	return f.reply, f.err
}

func TestNewSession_SeededWithGreeting(t *testing.T) {
	s := NewSession(&fakeCompleter{}, nil)

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, RoleAssistant, msgs[0].Role)
	require.Equal(t, Greeting, msgs[0].Text)
	require.False(t, s.Pending())
}

func TestSend_AppendsUserThenReply(t *testing.T) {
	f := &fakeCompleter{reply: "Dose: 25 mg/kg."}
	s := NewSession(f, nil)

	reply, err := s.Send(context.Background(), "  dose de dipirona?  ")
	require.NoError(t, err)
	require.Equal(t, "Dose: 25 mg/kg.", reply.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, RoleUser, msgs[1].Role)
	require.Equal(t, "dose de dipirona?", msgs[1].Text)
	require.Equal(t, RoleAssistant, msgs[2].Role)

	require.Equal(t, 1, f.calls)
	require.Equal(t, []string{"dose de dipirona?"}, f.prompts)
	require.Equal(t, SystemInstruction, f.systems[0])
}

func TestSend_ProviderFailureAppendsExactlyOneFallback(t *testing.T) {
	f := &fakeCompleter{err: errors.New("network down")}
	s := NewSession(f, nil)

	reply, err := s.Send(context.Background(), "oi")
	require.NoError(t, err)
	require.Equal(t, Fallback, reply.Text)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, Fallback, msgs[2].Text)
	require.False(t, s.Pending())
}

func TestSend_NotConfiguredFallsBack(t *testing.T) {
	f := &fakeCompleter{err: port.ErrNotConfigured}
	s := NewSession(f, nil)

	reply, err := s.Send(context.Background(), "oi")
	require.NoError(t, err)
	require.Equal(t, Fallback, reply.Text)
}

func TestSend_EmptyReply(t *testing.T) {
	s := NewSession(&fakeCompleter{reply: ""}, nil)

	reply, err := s.Send(context.Background(), "oi")
	require.NoError(t, err)
	require.Equal(t, EmptyReply, reply.Text)
}

func TestSend_RejectsBlankInput(t *testing.T) {
	f := &fakeCompleter{}
	s := NewSession(f, nil)

	_, err := s.Send(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Len(t, s.Messages(), 1)
	require.Equal(t, 0, f.calls)
}

func TestSend_RejectsWhilePending(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeCompleter{reply: "ok", block: make(chan struct{}), enter: make(chan struct{})}
	s := NewSession(f, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "primeira")
		done <- err
	}()

	<-f.enter
	require.True(t, s.Pending())

	_, err := s.Send(context.Background(), "segunda")
	require.ErrorIs(t, err, ErrPending)

	close(f.block)
	require.NoError(t, <-done)

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	require.Equal(t, "primeira", msgs[1].Text)
	require.Equal(t, 1, f.calls)
}

func TestReset_DropsInFlightReply(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := &fakeCompleter{reply: "tarde demais", block: make(chan struct{}), enter: make(chan struct{})}
	s := NewSession(f, nil)

	done := make(chan struct{})
	go func() {
		_, _ = s.Send(context.Background(), "oi")
		close(done)
	}()

	<-f.enter
	s.Reset()
	require.False(t, s.Pending())

	close(f.block)
	<-done

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, Greeting, msgs[0].Text)
}

func TestAssist_NilCompleter(t *testing.T) {
	require.Equal(t, Fallback, Assist(context.Background(), nil, nil, "oi"))
}
