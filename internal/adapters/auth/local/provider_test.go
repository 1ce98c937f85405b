package local_test

import (
	"context"
	"testing"
	"time"

	"vetclinic-dashboard/internal/adapters/auth/local"
	"vetclinic-dashboard/internal/adapters/storage/memory"
	"vetclinic-dashboard/internal/ports/backend"

	"github.com/stretchr/testify/require"
)

type event struct {
	kind     backend.AuthEvent
	signedIn bool
}

func newProvider(t *testing.T) (*local.Provider, *[]event) {
	t.Helper()

	p := local.NewProvider(memory.NewUserStore(), local.Config{Secret: "test-secret", SessionTTL: time.Hour})
	var events []event
	unsubscribe := p.OnAuthStateChange(func(e backend.AuthEvent, s *backend.Session) {
		events = append(events, event{kind: e, signedIn: s != nil})
	})
	t.Cleanup(unsubscribe)
	return p, &events
}

func TestSignUp_NoSessionAndMetadataKept(t *testing.T) {
	p, events := newProvider(t)
	ctx := context.Background()

	res, err := p.SignUp(ctx, " Vet@Clinic.com ", "segredo123", map[string]any{"full_name": "Dr. Silva"})
	require.NoError(t, err)
	require.Nil(t, res.Session)
	require.Equal(t, "vet@clinic.com", res.User.Email)
	require.Equal(t, "Dr. Silva", res.User.FullName())
	require.Empty(t, *events)

	s, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestSignUp_Rejections(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "not-an-email", "segredo123", nil)
	require.ErrorIs(t, err, local.ErrInvalidEmail)

	_, err = p.SignUp(ctx, "vet@clinic.com", "123", nil)
	require.ErrorIs(t, err, local.ErrWeakPassword)

	_, err = p.SignUp(ctx, "vet@clinic.com", "segredo123", nil)
	require.NoError(t, err)
	_, err = p.SignUp(ctx, "VET@clinic.com", "outra-senha", nil)
	require.ErrorIs(t, err, local.ErrUserExists)
}

func TestSignIn_IssuesVerifiableToken(t *testing.T) {
	p, events := newProvider(t)
	ctx := context.Background()

	_, err := p.SignUp(ctx, "vet@clinic.com", "segredo123", map[string]any{"full_name": "Dr. Silva"})
	require.NoError(t, err)

	s, err := p.SignIn(ctx, "vet@clinic.com", "segredo123")
	require.NoError(t, err)
	require.NotEmpty(t, s.AccessToken)
	require.False(t, s.Expired(time.Now()))
	require.Equal(t, []event{{kind: backend.EventSignedIn, signedIn: true}}, *events)

	u, err := p.VerifyToken(s.AccessToken)
	require.NoError(t, err)
	require.Equal(t, s.User.ID, u.ID)
	require.Equal(t, "Dr. Silva", u.FullName())

	current, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	require.Equal(t, s, current)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	p, events := newProvider(t)
	ctx := context.Background()

	_, err := p.SignIn(ctx, "ghost@clinic.com", "segredo123")
	require.ErrorIs(t, err, backend.ErrInvalidCredentials)

	_, err = p.SignUp(ctx, "vet@clinic.com", "segredo123", nil)
	require.NoError(t, err)
	_, err = p.SignIn(ctx, "vet@clinic.com", "errada")
	require.ErrorIs(t, err, backend.ErrInvalidCredentials)

	require.Empty(t, *events)
}

func TestSignOut_NotifiesOnlyWithSession(t *testing.T) {
	p, events := newProvider(t)
	ctx := context.Background()

	require.NoError(t, p.SignOut(ctx))
	require.Empty(t, *events)

	_, err := p.SignUp(ctx, "vet@clinic.com", "segredo123", nil)
	require.NoError(t, err)
	_, err = p.SignIn(ctx, "vet@clinic.com", "segredo123")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))

	require.Equal(t, []event{
		{kind: backend.EventSignedIn, signedIn: true},
		{kind: backend.EventSignedOut, signedIn: false},
	}, *events)

	s, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestVerifyToken_RejectsForeignSecret(t *testing.T) {
	p, _ := newProvider(t)
	other := local.NewProvider(memory.NewUserStore(), local.Config{Secret: "other-secret"})
	ctx := context.Background()

	_, err := other.SignUp(ctx, "vet@clinic.com", "segredo123", nil)
	require.NoError(t, err)
	s, err := other.SignIn(ctx, "vet@clinic.com", "segredo123")
	require.NoError(t, err)

	_, err = p.VerifyToken(s.AccessToken)
	require.Error(t, err)
}
