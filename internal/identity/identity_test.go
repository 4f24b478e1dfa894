package identity

import (
	"context"
	"testing"

	"github.com/falak-club/apiserver/internal/store"
	"github.com/falak-club/apiserver/types"
	"github.com/stretchr/testify/require"
)

type fakeIdentityRepo struct {
	byEmail map[string]types.Identity
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{byEmail: make(map[string]types.Identity)}
}

func (f *fakeIdentityRepo) GetByID(ctx context.Context, id string) (types.Identity, error) {
	for _, account := range f.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return types.Identity{}, store.ErrNotFound
}

func (f *fakeIdentityRepo) GetByEmail(ctx context.Context, email string) (types.Identity, error) {
	account, ok := f.byEmail[email]
	if !ok {
		return types.Identity{}, store.ErrNotFound
	}
	return account, nil
}

func (f *fakeIdentityRepo) Create(ctx context.Context, account types.Identity) (types.Identity, error) {
	if _, ok := f.byEmail[account.Email]; ok {
		return types.Identity{}, store.ErrConflict
	}
	f.byEmail[account.Email] = account
	return account, nil
}

func TestSignUpThenSignIn(t *testing.T) {
	provider := NewPasswordProvider(newFakeIdentityRepo())

	created, err := provider.SignUp(context.Background(), "member@falak.club", "hunter22", "Member")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "member@falak.club", created.Email)
	require.NotEqual(t, "hunter22", created.PasswordHash)

	signedIn, err := provider.SignInWithPassword(context.Background(), "member@falak.club", "hunter22")
	require.NoError(t, err)
	require.Equal(t, created.ID, signedIn.ID)
}

func TestSignUpLowercasesEmail(t *testing.T) {
	repo := newFakeIdentityRepo()
	provider := NewPasswordProvider(repo)

	created, err := provider.SignUp(context.Background(), "  Member@Falak.Club ", "hunter22", "Member")
	require.NoError(t, err)
	require.Equal(t, "member@falak.club", created.Email)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	provider := NewPasswordProvider(newFakeIdentityRepo())

	_, err := provider.SignUp(context.Background(), "member@falak.club", "hunter22", "Member")
	require.NoError(t, err)

	_, err = provider.SignUp(context.Background(), "member@falak.club", "other-pw", "Other")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignInWrongPassword(t *testing.T) {
	provider := NewPasswordProvider(newFakeIdentityRepo())

	_, err := provider.SignUp(context.Background(), "member@falak.club", "hunter22", "Member")
	require.NoError(t, err)

	_, err = provider.SignInWithPassword(context.Background(), "member@falak.club", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	provider := NewPasswordProvider(newFakeIdentityRepo())

	_, err := provider.SignInWithPassword(context.Background(), "ghost@falak.club", "pw")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignUpRequiresCredentials(t *testing.T) {
	provider := NewPasswordProvider(newFakeIdentityRepo())

	_, err := provider.SignUp(context.Background(), "", "pw", "Member")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = provider.SignUp(context.Background(), "member@falak.club", "", "Member")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
