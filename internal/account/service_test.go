package account

import (
	"context"
	"testing"

	"credits_system/internal/db/dbtest"
	"credits_system/internal/domain"
	"credits_system/internal/ledger"

	"github.com/stretchr/testify/require"
)

func TestService_SignIn_NewUser(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db)
	svc := NewService(db, l)
	ctx := context.Background()

	user, err := svc.SignIn(ctx, Identity{Email: "  Ana@Example.com ", Name: "Ana", ProviderAccountID: "g-1"})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", user.Email)
	require.NotEmpty(t, user.ID)

	balance, err := l.Balance(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, ledger.FreeGrantCredits, balance)
}

func TestService_SignIn_RepeatDoesNotDuplicateGrant(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db)
	svc := NewService(db, l)
	ctx := context.Background()

	first, err := svc.SignIn(ctx, Identity{Email: "ana@example.com", Name: "Ana"})
	require.NoError(t, err)
	second, err := svc.SignIn(ctx, Identity{Email: "ANA@example.com", Name: "Ana Maria", Image: "https://img/a.png"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	balance, err := l.Balance(ctx, first.ID)
	require.NoError(t, err)
	require.EqualValues(t, ledger.FreeGrantCredits, balance)

	var grants int64
	require.NoError(t, db.Model(&domain.Transaction{}).Where("user_id = ? AND type = ?", first.ID, domain.TransactionFreeGrant).Count(&grants).Error)
	require.EqualValues(t, 1, grants)

	got, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana Maria", got.Name)
	require.Equal(t, "https://img/a.png", got.Image)
}

func TestService_SignIn_KeepsSpentBalance(t *testing.T) {
	db := dbtest.New(t)
	l := ledger.New(db)
	svc := NewService(db, l)
	ctx := context.Background()

	user, err := svc.SignIn(ctx, Identity{Email: "ana@example.com"})
	require.NoError(t, err)
	require.NoError(t, l.Debit(ctx, user.ID, 300, nil))

	_, err = svc.SignIn(ctx, Identity{Email: "ana@example.com"})
	require.NoError(t, err)

	balance, err := l.Balance(ctx, user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 700, balance)
}

func TestService_SignIn_MissingEmail(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(db, ledger.New(db))

	_, err := svc.SignIn(context.Background(), Identity{Name: "nobody"})
	require.ErrorIs(t, err, ErrMissingEmail)
}

func TestService_Lookups(t *testing.T) {
	db := dbtest.New(t)
	svc := NewService(db, ledger.New(db))
	ctx := context.Background()

	user, err := svc.SignIn(ctx, Identity{Email: "ana@example.com"})
	require.NoError(t, err)

	found, err := svc.FindByEmail(ctx, "ANA@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	_, err = svc.FindByEmail(ctx, "bob@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.FindByEmail(ctx, " ")
	require.ErrorIs(t, err, ErrMissingEmail)
	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
