package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/valeri-app/valeri/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestEnsureProfile(t *testing.T) {
	t.Parallel()

	policy := allowList{"vakobsns@gmail.com"}

	t.Run("allow-listed email bootstraps as admin", func(t *testing.T) {
		repo := newFakeProfileRepo()
		svc := NewBootstrapService(repo, policy, testLogger())

		p, err := svc.EnsureProfile(context.Background(), &models.User{
			ID:    "u-1",
			Email: "vakobsns@gmail.com",
		})
		require.NoError(t, err)
		require.Equal(t, models.RoleAdmin, p.Role)
		require.Equal(t, "vakobsns@gmail.com", p.Email)

		stored, err := repo.GetByUserID(context.Background(), "u-1")
		require.NoError(t, err)
		require.Equal(t, models.RoleAdmin, stored.Role)
	})

	t.Run("other emails bootstrap as user", func(t *testing.T) {
		repo := newFakeProfileRepo()
		svc := NewBootstrapService(repo, policy, testLogger())

		p, err := svc.EnsureProfile(context.Background(), &models.User{
			ID:    "u-2",
			Email: "x@example.com",
		})
		require.NoError(t, err)
		require.Equal(t, models.RoleUser, p.Role)
	})

	t.Run("existing profile adopted with zero writes", func(t *testing.T) {
		repo := newFakeProfileRepo()
		repo.rows["u-3"] = models.Profile{UserID: "u-3", Email: "old@example.com", Role: models.RoleAdmin}
		svc := NewBootstrapService(repo, policy, testLogger())

		p, err := svc.EnsureProfile(context.Background(), &models.User{
			ID:    "u-3",
			Email: "new@example.com",
		})
		require.NoError(t, err)
		// adopted as-is: no repair of mirrored fields, no role recompute
		require.Equal(t, "old@example.com", p.Email)
		require.Equal(t, models.RoleAdmin, p.Role)
		require.Zero(t, repo.creates)
	})

	t.Run("repeat sign-in is idempotent", func(t *testing.T) {
		repo := newFakeProfileRepo()
		svc := NewBootstrapService(repo, policy, testLogger())
		u := &models.User{ID: "u-4", Email: "x@example.com"}

		_, err := svc.EnsureProfile(context.Background(), u)
		require.NoError(t, err)
		_, err = svc.EnsureProfile(context.Background(), u)
		require.NoError(t, err)
		require.Equal(t, 1, repo.creates)
	})

	t.Run("insert failure still yields the computed role", func(t *testing.T) {
		repo := newFakeProfileRepo()
		repo.createEr = errors.New("store down")
		svc := NewBootstrapService(repo, policy, testLogger())

		p, err := svc.EnsureProfile(context.Background(), &models.User{
			ID:    "u-5",
			Email: "vakobsns@gmail.com",
		})
		require.NoError(t, err)
		require.Equal(t, models.RoleAdmin, p.Role)
	})

	t.Run("lost bootstrap race adopts the winning row", func(t *testing.T) {
		repo := newFakeProfileRepo()
		// a concurrent sign-in writes the row between the read and the insert
		repo.onCreate = func(f *fakeProfileRepo) {
			f.rows["u-6"] = models.Profile{UserID: "u-6", Email: "x@example.com", Role: models.RoleAdmin}
		}
		svc := NewBootstrapService(repo, policy, testLogger())

		p, err := svc.EnsureProfile(context.Background(), &models.User{ID: "u-6", Email: "x@example.com"})
		require.NoError(t, err)
		// whichever attempt won is adopted, not the local computation
		require.Equal(t, models.RoleAdmin, p.Role)
	})

	t.Run("missing user is rejected", func(t *testing.T) {
		svc := NewBootstrapService(newFakeProfileRepo(), policy, testLogger())
		_, err := svc.EnsureProfile(context.Background(), nil)
		require.Error(t, err)
	})
}
