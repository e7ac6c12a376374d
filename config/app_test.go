package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadApp(t *testing.T) {
	t.Setenv("AUTH_URL", "https://auth.example.com/")
	t.Setenv("AUTH_ANON_KEY", "anon")
	t.Setenv("AUTH_SERVICE_ROLE_KEY", "service")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("ADMIN_EMAILS", "vakobsns@gmail.com, Admin@Example.COM ,")
	t.Setenv("PORT", "")

	app, err := LoadApp()
	require.NoError(t, err)
	require.Equal(t, "8080", app.Port)
	require.Equal(t, "https://auth.example.com", app.AuthURL)

	require.True(t, app.IsAdminEmail("vakobsns@gmail.com"))
	require.True(t, app.IsAdminEmail("ADMIN@example.com"))
	require.True(t, app.IsAdminEmail("  admin@example.com "))
	require.False(t, app.IsAdminEmail("x@example.com"))
	require.False(t, app.IsAdminEmail(""))
}

func TestLoadAppMissingRequired(t *testing.T) {
	t.Setenv("AUTH_URL", "")
	t.Setenv("AUTH_ANON_KEY", "anon")
	t.Setenv("AUTH_SERVICE_ROLE_KEY", "service")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	_, err := LoadApp()
	require.Error(t, err)
}
