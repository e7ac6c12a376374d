package config

import (
	"errors"
	"os"
	"strings"
)

// App holds settings resolved once at process start.
type App struct {
	Port string

	// Hosted auth provider (GoTrue-compatible).
	AuthURL        string
	AuthAnonKey    string
	AuthServiceKey string

	JWTSecret   string
	JWTIssuer   string // optional
	JWTAudience string // optional

	PostsBucket string

	// adminEmails is the static authorization policy table: identities whose
	// email appears here bootstrap with the admin role.
	adminEmails map[string]struct{}
}

func LoadApp() (*App, error) {
	a := &App{
		Port:           os.Getenv("PORT"),
		AuthURL:        strings.TrimRight(os.Getenv("AUTH_URL"), "/"),
		AuthAnonKey:    os.Getenv("AUTH_ANON_KEY"),
		AuthServiceKey: os.Getenv("AUTH_SERVICE_ROLE_KEY"),
		JWTSecret:      os.Getenv("AUTH_JWT_SECRET"),
		JWTIssuer:      os.Getenv("AUTH_JWT_ISSUER"),
		JWTAudience:    os.Getenv("AUTH_JWT_AUDIENCE"),
		PostsBucket:    os.Getenv("POSTS_BUCKET"),
		adminEmails:    parseAdminEmails(os.Getenv("ADMIN_EMAILS")),
	}
	if a.Port == "" {
		a.Port = "8080"
	}
	if a.AuthURL == "" {
		return nil, errors.New("AUTH_URL environment variable is not set")
	}
	if a.AuthAnonKey == "" {
		return nil, errors.New("AUTH_ANON_KEY environment variable is not set")
	}
	if a.AuthServiceKey == "" {
		return nil, errors.New("AUTH_SERVICE_ROLE_KEY environment variable is not set")
	}
	if a.JWTSecret == "" {
		return nil, errors.New("AUTH_JWT_SECRET environment variable is not set")
	}
	return a, nil
}

func parseAdminEmails(raw string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, e := range strings.Split(raw, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

// IsAdminEmail reports whether the email is on the admin allow-list.
// Matching is case-insensitive.
func (a *App) IsAdminEmail(email string) bool {
	_, ok := a.adminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
