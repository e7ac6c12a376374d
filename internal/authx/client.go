package authx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valeri-app/valeri/internal/models"
	"github.com/valeri-app/valeri/internal/utils"
)

// Client talks to a GoTrue-compatible auth endpoint over HTTP.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// metaSecurity carries the captcha token; the provider verifies it.
type metaSecurity struct {
	CaptchaToken string `json:"captcha_token,omitempty"`
}

type providerError struct {
	Msg       string `json:"msg"`
	Message   string `json:"message"`
	ErrorDesc string `json:"error_description"`
	ErrorCode string `json:"error_code"`
}

func (e *providerError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDesc != "":
		return e.ErrorDesc
	default:
		return "auth provider error"
	}
}

func (c *Client) SignUp(ctx context.Context, email, password, captchaToken string, metadata map[string]any) (*models.User, error) {
	const op = "authx.SignUp"

	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if captchaToken != "" {
		body["gotrue_meta_security"] = metaSecurity{CaptchaToken: captchaToken}
	}
	if len(metadata) > 0 {
		body["data"] = metadata
	}

	var user models.User
	if err := c.do(ctx, op, http.MethodPost, "/auth/v1/signup", c.anonKey, "", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password, captchaToken string) (*models.Session, error) {
	const op = "authx.SignInWithPassword"

	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if captchaToken != "" {
		body["gotrue_meta_security"] = metaSecurity{CaptchaToken: captchaToken}
	}

	var sess models.Session
	if err := c.do(ctx, op, http.MethodPost, "/auth/v1/token?grant_type=password", c.anonKey, "", body, &sess); err != nil {
		return nil, err
	}
	if sess.AccessToken == "" || sess.User == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "auth provider returned no session", nil)
	}
	return &sess, nil
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.User, error) {
	const op = "authx.GetUser"

	if accessToken == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "Unauthorized", nil)
	}

	var user models.User
	if err := c.do(ctx, op, http.MethodGet, "/auth/v1/user", c.anonKey, accessToken, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, utils.E(utils.CodeUnauthorized, op, "Unauthorized", nil)
	}
	return &user, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	const op = "authx.SignOut"
	return c.do(ctx, op, http.MethodPost, "/auth/v1/logout", c.anonKey, accessToken, nil, nil)
}

func (c *Client) ResetPasswordForEmail(ctx context.Context, email, redirectTo, captchaToken string) error {
	const op = "authx.ResetPasswordForEmail"

	body := map[string]any{"email": email}
	if captchaToken != "" {
		body["gotrue_meta_security"] = metaSecurity{CaptchaToken: captchaToken}
	}

	path := "/auth/v1/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.do(ctx, op, http.MethodPost, path, c.anonKey, "", body, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	const op = "authx.UpdatePassword"

	if accessToken == "" {
		return utils.E(utils.CodeUnauthorized, op, "Unauthorized", nil)
	}
	body := map[string]any{"password": newPassword}
	return c.do(ctx, op, http.MethodPut, "/auth/v1/user", c.anonKey, accessToken, body, nil)
}

func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	const op = "authx.AdminDeleteUser"

	if userID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "User ID required", nil)
	}
	path := "/auth/v1/admin/users/" + url.PathEscape(userID)
	return c.do(ctx, op, http.MethodDelete, path, c.serviceKey, c.serviceKey, nil, nil)
}

// do sends one request and decodes the response into out when non-nil.
// apiKey goes in the apikey header; bearer, when set, in Authorization.
func (c *Client) do(ctx context.Context, op, method, path, apiKey, bearer string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return utils.E(utils.CodeInternal, op, "failed to encode request", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to build request", err)
	}
	req.Header.Set("apikey", apiKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "auth provider unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to read provider response", err)
	}

	if resp.StatusCode >= 400 {
		var pe providerError
		_ = json.Unmarshal(raw, &pe)
		return utils.E(codeForStatus(resp.StatusCode, pe.text()), op, pe.text(),
			fmt.Errorf("auth provider status %d", resp.StatusCode))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return utils.E(utils.CodeUnavailable, op, "invalid provider response", err)
		}
	}
	return nil
}

func codeForStatus(status int, msg string) utils.Code {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return utils.CodeUnauthorized
	case http.StatusNotFound:
		return utils.CodeNotFound
	case http.StatusUnprocessableEntity:
		return utils.CodeInvalidArgument
	case http.StatusBadRequest:
		if strings.Contains(msg, "already registered") || strings.Contains(msg, "already exists") {
			return utils.CodeConflict
		}
		return utils.CodeInvalidArgument
	case http.StatusTooManyRequests:
		return utils.CodeUnavailable
	default:
		if status >= 500 {
			return utils.CodeUnavailable
		}
		return utils.CodeInternal
	}
}
