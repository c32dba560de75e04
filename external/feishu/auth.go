package feishu

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/courtside-sync/internal/usecase"
)

const (
	tenantTokenPath  = "/auth/v3/tenant_access_token/internal"
	tenantTokenKey   = "tenant_access_token"
	tokenRefreshSkew = 300 * time.Second
)

type tenantTokenResponse struct {
	envelope
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int64  `json:"expire"`
}

// TenantAccessToken returns the cached tenant token, exchanging the app
// credentials when it is missing or within five minutes of expiry.
func (c *Client) TenantAccessToken(ctx context.Context) (string, error) {
	value, err := c.tokens.GetOrLoadTTL(ctx, tenantTokenKey, c.fetchTenantToken)
	if err != nil {
		return "", err
	}
	token, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("unexpected cached token type %T", value)
	}
	return token, nil
}

// InvalidateTenantToken drops the cached token so the next call refreshes it.
func (c *Client) InvalidateTenantToken() {
	c.tokens.Delete(context.Background(), tenantTokenKey)
}

func (c *Client) fetchTenantToken(ctx context.Context) (any, time.Duration, error) {
	if c.appID == "" || c.appSecret == "" {
		return nil, 0, fmt.Errorf("%w: app credentials are not configured", usecase.ErrTokenAcquisition)
	}

	payload := map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	}
	raw, status, err := c.postJSON(ctx, opTenantToken, tenantTokenPath, nil, "", payload)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", usecase.ErrTokenAcquisition, err)
	}

	var out tenantTokenResponse
	if err := decodeEnvelope(opTenantToken, raw, status, &out); err != nil {
		c.logger.ErrorContext(ctx, "tenant access token exchange rejected", "error", err)
		return nil, 0, err
	}
	if out.TenantAccessToken == "" {
		return nil, 0, newAPIError(opTenantToken, out.Code, "empty tenant_access_token")
	}

	ttl := time.Duration(out.Expire)*time.Second - tokenRefreshSkew
	c.logger.InfoContext(ctx, "tenant access token refreshed", "expire_seconds", out.Expire)
	return out.TenantAccessToken, ttl, nil
}
