package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fxconverter/internal/application"
	"fxconverter/internal/domain"
	"fxconverter/internal/infrastructure/httpx"
)

// ExchangeRateAPIProvider fetches the latest table from exchangerate-api.com v6:
// GET {BaseURL}/{APIKey}/latest/{Base}.
type ExchangeRateAPIProvider struct {
	BaseURL string
	APIKey  string
	Base    string
	Client  *httpx.Client
}

var _ application.RateFetcher = (*ExchangeRateAPIProvider)(nil)

func (p *ExchangeRateAPIProvider) endpoint() (string, error) {
	if p.BaseURL == "" || p.APIKey == "" || p.Base == "" {
		return "", errors.New("exchangerateapi: missing configuration")
	}
	u, err := url.Parse(strings.TrimRight(p.BaseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("exchangerateapi: invalid base url: %w", err)
	}
	return u.JoinPath(p.APIKey, "latest", p.Base).String(), nil
}

func (p *ExchangeRateAPIProvider) Fetch(ctx context.Context) (domain.RatesPayload, error) {
	endpoint, err := p.endpoint()
	if err != nil {
		return domain.RatesPayload{}, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RatesPayload{}, fmt.Errorf("%w: exchangerateapi: create request: %v", domain.ErrNetworkFailure, err)
	}

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	var body domain.RatesPayload
	if err := client.DoJSON(ctx, req, &body); err != nil {
		return domain.RatesPayload{}, fmt.Errorf("%w: exchangerateapi: %v", domain.ErrNetworkFailure, err)
	}

	if body.Result != domain.ResultSuccess {
		reason := body.ErrorType
		if reason == "" {
			reason = "result=" + body.Result
		}
		return domain.RatesPayload{}, &domain.APIError{Reason: reason}
	}
	if len(body.ConversionRates) == 0 {
		return domain.RatesPayload{}, &domain.APIError{Reason: "invalid-rates"}
	}
	for _, r := range body.ConversionRates {
		if r <= 0 {
			return domain.RatesPayload{}, &domain.APIError{Reason: "invalid-rates"}
		}
	}
	if body.BaseCode == "" {
		body.BaseCode = p.Base
	}
	return body, nil
}
