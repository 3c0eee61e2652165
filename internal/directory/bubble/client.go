// Package bubble talks to the Bubble.io Data API, which serves as the
// system of record for the employee directory.
package bubble

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// EmployeeRecord is one row of the Bubble "employee" data type.
type EmployeeRecord struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	JobTitle   string `json:"job_title"`
	Active     bool   `json:"active"`
}

type listResponse struct {
	Response struct {
		Results   []EmployeeRecord `json:"results"`
		Cursor    int              `json:"cursor"`
		Count     int              `json:"count"`
		Remaining int              `json:"remaining"`
	} `json:"response"`
}

type Config struct {
	BaseURL        string
	APIToken       string
	PageSize       int
	RequestTimeout time.Duration
}

type Client struct {
	baseURL    string
	apiToken   string
	pageSize   int
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("bubble: base URL is required")
	}
	if config.APIToken == "" {
		return nil, fmt.Errorf("bubble: API token is required")
	}

	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    config.BaseURL,
		apiToken:   config.APIToken,
		pageSize:   pageSize,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// FetchEmployees walks the cursor-paginated employee listing until Bubble
// reports no remaining rows.
func (c *Client) FetchEmployees(ctx context.Context) ([]EmployeeRecord, error) {
	var all []EmployeeRecord
	cursor := 0

	for {
		page, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		all = append(all, page.Response.Results...)

		c.logger.Debug("bubble: fetched employee page",
			"cursor", cursor,
			"count", page.Response.Count,
			"remaining", page.Response.Remaining)

		if page.Response.Remaining <= 0 || page.Response.Count == 0 {
			break
		}
		cursor = page.Response.Cursor + page.Response.Count
	}

	c.logger.Info("bubble: employee fetch complete", "total", len(all))
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, cursor int) (*listResponse, error) {
	endpoint, err := url.Parse(c.baseURL + "/api/1.1/obj/employee")
	if err != nil {
		return nil, fmt.Errorf("bubble: invalid base URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("cursor", strconv.Itoa(cursor))
	query.Set("limit", strconv.Itoa(c.pageSize))
	endpoint.RawQuery = query.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("bubble: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bubble: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bubble: API returned status %d", resp.StatusCode)
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("bubble: failed to decode response: %w", err)
	}
	return &page, nil
}
