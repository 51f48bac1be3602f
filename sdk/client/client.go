package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Config represents the configuration for the tenant directory client
type Config struct {
	// BaseURL is the base URL of the tenant directory service
	BaseURL string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the tenant directory service client
type Client struct {
	config *Config
	client *http.Client
	token  string
}

// NewClient creates a new tenant directory client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// SetToken installs the bearer token used for protected operations.
// Login sets it automatically on success.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Organization mirrors the directory record returned by the service
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"organization_name"`
	PartitionID string    `json:"partition_id"`
	AdminID     string    `json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateOrganizationRequest represents an organization creation request
type CreateOrganizationRequest struct {
	OrganizationName string `json:"organization_name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// OrganizationResponse represents an organization response
type OrganizationResponse struct {
	Ok           bool          `json:"ok"`
	Organization *Organization `json:"organization"`
	Error        string        `json:"error,omitempty"`
}

// CreateOrganization provisions a new organization with its admin
func (c *Client) CreateOrganization(ctx context.Context, req *CreateOrganizationRequest) (*Organization, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.OrganizationName == "" || req.Email == "" || req.Password == "" {
		return nil, errors.New("organization_name, email, and password are required")
	}

	endpoint := fmt.Sprintf("%s/org/create", c.config.BaseURL)
	var resp OrganizationResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return resp.Organization, nil
}

// GetOrganization resolves an organization by display name. The lookup
// is case-insensitive on the server side.
func (c *Client) GetOrganization(ctx context.Context, organizationName string) (*Organization, error) {
	if organizationName == "" {
		return nil, errors.New("organization_name is required")
	}

	endpoint := fmt.Sprintf("%s/org/get?organization_name=%s", c.config.BaseURL, url.QueryEscape(organizationName))
	var resp OrganizationResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return resp.Organization, nil
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents an admin login response
type LoginResponse struct {
	Ok    bool   `json:"ok"`
	Token string `json:"token"`
	Error string `json:"error,omitempty"`
}

// Login authenticates an admin and stores the returned bearer token on
// the client for subsequent protected calls
func (c *Client) Login(ctx context.Context, req *LoginRequest) (string, error) {
	if req == nil {
		return "", errors.New("request cannot be nil")
	}

	if req.Email == "" || req.Password == "" {
		return "", errors.New("email and password are required")
	}

	endpoint := fmt.Sprintf("%s/admin/login", c.config.BaseURL)
	var resp LoginResponse
	if err := c.post(ctx, endpoint, req, &resp); err != nil {
		return "", fmt.Errorf("failed to login: %w", err)
	}

	if resp.Error != "" {
		return "", errors.New(resp.Error)
	}

	c.token = resp.Token
	return resp.Token, nil
}

// RenameOrganizationRequest represents an organization rename request
type RenameOrganizationRequest struct {
	OldOrganizationName string `json:"old_organization_name"`
	NewOrganizationName string `json:"new_organization_name"`
}

// RenameOrganization renames the caller's organization, migrating its
// tenant partition. Requires a token for the organization being renamed.
func (c *Client) RenameOrganization(ctx context.Context, req *RenameOrganizationRequest) (*Organization, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if req.OldOrganizationName == "" || req.NewOrganizationName == "" {
		return nil, errors.New("old_organization_name and new_organization_name are required")
	}

	endpoint := fmt.Sprintf("%s/org/update", c.config.BaseURL)
	var resp OrganizationResponse
	if err := c.put(ctx, endpoint, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to rename organization: %w", err)
	}

	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return resp.Organization, nil
}

// DeleteOrganizationRequest represents an organization deletion request
type DeleteOrganizationRequest struct {
	OrganizationName string `json:"organization_name"`
}

// DeleteOrganization removes the caller's organization, its admins and
// its tenant partition. Requires a token for the organization being
// deleted.
func (c *Client) DeleteOrganization(ctx context.Context, req *DeleteOrganizationRequest) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}

	if req.OrganizationName == "" {
		return errors.New("organization_name is required")
	}

	endpoint := fmt.Sprintf("%s/org/delete", c.config.BaseURL)
	return c.delete(ctx, endpoint, req)
}

// AuditLog mirrors a lifecycle audit entry returned by the service
type AuditLog struct {
	ID               string                 `json:"id"`
	Action           string                 `json:"action"`
	OrganizationName string                 `json:"organization_name"`
	ActorEmail       string                 `json:"actor_email"`
	Detail           map[string]interface{} `json:"detail"`
	CreatedAt        time.Time              `json:"created_at"`
}

// AuditLogsResponse represents an audit log list response
type AuditLogsResponse struct {
	Ok    bool       `json:"ok"`
	Logs  []AuditLog `json:"logs"`
	Total int64      `json:"total"`
	Error string     `json:"error,omitempty"`
}

// ListAuditLogs retrieves the caller's organization audit trail
func (c *Client) ListAuditLogs(ctx context.Context, action string, limit, offset int) (*AuditLogsResponse, error) {
	query := url.Values{}
	if action != "" {
		query.Set("action", action)
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		query.Set("offset", fmt.Sprintf("%d", offset))
	}

	endpoint := fmt.Sprintf("%s/audit/logs", c.config.BaseURL)
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var resp AuditLogsResponse
	if err := c.get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return &resp, nil
}

// APIError defines a standardized error response from the API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
}

func (c *Client) post(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	return c.send(ctx, http.MethodPost, endpoint, req, resp)
}

func (c *Client) put(ctx context.Context, endpoint string, req interface{}, resp interface{}) error {
	return c.send(ctx, http.MethodPut, endpoint, req, resp)
}

func (c *Client) delete(ctx context.Context, endpoint string, req interface{}) error {
	return c.send(ctx, http.MethodDelete, endpoint, req, nil)
}

// send performs a request with a JSON body and unmarshals the response
// into the specified response object when one is given
func (c *Client) send(ctx context.Context, method, endpoint string, req interface{}, resp interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return decodeAPIError(httpResp)
	}

	if resp == nil {
		return nil
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// get performs a GET request to the specified endpoint and unmarshals
// the response into the specified response object
func (c *Client) get(ctx context.Context, endpoint string, resp interface{}) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return decodeAPIError(httpResp)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeAPIError(httpResp *http.Response) error {
	var apiErr APIError
	if err := json.NewDecoder(httpResp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Message:    fmt.Sprintf("request failed with status code %d", httpResp.StatusCode),
		}
	}

	apiErr.StatusCode = httpResp.StatusCode
	return &apiErr
}
