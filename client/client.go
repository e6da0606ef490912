// Package client is a Go client for the Hindi Samiti API. It covers the
// public site endpoints, the registration workflow and the admin console
// surface, and keeps the bearer token in a Session so a 401 from any call
// clears stale credentials.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the server rejects the bearer token.
// The session is cleared before it is returned.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the message the server attached to a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	// ExistingStatus is set on duplicate-registration errors.
	ExistingStatus string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// Client talks to a Hindi Samiti server. Zero value is not usable; use New.
type Client struct {
	baseURL string
	http    *http.Client
	session Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSession supplies the session used for bearer tokens. Defaults to an
// in-memory session.
func WithSession(s Session) Option {
	return func(c *Client) { c.session = s }
}

// New creates a client for the server at baseURL (e.g. "https://api.example.com").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: NewMemorySession(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() Session { return c.session }

// AbsoluteMediaURL resolves a media path from the API against the server
// base. Absolute URLs (Cloudinary) pass through unchanged.
func (c *Client) AbsoluteMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error          string `json:"error"`
		Message        string `json:"message"`
		ExistingStatus string `json:"existing_status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = payload.Message
		}
		apiErr.ExistingStatus = payload.ExistingStatus
	}
	return apiErr
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	buf, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(buf), "application/json", out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	buf, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(buf), "application/json", out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// Admin identifies a logged-in administrator.
type Admin struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Login authenticates against /api/auth/login and stores the token and
// admin identity in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*Admin, error) {
	var resp struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"access_token"`
		Admin       Admin  `json:"admin"`
	}
	in := map[string]string{"username": username, "password": password}
	if err := c.postJSON(ctx, "/api/auth/login", in, &resp); err != nil {
		return nil, err
	}
	c.session.SetToken(resp.AccessToken)
	c.session.SetUser(&resp.Admin)
	return &resp.Admin, nil
}

// VerifyToken checks the stored token with the server. An invalid token
// clears the session and returns ErrUnauthorized.
func (c *Client) VerifyToken(ctx context.Context) (*Admin, error) {
	var resp struct {
		Valid bool  `json:"valid"`
		Admin Admin `json:"admin"`
	}
	if err := c.getJSON(ctx, "/api/admin/verify-token", &resp); err != nil {
		return nil, err
	}
	return &resp.Admin, nil
}

// Logout discards the local session. The server keeps no token state.
func (c *Client) Logout() { c.session.Clear() }

// FormField is one input of an event registration form.
type FormField struct {
	ID         uint   `json:"id"`
	Label      string `json:"label"`
	FieldType  string `json:"field_type"`
	IsRequired bool   `json:"is_required"`
	Order      int    `json:"order"`
}

// Event is an event as served by the API. Date is "YYYY-MM-DD".
type Event struct {
	ID            uint        `json:"id"`
	Name          string      `json:"name"`
	Date          string      `json:"date"`
	Description   string      `json:"description"`
	IsActive      bool        `json:"is_active"`
	CoverImageURL string      `json:"cover_image_url"`
	QRCodeURL     string      `json:"qr_code_url"`
	FormFields    []FormField `json:"form_fields"`
}

// Events lists public events, newest first. Set includeFormFields to also
// fetch each event's registration form.
func (c *Client) Events(ctx context.Context, includeFormFields bool) ([]Event, error) {
	path := "/api/events"
	if includeFormFields {
		path += "?include_form_fields=true"
	}
	var events []Event
	if err := c.getJSON(ctx, path, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Event fetches one active event with its form fields.
func (c *Client) Event(ctx context.Context, eventID uint) (*Event, error) {
	var event Event
	if err := c.getJSON(ctx, fmt.Sprintf("/api/events/%d", eventID), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// RegistrationCheck is the answer to "has this email registered already?".
type RegistrationCheck struct {
	Exists         bool   `json:"exists"`
	Status         string `json:"status"`
	RegistrationID uint   `json:"registration_id"`
	EventName      string `json:"event_name"`
	Timestamp      string `json:"timestamp"`
}

// CheckRegistration looks up an existing registration by event and email.
func (c *Client) CheckRegistration(ctx context.Context, eventID uint, email string) (*RegistrationCheck, error) {
	path := fmt.Sprintf("/api/events/%d/check-registration?email=%s", eventID, url.QueryEscape(email))
	var check RegistrationCheck
	if err := c.getJSON(ctx, path, &check); err != nil {
		return nil, err
	}
	return &check, nil
}

// UploadResult is the server's answer to a file upload.
type UploadResult struct {
	Success  bool   `json:"success"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	ImageURL string `json:"image_url"`
}

// UploadScreenshot sends a payment screenshot to /api/upload and returns
// the stored URL for use in a registration.
func (c *Client) UploadScreenshot(ctx context.Context, filename string, content io.Reader) (*UploadResult, error) {
	return c.uploadMultipart(ctx, "/api/upload", "file", filename, content, nil)
}

func (c *Client) uploadMultipart(ctx context.Context, path, field, filename string, content io.Reader, extra map[string]string) (*UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var result UploadResult
	if err := c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FieldResponse is one answered form field in a registration payload.
type FieldResponse struct {
	FieldID uint   `json:"field_id"`
	Value   string `json:"value"`
}

// RegistrationRequest creates a registration with a payment screenshot.
type RegistrationRequest struct {
	EventID       uint            `json:"event_id"`
	Email         string          `json:"email"`
	ScreenshotURL string          `json:"screenshot_url"`
	Responses     []FieldResponse `json:"responses,omitempty"`
}

// RegistrationResult is the server's answer to a new registration.
type RegistrationResult struct {
	Success        bool   `json:"success"`
	RegistrationID uint   `json:"registration_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	EventName      string `json:"event_name"`
	Timestamp      string `json:"timestamp"`
}

// Register submits a registration.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	var result RegistrationResult
	if err := c.postJSON(ctx, "/api/registrations", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RegistrationDetail is a single registration with labeled responses.
type RegistrationDetail struct {
	ID            uint              `json:"id"`
	EventID       uint              `json:"event_id"`
	EventName     string            `json:"event_name"`
	Email         string            `json:"email"`
	Status        string            `json:"status"`
	ScreenshotURL string            `json:"screenshot_url"`
	Timestamp     string            `json:"timestamp"`
	Responses     map[string]string `json:"responses"`
}

// Registration fetches one registration by id.
func (c *Client) Registration(ctx context.Context, registrationID uint) (*RegistrationDetail, error) {
	var detail RegistrationDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/registrations/%d", registrationID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Intro returns the homepage introduction text.
func (c *Client) Intro(ctx context.Context) (string, error) {
	var resp struct {
		Text string `json:"text"`
	}
	if err := c.getJSON(ctx, "/api/intro", &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Image is a carousel image.
type Image struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	Caption   string `json:"caption"`
	CreatedAt string `json:"created_at"`
}

// Images lists carousel images, newest first.
func (c *Client) Images(ctx context.Context) ([]Image, error) {
	var images []Image
	if err := c.getJSON(ctx, "/api/images", &images); err != nil {
		return nil, err
	}
	return images, nil
}

// TeamMember is one person on the roster.
type TeamMember struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// TeamMembers lists the roster.
func (c *Client) TeamMembers(ctx context.Context) ([]TeamMember, error) {
	var members []TeamMember
	if err := c.getJSON(ctx, "/api/team-members", &members); err != nil {
		return nil, err
	}
	return members, nil
}

// BlogButton is an optional call-to-action on a blog post.
type BlogButton struct {
	Label string `json:"label"`
	Link  string `json:"link"`
}

// Blog is a blog post.
type Blog struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Author        string      `json:"author"`
	CoverImageURL string      `json:"cover_image_url"`
	Button1       *BlogButton `json:"button1,omitempty"`
	Button2       *BlogButton `json:"button2,omitempty"`
	CreatedAt     string      `json:"created_at"`
}

// Blogs lists posts, newest first.
func (c *Client) Blogs(ctx context.Context) ([]Blog, error) {
	var blogs []Blog
	if err := c.getJSON(ctx, "/api/blogs", &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// BlogDetails fetches one post.
func (c *Client) BlogDetails(ctx context.Context, blogID uint) (*Blog, error) {
	var blog Blog
	if err := c.getJSON(ctx, fmt.Sprintf("/api/blogs/%d", blogID), &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}
