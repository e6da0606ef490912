package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// EventInput is the payload for creating or updating an event. Date is
// "YYYY-MM-DD". FormFields replaces the event's form wholesale.
type EventInput struct {
	Name          string      `json:"name"`
	Date          string      `json:"date"`
	Description   string      `json:"description"`
	IsActive      *bool       `json:"is_active,omitempty"`
	CoverImageURL string      `json:"cover_image_url,omitempty"`
	QRCodeURL     string      `json:"qr_code_url,omitempty"`
	FormFields    []FormField `json:"formFields,omitempty"`
}

// AdminEvents lists all events including inactive ones.
func (c *Client) AdminEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.getJSON(ctx, "/api/admin/events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent creates an event and returns its id.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (uint, error) {
	var resp struct {
		ID uint `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/admin/events", in, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateEvent updates an event. When FormFields is non-nil the server
// replaces the whole field set.
func (c *Client) UpdateEvent(ctx context.Context, eventID uint, in EventInput) error {
	return c.putJSON(ctx, fmt.Sprintf("/api/admin/events/%d", eventID), in, nil)
}

// DeleteEvent removes an event and everything attached to it.
func (c *Client) DeleteEvent(ctx context.Context, eventID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/events/%d", eventID))
}

// UploadEventCover uploads an event cover image and returns its URL.
func (c *Client) UploadEventCover(ctx context.Context, filename string, content io.Reader) (string, error) {
	result, err := c.uploadMultipart(ctx, "/api/admin/events/upload-cover-image", "image", filename, content, nil)
	if err != nil {
		return "", err
	}
	return result.ImageURL, nil
}

// UploadEventQR uploads a payment QR code image and returns its URL.
func (c *Client) UploadEventQR(ctx context.Context, filename string, content io.Reader) (string, error) {
	result, err := c.uploadMultipart(ctx, "/api/admin/events/upload-qr", "image", filename, content, nil)
	if err != nil {
		return "", err
	}
	return result.ImageURL, nil
}

// Registrations lists an event's registrations, newest first.
func (c *Client) Registrations(ctx context.Context, eventID uint) ([]RegistrationDetail, error) {
	var regs []RegistrationDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/admin/registrations/%d", eventID), &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// UpdateRegistrationStatus verifies or rejects a registration.
func (c *Client) UpdateRegistrationStatus(ctx context.Context, registrationID uint, status string) error {
	in := map[string]string{"status": status}
	return c.putJSON(ctx, fmt.Sprintf("/api/admin/registrations/%d/status", registrationID), in, nil)
}

// CSVExport is a registration export ready to save to disk.
type CSVExport struct {
	Filename string
	Content  []byte
}

// DownloadRegistrations fetches an event's registrations as CSV. The
// filename comes from the Content-Disposition header.
func (c *Client) DownloadRegistrations(ctx context.Context, eventID uint) (*CSVExport, error) {
	path := fmt.Sprintf("/api/admin/registrations/%d/download", eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return nil, ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("registrations_event_%d.csv", eventID)
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if name := params["filename"]; name != "" {
			filename = name
		}
	}
	return &CSVExport{Filename: filename, Content: content}, nil
}

// Screenshot fetches a registration's payment screenshot. The server may
// answer with the bytes or redirect to a CDN; redirects are followed.
func (c *Client) Screenshot(ctx context.Context, registrationID uint) ([]byte, string, error) {
	path := fmt.Sprintf("/api/admin/registrations/%d/screenshot", registrationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
		return nil, "", ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", decodeAPIError(resp)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return content, resp.Header.Get("Content-Type"), nil
}

// FixSchema runs the server's manual column migration. Harmless when
// the schema is already current.
func (c *Client) FixSchema(ctx context.Context) error {
	return c.postJSON(ctx, "/api/admin/fix-schema", map[string]string{}, nil)
}

// UpdateIntro replaces the homepage introduction text.
func (c *Client) UpdateIntro(ctx context.Context, text string) error {
	in := map[string]string{"text": text}
	return c.putJSON(ctx, "/api/admin/intro", in, nil)
}

// UploadImage adds a carousel image with an optional caption.
func (c *Client) UploadImage(ctx context.Context, filename string, content io.Reader, caption string) (*UploadResult, error) {
	extra := map[string]string{"caption": caption}
	return c.uploadMultipart(ctx, "/api/admin/images", "image", filename, content, extra)
}

// DeleteImage removes a carousel image.
func (c *Client) DeleteImage(ctx context.Context, imageID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/images/%d", imageID))
}

// TeamMemberInput is the payload for creating or updating a roster entry.
type TeamMemberInput struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	ImageURL    string `json:"image_url,omitempty"`
	Description string `json:"description,omitempty"`
}

// CreateTeamMember adds a person to the roster and returns their id.
func (c *Client) CreateTeamMember(ctx context.Context, in TeamMemberInput) (uint, error) {
	var resp struct {
		ID uint `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/admin/team", in, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateTeamMember edits a roster entry.
func (c *Client) UpdateTeamMember(ctx context.Context, memberID uint, in TeamMemberInput) error {
	return c.putJSON(ctx, fmt.Sprintf("/api/admin/team/%d", memberID), in, nil)
}

// DeleteTeamMember removes a roster entry.
func (c *Client) DeleteTeamMember(ctx context.Context, memberID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/team/%d", memberID))
}

// UploadTeamMemberImage uploads a roster photo and returns its URL.
func (c *Client) UploadTeamMemberImage(ctx context.Context, filename string, content io.Reader) (string, error) {
	result, err := c.uploadMultipart(ctx, "/api/admin/team/upload-image", "image", filename, content, nil)
	if err != nil {
		return "", err
	}
	return result.ImageURL, nil
}

// BlogInput is the payload for creating or updating a post.
type BlogInput struct {
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Author        string      `json:"author,omitempty"`
	CoverImageURL string      `json:"cover_image_url,omitempty"`
	Button1       *BlogButton `json:"button1,omitempty"`
	Button2       *BlogButton `json:"button2,omitempty"`
}

// CreateBlog publishes a post and returns its id.
func (c *Client) CreateBlog(ctx context.Context, in BlogInput) (uint, error) {
	var resp struct {
		ID uint `json:"id"`
	}
	if err := c.postJSON(ctx, "/api/admin/blogs", in, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// UpdateBlog edits a post. Empty fields are left unchanged.
func (c *Client) UpdateBlog(ctx context.Context, blogID uint, in BlogInput) error {
	return c.putJSON(ctx, fmt.Sprintf("/api/admin/blogs/%d", blogID), in, nil)
}

// DeleteBlog removes a post.
func (c *Client) DeleteBlog(ctx context.Context, blogID uint) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/blogs/%d", blogID))
}

// UploadBlogCover uploads a post cover image and returns its URL.
func (c *Client) UploadBlogCover(ctx context.Context, filename string, content io.Reader) (string, error) {
	result, err := c.uploadMultipart(ctx, "/api/admin/blogs/upload-cover", "image", filename, content, nil)
	if err != nil {
		return "", err
	}
	return result.ImageURL, nil
}
