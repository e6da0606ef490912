package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// Field types a registration form can render. Anything else coming off
// the wire is treated as text.
const (
	FieldText     = "text"
	FieldEmail    = "email"
	FieldTextarea = "textarea"
	FieldNumber   = "number"
	FieldTel      = "tel"
	FieldImage    = "image"
)

var knownFieldTypes = map[string]bool{
	FieldText:     true,
	FieldEmail:    true,
	FieldTextarea: true,
	FieldNumber:   true,
	FieldTel:      true,
	FieldImage:    true,
}

// NormalizeFieldType maps an unknown field type to text.
func NormalizeFieldType(fieldType string) string {
	if knownFieldTypes[fieldType] {
		return fieldType
	}
	return FieldText
}

// DefaultFormFields is the starting field set for a newly created
// event in the admin form builder.
func DefaultFormFields() []FormField {
	return []FormField{
		{Label: "Full Name", FieldType: FieldText, IsRequired: true, Order: 0},
		{Label: "Email", FieldType: FieldEmail, IsRequired: true, Order: 1},
	}
}

// maxScreenshotSize mirrors the server-side upload cap.
const maxScreenshotSize = 5 * 1024 * 1024

var screenshotExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Screenshot is a payment screenshot selected by the registrant.
type Screenshot struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Form drives a registration form for one event: it orders the fields,
// validates the registrant's answers and submits them with the payment
// screenshot.
type Form struct {
	Event  *Event
	Fields []FormField

	Email      string
	Answers    map[uint]string
	Screenshot *Screenshot
}

// NewForm builds a form for an event. Fields are sorted by their order
// attribute; ties keep the server's ordering.
func NewForm(event *Event) *Form {
	fields := make([]FormField, len(event.FormFields))
	copy(fields, event.FormFields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
	return &Form{
		Event:   event,
		Fields:  fields,
		Answers: make(map[uint]string),
	}
}

// SetAnswer records the registrant's answer for a field.
func (f *Form) SetAnswer(fieldID uint, value string) {
	f.Answers[fieldID] = value
}

// ValidationError lists everything that keeps a form from being
// submitted: the email problem, per-field problems keyed by field id,
// and screenshot problems. All blockers are reported at once.
type ValidationError struct {
	EmailProblem       string
	FieldProblems      map[uint]string
	ScreenshotProblems []string
}

func (e *ValidationError) empty() bool {
	return e.EmailProblem == "" && len(e.FieldProblems) == 0 && len(e.ScreenshotProblems) == 0
}

func (e *ValidationError) Error() string {
	var parts []string
	if e.EmailProblem != "" {
		parts = append(parts, e.EmailProblem)
	}
	fieldMsgs := make([]string, 0, len(e.FieldProblems))
	for _, msg := range e.FieldProblems {
		fieldMsgs = append(fieldMsgs, msg)
	}
	sort.Strings(fieldMsgs)
	parts = append(parts, fieldMsgs...)
	parts = append(parts, e.ScreenshotProblems...)
	return "form is not complete: " + strings.Join(parts, "; ")
}

// Validate checks the email, the required fields and the screenshot.
// Whitespace-only answers do not satisfy a required field.
func (f *Form) Validate() error {
	verr := &ValidationError{FieldProblems: make(map[uint]string)}

	email := strings.ToLower(strings.TrimSpace(f.Email))
	if email == "" {
		verr.EmailProblem = "email is required"
	} else if !emailShape(email) {
		verr.EmailProblem = "email is not valid"
	}

	for _, field := range f.Fields {
		if !field.IsRequired {
			continue
		}
		if strings.TrimSpace(f.Answers[field.ID]) == "" {
			verr.FieldProblems[field.ID] = field.Label + " is required"
		}
	}

	if f.Screenshot == nil {
		verr.ScreenshotProblems = append(verr.ScreenshotProblems, "payment screenshot is required")
	} else {
		if f.Screenshot.Size > maxScreenshotSize {
			verr.ScreenshotProblems = append(verr.ScreenshotProblems, "screenshot exceeds the 5MB limit")
		}
		ext := strings.ToLower(filepath.Ext(f.Screenshot.Filename))
		if !screenshotExtensions[ext] {
			verr.ScreenshotProblems = append(verr.ScreenshotProblems, "screenshot must be a PNG, JPG, JPEG or GIF file")
		}
	}

	if !verr.empty() {
		return verr
	}
	return nil
}

func emailShape(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}

// Submit validates the form, uploads the screenshot and creates the
// registration. The upload happens first; if it fails the registration
// is not attempted. Empty answers are dropped from the payload.
func (f *Form) Submit(ctx context.Context, c *Client) (*RegistrationResult, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	upload, err := c.UploadScreenshot(ctx, f.Screenshot.Filename, f.Screenshot.Content)
	if err != nil {
		return nil, fmt.Errorf("screenshot upload failed: %w", err)
	}

	responses := make([]FieldResponse, 0, len(f.Fields))
	for _, field := range f.Fields {
		value := strings.TrimSpace(f.Answers[field.ID])
		if value == "" {
			continue
		}
		responses = append(responses, FieldResponse{FieldID: field.ID, Value: value})
	}

	return c.Register(ctx, RegistrationRequest{
		EventID:       f.Event.ID,
		Email:         strings.ToLower(strings.TrimSpace(f.Email)),
		ScreenshotURL: upload.URL,
		Responses:     responses,
	})
}

// RenumberFields rewrites the order attribute of a field list to a
// contiguous 0..n-1 run, keeping the current visual order. Used by the
// admin form builder after drag-and-drop or deletion.
func RenumberFields(fields []FormField) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
	for i := range fields {
		fields[i].Order = i
	}
}
