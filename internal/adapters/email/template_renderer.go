package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"sync"
	texttemplate "text/template"

	"rsvptracker/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// Template names shipped with the renderer.
const (
	TemplateEventCreated     = "event_created"
	TemplateEventInvitation  = "event_invitation"
	TemplateRSVPConfirmation = "rsvp_confirmation"
)

// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
// Parsed templates are cached by file name.
type templateRenderer struct {
	fsys fs.FS

	mu    sync.Mutex
	html  map[string]*template.Template
	plain map[string]*texttemplate.Template
}

// NewTemplateRenderer returns an EmailTemplateRenderer backed by the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	sub, _ := fs.Sub(templateFS, "templates")
	return newTemplateRenderer(sub)
}

func newTemplateRenderer(fsys fs.FS) *templateRenderer {
	return &templateRenderer{
		fsys:  fsys,
		html:  make(map[string]*template.Template),
		plain: make(map[string]*texttemplate.Template),
	}
}

// Render executes the named template (e.g. "event_created") with data and returns the subject
// and both bodies. The subject and HTML files are required, the text file is optional.
func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.renderText(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.renderHTML(templateName+".html", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.renderText(templateName+".txt", data)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func (r *templateRenderer) renderHTML(name string, data any) (string, error) {
	r.mu.Lock()
	t, ok := r.html[name]
	if !ok {
		raw, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		t, err = template.New(name).Parse(string(raw))
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.html[name] = t
	}
	r.mu.Unlock()

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *templateRenderer) renderText(name string, data any) (string, error) {
	r.mu.Lock()
	t, ok := r.plain[name]
	if !ok {
		raw, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		t, err = texttemplate.New(name).Parse(string(raw))
		if err != nil {
			r.mu.Unlock()
			return "", err
		}
		r.plain[name] = t
	}
	r.mu.Unlock()

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
