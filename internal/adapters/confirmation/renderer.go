// Package confirmation writes the per-guest HTML confirmation page produced after an RSVP.
package confirmation

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"rsvptracker/internal/domain"
)

// DefaultDir is used when no output directory is configured.
const DefaultDir = "rsvp_confirmations"

//go:embed confirmation.html
var pageTemplate string

var page = template.Must(template.New("confirmation").Parse(pageTemplate))

type pageData struct {
	Title       string
	Date        string
	TimeWindow  string
	Location    string
	Description string
	GuestEmail  string
	Status      string
	RSVPLink    string
}

type renderer struct {
	dir   string
	links domain.LinkBuilder
}

// NewRenderer returns a ConfirmationRenderer writing into dir. The directory is created on first use.
func NewRenderer(dir string, links domain.LinkBuilder) domain.ConfirmationRenderer {
	if dir == "" {
		dir = DefaultDir
	}
	return &renderer{dir: dir, links: links}
}

// Render writes the confirmation page for guestEmail and returns its path.
// An existing page for the same event and guest is replaced.
func (r *renderer) Render(event *domain.Event, guestEmail, status string) (string, error) {
	var buf bytes.Buffer
	err := page.Execute(&buf, pageData{
		Title:       event.Title,
		Date:        event.Date,
		TimeWindow:  event.TimeWindow(),
		Location:    event.LocationOrNA(),
		Description: event.DescriptionOrNA(),
		GuestEmail:  guestEmail,
		Status:      capitalize(status),
		RSVPLink:    r.links.RSVP(event.ID),
	})
	if err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create confirmations dir: %w", err)
	}
	path := filepath.Join(r.dir, FileName(event.ID, guestEmail))
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", err
	}
	return path, nil
}

// FileName returns rsvp_confirmation_{eventID}_{sanitized email}_{hash}.html. SanitizeEmail
// is lossy (a.b@x.com and a_b@x.com sanitize alike), so a short digest of the exact
// address keeps names distinct per guest.
func FileName(eventID int64, guestEmail string) string {
	sum := sha256.Sum256([]byte(guestEmail))
	return fmt.Sprintf("rsvp_confirmation_%d_%s_%s.html", eventID, SanitizeEmail(guestEmail), hex.EncodeToString(sum[:4]))
}

// SanitizeEmail maps "@" to "_at_", "." to "_" and anything else outside [A-Za-z0-9_-] to "_".
func SanitizeEmail(email string) string {
	var b strings.Builder
	for _, c := range email {
		switch {
		case c == '@':
			b.WriteString("_at_")
		case c == '-' || c == '_',
			c < utf8.RuneSelf && (unicode.IsLetter(c) || unicode.IsDigit(c)):
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[n:]
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".confirmation-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename confirmation: %w", err)
	}
	return nil
}
