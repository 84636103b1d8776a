package email

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rsvptracker/internal/domain"
)

func TestTemplateRenderer_EmbeddedTemplates(t *testing.T) {
	r := NewTemplateRenderer()

	t.Run("event created", func(t *testing.T) {
		subject, html, text, err := r.Render(TemplateEventCreated, &domain.EventCreatedEmailData{
			Email:    "org@example.com",
			Title:    "Party",
			Date:     "2025-07-01",
			RSVPLink: "http://localhost:8000/rsvp/1",
		})
		require.NoError(t, err)
		assert.Equal(t, "Event Created", subject)
		assert.Contains(t, html, "http://localhost:8000/rsvp/1")
		assert.Contains(t, text, "2025-07-01")
	})

	t.Run("invitation escapes html", func(t *testing.T) {
		subject, html, text, err := r.Render(TemplateEventInvitation, &domain.EventInvitationEmailData{
			Title:       "<b>Party</b>",
			Date:        "2025-07-01",
			TimeWindow:  "All day",
			Location:    "N/A",
			Description: "N/A",
			RSVPLink:    "http://localhost:8000/rsvp/1",
		})
		require.NoError(t, err)
		assert.Equal(t, "You're Invited!", subject)
		assert.NotContains(t, html, "<b>Party</b>")
		assert.Contains(t, html, "&lt;b&gt;Party&lt;/b&gt;")
		assert.Contains(t, text, "<b>Party</b>")
		assert.Contains(t, text, "Time: All day")
	})

	t.Run("rsvp confirmation", func(t *testing.T) {
		subject, _, text, err := r.Render(TemplateRSVPConfirmation, &domain.RSVPConfirmationEmailData{
			Email:    "g@example.com",
			Title:    "Party",
			Location: "Park",
		})
		require.NoError(t, err)
		assert.Equal(t, "Event RSVP Confirmation", subject)
		assert.Contains(t, text, "Location: Park")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, _, err := r.Render("missing", nil)
		assert.Error(t, err)
	})
}

func TestTemplateRenderer_TextBodyOptional(t *testing.T) {
	r := newTemplateRenderer(fstest.MapFS{
		"hello_subject.txt": {Data: []byte("  Hello {{.}}  \n")},
		"hello.html":        {Data: []byte("<p>{{.}}</p>")},
	})

	subject, html, text, err := r.Render("hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", subject)
	assert.Equal(t, "<p>world</p>", html)
	assert.Empty(t, text)
}

func TestTemplateRenderer_ParseError(t *testing.T) {
	r := newTemplateRenderer(fstest.MapFS{
		"bad_subject.txt": {Data: []byte("{{.Oops")},
		"bad.html":        {Data: []byte("<p></p>")},
	})

	_, _, _, err := r.Render("bad", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render subject")
}
