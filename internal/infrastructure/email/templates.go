package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"gopkg.in/yaml.v3"

	vo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
)

//go:embed templates/*.yaml templates/*.html templates/*.txt
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// CommentFormatter turns the expert's markdown comment into email-safe output.
type CommentFormatter interface {
	ToHTML(src string) (htmltemplate.HTML, error)
	PlainText(src string) string
}

type manifest struct {
	SupportAddress string                   `yaml:"support_address"`
	Templates      map[string]manifestEntry `yaml:"templates"`
}

type manifestEntry struct {
	Subject string `yaml:"subject"`
	HTML    string `yaml:"html"`
	Text    string `yaml:"text"`
}

type compiled struct {
	subject  *texttemplate.Template
	html     *htmltemplate.Template
	htmlName string
	text     *texttemplate.Template
}

// Rendered is a ready-to-send message body.
type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

// view is the data every template executes with.
type view struct {
	Subject     string
	Data        map[string]string
	CommentHTML htmltemplate.HTML
	CommentText string
	Support     string
}

// Templates holds the compiled email templates listed in manifest.yaml.
type Templates struct {
	support  string
	entries  map[vo.NotificationKind]*compiled
	comments CommentFormatter
}

// LoadTemplates compiles the embedded templates. Every notification kind must have an entry.
func LoadTemplates(comments CommentFormatter) (*Templates, error) {
	raw, err := templateFS.ReadFile("templates/manifest.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read email manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse email manifest: %w", err)
	}

	t := &Templates{
		support:  m.SupportAddress,
		entries:  make(map[vo.NotificationKind]*compiled, len(m.Templates)),
		comments: comments,
	}
	for name, entry := range m.Templates {
		kind, err := vo.NewNotificationKind(name)
		if err != nil {
			return nil, fmt.Errorf("email manifest: %w", err)
		}
		c, err := compile(name, entry)
		if err != nil {
			return nil, err
		}
		t.entries[kind] = c
	}

	for _, kind := range []vo.NotificationKind{vo.KindCertificateIssued, vo.KindRejection, vo.KindPhotoRequest, vo.KindTest} {
		if _, ok := t.entries[kind]; !ok {
			return nil, fmt.Errorf("email manifest has no template for %s", kind)
		}
	}
	return t, nil
}

func compile(name string, entry manifestEntry) (*compiled, error) {
	subject, err := texttemplate.New(name + ".subject").Option("missingkey=zero").Parse(entry.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s subject: %w", name, err)
	}

	html, err := htmltemplate.New(name).Option("missingkey=zero").
		ParseFS(templateFS, layoutFile, "templates/"+entry.HTML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s html template: %w", name, err)
	}

	text, err := texttemplate.New(entry.Text).Option("missingkey=zero").
		ParseFS(templateFS, "templates/"+entry.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s text template: %w", name, err)
	}

	return &compiled{subject: subject, html: html, htmlName: entry.HTML, text: text}, nil
}

// Render executes the templates for kind with data as template variables.
func (t *Templates) Render(kind vo.NotificationKind, data map[string]string) (*Rendered, error) {
	c, ok := t.entries[kind]
	if !ok {
		return nil, fmt.Errorf("no email template for %s", kind)
	}
	if data == nil {
		data = map[string]string{}
	}

	v := view{Data: data, Support: t.support}

	// the subject only sees the raw variables
	var subject bytes.Buffer
	if err := c.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("failed to render %s subject: %w", kind, err)
	}
	v.Subject = subject.String()

	if comment := data["comment"]; comment != "" && t.comments != nil {
		commentHTML, err := t.comments.ToHTML(comment)
		if err != nil {
			return nil, fmt.Errorf("failed to render comment: %w", err)
		}
		v.CommentHTML = commentHTML
		v.CommentText = t.comments.PlainText(comment)
	} else {
		v.CommentText = comment
		v.CommentHTML = htmltemplate.HTML(htmltemplate.HTMLEscapeString(comment))
	}

	var html, text bytes.Buffer
	if err := c.html.ExecuteTemplate(&html, c.htmlName, v); err != nil {
		return nil, fmt.Errorf("failed to render %s html body: %w", kind, err)
	}
	if err := c.text.Execute(&text, v); err != nil {
		return nil, fmt.Errorf("failed to render %s text body: %w", kind, err)
	}

	return &Rendered{Subject: v.Subject, HTML: html.String(), Text: text.String()}, nil
}
