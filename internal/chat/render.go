package chat

import (
	"html"
	"html/template"

	domain "sheetchat/domain/chat"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderedEntry is a transcript line ready for the page
type RenderedEntry struct {
	Speaker string        `json:"speaker"`
	Text    string        `json:"text"`
	IsUser  bool          `json:"is_user"`
	HTML    template.HTML `json:"-"`
}

// RenderTranscript returns the entries newest-first. Assistant text is rendered
// as Markdown with raw HTML dropped; user text is escaped verbatim.
func RenderTranscript(entries []domain.Entry) []RenderedEntry {
	out := make([]RenderedEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		r := RenderedEntry{
			Speaker: string(e.Speaker),
			Text:    e.Text,
			IsUser:  e.Speaker == domain.SpeakerUser,
		}
		if r.IsUser {
			r.HTML = template.HTML(html.EscapeString(e.Text))
		} else {
			r.HTML = renderMarkdown(e.Text)
		}
		out = append(out, r)
	}
	return out
}

func renderMarkdown(text string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.Safelink | mdhtml.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML([]byte(text), p, renderer))
}
