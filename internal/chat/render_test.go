package chat

import (
	"testing"

	domain "sheetchat/domain/chat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTranscriptNewestFirst(t *testing.T) {
	var tr domain.Transcript
	tr.Append(domain.SpeakerUser, "first question")
	tr.Append(domain.SpeakerAssistant, "first answer")
	tr.Append(domain.SpeakerUser, "second question")
	tr.Append(domain.SpeakerAssistant, "second answer")

	rendered := RenderTranscript(tr.Entries())
	require.Len(t, rendered, 4)
	assert.Equal(t, "second answer", rendered[0].Text)
	assert.Equal(t, "second question", rendered[1].Text)
	assert.True(t, rendered[1].IsUser)
	assert.False(t, rendered[0].IsUser)
	assert.Equal(t, "first question", rendered[3].Text)

	// rendering leaves the log in append order
	assert.Equal(t, "first question", tr.Entries()[0].Text)
}

func TestRenderEscapesUserAndFormatsAssistant(t *testing.T) {
	entries := []domain.Entry{
		{Speaker: domain.SpeakerUser, Text: "<b>bold?</b>"},
		{Speaker: domain.SpeakerAssistant, Text: "**Grace** is oldest <script>alert(1)</script>"},
	}

	rendered := RenderTranscript(entries)
	assert.Equal(t, "&lt;b&gt;bold?&lt;/b&gt;", string(rendered[1].HTML))
	assert.Contains(t, string(rendered[0].HTML), "<strong>Grace</strong>")
	assert.NotContains(t, string(rendered[0].HTML), "<script>")
}

func TestRenderDropsUnsafeLinks(t *testing.T) {
	entries := []domain.Entry{
		{Speaker: domain.SpeakerAssistant, Text: "See [details](javascript:alert(document.cookie)) or [docs](https://example.com/docs)."},
	}

	html := string(RenderTranscript(entries)[0].HTML)
	assert.NotContains(t, html, `href="javascript:`)
	assert.Contains(t, html, "details")
	assert.Contains(t, html, `href="https://example.com/docs"`)
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, RenderTranscript(nil))
}
