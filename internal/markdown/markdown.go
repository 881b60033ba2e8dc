// Package markdown renders user-authored post and comment bodies into HTML
// that is safe to embed. Raw markdown stays the stored source of truth; the
// rendered form is attached to API responses only.
package markdown

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render converts markdown to sanitized HTML. Anything the policy rejects
// (scripts, event handlers, raw iframes) is stripped, never escaped back in.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return strings.TrimSpace(r.policy.Sanitize(buf.String())), nil
}
