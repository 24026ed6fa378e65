package transcript

import (
	"bytes"
	"fmt"
	"html"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var messagePolicy = bluemonday.UGCPolicy()

// MarkdownToHTML converts one message to sanitized HTML. Raw HTML in the
// message is stripped down to the UGC allow-list.
func MarkdownToHTML(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(text))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	unsafe := markdown.Render(doc, renderer)

	return string(messagePolicy.SanitizeBytes(unsafe))
}

func HTMLDocument(messages []domain.Message) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n", html.EscapeString(Title))
	buf.WriteString("<style>.chat-message{margin:8px 0;padding:8px;border-radius:6px}.user{background:#e3f2fd}.bot{background:#f5f5f5}.interrupted{background:yellow}</style>\n")
	buf.WriteString("</head>\n<body>\n<div class=\"chat-container\">\n")
	fmt.Fprintf(&buf, "<div class=\"chat-header\">%s</div>\n", html.EscapeString(Title))

	for _, message := range messages {
		class := "chat-message " + string(message.Sender)
		if message.IsInterrupted {
			class += " interrupted"
		}
		fmt.Fprintf(&buf, "<div class=\"%s\">\n%s</div>\n", html.EscapeString(class), MarkdownToHTML(message.Text))
	}

	buf.WriteString("</div>\n</body>\n</html>\n")
	return buf.Bytes()
}
