package transcript

import (
	"fmt"
	"strings"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	Title          = "Spaceo Chatbot"
	LoadingMessage = "Processing your request..."
	defaultWidth   = 80
	StyleAuto      = "auto"
)

type RenderOptions struct {
	Width int
	// Style is a glamour standard style name ("dark", "light", "notty",
	// "ascii") or "auto" to detect from the terminal.
	Style string
}

// Renderer turns transcript messages into terminal text. Bot and user text
// is treated as Markdown.
type Renderer struct {
	markdown *glamour.TermRenderer
	styles   styles
}

func NewRenderer(opts RenderOptions) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	styleOption := glamour.WithAutoStyle()
	if style := strings.TrimSpace(opts.Style); style != "" && style != StyleAuto {
		styleOption = glamour.WithStandardStyle(style)
	}

	r := &Renderer{styles: newStyles()}
	if markdown, err := glamour.NewTermRenderer(styleOption, glamour.WithWordWrap(width)); err == nil {
		r.markdown = markdown
	}

	return r
}

func (r *Renderer) Header(accountID domain.AccountID) string {
	lines := []string{r.styles.title.Render(Title)}
	if !accountID.IsZero() {
		lines = append(lines, r.styles.header.Render(fmt.Sprintf("account: %s", accountID)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Transcript(messages []domain.Message, status domain.Status) string {
	if len(messages) == 0 && status != domain.StatusLoading {
		return r.styles.empty.Render("No messages yet.")
	}

	blocks := make([]string, 0, len(messages)+1)
	for _, message := range messages {
		blocks = append(blocks, r.Message(message))
	}
	if status == domain.StatusLoading {
		blocks = append(blocks, r.Loading())
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (r *Renderer) Message(message domain.Message) string {
	if message.Sender == domain.SenderUser {
		return r.styles.userLabel.Render("you ›") + " " + r.styles.userText.Render(message.Text)
	}

	label := r.styles.botLabel.Render("bot ›")
	if message.IsInterrupted {
		label += " " + r.styles.interrupted.Render(" needs input ")
	}

	return lipgloss.JoinVertical(lipgloss.Left, label, r.markdownText(message.Text))
}

func (r *Renderer) Loading() string {
	return r.styles.botLabel.Render("bot ›") + " " + r.styles.loading.Render(LoadingMessage)
}

// Pool renders the remaining share of the account pool as a bar.
func (r *Renderer) Pool(current domain.AccountID, pool domain.AccountPool, capacity int) string {
	lines := []string{r.styles.title.Render("Account pool")}
	if current.IsZero() {
		lines = append(lines, r.styles.header.Render("session account: none"))
	} else {
		lines = append(lines, r.styles.header.Render(fmt.Sprintf("session account: %s", current)))
	}

	if capacity < len(pool) {
		capacity = len(pool)
	}
	bar := r.progressBar(len(pool), capacity, 20)
	lines = append(lines, fmt.Sprintf("available: %s %d/%d", bar, len(pool), capacity))

	if len(pool) == 0 {
		lines = append(lines, r.styles.empty.Render("next session resets the pool"))
	} else {
		lines = append(lines, fmt.Sprintf("next: %s", pool[len(pool)-1]))
		lines = append(lines, fmt.Sprintf("ids: %s", strings.Join(pool.Strings(), ", ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) markdownText(text string) string {
	if r.markdown == nil {
		return text
	}

	rendered, err := r.markdown.Render(text)
	if err != nil {
		return text
	}

	return strings.Trim(rendered, "\n")
}

func (r *Renderer) progressBar(filled, total, width int) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	cells := filled * width / total
	if cells < 0 {
		cells = 0
	}
	if cells > width {
		cells = width
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		r.styles.barBracket.Render("["),
		r.styles.barFill.Render(strings.Repeat("=", cells)),
		r.styles.barEmpty.Render(strings.Repeat("-", width-cells)),
		r.styles.barBracket.Render("]"),
	)
}
