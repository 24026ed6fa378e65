package domain

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
)

// Message is one transcript entry. Entries are never edited once appended.
type Message struct {
	Text          string `json:"text"`
	Sender        Sender `json:"sender"`
	IsInterrupted bool   `json:"is_interrupted"`
}

func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

func BotMessage(text string, interrupted bool) Message {
	return Message{Text: text, Sender: SenderBot, IsInterrupted: interrupted}
}

type ChatRequest struct {
	Message   string    `json:"message"`
	AccountID AccountID `json:"account_id"`
}

// ChatReply mirrors the backend payload; Response is nil when the server
// sent null.
type ChatReply struct {
	Response      *string `json:"response"`
	IsInterrupted bool    `json:"is_interrupted"`
}

func (r ChatReply) Text() string {
	if r.Response == nil {
		return ""
	}
	return *r.Response
}
