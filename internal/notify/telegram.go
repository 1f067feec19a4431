package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends notifications to a single chat through the Bot API.
type Telegram struct {
	token    string
	chatID   int64
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	api *tgbotapi.BotAPI
}

func NewTelegram(token string, chatID int64, timeout time.Duration) *Telegram {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Telegram{
		token:    token,
		chatID:   chatID,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// WithEndpoint points the client at another Bot API server. The endpoint is a
// format string taking the token and the method name.
func (t *Telegram) WithEndpoint(endpoint string) *Telegram {
	t.endpoint = endpoint
	return t
}

func (t *Telegram) Name() string { return "Telegram" }

func (t *Telegram) Description() string {
	return "Send reminders to a Telegram chat through a bot"
}

// IsAvailable checks the credentials with getMe. A successful check is cached.
func (t *Telegram) IsAvailable() bool {
	_, err := t.connect()
	return err == nil
}

func (t *Telegram) Send(ctx context.Context, n Notification) Result {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	api, err := t.connect()
	if err != nil {
		return failed(err)
	}

	text := fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(n.Title), html.EscapeString(n.Message))
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableNotification = n.Urgency == UrgencyLow

	sent, err := api.Send(msg)
	if err != nil {
		return failed(fmt.Errorf("send telegram message: %w", err))
	}
	return Result{Action: ActionDelivered, NotificationID: strconv.Itoa(sent.MessageID)}
}

func (t *Telegram) connect() (*tgbotapi.BotAPI, error) {
	if t.token == "" || t.chatID == 0 {
		return nil, errors.New("telegram token and chat id are required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.api != nil {
		return t.api, nil
	}
	api, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	t.api = api
	return api, nil
}
