package inbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramOutbound struct {
	bot    *tgbotapi.BotAPI
	client *http.Client
	now    func() time.Time
}

// NewTelegramOutbound builds the Bot API client. It calls getMe once, so a bad
// token fails at startup rather than on the first reply.
func NewTelegramOutbound(baseURL, token string) (*TelegramOutbound, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram: TELEGRAM_BOT_TOKEN not set")
	}

	endpoint := tgbotapi.APIEndpoint
	if baseURL != "" {
		endpoint = strings.TrimRight(baseURL, "/") + "/bot%s/%s"
	}

	client := &http.Client{}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, tokenSafeClient{base: client})
	if err != nil {
		return nil, fmt.Errorf("telegram: init bot: %w", err)
	}

	return &TelegramOutbound{
		bot:    bot,
		client: client,
		now:    time.Now,
	}, nil
}

// SendMessage delivers text to a private chat. The deadline comes from ctx.
func (c *TelegramOutbound) SendMessage(ctx context.Context, chatID int64, text string) (Delivery, error) {
	// BotAPI builds requests without a context; a per-call copy carries ctx in its client.
	bot := *c.bot
	bot.Client = tokenSafeClient{base: c.client, ctx: ctx}

	sent, err := bot.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return Delivery{}, fmt.Errorf("telegram sendMessage: %w", err)
	}

	return Delivery{MessageID: int64(sent.MessageID), ConfirmedAt: c.now()}, nil
}

// tokenSafeClient binds requests to ctx and drops the token-bearing URL from
// transport errors.
type tokenSafeClient struct {
	base *http.Client
	ctx  context.Context
}

func (c tokenSafeClient) Do(req *http.Request) (*http.Response, error) {
	if c.ctx != nil {
		req = req.WithContext(c.ctx)
	}
	resp, err := c.base.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, urlErr.Err
		}
		return nil, err
	}
	return resp, nil
}
