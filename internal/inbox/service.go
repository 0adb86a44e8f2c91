package inbox

import (
	"context"
	"sort"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/tg-translate-bridge/internal/ai"
)

const (
	// Telegram users write Korean, the operator reads and writes English.
	userLang     = ai.LangKorean
	operatorLang = ai.LangEnglish

	defaultTranslateTimeout = 20 * time.Second
	defaultDeliveryTimeout  = 10 * time.Second
)

type service struct {
	repo       Repo
	translator ai.Translator
	outbound   Outbound
	log        logrus.FieldLogger

	translateTimeout time.Duration
	deliveryTimeout  time.Duration
}

type Option func(*service)

func WithTimeouts(translate, delivery time.Duration) Option {
	return func(s *service) {
		if translate > 0 {
			s.translateTimeout = translate
		}
		if delivery > 0 {
			s.deliveryTimeout = delivery
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(s *service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(repo Repo, translator ai.Translator, outbound Outbound, opts ...Option) Service {
	s := &service{
		repo:             repo,
		translator:       translator,
		outbound:         outbound,
		log:              logrus.StandardLogger(),
		translateTimeout: defaultTranslateTimeout,
		deliveryTimeout:  defaultDeliveryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("component", "inbox")
	return s
}

// HandleInbound stores a private text message from Telegram. Anything else is
// ignored and reported with ok=false. Translation is best effort.
func (s *service) HandleInbound(ctx context.Context, u tgbotapi.Update) (Message, bool) {
	msg := u.Message
	if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() || msg.Text == "" {
		return Message{}, false
	}

	ctx = context.WithoutCancel(ctx)

	chatID := strconv.FormatInt(msg.Chat.ID, 10)
	var userID int64
	username := "Unknown"
	if msg.From != nil {
		userID = msg.From.ID
		switch {
		case msg.From.UserName != "":
			username = msg.From.UserName
		case msg.From.FirstName != "":
			username = msg.From.FirstName
		}
	}

	log := s.log.WithFields(logrus.Fields{"chat_id": chatID, "user_id": userID})
	log.Infof("received message from %s: %.180q", username, msg.Text)

	translated, err := s.translate(ctx, msg.Text, userLang, operatorLang)
	if err != nil {
		log.WithError(err).Warn("inbound translation failed, storing original text")
		translated = msg.Text
	}

	stored := s.repo.Append(Message{
		ChatID:            chatID,
		TelegramMessageID: int64(msg.MessageID),
		TelegramUserID:    userID,
		TelegramUsername:  username,
		Direction:         DirectionInbound,
		OriginalText:      msg.Text,
		TranslatedText:    translated,
		Language:          userLang,
		Status:            StatusSent,
	})
	return stored, true
}

// SendReply translates operator text, delivers it and records the attempt.
// A translation failure aborts before anything is sent or stored; a delivery
// failure is recorded as a failed message and then returned.
func (s *service) SendReply(ctx context.Context, chatID, text string) (Message, error) {
	ctx = context.WithoutCancel(ctx)
	log := s.log.WithField("chat_id", chatID)

	log.Infof("[step 1] translating reply %.180q", text)
	translated, err := s.translate(ctx, text, operatorLang, userLang)
	if err != nil {
		log.WithError(err).Error("[step 1] translation failed")
		return Message{}, newError(KindTranslation, ReasonTranslation, "", err)
	}

	numericID, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		s.recordFailed(chatID, 0, text, translated)
		log.WithError(err).Error("[step 2] chat id is not numeric")
		return Message{}, newError(KindDelivery, ReasonInvalidChatID, "invalid chat id "+strconv.Quote(chatID), nil)
	}

	log.Infof("[step 2] sending %.180q", translated)
	dctx, cancel := context.WithTimeout(ctx, s.deliveryTimeout)
	delivery, err := s.outbound.SendMessage(dctx, numericID, translated)
	cancel()
	if err != nil {
		s.recordFailed(chatID, numericID, text, translated)
		reason, detail := classifyDelivery(err)
		log.WithError(err).WithField("reason", reason).Error("[step 2] telegram send failed")
		return Message{}, newError(KindDelivery, reason, detail, err)
	}

	stored := s.repo.Append(Message{
		ChatID:            chatID,
		TelegramMessageID: delivery.MessageID,
		TelegramUserID:    numericID,
		Direction:         DirectionOutbound,
		OriginalText:      text,
		TranslatedText:    translated,
		Language:          operatorLang,
		Status:            StatusSent,
	})

	confirmedAt := delivery.ConfirmedAt
	if confirmedAt.IsZero() {
		confirmedAt = time.Now()
	}
	if updated, ok := s.repo.UpdateStatus(stored.ID, StatusSent, &confirmedAt); ok {
		stored = updated
	}

	log.WithField("telegram_message_id", delivery.MessageID).Info("[step 2] message sent")
	return stored, nil
}

func (s *service) ListConversations() []Conversation {
	return s.repo.AllConversations()
}

// ListMessages returns the conversation oldest first.
func (s *service) ListMessages(chatID string) []Message {
	msgs := s.repo.MessagesFor(chatID)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs
}

func (s *service) Translate(ctx context.Context, text string, from, to ai.Lang) (string, error) {
	return s.translate(ctx, text, from, to)
}

func (s *service) translate(ctx context.Context, text string, from, to ai.Lang) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, s.translateTimeout)
	defer cancel()
	return s.translator.Translate(tctx, text, from, to)
}

func (s *service) recordFailed(chatID string, userID int64, text, translated string) {
	s.repo.Append(Message{
		ChatID:         chatID,
		TelegramUserID: userID,
		Direction:      DirectionOutbound,
		OriginalText:   text,
		TranslatedText: translated,
		Language:       operatorLang,
		Status:         StatusFailed,
	})
}
