package inbox

import (
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ErrorKind string

const (
	KindTranslation ErrorKind = "TRANSLATION_ERROR"
	KindDelivery    ErrorKind = "DELIVERY_ERROR"
)

// Reason narrows a delivery failure down to something the operator can act on.
type Reason string

const (
	ReasonTranslation   Reason = "translation_failed"
	ReasonBlocked       Reason = "blocked"
	ReasonBadRequest    Reason = "bad_request"
	ReasonInvalidChatID Reason = "invalid_chat_id"
	ReasonProvider      Reason = "provider_error"
)

// Error is returned by SendReply. Err is the gateway error it wraps.
type Error struct {
	Kind   ErrorKind
	Reason Reason
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("inbox: %s (%s)", e.Kind, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Hint is an operator-facing explanation of what probably went wrong.
func (e *Error) Hint() string {
	switch e.Reason {
	case ReasonTranslation:
		return "Translation error - check OpenAI API key and quota"
	case ReasonBlocked:
		return "Bot is blocked by user or user has not started conversation with bot"
	case ReasonBadRequest:
		return "Telegram rejected the request as invalid"
	case ReasonInvalidChatID:
		return "Chat id is not a numeric Telegram chat id"
	}
	return "Telegram error - check server logs for details"
}

func newError(kind ErrorKind, reason Reason, detail string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Detail: detail, Err: err}
}

// classifyDelivery maps a delivery gateway error to a Reason by provider code.
func classifyDelivery(err error) (Reason, string) {
	var tgErr *tgbotapi.Error
	if !errors.As(err, &tgErr) {
		return ReasonProvider, ""
	}
	switch tgErr.Code {
	case http.StatusForbidden:
		return ReasonBlocked, tgErr.Message
	case http.StatusBadRequest:
		return ReasonBadRequest, tgErr.Message
	}
	return ReasonProvider, tgErr.Message
}
