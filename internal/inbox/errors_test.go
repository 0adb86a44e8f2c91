package inbox

import (
	"errors"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	cause := errors.New("telegram sendMessage: Bad Request: message text is empty")
	err := newError(KindDelivery, ReasonBadRequest, "Bad Request: message text is empty", cause)

	require.Equal(t,
		"inbox: DELIVERY_ERROR (bad_request): Bad Request: message text is empty: telegram sendMessage: Bad Request: message text is empty",
		err.Error())
	require.True(t, errors.Is(err, cause))

	var nilErr *Error
	require.Equal(t, "", nilErr.Error())
	require.Nil(t, nilErr.Unwrap())
}

func TestClassifyDelivery(t *testing.T) {
	cases := []struct {
		err  error
		want Reason
	}{
		{&tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, ReasonBlocked},
		{&tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, ReasonBadRequest},
		{&tgbotapi.Error{Code: 500, Message: "Internal Server Error"}, ReasonProvider},
		{fmt.Errorf("telegram sendMessage: %w", &tgbotapi.Error{Code: 403}), ReasonBlocked},
		{errors.New("connection refused"), ReasonProvider},
	}
	for _, tc := range cases {
		got, _ := classifyDelivery(tc.err)
		require.Equal(t, tc.want, got, tc.err.Error())
	}
}
