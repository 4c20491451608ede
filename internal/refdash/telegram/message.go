package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
)

const (
	MsgExpiredOrInvalid = "This request has expired or is invalid."
	MsgAccepted         = "Login accepted"
	MsgRejected         = "Login rejected"
	MsgNotAuthorized    = "You are not allowed to approve logins."
	MsgTryAgain         = "Something went wrong, please try again."

	callbackSeparator = "_"

	// Matches the Dutch locale day-month-year form, e.g. "14-3-2025, 10:26:53".
	timestampLayout = "2-1-2006, 15:04:05"
)

// PromptText is the message an approver gets for a new login attempt.
func PromptText(authKey, code string) string {
	return fmt.Sprintf("New login attempt:\nAuth Key: %s\nAuth Code: %s", authKey, code)
}

// PromptKeyboard carries one Accept and one Reject button for code.
func PromptKeyboard(code string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Accept", CallbackData(domain.DecisionAccept, code)),
			tgbotapi.NewInlineKeyboardButtonData("Reject", CallbackData(domain.DecisionReject, code)),
		),
	)
}

// ConfirmationText is sent after a decision, for the approver's audit trail.
func ConfirmationText(ev *domain.AuthorizationEvent, loc *time.Location) string {
	status := "Rejected"
	if ev.Status == domain.StatusAccepted {
		status = "Accepted"
	}
	return fmt.Sprintf("Login attempt:\nAuth Key: %s\nAuth Code: %s\nStatus: %s\nTime: %s",
		ev.AuthKey, ev.Code, status, ev.OccurredAt.In(loc).Format(timestampLayout))
}

// CallbackData encodes a button press, e.g. "accept_<code>".
func CallbackData(d domain.Decision, code string) string {
	return string(d) + callbackSeparator + code
}

// ParseCallbackData is the inverse of CallbackData.
func ParseCallbackData(data string) (domain.Decision, string, error) {
	action, code, ok := strings.Cut(data, callbackSeparator)
	if !ok || code == "" {
		return "", "", fmt.Errorf("malformed callback data %q", data)
	}
	d, err := domain.ParseDecision(action)
	if err != nil {
		return "", "", err
	}
	return d, code, nil
}
