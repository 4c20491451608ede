// Package telegram is the approver channel: login attempts are posted to a
// Telegram chat with Accept/Reject buttons and the presses are fed back into
// the broker.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	_ "time/tzdata"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/service"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

// DefaultTimeZone is used for the confirmation timestamp.
const DefaultTimeZone = "Europe/Amsterdam"

// BotAPI is the subset of *tgbotapi.BotAPI the approver uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Decider records a decision; *service.Broker implements it.
type Decider interface {
	Decide(ctx context.Context, code string, decision domain.Decision, actor string) (domain.AuthorizationRequest, error)
}

type Config struct {
	ChatID   int64
	Location *time.Location
	// PollTimeout is the long-poll timeout for getUpdates, in seconds.
	PollTimeout int
}

// Approver implements service.Notifier for the approver chat and handles
// the button callbacks coming back from it.
type Approver struct {
	bot     BotAPI
	decider Decider
	logger  *slog.Logger
	cfg     Config
}

var _ service.Notifier = (*Approver)(nil)

func NewApprover(bot BotAPI, decider Decider, logger *slog.Logger, cfg Config) (*Approver, error) {
	if cfg.ChatID == 0 {
		return nil, errors.New("telegram: approver chat id is required")
	}
	if cfg.Location == nil {
		loc, err := time.LoadLocation(DefaultTimeZone)
		if err != nil {
			return nil, fmt.Errorf("telegram: load time zone: %w", err)
		}
		cfg.Location = loc
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 30
	}
	return &Approver{bot: bot, decider: decider, logger: logger, cfg: cfg}, nil
}

// Notify posts the prompt for issued requests and the confirmation for
// decided ones.
func (a *Approver) Notify(ctx context.Context, ev *domain.AuthorizationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.MessageConfig
	switch ev.Type {
	case domain.EventAuthorizationIssued:
		msg = tgbotapi.NewMessage(a.cfg.ChatID, PromptText(ev.AuthKey, ev.Code))
		msg.ReplyMarkup = PromptKeyboard(ev.Code)
	case domain.EventAuthorizationAccepted, domain.EventAuthorizationRejected:
		msg = tgbotapi.NewMessage(a.cfg.ChatID, ConfirmationText(ev, a.cfg.Location))
	default:
		return nil
	}

	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send %s: %w", ev.Type, err)
	}
	return nil
}

// Run consumes bot updates until ctx is cancelled.
func (a *Approver) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = a.cfg.PollTimeout
	u.AllowedUpdates = []string{"callback_query"}

	updates := a.bot.GetUpdatesChan(u)
	a.logger.Info("telegram approver listening", "chat_id", a.cfg.ChatID)

	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			a.logger.Info("telegram approver stopped")
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			if upd.CallbackQuery != nil {
				a.HandleCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

// HandleCallback applies one button press. Every outcome answers the
// callback so the client stops its spinner; nothing here is fatal.
func (a *Approver) HandleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	log := a.logger.With("callback_id", cq.ID)
	ctx = slogx.WithContext(ctx, log)

	if cq.Message == nil || cq.Message.Chat == nil || cq.Message.Chat.ID != a.cfg.ChatID {
		log.Warn("callback from unexpected chat")
		a.answer(log, cq.ID, MsgNotAuthorized)
		return
	}

	decision, code, err := ParseCallbackData(cq.Data)
	if err != nil {
		log.Warn("unparseable callback data", "error", err)
		a.answer(log, cq.ID, MsgExpiredOrInvalid)
		return
	}

	_, err = a.decider.Decide(ctx, code, decision, actorName(cq.From))
	switch {
	case errors.Is(err, service.ErrAuthorizationNotFound):
		a.answer(log, cq.ID, MsgExpiredOrInvalid)
		return
	case err != nil:
		log.Error("failed to record decision", "error", err)
		a.answer(log, cq.ID, MsgTryAgain)
		return
	}

	if _, err := a.bot.Request(tgbotapi.NewDeleteMessage(cq.Message.Chat.ID, cq.Message.MessageID)); err != nil {
		log.Warn("failed to delete prompt", "error", err)
	}

	text := MsgRejected
	if decision == domain.DecisionAccept {
		text = MsgAccepted
	}
	a.answer(log, cq.ID, text)
}

func (a *Approver) answer(log *slog.Logger, callbackID, text string) {
	if _, err := a.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Warn("failed to answer callback", "error", err)
	}
}

func actorName(u *tgbotapi.User) string {
	if u == nil {
		return "telegram"
	}
	if u.UserName != "" {
		return "telegram:@" + u.UserName
	}
	return fmt.Sprintf("telegram:%d", u.ID)
}
