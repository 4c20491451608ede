package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/toshilabs/toshiref/internal/refdash/domain"
	"github.com/toshilabs/toshiref/internal/refdash/service"
	"github.com/toshilabs/toshiref/pkg/slogx"
)

const (
	approverChat = int64(-1001234)
	testCode     = "0123456789abcdef0123456789abcdef"
)

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	sendErr  error
	updates  chan tgbotapi.Update
	stopped  bool
}

func newFakeBot() *fakeBot { return &fakeBot{updates: make(chan tgbotapi.Update, 4)} }

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return b.updates }

func (b *fakeBot) StopReceivingUpdates() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
}

func (b *fakeBot) answers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, r := range b.requests {
		if cb, ok := r.(tgbotapi.CallbackConfig); ok {
			out = append(out, cb.Text)
		}
	}
	return out
}

func (b *fakeBot) deletes() []tgbotapi.DeleteMessageConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []tgbotapi.DeleteMessageConfig
	for _, r := range b.requests {
		if d, ok := r.(tgbotapi.DeleteMessageConfig); ok {
			out = append(out, d)
		}
	}
	return out
}

type fakeDecider struct {
	err   error
	calls []string
}

func (d *fakeDecider) Decide(_ context.Context, code string, decision domain.Decision, actor string) (domain.AuthorizationRequest, error) {
	d.calls = append(d.calls, string(decision)+":"+code+":"+actor)
	if d.err != nil {
		return domain.AuthorizationRequest{}, d.err
	}
	return domain.AuthorizationRequest{Code: code, Status: decision.Status()}, nil
}

func newTestApprover(t *testing.T, bot *fakeBot, decider Decider) *Approver {
	t.Helper()
	a, err := NewApprover(bot, decider, slogx.Discard(), Config{ChatID: approverChat})
	require.NoError(t, err)
	return a
}

func callback(chatID int64, data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: 42, UserName: "ops"},
		Message: &tgbotapi.Message{
			MessageID: 7,
			Chat:      &tgbotapi.Chat{ID: chatID},
		},
		Data: data,
	}
}

func TestNewApprover_RequiresChat(t *testing.T) {
	_, err := NewApprover(newFakeBot(), &fakeDecider{}, slogx.Discard(), Config{})
	require.Error(t, err)
}

func TestCallbackData_RoundTrip(t *testing.T) {
	d, code, err := ParseCallbackData(CallbackData(domain.DecisionReject, testCode))
	require.NoError(t, err)
	require.Equal(t, domain.DecisionReject, d)
	require.Equal(t, testCode, code)

	for _, bad := range []string{"", "accept", "accept_", "approve_" + testCode} {
		_, _, err := ParseCallbackData(bad)
		require.Error(t, err, bad)
	}
}

func TestConfirmationText(t *testing.T) {
	loc, err := time.LoadLocation(DefaultTimeZone)
	require.NoError(t, err)

	ev := &domain.AuthorizationEvent{
		Type:       domain.EventAuthorizationAccepted,
		Code:       testCode,
		AuthKey:    "shared-secret",
		Status:     domain.StatusAccepted,
		OccurredAt: time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
	}
	require.Equal(t,
		"Login attempt:\nAuth Key: shared-secret\nAuth Code: "+testCode+"\nStatus: Accepted\nTime: 14-3-2025, 10:26:53",
		ConfirmationText(ev, loc),
	)

	ev.Status = domain.StatusRejected
	ev.OccurredAt = time.Date(2025, 7, 1, 22, 5, 0, 0, time.UTC)
	require.Contains(t, ConfirmationText(ev, loc), "Status: Rejected\nTime: 2-7-2025, 00:05:00")
}

func TestApprover_NotifyIssuedSendsPrompt(t *testing.T) {
	bot := newFakeBot()
	a := newTestApprover(t, bot, &fakeDecider{})

	err := a.Notify(context.Background(), &domain.AuthorizationEvent{
		Type:    domain.EventAuthorizationIssued,
		Code:    testCode,
		AuthKey: "shared-secret",
	})
	require.NoError(t, err)
	require.Len(t, bot.sent, 1)

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	require.Equal(t, approverChat, msg.ChatID)
	require.Equal(t, "New login attempt:\nAuth Key: shared-secret\nAuth Code: "+testCode, msg.Text)

	kb := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, kb.InlineKeyboard, 1)
	require.Len(t, kb.InlineKeyboard[0], 2)
	require.Equal(t, "accept_"+testCode, *kb.InlineKeyboard[0][0].CallbackData)
	require.Equal(t, "reject_"+testCode, *kb.InlineKeyboard[0][1].CallbackData)
}

func TestApprover_NotifyPropagatesSendErrors(t *testing.T) {
	bot := newFakeBot()
	bot.sendErr = errors.New("network down")
	a := newTestApprover(t, bot, &fakeDecider{})

	err := a.Notify(context.Background(), &domain.AuthorizationEvent{Type: domain.EventAuthorizationRejected})
	require.ErrorContains(t, err, "network down")
}

func TestApprover_HandleCallback(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		bot := newFakeBot()
		decider := &fakeDecider{}
		a := newTestApprover(t, bot, decider)

		a.HandleCallback(context.Background(), callback(approverChat, "accept_"+testCode))

		require.Equal(t, []string{"accept:" + testCode + ":telegram:@ops"}, decider.calls)
		require.Equal(t, []string{MsgAccepted}, bot.answers())
		require.Equal(t, []tgbotapi.DeleteMessageConfig{{ChatID: approverChat, MessageID: 7}}, bot.deletes())
	})

	t.Run("reject", func(t *testing.T) {
		bot := newFakeBot()
		a := newTestApprover(t, bot, &fakeDecider{})

		a.HandleCallback(context.Background(), callback(approverChat, "reject_"+testCode))
		require.Equal(t, []string{MsgRejected}, bot.answers())
	})

	t.Run("expired code", func(t *testing.T) {
		bot := newFakeBot()
		a := newTestApprover(t, bot, &fakeDecider{err: service.ErrAuthorizationNotFound})

		a.HandleCallback(context.Background(), callback(approverChat, "accept_"+testCode))
		require.Equal(t, []string{MsgExpiredOrInvalid}, bot.answers())
		require.Empty(t, bot.deletes())
	})

	t.Run("garbage data", func(t *testing.T) {
		bot := newFakeBot()
		decider := &fakeDecider{}
		a := newTestApprover(t, bot, decider)

		a.HandleCallback(context.Background(), callback(approverChat, "launch_missiles"))
		require.Equal(t, []string{MsgExpiredOrInvalid}, bot.answers())
		require.Empty(t, decider.calls)
	})

	t.Run("foreign chat", func(t *testing.T) {
		bot := newFakeBot()
		decider := &fakeDecider{}
		a := newTestApprover(t, bot, decider)

		a.HandleCallback(context.Background(), callback(999, "accept_"+testCode))
		require.Equal(t, []string{MsgNotAuthorized}, bot.answers())
		require.Empty(t, decider.calls)
	})

	t.Run("store failure", func(t *testing.T) {
		bot := newFakeBot()
		a := newTestApprover(t, bot, &fakeDecider{err: errors.New("redis down")})

		a.HandleCallback(context.Background(), callback(approverChat, "accept_"+testCode))
		require.Equal(t, []string{MsgTryAgain}, bot.answers())
	})
}

func TestApprover_RunStopsOnCancel(t *testing.T) {
	bot := newFakeBot()
	decider := &fakeDecider{}
	a := newTestApprover(t, bot, decider)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	bot.updates <- tgbotapi.Update{CallbackQuery: callback(approverChat, "accept_"+testCode)}
	require.Eventually(t, func() bool { return len(bot.answers()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	require.True(t, bot.stopped)
}
