package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fibobot/internal/models"
)

var testSignal = models.Signal{
	Symbol:     "XAUT-USDT",
	EntryPrice: 1951,
	StopLoss:   1900,
	TakeProfit: 2061.8,
	Reason:     "EMA Trend + Fibo Retracement + RSI Crossover",
}

func TestFormatSignal(t *testing.T) {
	msg := FormatSignal(testSignal)

	assert.Contains(t, msg, "*Symbol:* `XAUT-USDT`")
	assert.Contains(t, msg, "*Strategy:* `EMA Trend + Fibo Retracement + RSI Crossover`")
	assert.Contains(t, msg, "*Entry Price:* `1951.000`")
	assert.Contains(t, msg, "*Stop Loss:* `1900.000`")
	assert.Contains(t, msg, "*Take Profit:* `2061.800`")
	assert.True(t, strings.HasSuffix(msg, "before taking any action."))
}

func TestF3_Rounds(t *testing.T) {
	assert.Equal(t, "2061.800", f3(2000+0.618*100))
	assert.Equal(t, "0.123", f3(0.12345))
}

// fakeTelegram эмулирует Bot API (getMe и sendMessage).
type fakeTelegram struct {
	mu     sync.Mutex
	fail   bool
	posted []map[string]string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"fibo","username":"fibobot"}}`)
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.posted = append(f.posted, map[string]string{
			"chat_id":    r.PostForm.Get("chat_id"),
			"text":       r.PostForm.Get("text"),
			"parse_mode": r.PostForm.Get("parse_mode"),
		})
		fail := f.fail
		f.mu.Unlock()
		if fail {
			fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"channel"},"text":"ok"}}`)
	default:
		http.NotFound(w, r)
	}
}

func newFakeBot(t *testing.T, f *fakeTelegram) *tgbot.BotAPI {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	bot, err := tgbot.NewBotAPIWithClient("TOKEN", srv.URL+"/bot%s/%s", srv.Client())
	require.NoError(t, err)
	return bot
}

func TestTelegram_SendSignal(t *testing.T) {
	f := &fakeTelegram{}
	n := NewTelegramWithBot(newFakeBot(t, f), 42)

	require.NoError(t, n.SendSignal(context.Background(), testSignal))

	require.Len(t, f.posted, 1)
	assert.Equal(t, "42", f.posted[0]["chat_id"])
	assert.Equal(t, tgbot.ModeMarkdown, f.posted[0]["parse_mode"])
	assert.Equal(t, FormatSignal(testSignal), f.posted[0]["text"])
}

func TestTelegram_SendError(t *testing.T) {
	f := &fakeTelegram{fail: true}
	n := NewTelegramWithBot(newFakeBot(t, f), 42)

	err := n.SendSignal(context.Background(), testSignal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestTelegram_CancelledContext(t *testing.T) {
	f := &fakeTelegram{}
	n := NewTelegramWithBot(newFakeBot(t, f), 42)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "hello"), context.Canceled)
	assert.Empty(t, f.posted)
}

func TestNew_FallsBackToStdout(t *testing.T) {
	n, err := New("", 0)
	require.NoError(t, err)
	assert.IsType(t, &Stdout{}, n)
	assert.NoError(t, n.SendSignal(context.Background(), testSignal))
	assert.NoError(t, n.Send(context.Background(), "started"))
}
