package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBotAPI struct {
	mu    sync.Mutex
	calls []string
	sent  []url.Values
}

func (f *fakeBotAPI) handler(token string, failSend bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bot"+token+"/getMe", func(w http.ResponseWriter, r *http.Request) {
		f.record("getMe", nil)
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"todo","username":"todo_bot"}}`))
	})
	mux.HandleFunc("/bot"+token+"/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		f.record("sendMessage", r.PostForm)
		if failSend {
			_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"date":0,"chat":{"id":42,"type":"private"}}}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":401,"description":"Unauthorized"}`))
	})
	return mux
}

func (f *fakeBotAPI) record(call string, form url.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if form != nil {
		f.sent = append(f.sent, form)
	}
}

func newTestTelegram(t *testing.T, serverToken, token string, failSend bool) (*Telegram, *fakeBotAPI) {
	t.Helper()
	fake := &fakeBotAPI{}
	srv := httptest.NewServer(fake.handler(serverToken, failSend))
	t.Cleanup(srv.Close)
	return NewTelegram(token, 42, time.Second).WithEndpoint(srv.URL + "/bot%s/%s"), fake
}

func TestTelegramSend(t *testing.T) {
	tg, fake := newTestTelegram(t, "secret", "secret", false)
	require.True(t, tg.IsAvailable())

	res := tg.Send(context.Background(), Notification{Title: "⏰ Reminder: <Deploy>", Message: "Task: Deploy\nProgress: 50%"})
	require.NoError(t, res.Err)
	assert.True(t, res.Success())
	assert.Equal(t, "77", res.NotificationID)

	require.Len(t, fake.sent, 1)
	form := fake.sent[0]
	assert.Equal(t, "42", form.Get("chat_id"))
	assert.Equal(t, "HTML", form.Get("parse_mode"))
	assert.Equal(t, "<b>⏰ Reminder: &lt;Deploy&gt;</b>\nTask: Deploy\nProgress: 50%", form.Get("text"))
	assert.Equal(t, []string{"getMe", "sendMessage"}, fake.calls)
}

func TestTelegramUnavailable(t *testing.T) {
	t.Run("bad token", func(t *testing.T) {
		tg, _ := newTestTelegram(t, "secret", "wrong", false)
		assert.False(t, tg.IsAvailable())
		res := tg.Send(context.Background(), Notification{Title: "t"})
		assert.Equal(t, ActionError, res.Action)
		assert.Error(t, res.Err)
	})

	t.Run("missing chat id", func(t *testing.T) {
		tg := NewTelegram("secret", 0, time.Second)
		assert.False(t, tg.IsAvailable())
	})
}

func TestTelegramSendFailure(t *testing.T) {
	tg, _ := newTestTelegram(t, "secret", "secret", true)
	res := tg.Send(context.Background(), Notification{Title: "t", Message: "m"})
	assert.Equal(t, ActionError, res.Action)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "chat not found")
}
