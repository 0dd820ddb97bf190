package web

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/dining-concierge/internal/dialog"
	"github.com/example/dining-concierge/internal/domain/booking"
)

type stubDispatcher struct {
	ids []string
}

func (d *stubDispatcher) Dispatch(context.Context, booking.ReservationRequest) (string, error) {
	d.ids = append(d.ids, "task-1")
	return "task-1", nil
}

type stubNLU struct {
	reply string
	texts []string
}

func (n *stubNLU) PostText(_ context.Context, _, text string) (string, error) {
	n.texts = append(n.texts, text)
	return n.reply, nil
}

var (
	testHashKey  = bytes.Repeat([]byte("h"), 32)
	testBlockKey = bytes.Repeat([]byte("b"), 32)
)

func newTestServer(t *testing.T, nluReply string) (*Server, *stubNLU) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("open sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	engine := dialog.Engine{
		Dispatcher: &stubDispatcher{},
		Now:        func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, booking.ReferenceZone) },
	}
	n := &stubNLU{reply: nluReply}
	return New(":0", NewSessionManager(testHashKey, testBlockKey), engine, n, string(hash), nil), n
}

func postJSON(t *testing.T, h http.Handler, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	b, err := sonic.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLoginAndChat(t *testing.T) {
	srv, nluStub := newTestServer(t, "Hi there, how can I help?")
	h := srv.Handler()

	// wrong password
	w := postJSON(t, h, "/login", loginRequest{Password: "nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// chat without a session
	w = postJSON(t, h, "/chat", chatEnvelope{}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// login
	w = postJSON(t, h, "/login", loginRequest{Password: "open sesame"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// chat round trip
	var env chatEnvelope
	msg := chatMessage{Type: "unstructured"}
	msg.Unstructured.Text = "hello"
	env.Messages = []chatMessage{msg}
	w = postJSON(t, h, "/chat", env, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	var out chatEnvelope
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Messages, 1)
	assert.Equal(t, "Hi there, how can I help?", out.Messages[0].Unstructured.Text)
	assert.Equal(t, []string{"hello"}, nluStub.texts)
}

func TestDialogHookElicitSlot(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	cuisine := "martian"
	location := "manhattan"
	event := map[string]any{
		"invocationSource":  "DialogCodeHook",
		"sessionAttributes": map[string]string{"trace": "1"},
		"currentIntent": map[string]any{
			"name": "DiningSuggestionsIntent",
			"slots": map[string]*string{
				"location": &location,
				"cuisine":  &cuisine,
			},
		},
	}
	w := postJSON(t, h, "/hooks/dialog", event, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res dialogResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ElicitSlot", res.DialogAction.Type)
	assert.Equal(t, "cuisine", res.DialogAction.SlotToElicit)
	assert.Equal(t, "DiningSuggestionsIntent", res.DialogAction.IntentName)
	assert.Nil(t, res.DialogAction.Slots["cuisine"])
	assert.Equal(t, map[string]string{"trace": "1"}, res.SessionAttributes)
	require.NotNil(t, res.DialogAction.Message)
	assert.Contains(t, res.DialogAction.Message.Content, "did not recognize that cuisine")
}

func TestDialogHookGreeting(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	event := map[string]any{
		"invocationSource": "DialogCodeHook",
		"currentIntent":    map[string]any{"name": "GreetingIntent"},
	}
	w := postJSON(t, h, "/hooks/dialog", event, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var res dialogResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ElicitIntent", res.DialogAction.Type)
}

func TestDialogHookUnsupportedIntent(t *testing.T) {
	srv, _ := newTestServer(t, "")
	h := srv.Handler()

	event := map[string]any{
		"invocationSource": "DialogCodeHook",
		"currentIntent":    map[string]any{"name": "KaraokeIntent"},
	}
	w := postJSON(t, h, "/hooks/dialog", event, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
