package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/dining-concierge/internal/dialog"
	"github.com/example/dining-concierge/internal/domain/booking"
	"github.com/example/dining-concierge/internal/internaltypes"
)

// NLUGateway forwards one text message to the language service and returns
// its reply verbatim.
type NLUGateway interface {
	PostText(ctx context.Context, userID, text string) (string, error)
}

type Server struct {
	addr         string
	sessions     *SessionManager
	engine       dialog.Engine
	nlu          NLUGateway
	passwordHash string
	log          *log.Logger
}

func New(addr string, sessions *SessionManager, engine dialog.Engine, nlu NLUGateway, passwordHash string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		addr:         addr,
		sessions:     sessions,
		engine:       engine,
		nlu:          nlu,
		passwordHash: passwordHash,
		log:          logger,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/chat", s.requireSession(s.handleChat))
	mux.HandleFunc("/hooks/dialog", s.handleDialogHook)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return logging(s.log, mux)
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("listening", "addr", s.addr)
	return srv.ListenAndServe()
}

func logging(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start))
	})
}

func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessions.GetChatID(r); !ok {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next(w, r)
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	if err := s.sessions.SetChatID(w, uuid.NewString()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Chat envelope: one unstructured message in, one out.
type chatMessage struct {
	Type         string `json:"type"`
	Unstructured struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Timestamp string `json:"timestamp"`
	} `json:"unstructured"`
}

type chatEnvelope struct {
	Messages []chatMessage `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var env chatEnvelope
	if err := decodeBody(r, &env); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(env.Messages) == 0 || env.Messages[0].Unstructured.Text == "" {
		writeError(w, http.StatusBadRequest, "empty message")
		return
	}

	chatID, _ := s.sessions.GetChatID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	reply, err := s.nlu.PostText(ctx, chatID, env.Messages[0].Unstructured.Text)
	if err != nil {
		s.log.Error("nlu call failed", "err", err)
		writeError(w, http.StatusBadGateway, "language service unavailable")
		return
	}

	var out chatEnvelope
	msg := chatMessage{Type: "unstructured"}
	msg.Unstructured.ID = chatID
	msg.Unstructured.Text = reply
	msg.Unstructured.Timestamp = fmt.Sprintf("%.3f", float64(time.Now().UnixNano())/1e9)
	out.Messages = []chatMessage{msg}
	writeJSON(w, http.StatusOK, out)
}

// Dialog webhook wire format, as the NLU service sends it.
type dialogEvent struct {
	InvocationSource  string            `json:"invocationSource"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	CurrentIntent     struct {
		Name  string        `json:"name"`
		Slots booking.Slots `json:"slots"`
	} `json:"currentIntent"`
}

type dialogActionWire struct {
	Type             string          `json:"type"`
	FulfillmentState string          `json:"fulfillmentState,omitempty"`
	Message          *dialog.Message `json:"message,omitempty"`
	IntentName       string          `json:"intentName,omitempty"`
	Slots            booking.Slots   `json:"slots,omitempty"`
	SlotToElicit     string          `json:"slotToElicit,omitempty"`
}

type dialogResponse struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      dialogActionWire  `json:"dialogAction"`
}

func (s *Server) handleDialogHook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var ev dialogEvent
	if err := decodeBody(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	turn := dialog.Turn{
		IntentName:        ev.CurrentIntent.Name,
		Phase:             dialog.Phase(ev.InvocationSource),
		Slots:             ev.CurrentIntent.Slots,
		SessionAttributes: ev.SessionAttributes,
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	action, err := s.engine.Handle(ctx, turn)
	if err != nil {
		if errors.Is(err, internaltypes.ErrUnsupportedIntent) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error("dialog turn failed", "intent", turn.IntentName, "err", err)
		writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}

	writeJSON(w, http.StatusOK, dialogResponse{
		SessionAttributes: action.SessionAttributes,
		DialogAction: dialogActionWire{
			Type:             string(action.Type),
			FulfillmentState: action.FulfillmentState,
			Message:          action.Message,
			IntentName:       action.IntentName,
			Slots:            action.Slots,
			SlotToElicit:     action.SlotToElicit,
		},
	})
}

func decodeBody(r *http.Request, v any) error {
	b, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := sonic.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	b, err := sonic.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
