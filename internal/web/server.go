// Package web renders the HTML UI. It talks to the app facade only and
// owns the mapping from domain errors to user-facing messages.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/example/askbox/internal/app"
	"github.com/example/askbox/internal/domain/question"
	"github.com/example/askbox/internal/domain/user"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.html static/*
var fs embed.FS

type Server struct {
	App     *app.App
	Cookies *CookieManager
	BaseURL string
	Log     *zap.SugaredLogger
}

type tmplData struct {
	Title    string
	Username string // logged-in user, empty when anonymous
	Flash    string
	Error    string

	FormUsername string
	Profile      user.User
	ShareURL     string
	Answered     []question.Question
	Unanswered   []question.Question
	Question     question.Question
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Handle("/static/*", http.FileServer(http.FS(fs)))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/", s.handleIndex)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/questions/{id}/answer", s.handleAnswer)
	})

	r.Get("/profile/{username}", s.handleProfile)
	r.Post("/profile/{username}/ask", s.handleAsk)
	r.Get("/profile/{username}/question/{id}", s.handleQuestion)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.Log.Infow("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

type ctxKeyUser struct{}

// requireAuth resolves the cookie token fail-closed: any problem with the
// cookie or the token sends the visitor to the login page.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := s.currentUser(r)
		if !ok {
			s.Cookies.Clear(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyUser{}, u)))
	})
}

func (s *Server) currentUser(r *http.Request) (user.User, bool) {
	tok, ok := s.Cookies.Token(r)
	if !ok {
		return user.User{}, false
	}
	return s.App.Sessions.Resolve(tok)
}

func userFromCtx(r *http.Request) user.User {
	u, _ := r.Context().Value(ctxKeyUser{}).(user.User)
	return u
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.currentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.render(w, "index.html", tmplData{Title: "Ask me anything"})
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "register.html", tmplData{Title: "Register"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" {
		s.render(w, "register.html", tmplData{Title: "Register", Error: "Username is required"})
		return
	}

	_, tok, err := s.App.Register(username, password)
	if err != nil {
		s.render(w, "register.html", tmplData{
			Title:        "Register",
			Error:        userMessage(err),
			FormUsername: username,
		})
		return
	}
	if err := s.Cookies.SetToken(w, r, tok); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", tmplData{Title: "Login"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	_, tok, err := s.App.Login(username, password)
	if err != nil {
		s.render(w, "login.html", tmplData{
			Title:        "Login",
			Error:        userMessage(err),
			FormUsername: username,
		})
		return
	}
	if err := s.Cookies.SetToken(w, r, tok); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.App.Logout(); err != nil {
		s.Log.Warnw("logout", "err", err)
	}
	s.Cookies.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	u := userFromCtx(r)

	var answered, unanswered []question.Question
	for _, q := range s.App.QuestionsOf(u) {
		if q.Answered() {
			answered = append(answered, q)
		} else {
			unanswered = append(unanswered, q)
		}
	}

	flash := ""
	if r.URL.Query().Get("answered") == "1" {
		flash = "Answer posted."
	}

	s.render(w, "dashboard.html", tmplData{
		Title:      "Dashboard",
		Username:   u.Username,
		Flash:      flash,
		ShareURL:   s.profileURL(u.Username),
		Answered:   answered,
		Unanswered: unanswered,
	})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	u := userFromCtx(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	text := strings.TrimSpace(r.FormValue("answer"))
	if text == "" {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	if _, err := s.App.AnswerAs(u, chi.URLParam(r, "id"), text); err != nil {
		s.Log.Warnw("answer", "user", u.Username, "err", err)
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/dashboard?answered=1", http.StatusFound)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	target, ok := s.App.FindUser(username)
	if !ok {
		s.renderNotFound(w, fmt.Sprintf("The username %q doesn't exist.", username))
		return
	}

	var answered []question.Question
	for _, q := range s.App.QuestionsOf(target) {
		if q.Answered() {
			answered = append(answered, q)
		}
	}

	flash := ""
	if r.URL.Query().Get("sent") == "1" {
		flash = "Question sent. Check back for an answer!"
	}

	current, _ := s.currentUser(r)
	s.render(w, "profile.html", tmplData{
		Title:    "@" + target.Username,
		Username: current.Username,
		Flash:    flash,
		Profile:  target,
		ShareURL: s.profileURL(target.Username),
		Answered: answered,
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	content := strings.TrimSpace(r.FormValue("content"))
	if content == "" {
		http.Redirect(w, r, "/profile/"+username, http.StatusFound)
		return
	}

	if err := s.App.SubmitQuestion(username, content); err != nil {
		s.renderNotFound(w, userMessage(err))
		return
	}
	http.Redirect(w, r, "/profile/"+username+"?sent=1", http.StatusFound)
}

// handleQuestion shows one answered question. Unanswered questions are
// indistinguishable from missing ones here so their content never leaks.
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	target, ok := s.App.FindUser(username)
	if !ok {
		s.renderNotFound(w, fmt.Sprintf("The username %q doesn't exist.", username))
		return
	}

	q, ok := s.App.GetQuestion(target.ID, chi.URLParam(r, "id"))
	if !ok || !q.Answered() {
		s.renderNotFound(w, "This question doesn't exist or hasn't been answered yet.")
		return
	}

	current, _ := s.currentUser(r)
	s.render(w, "question.html", tmplData{
		Title:    "@" + target.Username,
		Username: current.Username,
		Profile:  target,
		Question: q,
		ShareURL: s.questionURL(target.Username, q.ID),
	})
}

func (s *Server) profileURL(username string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/profile/" + username
}

func (s *Server) questionURL(username, questionID string) string {
	return s.profileURL(username) + "/question/" + questionID
}

func (s *Server) renderNotFound(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	s.render(w, "notfound.html", tmplData{Title: "Not found", Error: msg})
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, user.ErrUsernameTaken):
		return "Username already taken"
	case errors.Is(err, user.ErrNotFound):
		return "User not found"
	case errors.Is(err, question.ErrNotFound):
		return "Question not found"
	case errors.Is(err, question.ErrAlreadyAnswered):
		return "This question has already been answered"
	default:
		return "Something went wrong. Please try again."
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data tmplData) {
	t, err := template.ParseFS(fs, "templates/base.html", "templates/"+name)
	if err != nil {
		http.Error(w, "template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		s.Log.Warnw("render", "template", name, "err", err)
	}
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Infow("listening", "addr", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
