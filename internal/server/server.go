package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"reclaim/internal/auth"
	"reclaim/internal/notify"
	"reclaim/internal/store"
	"reclaim/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/sirupsen/logrus"
)

//go:embed templates static
var uiFS embed.FS
var decoder = form.NewDecoder()

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	repo      *store.Repository
	provider  *auth.Provider
	sessions  *auth.Sessions
	emailer   *notify.Emailer
	templates *template.Template

	cookie *securecookie.SecureCookie

	jwksCache *jwk.Cache
	jwksURL   string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	repo *store.Repository,
	provider *auth.Provider,
	sessions *auth.Sessions,
	emailer *notify.Emailer,
	jwkCache *jwk.Cache,
	jwksURL string,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:   logger,
		config:   config,
		repo:     repo,
		provider: provider,
		sessions: sessions,
		emailer:  emailer,
		cookie:   securecookie.New(hashKey, blockKey),

		jwksCache: jwkCache,
		jwksURL:   jwksURL,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleHome, http.MethodGet)
	r.HandleFunc("/faq", s.handleFAQ, http.MethodGet)
	r.HandleFunc("/about", s.handleAbout, http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/login", s.handleGetLogin, http.MethodGet)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/gallery", s.handleGallery, http.MethodGet)
		r.HandleFunc("/item/:kind/:id", s.handleItemDetail, http.MethodGet)

		r.HandleFunc("/report/lost", s.handleGetReportLost, http.MethodGet)
		r.HandleFunc("/report/lost", s.handlePostReportLost, http.MethodPost)
		r.HandleFunc("/report/found", s.handleGetReportFound, http.MethodGet)
		r.HandleFunc("/report/found", s.handlePostReportFound, http.MethodPost)

		r.HandleFunc("/item/:kind/:id/sighting", s.handlePostSighting, http.MethodPost)
		r.HandleFunc("/item/:kind/:id/have", s.handlePostHaveItem, http.MethodPost)
		r.HandleFunc("/item/:kind/:id/resolve", s.handlePostResolve, http.MethodPost)
		r.HandleFunc("/item/:kind/:id/delete", s.handlePostDelete, http.MethodPost)

		r.HandleFunc("/profile", s.handleProfile, http.MethodGet)
	})

	staticRoot, err := fs.Sub(uiFS, "static")
	if err != nil {
		s.logger.WithError(err).Fatal("failed to mount static assets")
	}
	r.Handle("/static/...", http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot))), http.MethodGet)
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"displayDate": store.FormatDisplayDate,
		"timestamp": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return store.FormatTimestamp(t)
			case *time.Time:
				if t == nil {
					return ""
				}
				return store.FormatTimestamp(*t)
			}
			return ""
		},
		"truncate": truncate,
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}

// truncate shortens s to at most n runes. Cutting on runes rather than
// bytes keeps multibyte characters intact.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
