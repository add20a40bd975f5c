package server

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"unicode/utf8"

	"reclaim/internal/auth"
	"reclaim/internal/kv"
	"reclaim/internal/notify"
	"reclaim/internal/store"
	"reclaim/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	blobs, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = blobs.Close()
	})

	repo, err := store.NewRepository(context.Background(), blobs, logger)
	require.NoError(t, err)

	config := &types.Config{
		ServerPort:      8080,
		ReadTimeoutSec:  10,
		WriteTimeoutSec: 15,
		CookieHashKey:   base64.StdEncoding.EncodeToString(make([]byte, 32)),
		CookieBlockKey:  base64.StdEncoding.EncodeToString(make([]byte, 32)),
	}

	svc, err := New(config, logger, repo, nil, auth.NewSessions(), notify.NewEmailer(config, logger), nil, "")
	require.NoError(t, err)
	return svc
}

func (s *Service) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestPublicPages(t *testing.T) {
	svc := newTestService(t)

	for _, path := range []string{"/", "/faq", "/about", "/login"} {
		rec := svc.get(t, path)
		require.Equal(t, http.StatusOK, rec.Code, "GET %s", path)
		require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	}
}

func TestHomePageShowsRecentItems(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.repo.AddLostItem(context.Background(), types.Item{
		Title:    "Blue Headphones",
		Category: "Electronics",
	})
	require.NoError(t, err)

	rec := svc.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Blue Headphones")
}

func TestHealthz(t *testing.T) {
	svc := newTestService(t)

	rec := svc.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestGalleryRequiresAuth(t *testing.T) {
	svc := newTestService(t)

	rec := svc.get(t, "/gallery")
	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exact", truncate("exact", 5))
	require.Equal(t, "abc...", truncate("abcdef", 3))

	// Cuts between runes, never inside one.
	got := truncate("héllo wörld", 6)
	require.Equal(t, "héllo ...", got)
	require.True(t, utf8.ValidString(got))
	require.True(t, utf8.ValidString(truncate("日本語テキスト", 2)))
	require.Equal(t, "日本...", truncate("日本語テキスト", 2))
}

func TestCheckOwner(t *testing.T) {
	svc := newTestService(t)
	item := &types.Item{OwnerID: "user-1", OwnerEmail: "a@example.com"}

	withUser := func(userID, email string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/item/lost/1/delete", nil)
		ctx := req.Context()
		if userID != "" {
			ctx = context.WithValue(ctx, contextKeyUserID, userID)
		}
		if email != "" {
			ctx = context.WithValue(ctx, contextKeyEmail, email)
		}
		return req.WithContext(ctx)
	}

	require.NoError(t, svc.checkOwner(withUser("user-1", ""), item))
	require.NoError(t, svc.checkOwner(withUser("other", "a@example.com"), item))
	require.ErrorIs(t, svc.checkOwner(withUser("other", "b@example.com"), item), types.ErrNotOwner)
	require.ErrorIs(t, svc.checkOwner(withUser("", ""), item), types.ErrNotOwner)
}

func TestSafeReturnPath(t *testing.T) {
	require.Equal(t, "/profile", safeReturnPath("/profile"))
	require.Equal(t, "/item/lost/1", safeReturnPath("/item/lost/1"))

	// Client-controlled values that would leave the site fall back to
	// the gallery.
	require.Equal(t, "/gallery", safeReturnPath("https://evil.example"))
	require.Equal(t, "/gallery", safeReturnPath("//evil.example/phish"))
	require.Equal(t, "/gallery", safeReturnPath("javascript:alert(1)"))
	require.Equal(t, "/gallery", safeReturnPath(""))
}

func TestTrailingSlashRedirect(t *testing.T) {
	svc := newTestService(t)

	rec := svc.get(t, "/faq/")
	require.Equal(t, http.StatusMovedPermanently, rec.Code)
	require.Equal(t, "/faq", rec.Header().Get("Location"))
}
