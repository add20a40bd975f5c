package server

import (
	"net/http"

	"reclaim/pkg/types"
)

type ProfilePageData struct {
	types.BasePageData
	DisplayName string
	Email       string
	PhotoURL    string
	LostItems   []*types.Item
	FoundItems  []*types.Item
	Matches     []*types.Match
}

func (s *Service) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.userIDFromContext(r.Context())
	if err != nil {
		s.redirectToLoginWithError(w, r, "Please sign in to view your profile.")
		return
	}

	email, _ := r.Context().Value(contextKeyEmail).(string)
	name, _ := r.Context().Value(contextKeyName).(string)
	photoURL := ""
	if profile := s.sessions.Current(); profile != nil && profile.ID == userID {
		photoURL = profile.PhotoURL
		if name == "" {
			name = profile.DisplayName
		}
		if email == "" {
			email = profile.Email
		}
	}

	lost, found := s.repo.GetUserItems(userID)
	if email != "" && email != userID {
		lostByEmail, foundByEmail := s.repo.GetUserItems(email)
		lost = mergeItems(lost, lostByEmail)
		found = mergeItems(found, foundByEmail)
	}

	var matches []*types.Match
	for _, item := range found {
		matches = append(matches, s.repo.MatchesForItem(item.ID)...)
	}

	data := &ProfilePageData{
		BasePageData: types.BasePageData{
			Title:  "My Profile",
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		},
		DisplayName: name,
		Email:       email,
		PhotoURL:    photoURL,
		LostItems:   lost,
		FoundItems:  found,
		Matches:     matches,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.profile", data); err != nil {
		s.logger.WithError(err).Error("failed to render profile page")
		s.internalServerError(w)
	}
}

func mergeItems(a, b []*types.Item) []*types.Item {
	seen := make(map[int64]bool, len(a))
	for _, item := range a {
		seen[item.ID] = true
	}
	for _, item := range b {
		if !seen[item.ID] {
			a = append(a, item)
			seen[item.ID] = true
		}
	}
	return a
}
