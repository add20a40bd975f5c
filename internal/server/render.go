package server

import (
	"net/http"

	"reclaim/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	userID, _ := r.Context().Value(contextKeyUserID).(string)
	userEmail, _ := r.Context().Value(contextKeyEmail).(string)
	userName, _ := r.Context().Value(contextKeyName).(string)

	avatarURL := ""
	if profile := s.sessions.Current(); profile != nil && profile.ID == userID {
		avatarURL = profile.PhotoURL
	}

	if setter, ok := data.(types.NavbarDataSetter); ok {
		setter.SetNavbarData(types.NavbarData{
			IsAuthenticated: userID != "",
			UserID:          userID,
			UserEmail:       userEmail,
			UserName:        userName,
			AvatarURL:       avatarURL,
		})
	}

	return s.templates.ExecuteTemplate(w, templateName, data)
}
