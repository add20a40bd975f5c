package server

import (
	"net/http"
	"net/url"
	"strings"

	"reclaim/pkg/types"
)

type LoginPageData struct {
	types.BasePageData
}

type HomePageData struct {
	types.BasePageData
	RecentLost  []*types.Item
	RecentFound []*types.Item
	Categories  []string
}

type FAQEntry struct {
	Question string
	Answer   string
}

type FAQPageData struct {
	types.BasePageData
	Entries []FAQEntry
}

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	recentLost := s.repo.ListItems(types.ItemKindLost, "")
	if len(recentLost) > 6 {
		recentLost = recentLost[:6]
	}
	recentFound := s.repo.ListItems(types.ItemKindFound, "")
	if len(recentFound) > 6 {
		recentFound = recentFound[:6]
	}

	data := &HomePageData{
		BasePageData: types.BasePageData{
			Title:  "Lost & Found",
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		},
		RecentLost:  recentLost,
		RecentFound: recentFound,
		Categories:  types.Categories,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
	}
}

func (s *Service) handleFAQ(w http.ResponseWriter, r *http.Request) {
	data := &FAQPageData{
		BasePageData: types.BasePageData{Title: "FAQ"},
		Entries:      faqEntries(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.faq", data); err != nil {
		s.logger.WithError(err).Error("failed to render faq page")
		s.internalServerError(w)
	}
}

func (s *Service) handleAbout(w http.ResponseWriter, r *http.Request) {
	data := &types.BasePageData{Title: "About"}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.about", data); err != nil {
		s.logger.WithError(err).Error("failed to render about page")
		s.internalServerError(w)
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	v := url.Values{}
	v.Set("notice", notice)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	v := url.Values{}
	v.Set("error", msg)
	http.Redirect(w, r, path+"?"+v.Encode(), http.StatusSeeOther)
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func faqEntries() []FAQEntry {
	return []FAQEntry{
		{
			Question: "How do I report a lost item?",
			Answer:   "Sign in, open Report Lost and describe the item: what it is, where you last saw it and when. You can attach up to three photos.",
		},
		{
			Question: "How do I report something I found?",
			Answer:   "Open Report Found and fill in the same details, with up to five photos. We automatically compare your report against open lost reports in the same category and flag possible matches.",
		},
		{
			Question: "What happens when someone has seen my item?",
			Answer:   "Anyone browsing the gallery can flag a sighting with where and when they saw it. The sighting is added to your report's history and you are notified.",
		},
		{
			Question: "How long do reports stay up?",
			Answer:   "Reports are kept for 90 days from submission, after which they may be archived.",
		},
		{
			Question: "Who can delete a report?",
			Answer:   "Only the person who submitted it. The same goes for marking a report as resolved.",
		},
	}
}
