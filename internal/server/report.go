package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"reclaim/internal/imaging"
	"reclaim/pkg/types"
)

type ReportPageData struct {
	types.BasePageData
	Kind       types.ItemKind
	Categories []string
	MaxImages  int
	Today      string
	Form       any
}

func (s *Service) handleGetReportLost(w http.ResponseWriter, r *http.Request) {
	s.renderReportPage(w, r, types.ItemKindLost, nil)
}

func (s *Service) handleGetReportFound(w http.ResponseWriter, r *http.Request) {
	s.renderReportPage(w, r, types.ItemKindFound, nil)
}

func (s *Service) renderReportPage(w http.ResponseWriter, r *http.Request, kind types.ItemKind, form any) {
	title := "Report Lost Item"
	maxImages := types.MaxLostItemImages
	if kind == types.ItemKindFound {
		title = "Report Found Item"
		maxImages = types.MaxFoundItemImages
	}

	data := &ReportPageData{
		BasePageData: types.BasePageData{
			Title: title,
			Error: r.URL.Query().Get("error"),
		},
		Kind:       kind,
		Categories: types.Categories,
		MaxImages:  maxImages,
		Today:      time.Now().Format("2006-01-02"),
		Form:       form,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.report", data); err != nil {
		s.logger.WithError(err).Error("failed to render report page")
		s.internalServerError(w)
	}
}

func (s *Service) handlePostReportLost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/report/lost", "Invalid form submission.")
		return
	}

	var form types.ReportLostForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.logger.WithError(err).Warn("failed to decode lost report form")
		s.redirectWithError(w, r, "/report/lost", "Invalid form submission.")
		return
	}
	if err := form.Validate(); err != nil {
		s.redirectWithError(w, r, "/report/lost", formErrorMessage(err))
		return
	}

	images, err := s.processImages(form.Images)
	if err != nil {
		s.redirectWithError(w, r, "/report/lost", "One of the uploaded images could not be processed. Please use JPEG or PNG photos.")
		return
	}

	draft := types.Item{
		Title:       form.ItemName,
		Category:    form.Category,
		Description: form.Description,
		Location:    form.Location,
		Date:        form.Date,
		ContactInfo: form.ContactInfo,
		Reward:      form.Reward,
		Images:      images,
	}
	s.fillReporter(r, &draft)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := s.repo.AddLostItem(ctx, draft)
	if err != nil {
		s.logger.WithError(err).Error("failed to save lost item report")
		s.redirectWithError(w, r, "/report/lost", "Failed to save your report. Please try again.")
		return
	}

	s.logger.WithField("item_id", item.ID).Info("lost item reported")
	s.redirectWithNotice(w, r, "/gallery?kind=lost&highlight="+strconv.FormatInt(item.ID, 10),
		"Your lost item report has been posted.")
}

func (s *Service) handlePostReportFound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, "/report/found", "Invalid form submission.")
		return
	}

	var form types.ReportFoundForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.logger.WithError(err).Warn("failed to decode found report form")
		s.redirectWithError(w, r, "/report/found", "Invalid form submission.")
		return
	}
	if err := form.Validate(); err != nil {
		s.redirectWithError(w, r, "/report/found", formErrorMessage(err))
		return
	}

	images, err := s.processImages(form.Images)
	if err != nil {
		s.redirectWithError(w, r, "/report/found", "One of the uploaded images could not be processed. Please use JPEG or PNG photos.")
		return
	}

	draft := types.Item{
		Title:       form.ItemName,
		Category:    form.Category,
		Description: form.Description,
		Location:    form.Location,
		Date:        form.Date,
		ContactInfo: form.ContactInfo,
		Additional:  form.Additional,
		Images:      images,
	}
	s.fillReporter(r, &draft)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := s.repo.AddFoundItem(ctx, draft)
	if err != nil {
		s.logger.WithError(err).Error("failed to save found item report")
		s.redirectWithError(w, r, "/report/found", "Failed to save your report. Please try again.")
		return
	}

	notice := "Your found item report has been posted."
	if matches := s.repo.MatchesForItem(item.ID); len(matches) > 0 {
		notice = fmt.Sprintf("Your found item report has been posted. It may match %d existing lost item report(s).", len(matches))
	}

	s.logger.WithField("item_id", item.ID).Info("found item reported")
	s.redirectWithNotice(w, r, "/gallery?kind=found&highlight="+strconv.FormatInt(item.ID, 10), notice)
}

// processImages normalizes every uploaded data URL. A report with no
// photos is fine, a photo we cannot decode is not.
func (s *Service) processImages(dataURLs []string) ([]string, error) {
	images := make([]string, 0, len(dataURLs))
	for _, raw := range dataURLs {
		if raw == "" {
			continue
		}
		processed, err := imaging.ProcessDataURL(raw)
		if err != nil {
			return nil, err
		}
		images = append(images, processed)
	}
	return images, nil
}

func (s *Service) fillReporter(r *http.Request, draft *types.Item) {
	draft.OwnerID, _ = r.Context().Value(contextKeyUserID).(string)
	draft.OwnerEmail, _ = r.Context().Value(contextKeyEmail).(string)
	draft.OwnerName, _ = r.Context().Value(contextKeyName).(string)
}

func formErrorMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrMissingField):
		return "Please fill in all required fields."
	case errors.Is(err, types.ErrBadCategory):
		return "Please choose a category from the list."
	case errors.Is(err, types.ErrTooManyImages):
		return "Too many images attached to the report."
	default:
		return "Invalid form submission."
	}
}
