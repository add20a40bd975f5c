package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"reclaim/pkg/types"

	"github.com/alexedwards/flow"
)

type GalleryPageData struct {
	types.BasePageData
	Kind        types.ItemKind
	Search      string
	Items       []*types.Item
	HighlightID int64
}

type ItemDetailPageData struct {
	types.BasePageData
	Item    *types.Item
	IsOwner bool
	Matches []*types.Match
	Today   string
}

func (s *Service) handleGallery(w http.ResponseWriter, r *http.Request) {
	kind := types.ItemKindLost
	if r.URL.Query().Get("kind") == string(types.ItemKindFound) {
		kind = types.ItemKindFound
	}
	search := r.URL.Query().Get("q")

	title := "Lost Items Gallery"
	if kind == types.ItemKindFound {
		title = "Found Items Gallery"
	}

	highlightID, _ := strconv.ParseInt(r.URL.Query().Get("highlight"), 10, 64)

	data := &GalleryPageData{
		BasePageData: types.BasePageData{
			Title:  title,
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		},
		Kind:        kind,
		Search:      search,
		Items:       s.repo.ListItems(kind, search),
		HighlightID: highlightID,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.gallery", data); err != nil {
		s.logger.WithError(err).Error("failed to render gallery page")
		s.internalServerError(w)
	}
}

func (s *Service) handleItemDetail(w http.ResponseWriter, r *http.Request) {
	kind, id, err := itemRef(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := s.repo.GetItem(kind, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var matches []*types.Match
	if kind == types.ItemKindFound && s.isOwner(r, item) {
		matches = s.repo.MatchesForItem(item.ID)
	}

	data := &ItemDetailPageData{
		BasePageData: types.BasePageData{
			Title:  item.Title,
			Notice: r.URL.Query().Get("notice"),
			Error:  r.URL.Query().Get("error"),
		},
		Item:    item,
		IsOwner: s.isOwner(r, item),
		Matches: matches,
		Today:   time.Now().Format("2006-01-02"),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderTemplate(w, r, "page.item-detail", data); err != nil {
		s.logger.WithError(err).Error("failed to render item detail page")
		s.internalServerError(w)
	}
}

// handlePostSighting appends an "I've seen this" report to the item.
func (s *Service) handlePostSighting(w http.ResponseWriter, r *http.Request) {
	kind, id, err := itemRef(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	itemPath := "/item/" + string(kind) + "/" + strconv.FormatInt(id, 10)

	sighting, err := s.decodeSightingForm(r)
	if err != nil {
		s.redirectWithError(w, r, itemPath, "Please fill in your name, email and the sighting location.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.repo.AddSighting(ctx, kind, id, *sighting); err != nil {
		if errors.Is(err, types.ErrItemNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).Error("failed to record sighting")
		s.redirectWithError(w, r, itemPath, "Failed to record the sighting. Please try again.")
		return
	}

	if item, err := s.repo.GetItem(kind, id); err == nil {
		if err := s.emailer.ItemSeen(r.Context(), item, *sighting); err != nil {
			s.logger.WithError(err).Warn("failed to notify owner about sighting")
		}
	}

	s.redirectWithNotice(w, r, itemPath, "Thank you for reporting that you have seen this item. The owner has been notified.")
}

// handlePostHaveItem records a third party's "I have this item" report,
// which resolves the lost report with the finder's details.
func (s *Service) handlePostHaveItem(w http.ResponseWriter, r *http.Request) {
	kind, id, err := itemRef(r)
	if err != nil || kind != types.ItemKindLost {
		http.NotFound(w, r)
		return
	}
	itemPath := "/item/" + string(kind) + "/" + strconv.FormatInt(id, 10)

	details, err := s.decodeSightingForm(r)
	if err != nil {
		s.redirectWithError(w, r, itemPath, "Please fill in your name, email and the location where you found it.")
		return
	}

	userEmail, _ := r.Context().Value(contextKeyEmail).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.repo.MarkFound(ctx, id, userEmail, details); err != nil {
		switch {
		case errors.Is(err, types.ErrItemNotFound):
			http.NotFound(w, r)
		case errors.Is(err, types.ErrInvalidTransition):
			s.redirectWithError(w, r, itemPath, "This item has already been marked as found.")
		default:
			s.logger.WithError(err).Error("failed to mark item found")
			s.redirectWithError(w, r, itemPath, "Failed to update the item. Please try again.")
		}
		return
	}

	if item, err := s.repo.GetItem(kind, id); err == nil {
		if err := s.emailer.ItemFound(r.Context(), item, *details); err != nil {
			s.logger.WithError(err).Warn("failed to notify owner about found item")
		}
	}

	s.redirectWithNotice(w, r, itemPath, "Thank you for reporting that you have this item. The owner has been notified.")
}

// handlePostResolve lets the owner close out their own report: lost
// items go pending -> found, found items unclaimed -> claimed.
func (s *Service) handlePostResolve(w http.ResponseWriter, r *http.Request) {
	kind, id, err := itemRef(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	itemPath := "/item/" + string(kind) + "/" + strconv.FormatInt(id, 10)

	item, err := s.repo.GetItem(kind, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.checkOwner(r, item); err != nil {
		s.logger.WithError(err).WithField("item_id", id).Warn("resolve rejected")
		s.redirectWithError(w, r, itemPath, "Only the reporting user can resolve this item.")
		return
	}

	userEmail, _ := r.Context().Value(contextKeyEmail).(string)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if kind == types.ItemKindLost {
		err = s.repo.MarkFound(ctx, id, userEmail, nil)
	} else {
		err = s.repo.ClaimItem(ctx, id, userEmail, nil)
	}
	if err != nil {
		if errors.Is(err, types.ErrInvalidTransition) {
			s.redirectWithError(w, r, itemPath, "This item is already resolved.")
			return
		}
		s.logger.WithError(err).Error("failed to resolve item")
		s.redirectWithError(w, r, itemPath, "Failed to update the item. Please try again.")
		return
	}

	s.redirectWithNotice(w, r, itemPath, "Item marked as resolved.")
}

// handlePostDelete removes an item; the repository deletes by id
// unconditionally, so the owner check lives here.
func (s *Service) handlePostDelete(w http.ResponseWriter, r *http.Request) {
	kind, id, err := itemRef(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	item, err := s.repo.GetItem(kind, id)
	if err != nil {
		// Deleting something already gone lands where a successful
		// delete would.
		http.Redirect(w, r, "/gallery", http.StatusSeeOther)
		return
	}

	if err := s.checkOwner(r, item); err != nil {
		s.logger.WithError(err).WithField("item_id", id).Warn("delete rejected")
		s.redirectWithError(w, r, "/gallery", "Only the reporting user can delete this item.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.repo.DeleteItem(ctx, kind, id); err != nil {
		s.logger.WithError(err).Error("failed to delete item")
		s.redirectWithError(w, r, "/gallery", "Failed to delete the item. Please try again.")
		return
	}

	s.redirectWithNotice(w, r, "/gallery", "Item deleted.")
}

func (s *Service) decodeSightingForm(r *http.Request) (*types.Sighting, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	var form types.SightingForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	return &types.Sighting{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Location: form.Location,
		Date:     form.Date,
		Message:  form.Message,
	}, nil
}

func (s *Service) isOwner(r *http.Request, item *types.Item) bool {
	return s.checkOwner(r, item) == nil
}

// checkOwner matches the signed-in user against the item's reporter by
// id or email, ErrNotOwner otherwise.
func (s *Service) checkOwner(r *http.Request, item *types.Item) error {
	userID, _ := r.Context().Value(contextKeyUserID).(string)
	userEmail, _ := r.Context().Value(contextKeyEmail).(string)
	if item.OwnedBy(userID) || item.OwnedBy(userEmail) {
		return nil
	}
	return types.ErrNotOwner
}

func itemRef(r *http.Request) (types.ItemKind, int64, error) {
	kindParam := flow.Param(r.Context(), "kind")
	idParam := flow.Param(r.Context(), "id")

	var kind types.ItemKind
	switch kindParam {
	case string(types.ItemKindLost):
		kind = types.ItemKindLost
	case string(types.ItemKindFound):
		kind = types.ItemKindFound
	default:
		return "", 0, types.ErrItemNotFound
	}

	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return "", 0, types.ErrItemNotFound
	}

	return kind, id, nil
}
