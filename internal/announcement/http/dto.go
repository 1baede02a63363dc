package http

import (
	"strings"
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/announcement"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
)

type AnnouncementResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type BoardQuery struct {
	request.ListParams
	Keyword string `form:"keyword"`
	SortBy  string `form:"sort_by" binding:"omitempty,oneof=created_at updated_at title"`
}

func (q BoardQuery) filter() announcement.Filter {
	return announcement.Filter{
		Search:    strings.TrimSpace(q.Keyword),
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: strings.ToUpper(q.SortOrder),
	}
}

// AnnouncementBody is shared by create and patch. Presence rules live in the service.
type AnnouncementBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (b AnnouncementBody) draft() announcement.Draft {
	var d announcement.Draft
	if b.Title != nil {
		d.Title = *b.Title
	}
	if b.Content != nil {
		d.Content = *b.Content
	}
	return d
}

func (b AnnouncementBody) patch() announcement.Patch {
	return announcement.Patch{Title: b.Title, Content: b.Content}
}
