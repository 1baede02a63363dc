package announcement

import (
	"strings"
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.NotFound("announcement not found")
	ErrNoChanges = apperror.Validation("no fields to update")
)

// Announcement is a notice published by staff on the public board.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft carries the fields of a new announcement.
type Draft struct {
	Title   string
	Content string
}

func (d *Draft) normalize() error {
	d.Title = strings.TrimSpace(d.Title)

	var missing []string
	if d.Title == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return apperror.MissingFields(missing...)
	}
	return nil
}

// Patch holds a partial update. Nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
}

func (p *Patch) normalize() error {
	if p.Title == nil && p.Content == nil {
		return ErrNoChanges
	}

	var missing []string
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			missing = append(missing, "title")
		}
		p.Title = &title
	}
	if p.Content != nil && strings.TrimSpace(*p.Content) == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return apperror.MissingFields(missing...)
	}
	return nil
}

// Filter narrows and pages the board listing.
type Filter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func (f Filter) limitOffset() (uint64, uint64) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return uint64(size), uint64((page - 1) * size)
}
