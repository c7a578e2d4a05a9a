package banner

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/surveyops/respops/core"
)

var (
	// errors
	ErrNoActiveBanner   = errors.New("no active banner")
	ErrTemplateNotFound = errors.New("banner template not found")
)

// Banner is the single site-wide alert shown to all portal users.
type Banner struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	SetBy     string    `json:"set_by"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Template is a reusable canned banner.
type Template struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
}

// NewBanner contains information needed to publish a banner.
type NewBanner struct {
	Content string `json:"content" validate:"required,notblank,max=500"`
}

func (nb *NewBanner) Validate() error {
	nb.Content = core.CleanString(nb.Content)
	return core.Validate.Struct(nb)
}

// NewTemplate contains information needed to create a banner template.
type NewTemplate struct {
	Title   string `json:"title" validate:"required,notblank,max=100"`
	Content string `json:"content" validate:"required,notblank,max=500"`
}

func (nt *NewTemplate) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	nt.Content = core.CleanString(nt.Content)
	return core.Validate.Struct(nt)
}
