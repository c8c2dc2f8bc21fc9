package store

import (
	"fmt"
	"time"
)

type Likes struct {
	ID        int64     `json:"id"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FeedbackMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateFeedbackMessage struct {
	Name    string
	Email   *string
	Message string
}

type Project struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         []string  `json:"tags"`
	DemoLink     *string   `json:"demo_link"`
	ImageURL     *string   `json:"image_url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CreateProject struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Tags         []string `yaml:"tags"`
	DemoLink     *string  `yaml:"demo_link"`
	ImageURL     *string  `yaml:"image_url"`
	DisplayOrder int      `yaml:"display_order"`
	IsActive     bool     `yaml:"-"`
}

// ProjectPatch updates the non nil fields of a project. An empty DemoLink or ImageURL
// clears the link.
type ProjectPatch struct {
	Title        *string
	Description  *string
	Tags         []string
	DemoLink     *string
	ImageURL     *string
	DisplayOrder *int
	IsActive     *bool
}

type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateContactMessage struct {
	Name    string
	Email   *string
	Subject string
	Message string
}

type Theme string

const (
	ThemeClassic Theme = "classic"
	ThemeDark    Theme = "dark"
	ThemeRetro   Theme = "retro"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeClassic, ThemeDark, ThemeRetro:
		return true
	}
	return false
}

type AnimationSpeed string

const (
	AnimationSpeedSlow   AnimationSpeed = "slow"
	AnimationSpeedNormal AnimationSpeed = "normal"
	AnimationSpeedFast   AnimationSpeed = "fast"
)

func (a AnimationSpeed) Valid() bool {
	switch a {
	case AnimationSpeedSlow, AnimationSpeedNormal, AnimationSpeedFast:
		return true
	}
	return false
}

type Settings struct {
	ID               int64          `json:"id"`
	SoundEnabled     bool           `json:"sound_enabled"`
	Theme            Theme          `json:"theme"`
	AnimationSpeed   AnimationSpeed `json:"animation_speed"`
	ShowVisitorCount bool           `json:"show_visitor_count"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

type SettingsPatch struct {
	SoundEnabled     *bool
	Theme            *Theme
	AnimationSpeed   *AnimationSpeed
	ShowVisitorCount *bool
}

func (p SettingsPatch) validate() error {
	if p.Theme != nil && !p.Theme.Valid() {
		return fmt.Errorf("%w: theme %q", ErrInvalid, *p.Theme)
	}
	if p.AnimationSpeed != nil && !p.AnimationSpeed.Valid() {
		return fmt.Errorf("%w: animation speed %q", ErrInvalid, *p.AnimationSpeed)
	}
	return nil
}

// Stats mixes stored counters with fields derived from other tables on every read.
type Stats struct {
	ID              int64     `json:"id"`
	TotalProjects   int64     `json:"total_projects"`
	YearsExperience int64     `json:"years_experience"`
	TotalLikes      int64     `json:"total_likes"`
	VisitorCount    int64     `json:"visitor_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}
