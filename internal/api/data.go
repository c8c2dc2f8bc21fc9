package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/portfolio-os/internal/build"
	"github.com/ItsNotGoodName/portfolio-os/internal/bus"
	"github.com/ItsNotGoodName/portfolio-os/internal/store"
	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/sync/errgroup"
)

type HealthcheckOutput struct {
	Body struct {
		Status    string      `json:"status"`
		Timestamp time.Time   `json:"timestamp"`
		Build     build.Build `json:"build"`
	}
}

type LikesOutput struct {
	Body store.Likes
}

type IncrementLikesInput struct {
	Body struct {
		Increment int64 `json:"increment,omitempty" minimum:"1" default:"1" doc:"Amount to add to the like counter"`
	} `required:"false"`
}

type CreateFeedbackMessageInput struct {
	Body struct {
		Name    string  `json:"name" minLength:"1" maxLength:"100"`
		Email   *string `json:"email,omitempty" format:"email" maxLength:"255"`
		Message string  `json:"message" minLength:"1" maxLength:"2000"`
	}
}

type FeedbackMessageOutput struct {
	Body store.FeedbackMessage
}

type FeedbackMessagesOutput struct {
	Body []store.FeedbackMessage
}

type ProjectsOutput struct {
	Body []store.Project
}

type ProjectOutput struct {
	Body store.Project
}

type CreateProjectInput struct {
	Body struct {
		Title        string   `json:"title" minLength:"1" maxLength:"200"`
		Description  string   `json:"description" minLength:"1"`
		Tags         []string `json:"tags,omitempty"`
		DemoLink     *string  `json:"demo_link,omitempty" format:"uri"`
		ImageURL     *string  `json:"image_url,omitempty" format:"uri"`
		DisplayOrder int      `json:"display_order,omitempty" minimum:"0"`
		IsActive     *bool    `json:"is_active,omitempty" doc:"Defaults to true"`
	}
}

type UpdateProjectInput struct {
	ID   int64 `path:"id"`
	Body struct {
		Title        *string  `json:"title,omitempty" minLength:"1" maxLength:"200"`
		Description  *string  `json:"description,omitempty" minLength:"1"`
		Tags         []string `json:"tags,omitempty"`
		DemoLink     *string  `json:"demo_link,omitempty" format:"uri" doc:"Empty string removes the link"`
		ImageURL     *string  `json:"image_url,omitempty" format:"uri" doc:"Empty string removes the image"`
		DisplayOrder *int     `json:"display_order,omitempty" minimum:"0"`
		IsActive     *bool    `json:"is_active,omitempty"`
	}
}

type CreateContactMessageInput struct {
	Body struct {
		Name    string  `json:"name" minLength:"1" maxLength:"100"`
		Email   *string `json:"email,omitempty" format:"email" maxLength:"255"`
		Subject string  `json:"subject" minLength:"1" maxLength:"200"`
		Message string  `json:"message" minLength:"1" maxLength:"5000"`
	}
}

type ContactMessageOutput struct {
	Body store.ContactMessage
}

type ContactMessagesOutput struct {
	Body []store.ContactMessage
}

type SettingsOutput struct {
	Body store.Settings
}

type UpdateSettingsInput struct {
	Body struct {
		SoundEnabled     *bool                 `json:"sound_enabled,omitempty"`
		Theme            *store.Theme          `json:"theme,omitempty" enum:"classic,dark,retro"`
		AnimationSpeed   *store.AnimationSpeed `json:"animation_speed,omitempty" enum:"slow,normal,fast"`
		ShowVisitorCount *bool                 `json:"show_visitor_count,omitempty"`
	}
}

type StatsOutput struct {
	Body store.Stats
}

type BootstrapOutput struct {
	Body struct {
		Likes            store.Likes             `json:"likes"`
		FeedbackMessages []store.FeedbackMessage `json:"feedback_messages"`
		Projects         []store.Project         `json:"projects"`
		ContactMessages  []store.ContactMessage  `json:"contact_messages"`
		Settings         store.Settings          `json:"settings"`
		Stats            store.Stats             `json:"stats"`
	}
}

func (h *Handler) registerData(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "healthcheck",
		Method:      http.MethodGet,
		Path:        "/api/healthcheck",
		Summary:     "Check service health",
		Tags:        []string{"Health"},
	}, func(ctx context.Context, input *struct{}) (*HealthcheckOutput, error) {
		if err := h.store.Ping(ctx); err != nil {
			return nil, huma.Error503ServiceUnavailable("database unavailable", err)
		}

		res := &HealthcheckOutput{}
		res.Body.Status = "ok"
		res.Body.Timestamp = time.Now().UTC()
		res.Body.Build = build.Current
		return res, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-likes",
		Method:      http.MethodGet,
		Path:        "/api/likes",
		Summary:     "Get the like counter",
		Tags:        []string{"Likes"},
	}, func(ctx context.Context, input *struct{}) (*LikesOutput, error) {
		likes, err := h.store.GetLikes(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &LikesOutput{Body: likes}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "increment-likes",
		Method:      http.MethodPost,
		Path:        "/api/likes/increment",
		Summary:     "Increment the like counter",
		Tags:        []string{"Likes"},
	}, func(ctx context.Context, input *IncrementLikesInput) (*LikesOutput, error) {
		increment := input.Body.Increment
		if increment == 0 {
			increment = 1
		}

		likes, err := h.store.IncrementLikes(ctx, increment)
		if err != nil {
			return nil, toHumaError(err)
		}
		bus.Publish(likes)

		return &LikesOutput{Body: likes}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-feedback-message",
		Method:        http.MethodPost,
		Path:          "/api/feedback",
		Summary:       "Leave feedback",
		Tags:          []string{"Feedback"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateFeedbackMessageInput) (*FeedbackMessageOutput, error) {
		m, err := h.store.CreateFeedbackMessage(ctx, store.CreateFeedbackMessage{
			Name:    input.Body.Name,
			Email:   input.Body.Email,
			Message: input.Body.Message,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FeedbackMessageOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-feedback-messages",
		Method:      http.MethodGet,
		Path:        "/api/feedback",
		Summary:     "List feedback, newest first",
		Tags:        []string{"Feedback"},
	}, func(ctx context.Context, input *struct{}) (*FeedbackMessagesOutput, error) {
		messages, err := h.store.ListFeedbackMessages(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &FeedbackMessagesOutput{Body: messages}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/api/projects",
		Summary:     "List active projects",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *struct{}) (*ProjectsOutput, error) {
		projects, err := h.store.ListProjects(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProjectsOutput{Body: projects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-project",
		Method:        http.MethodPost,
		Path:          "/api/projects",
		Summary:       "Create a project",
		Tags:          []string{"Projects"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateProjectInput) (*ProjectOutput, error) {
		isActive := true
		if input.Body.IsActive != nil {
			isActive = *input.Body.IsActive
		}

		p, err := h.store.CreateProject(ctx, store.CreateProject{
			Title:        input.Body.Title,
			Description:  input.Body.Description,
			Tags:         input.Body.Tags,
			DemoLink:     input.Body.DemoLink,
			ImageURL:     input.Body.ImageURL,
			DisplayOrder: input.Body.DisplayOrder,
			IsActive:     isActive,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-project",
		Method:      http.MethodPatch,
		Path:        "/api/projects/{id}",
		Summary:     "Update a project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *UpdateProjectInput) (*ProjectOutput, error) {
		p, err := h.store.UpdateProject(ctx, input.ID, store.ProjectPatch{
			Title:        input.Body.Title,
			Description:  input.Body.Description,
			Tags:         input.Body.Tags,
			DemoLink:     input.Body.DemoLink,
			ImageURL:     input.Body.ImageURL,
			DisplayOrder: input.Body.DisplayOrder,
			IsActive:     input.Body.IsActive,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-contact-message",
		Method:        http.MethodPost,
		Path:          "/api/contact",
		Summary:       "Send a contact message",
		Tags:          []string{"Contact"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateContactMessageInput) (*ContactMessageOutput, error) {
		m, err := h.store.CreateContactMessage(ctx, store.CreateContactMessage{
			Name:    input.Body.Name,
			Email:   input.Body.Email,
			Subject: input.Body.Subject,
			Message: input.Body.Message,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ContactMessageOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contact-messages",
		Method:      http.MethodGet,
		Path:        "/api/contact",
		Summary:     "List contact messages, newest first",
		Tags:        []string{"Contact"},
	}, func(ctx context.Context, input *struct{}) (*ContactMessagesOutput, error) {
		messages, err := h.store.ListContactMessages(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ContactMessagesOutput{Body: messages}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-settings",
		Method:      http.MethodGet,
		Path:        "/api/settings",
		Summary:     "Get the desktop settings",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, input *struct{}) (*SettingsOutput, error) {
		st, err := h.store.GetSettings(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SettingsOutput{Body: st}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-settings",
		Method:      http.MethodPatch,
		Path:        "/api/settings",
		Summary:     "Update the desktop settings",
		Tags:        []string{"Settings"},
	}, func(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
		st, err := h.store.UpdateSettings(ctx, store.SettingsPatch{
			SoundEnabled:     input.Body.SoundEnabled,
			Theme:            input.Body.Theme,
			AnimationSpeed:   input.Body.AnimationSpeed,
			ShowVisitorCount: input.Body.ShowVisitorCount,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &SettingsOutput{Body: st}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/api/stats",
		Summary:     "Get the portfolio stats",
		Tags:        []string{"Stats"},
	}, func(ctx context.Context, input *struct{}) (*StatsOutput, error) {
		st, err := h.store.GetStats(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &StatsOutput{Body: st}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "increment-visitor-count",
		Method:      http.MethodPost,
		Path:        "/api/stats/visitors",
		Summary:     "Count a visitor",
		Tags:        []string{"Stats"},
	}, func(ctx context.Context, input *struct{}) (*StatsOutput, error) {
		st, err := h.store.IncrementVisitorCount(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &StatsOutput{Body: st}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-bootstrap",
		Method:      http.MethodGet,
		Path:        "/api/bootstrap",
		Summary:     "Load everything the desktop shows on startup",
		Tags:        []string{"Bootstrap"},
	}, func(ctx context.Context, input *struct{}) (*BootstrapOutput, error) {
		res := &BootstrapOutput{}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			res.Body.Likes, err = h.store.GetLikes(ctx)
			return
		})
		g.Go(func() (err error) {
			res.Body.FeedbackMessages, err = h.store.ListFeedbackMessages(ctx)
			return
		})
		g.Go(func() (err error) {
			res.Body.Projects, err = h.store.ListProjects(ctx)
			return
		})
		g.Go(func() (err error) {
			res.Body.ContactMessages, err = h.store.ListContactMessages(ctx)
			return
		})
		g.Go(func() (err error) {
			res.Body.Settings, err = h.store.GetSettings(ctx)
			return
		})
		g.Go(func() (err error) {
			res.Body.Stats, err = h.store.GetStats(ctx)
			return
		})
		if err := g.Wait(); err != nil {
			return nil, toHumaError(err)
		}

		return res, nil
	})
}
