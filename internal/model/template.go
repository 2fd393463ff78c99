package model

import (
	"time"

	"github.com/google/uuid"
)

// RunTemplate is a reusable run configuration capturing parts, stocks and
// config but not a placement result — adapted from the teacher's
// ProjectTemplate (which captured parts/stock sheets/CutSettings).
type RunTemplate struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
	Parts       []Part  `json:"parts"`
	Stocks      []Stock `json:"stocks"`
	Config      Config  `json:"config"`
}

// NewRunTemplate creates a new template from the given run inputs,
// intentionally excluding any prior result.
func NewRunTemplate(name, description string, parts []Part, stocks []Stock, cfg Config) RunTemplate {
	return RunTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Parts:       append([]Part{}, parts...),
		Stocks:      append([]Stock{}, stocks...),
		Config:      cfg,
	}
}

// TemplateStore holds a collection of run templates.
type TemplateStore struct {
	Templates []RunTemplate `json:"templates"`
}

// NewTemplateStore returns an empty TemplateStore.
func NewTemplateStore() TemplateStore {
	return TemplateStore{Templates: []RunTemplate{}}
}

// Add appends a template to the store.
func (ts *TemplateStore) Add(t RunTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID, reporting whether it was found.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *RunTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}
