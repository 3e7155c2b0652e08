package model

import (
	"time"

	"github.com/google/uuid"
)

// Project bundles a sticker list with its nesting settings and, once a run
// has completed, its result.
type Project struct {
	Name      string            `json:"name"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
	Parts     []Part            `json:"parts"`
	Settings  NestSettings      `json:"settings"`
	Result    *MultiSheetResult `json:"result,omitempty"`
}

// NewProject creates an empty project with default settings.
func NewProject(name string) Project {
	now := time.Now().UTC().Format(time.RFC3339)
	return Project{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Parts:     []Part{},
		Settings:  DefaultSettings(),
	}
}

// Touch updates the modification timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// NestProfile is a named, reusable nesting configuration.
type NestProfile struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	IsBuiltIn bool         `json:"is_built_in,omitempty"`
	Settings  NestSettings `json:"settings"`
}

// NewNestProfile creates a profile with a generated ID.
func NewNestProfile(name string, settings NestSettings) NestProfile {
	return NestProfile{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Settings: settings,
	}
}

// BuiltInProfiles returns the shipped profiles: one per quality preset on
// the default sheet.
func BuiltInProfiles() []NestProfile {
	names := []string{"fast", "balanced", "fine", "maximum"}
	profiles := make([]NestProfile, len(names))
	for i, preset := range names {
		s := DefaultSettings()
		s.Preset = preset
		profiles[i] = NestProfile{
			ID:        "builtin-" + preset,
			Name:      "Default (" + preset + ")",
			IsBuiltIn: true,
			Settings:  s,
		}
	}
	return profiles
}

// ProjectTemplate is a reusable project configuration that captures parts
// and settings but not results.
type ProjectTemplate struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
	Parts       []Part       `json:"parts"`
	Settings    NestSettings `json:"settings"`
}

// NewProjectTemplate creates a template from project data. It copies parts
// and settings but intentionally excludes results.
func NewProjectTemplate(name, description string, parts []Part, settings NestSettings) ProjectTemplate {
	now := time.Now().UTC().Format(time.RFC3339)
	return ProjectTemplate{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Parts:       copyParts(parts),
		Settings:    settings,
	}
}

// ToProject creates a new Project from this template. Parts get fresh IDs
// so they are independent of the template.
func (t ProjectTemplate) ToProject(projectName string) Project {
	parts := make([]Part, len(t.Parts))
	for i, p := range t.Parts {
		parts[i] = NewPart(p.Label, p.Boundary)
		parts[i].Quantity = p.Quantity
	}

	project := NewProject(projectName)
	project.Parts = parts
	project.Settings = t.Settings
	return project
}

// TemplateStore holds a collection of project templates.
type TemplateStore struct {
	Templates []ProjectTemplate `json:"templates"`
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() TemplateStore {
	return TemplateStore{
		Templates: []ProjectTemplate{},
	}
}

// Add adds a template to the store.
func (ts *TemplateStore) Add(t ProjectTemplate) {
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a template by ID. Returns true if found and removed.
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
func (ts *TemplateStore) FindByID(id string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *ProjectTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns the template names in store order.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// copyParts creates a copy of a parts slice.
func copyParts(parts []Part) []Part {
	if parts == nil {
		return []Part{}
	}
	cp := make([]Part, len(parts))
	copy(cp, parts)
	return cp
}

// MediaStock is one kind of sheet media on hand: a named sheet size with a
// material and a remaining count.
type MediaStock struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Unit     string  `json:"unit"`
	Material string  `json:"material"`
	Quantity int     `json:"quantity"`
}

// NewMediaStock creates a stock entry with a generated ID.
func NewMediaStock(name string, width, height float64, unit, material string, qty int) MediaStock {
	return MediaStock{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Width:    width,
		Height:   height,
		Unit:     unit,
		Material: material,
		Quantity: qty,
	}
}

// Sheet returns the stock's sheet geometry.
func (m MediaStock) Sheet() Sheet {
	return Sheet{Width: m.Width, Height: m.Height}
}

// Inventory holds the user's sheet media on hand.
type Inventory struct {
	Stocks []MediaStock `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common sticker media.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []MediaStock{
			NewMediaStock("US Letter Vinyl", 8.5, 11.0, "in", "Vinyl", 50),
			NewMediaStock("US Letter Paper", 8.5, 11.0, "in", "Paper", 100),
			NewMediaStock("A4 Vinyl", 210, 297, "mm", "Vinyl", 50),
			NewMediaStock("12x12 Craft Vinyl", 12, 12, "in", "Vinyl", 25),
		},
	}
}

// FindStockByID returns a pointer to the stock with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *MediaStock {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns the stock entry names in inventory order.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// Consume decrements a stock entry's quantity by the number of sheets used.
// Returns false if the entry is unknown or has too few sheets left.
func (inv *Inventory) Consume(id string, sheets int) bool {
	stock := inv.FindStockByID(id)
	if stock == nil || stock.Quantity < sheets {
		return false
	}
	stock.Quantity -= sheets
	return true
}
