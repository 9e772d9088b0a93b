package types

import "time"

// User represents an account in the user service.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectRef is a lightweight project reference returned by listings.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Project represents a project in the project service.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Membership is the project service's answer to a membership check.
type Membership struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	IsMember  bool   `json:"is_member"`
	Role      string `json:"role,omitempty"`
}

// Member describes one member of a project.
type Member struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Document represents a knowledge service document.
type Document struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Source  string   `json:"source,omitempty"`
	Excerpt string   `json:"excerpt,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Score   float64  `json:"score,omitempty"`
}

// Summary is a condensed rendering of a document.
type Summary struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
	Model      string `json:"model,omitempty"`
}

// Design represents a design service artifact.
type Design struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validation is the outcome of a design validation run.
type Validation struct {
	DesignID string   `json:"design_id"`
	Valid    bool     `json:"valid"`
	Issues   []string `json:"issues,omitempty"`
}

// DesignContext bundles a design with supporting knowledge documents.
type DesignContext struct {
	Design    *Design    `json:"design"`
	Documents []Document `json:"documents"`
}
