// internal/domain/models/project.go
package models

// Project is one fundraising project as listed by GET /api/projects.
type Project struct {
	ID            int     `json:"id"`
	ProjectName   string  `json:"project_name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	StartDate     string  `json:"start_date"`
	Status        string  `json:"status"`
}

// ProjectDraft holds the uncommitted "Add Project" form state.
type ProjectDraft struct {
	ProjectName  string `json:"project_name" validate:"required"`
	TargetAmount string `json:"target_amount" validate:"required"`
	StartDate    string `json:"start_date" validate:"required"`
}

// DefaultProjectDraft returns the documented default shape of the
// project form.
func DefaultProjectDraft() ProjectDraft {
	return ProjectDraft{}
}
