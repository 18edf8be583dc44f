// internal/apiclient/projects.go
package apiclient

import (
	"context"

	"github.com/chapelstack/chapelhub/internal/domain/models"
)

type projectsEnvelope struct {
	Projects []models.Project `json:"projects"`
}

// FetchProjects lists all fundraising projects.
func (c *Client) FetchProjects(ctx context.Context, token string) ([]models.Project, error) {
	var env projectsEnvelope
	if err := c.getJSON(ctx, token, "/projects", "projects", &env); err != nil {
		return nil, err
	}
	return env.Projects, nil
}

// CreateProject creates a fundraising project.
func (c *Client) CreateProject(ctx context.Context, token string, draft models.ProjectDraft) error {
	return c.postJSON(ctx, token, "/projects", draft)
}
