package envservice

import (
	"context"
	"errors"
	"testing"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/projectservice"
	"github.com/reqstudio/reqstudio/internal/testutil"
)

func setup(t *testing.T) (*Service, string) {
	t.Helper()
	st := testutil.TestStore(t)
	p, err := projectservice.NewService(st).CreateProject(context.Background(), projectservice.CreateProjectParams{Name: "Demo"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return NewService(st), p.ID
}

func TestCreateEnvironment(t *testing.T) {
	svc, projectID := setup(t)

	env, err := svc.CreateEnvironment(context.Background(), CreateEnvironmentParams{
		ProjectID: projectID, Name: "  staging  ",
		BaseURL:   "https://{{region}}.example.com",
		Variables: map[string]string{"region": "eu"},
	})
	if err != nil {
		t.Fatalf("CreateEnvironment: %v", err)
	}
	if env.Name != "staging" {
		t.Errorf("name = %q, want trimmed", env.Name)
	}
	if env.ResolveBaseURL() != "https://eu.example.com" {
		t.Errorf("ResolveBaseURL = %q", env.ResolveBaseURL())
	}
}

func TestCreateEnvironmentValidation(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		p    CreateEnvironmentParams
	}{
		{"missing project", CreateEnvironmentParams{Name: "dev", BaseURL: "http://localhost"}},
		{"blank name", CreateEnvironmentParams{ProjectID: projectID, Name: "  ", BaseURL: "http://localhost"}},
		{"missing base url", CreateEnvironmentParams{ProjectID: projectID, Name: "dev"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateEnvironment(ctx, tc.p); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("CreateEnvironment = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateEnvironmentPartial(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	env, err := svc.CreateEnvironment(ctx, CreateEnvironmentParams{
		ProjectID: projectID, Name: "dev", BaseURL: "http://localhost:8080",
	})
	if err != nil {
		t.Fatalf("CreateEnvironment: %v", err)
	}

	vars := map[string]string{"token": "abc"}
	updated, err := svc.UpdateEnvironment(ctx, env.ID, UpdateEnvironmentParams{Variables: &vars})
	if err != nil {
		t.Fatalf("UpdateEnvironment: %v", err)
	}
	if updated.Variables["token"] != "abc" {
		t.Errorf("variables = %v", updated.Variables)
	}
	if updated.Name != "dev" || updated.BaseURL != "http://localhost:8080" {
		t.Error("unsupplied fields should be preserved")
	}

	empty := ""
	if _, err := svc.UpdateEnvironment(ctx, env.ID, UpdateEnvironmentParams{BaseURL: &empty}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty base url = %v, want ErrValidation", err)
	}
}

func TestEnvironmentsByProject(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	if _, err := svc.CreateEnvironment(ctx, CreateEnvironmentParams{ProjectID: projectID, Name: "dev", BaseURL: "http://localhost"}); err != nil {
		t.Fatalf("CreateEnvironment: %v", err)
	}
	if _, err := svc.CreateEnvironment(ctx, CreateEnvironmentParams{ProjectID: projectID, Name: "prod", BaseURL: "https://api.example.com"}); err != nil {
		t.Fatalf("CreateEnvironment: %v", err)
	}

	list, err := svc.EnvironmentsByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("EnvironmentsByProject: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("environments = %d, want 2", len(list))
	}
}

func TestDeleteEnvironment(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	env, err := svc.CreateEnvironment(ctx, CreateEnvironmentParams{ProjectID: projectID, Name: "dev", BaseURL: "http://localhost"})
	if err != nil {
		t.Fatalf("CreateEnvironment: %v", err)
	}
	if err := svc.DeleteEnvironment(ctx, env.ID); err != nil {
		t.Fatalf("DeleteEnvironment: %v", err)
	}
	if _, err := svc.GetEnvironment(ctx, env.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetEnvironment after delete = %v, want ErrNotFound", err)
	}
}
