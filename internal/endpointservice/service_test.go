package endpointservice

import (
	"context"
	"errors"
	"testing"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/jsonval"
	"github.com/reqstudio/reqstudio/internal/projectservice"
	"github.com/reqstudio/reqstudio/internal/store"
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

func mustCreate(t *testing.T, svc *Service, p CreateEndpointParams) *store.Endpoint {
	t.Helper()
	e, err := svc.CreateEndpoint(context.Background(), p)
	if err != nil {
		t.Fatalf("CreateEndpoint(%s %s): %v", p.Method, p.Path, err)
	}
	return e
}

func TestCreateEndpointNormalizesPath(t *testing.T) {
	svc, projectID := setup(t)

	e := mustCreate(t, svc, CreateEndpointParams{
		ProjectID: projectID, Method: "GET", Path: "users", Title: "List users",
	})
	if e.Path != "/users" {
		t.Errorf("path = %q, want leading slash added", e.Path)
	}
	if e.Folder != DefaultFolder {
		t.Errorf("folder = %q, want %q", e.Folder, DefaultFolder)
	}
}

func TestCreateEndpointValidation(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		p    CreateEndpointParams
	}{
		{"missing project", CreateEndpointParams{Method: "GET", Path: "/x", Title: "x"}},
		{"missing method", CreateEndpointParams{ProjectID: projectID, Path: "/x", Title: "x"}},
		{"unknown method", CreateEndpointParams{ProjectID: projectID, Method: "FETCH", Path: "/x", Title: "x"}},
		{"lowercase method", CreateEndpointParams{ProjectID: projectID, Method: "get", Path: "/x", Title: "x"}},
		{"blank path", CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "   ", Title: "x"}},
		{"blank title", CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/x", Title: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.CreateEndpoint(ctx, tc.p); !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("CreateEndpoint = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateEndpointConflict(t *testing.T) {
	st := testutil.TestStore(t)
	projects := projectservice.NewService(st)
	svc := NewService(st)
	ctx := context.Background()

	p1, err := projects.CreateProject(ctx, projectservice.CreateProjectParams{Name: "One"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	p2, err := projects.CreateProject(ctx, projectservice.CreateProjectParams{Name: "Two"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	mustCreate(t, svc, CreateEndpointParams{ProjectID: p1.ID, Method: "GET", Path: "/users", Title: "a"})

	if _, err := svc.CreateEndpoint(ctx, CreateEndpointParams{ProjectID: p1.ID, Method: "GET", Path: "/users", Title: "b"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate in same project = %v, want ErrConflict", err)
	}

	// Normalized path collides with an existing slash-prefixed one.
	if _, err := svc.CreateEndpoint(ctx, CreateEndpointParams{ProjectID: p1.ID, Method: "GET", Path: "users", Title: "c"}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("normalized duplicate = %v, want ErrConflict", err)
	}

	// The same pair in another project is allowed.
	mustCreate(t, svc, CreateEndpointParams{ProjectID: p2.ID, Method: "GET", Path: "/users", Title: "d"})
}

func TestUpdateEndpointCollision(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	a := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/a", Title: "a"})
	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/b", Title: "b"})

	// Moving a onto b's pair must fail.
	path := "/b"
	if _, err := svc.UpdateEndpoint(ctx, a.ID, UpdateEndpointParams{Path: &path}); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("collision update = %v, want ErrConflict", err)
	}

	// Re-saving a record with its own pair is not a collision.
	own := "/a"
	if _, err := svc.UpdateEndpoint(ctx, a.ID, UpdateEndpointParams{Path: &own}); err != nil {
		t.Errorf("self update: %v", err)
	}
}

func TestUpdateEndpointPartial(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	e := mustCreate(t, svc, CreateEndpointParams{
		ProjectID: projectID, Method: "GET", Path: "/users", Title: "List users",
		Description: "original",
	})

	deprecated := true
	body := jsonval.MustParse(`{"type":"object"}`)
	updated, err := svc.UpdateEndpoint(ctx, e.ID, UpdateEndpointParams{
		Deprecated:  &deprecated,
		RequestBody: &body,
	})
	if err != nil {
		t.Fatalf("UpdateEndpoint: %v", err)
	}
	if !updated.Deprecated {
		t.Error("deprecated not applied")
	}
	if updated.RequestBody.String() != `{"type":"object"}` {
		t.Errorf("requestBody = %s", updated.RequestBody.String())
	}
	if updated.Description != "original" || updated.Method != "GET" || updated.Path != "/users" {
		t.Error("unsupplied fields should be preserved")
	}
}

func TestUpdateEndpointClearsFolderToDefault(t *testing.T) {
	svc, projectID := setup(t)

	e := mustCreate(t, svc, CreateEndpointParams{
		ProjectID: projectID, Method: "GET", Path: "/a", Title: "a", Folder: "Users",
	})
	empty := ""
	updated, err := svc.UpdateEndpoint(context.Background(), e.ID, UpdateEndpointParams{Folder: &empty})
	if err != nil {
		t.Fatalf("UpdateEndpoint: %v", err)
	}
	if updated.Folder != DefaultFolder {
		t.Errorf("folder = %q, want %q", updated.Folder, DefaultFolder)
	}
}

func TestReorderEndpoints(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	e1 := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/a", Title: "a", SortOrder: 0})
	e2 := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/b", Title: "b", SortOrder: 1})
	e3 := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/c", Title: "c", SortOrder: 2})

	if err := svc.ReorderEndpoints(ctx, []string{e3.ID, e1.ID, e2.ID}); err != nil {
		t.Fatalf("ReorderEndpoints: %v", err)
	}

	list, err := svc.EndpointsByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("EndpointsByProject: %v", err)
	}
	want := []string{e3.ID, e1.ID, e2.ID}
	for i, e := range list {
		if e.ID != want[i] || e.SortOrder != i {
			t.Errorf("position %d: id=%s sortOrder=%d", i, e.ID, e.SortOrder)
		}
	}
}

func TestReorderEndpointsAllOrNothing(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	e1 := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/a", Title: "a", SortOrder: 5})

	if err := svc.ReorderEndpoints(ctx, []string{e1.ID, "ghost"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("reorder with unknown id = %v, want ErrNotFound", err)
	}
	got, err := svc.GetEndpoint(ctx, e1.ID)
	if err != nil {
		t.Fatalf("GetEndpoint: %v", err)
	}
	if got.SortOrder != 5 {
		t.Errorf("sortOrder = %d, want unchanged 5", got.SortOrder)
	}

	if err := svc.ReorderEndpoints(ctx, nil); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty reorder = %v, want ErrValidation", err)
	}
}

func TestDuplicateEndpoint(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	original := mustCreate(t, svc, CreateEndpointParams{
		ProjectID: projectID, Method: "POST", Path: "/users", Title: "Create user",
		OperationID: "createUser", Tags: []string{"users"},
		RequestBody: jsonval.MustParse(`{"type":"object"}`),
		Folder:      "Users", Deprecated: true,
	})

	clone, err := svc.DuplicateEndpoint(ctx, original.ID)
	if err != nil {
		t.Fatalf("DuplicateEndpoint: %v", err)
	}
	if clone.ID == original.ID {
		t.Error("clone must get a fresh id")
	}
	if clone.Path != "/users-copy" {
		t.Errorf("path = %q", clone.Path)
	}
	if clone.Title != "Create user (Copy)" {
		t.Errorf("title = %q", clone.Title)
	}
	if clone.OperationID != "createUser_copy" {
		t.Errorf("operationId = %q", clone.OperationID)
	}
	if clone.Method != "POST" || clone.Folder != "Users" || !clone.Deprecated {
		t.Errorf("copied fields mismatch: %+v", clone)
	}
	if clone.RequestBody.String() != original.RequestBody.String() {
		t.Error("requestBody should be carried over")
	}

	// The clone occupies a distinct pair, so listing shows both.
	list, err := svc.EndpointsByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("EndpointsByProject: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("endpoints = %d, want 2", len(list))
	}
}

func TestDuplicateEndpointEmptyOperationID(t *testing.T) {
	svc, projectID := setup(t)

	original := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/plain", Title: "plain"})
	clone, err := svc.DuplicateEndpoint(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("DuplicateEndpoint: %v", err)
	}
	if clone.OperationID != "" {
		t.Errorf("operationId = %q, want empty", clone.OperationID)
	}
}

func TestDuplicateEndpointTwiceConflicts(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	original := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/a", Title: "a"})
	if _, err := svc.DuplicateEndpoint(ctx, original.ID); err != nil {
		t.Fatalf("first duplicate: %v", err)
	}
	if _, err := svc.DuplicateEndpoint(ctx, original.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("second duplicate = %v, want ErrConflict", err)
	}
}

func TestEndpointStats(t *testing.T) {
	svc, projectID := setup(t)

	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/a", Title: "a", Folder: "Users"})
	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/b", Title: "b", Folder: "Users", Deprecated: true})
	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "POST", Path: "/c", Title: "c", Documentation: "# Notes"})

	stats, err := svc.EndpointStats(context.Background(), projectID)
	if err != nil {
		t.Fatalf("EndpointStats: %v", err)
	}
	if stats.TotalEndpoints != 3 {
		t.Errorf("totalEndpoints = %d", stats.TotalEndpoints)
	}
	if stats.MethodCounts["GET"] != 2 || stats.MethodCounts["POST"] != 1 {
		t.Errorf("methodCounts = %v", stats.MethodCounts)
	}
	if stats.FolderCounts["Users"] != 2 || stats.FolderCounts[DefaultFolder] != 1 {
		t.Errorf("folderCounts = %v", stats.FolderCounts)
	}
	if stats.DeprecatedCount != 1 {
		t.Errorf("deprecatedCount = %d", stats.DeprecatedCount)
	}
	if stats.DocumentedCount != 1 {
		t.Errorf("documentedCount = %d", stats.DocumentedCount)
	}
}

func TestEndpointsByFolder(t *testing.T) {
	svc, projectID := setup(t)

	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/a", Title: "a", Folder: "Users"})
	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/b", Title: "b"})

	grouped, err := svc.EndpointsByFolder(context.Background(), projectID)
	if err != nil {
		t.Fatalf("EndpointsByFolder: %v", err)
	}
	if len(grouped["Users"]) != 1 || len(grouped[DefaultFolder]) != 1 {
		t.Errorf("grouped = %v", grouped)
	}
}

func TestSearchEndpoints(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/users", Title: "List users", Folder: "Users"})
	mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "DELETE", Path: "/sessions", Title: "Logout", Description: "clears the user session"})

	hits, err := svc.SearchEndpoints(ctx, projectID, "USER")
	if err != nil {
		t.Fatalf("SearchEndpoints: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("case-insensitive hits = %d, want 2", len(hits))
	}

	hits, err = svc.SearchEndpoints(ctx, projectID, "delete")
	if err != nil {
		t.Fatalf("SearchEndpoints: %v", err)
	}
	if len(hits) != 1 || hits[0].Method != "DELETE" {
		t.Errorf("method search hits = %v", hits)
	}

	hits, err = svc.SearchEndpoints(ctx, projectID, "nothing-matches-this")
	if err != nil {
		t.Fatalf("SearchEndpoints: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("no-match result = %#v, want non-nil empty slice", hits)
	}
}

func TestValidateEndpointPath(t *testing.T) {
	svc, projectID := setup(t)
	ctx := context.Background()

	e := mustCreate(t, svc, CreateEndpointParams{ProjectID: projectID, Method: "GET", Path: "/users", Title: "a"})

	valid, err := svc.ValidateEndpointPath(ctx, projectID, "GET", "/users", "")
	if err != nil {
		t.Fatalf("ValidateEndpointPath: %v", err)
	}
	if valid {
		t.Error("occupied pair should be invalid")
	}

	valid, err = svc.ValidateEndpointPath(ctx, projectID, "GET", "/users", e.ID)
	if err != nil {
		t.Fatalf("ValidateEndpointPath: %v", err)
	}
	if !valid {
		t.Error("own pair should be valid when excluded")
	}

	valid, err = svc.ValidateEndpointPath(ctx, projectID, "POST", "/users", "")
	if err != nil {
		t.Fatalf("ValidateEndpointPath: %v", err)
	}
	if !valid {
		t.Error("vacant pair should be valid")
	}
}
