package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/Psyfo/genealogy-app/backend/internal/person"
	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
)

// Precondition failures are raised before any store access, so these run
// without a database.

func TestAddParentChild_SelfParentRejected(t *testing.T) {
	repo := NewRepository(nil)
	id := "9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"

	err := repo.AddParentChild(context.Background(), id, id, person.RoleFather)
	if err == nil {
		t.Fatal("Expected error for self-parenting")
	}
	var selfParent *apperrors.SelfParentError
	if !errors.As(err, &selfParent) {
		t.Errorf("Expected SelfParentError, got %T", err)
	}
}

func TestAddParentChild_MalformedIDsRejected(t *testing.T) {
	repo := NewRepository(nil)
	valid := "9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"

	for _, tt := range []struct{ child, parent string }{
		{"not-a-uuid", valid},
		{valid, "not-a-uuid"},
		{"", valid},
	} {
		err := repo.AddParentChild(context.Background(), tt.child, tt.parent, person.RoleFather)
		if err == nil {
			t.Fatalf("Expected error for ids (%q, %q)", tt.child, tt.parent)
		}
		var invalidID *apperrors.InvalidIDError
		if !errors.As(err, &invalidID) {
			t.Errorf("Expected InvalidIDError, got %T", err)
		}
	}
}

func TestAddParentChild_UnknownRoleRejected(t *testing.T) {
	repo := NewRepository(nil)
	child := "9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"
	parent := "1c3e5a70-2b4d-4f6e-8a9b-0c1d2e3f4a5b"

	err := repo.AddParentChild(context.Background(), child, parent, person.ParentRole("guardian"))
	if err == nil {
		t.Fatal("Expected error for unknown role")
	}
	var invalidRel *apperrors.InvalidRelationshipError
	if !errors.As(err, &invalidRel) {
		t.Errorf("Expected InvalidRelationshipError, got %T", err)
	}
}

func TestCreateRelationship_TypeWhitelist(t *testing.T) {
	repo := NewRepository(nil)
	from := "9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"
	to := "1c3e5a70-2b4d-4f6e-8a9b-0c1d2e3f4a5b"

	err := repo.CreateRelationship(context.Background(), person.Relationship{
		FromID: from, ToID: to, Type: person.RelationshipType("KNOWS"),
	})
	if err == nil {
		t.Fatal("Expected error for unknown relationship type")
	}
	var invalidRel *apperrors.InvalidRelationshipError
	if !errors.As(err, &invalidRel) {
		t.Errorf("Expected InvalidRelationshipError, got %T", err)
	}
}

func TestCreateRelationship_SelfParentOfRejected(t *testing.T) {
	repo := NewRepository(nil)
	id := "9b2d7a32-8c4f-4f9e-a1b3-2f9d8c4e5a6b"

	err := repo.CreateRelationship(context.Background(), person.Relationship{
		FromID: id, ToID: id, Type: person.RelParentOf,
	})
	if err == nil {
		t.Fatal("Expected error for self PARENT_OF edge")
	}
	var selfParent *apperrors.SelfParentError
	if !errors.As(err, &selfParent) {
		t.Errorf("Expected SelfParentError, got %T", err)
	}
}
