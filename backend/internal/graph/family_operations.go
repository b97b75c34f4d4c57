package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Psyfo/genealogy-app/backend/internal/person"
	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
)

// ============================================================================
// Family Queries
// ============================================================================

// GetFamilyMembers resolves the denormalized references of a person into
// hydrated entities. References that no longer resolve are dropped silently;
// only an unresolvable root id is an error.
func (r *Repository) GetFamilyMembers(ctx context.Context, personID string) (*FamilyMembers, error) {
	root, err := r.GetPersonByID(ctx, personID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, apperrors.NewPersonNotFound(personID)
	}

	family := &FamilyMembers{
		Parents:  []person.Person{},
		Children: []person.Person{},
		Siblings: []person.Person{},
	}

	parentIDs := make([]string, 0, 2)
	if root.FatherID != "" {
		parentIDs = append(parentIDs, root.FatherID)
	}
	if root.MotherID != "" {
		parentIDs = append(parentIDs, root.MotherID)
	}

	for _, id := range parentIDs {
		if p := r.resolveReference(ctx, id); p != nil {
			family.Parents = append(family.Parents, *p)
		}
	}
	for _, id := range root.ChildrenIDs {
		if p := r.resolveReference(ctx, id); p != nil {
			family.Children = append(family.Children, *p)
		}
	}
	for _, id := range root.SiblingIDs {
		if p := r.resolveReference(ctx, id); p != nil {
			family.Siblings = append(family.Siblings, *p)
		}
	}

	return family, nil
}

// resolveReference looks up a denormalized reference, tolerating dangling or
// malformed ids: anything that does not resolve cleanly is dropped.
func (r *Repository) resolveReference(ctx context.Context, id string) *person.Person {
	p, err := r.GetPersonByID(ctx, id)
	if err != nil {
		r.logger.Debug("Dropping unresolvable family reference")
		return nil
	}
	return p
}

// GetAncestors returns every person reachable by following CHILD_OF edges
// upward from the given person. depth bounds the traversal; zero or negative
// means unlimited.
func (r *Repository) GetAncestors(ctx context.Context, id string, depth int) ([]PersonSummary, error) {
	if err := person.ValidateID(id); err != nil {
		return nil, err
	}
	rows, err := r.runRead(ctx, fmt.Sprintf(`
		MATCH (p:Person {id: $id})-[:CHILD_OF%s]->(ancestor:Person)
		RETURN DISTINCT ancestor.id AS id,
		       ancestor.name AS name,
		       ancestor.birthYear AS birthYear,
		       ancestor.deathYear AS deathYear
	`, depthPattern(depth)), map[string]interface{}{"id": id})
	if err != nil {
		return nil, apperrors.NewGraphQueryError("fetch ancestors", err)
	}
	return summariesFromRows(rows), nil
}

// GetDescendants returns every person reachable by following CHILD_OF edges
// downward from the given person. depth bounds the traversal; zero or
// negative means unlimited.
func (r *Repository) GetDescendants(ctx context.Context, id string, depth int) ([]PersonSummary, error) {
	if err := person.ValidateID(id); err != nil {
		return nil, err
	}
	rows, err := r.runRead(ctx, fmt.Sprintf(`
		MATCH (p:Person {id: $id})<-[:CHILD_OF%s]-(descendant:Person)
		RETURN DISTINCT descendant.id AS id,
		       descendant.name AS name,
		       descendant.birthYear AS birthYear,
		       descendant.deathYear AS deathYear
	`, depthPattern(depth)), map[string]interface{}{"id": id})
	if err != nil {
		return nil, apperrors.NewGraphQueryError("fetch descendants", err)
	}
	return summariesFromRows(rows), nil
}

// GetGraphView returns all person nodes plus all person-to-person edges for
// the force-directed renderer. The two scans are independent and run
// concurrently, each on its own session.
func (r *Repository) GetGraphView(ctx context.Context) (*GraphView, error) {
	view := &GraphView{Nodes: []GraphNode{}, Links: []GraphLink{}}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := r.runRead(gctx, `
			MATCH (p:Person)
			RETURN p.id AS id, p.name AS name
		`, nil)
		if err != nil {
			return apperrors.NewGraphQueryError("fetch graph nodes", err)
		}
		for _, row := range rows {
			view.Nodes = append(view.Nodes, GraphNode{
				ID:   getString(row, "id"),
				Name: getString(row, "name"),
			})
		}
		return nil
	})

	g.Go(func() error {
		rows, err := r.runRead(gctx, `
			MATCH (a:Person)-[rel]->(b:Person)
			RETURN a.id AS source, b.id AS target, type(rel) AS type
		`, nil)
		if err != nil {
			return apperrors.NewGraphQueryError("fetch graph links", err)
		}
		for _, row := range rows {
			view.Links = append(view.Links, GraphLink{
				Source: getString(row, "source"),
				Target: getString(row, "target"),
				Type:   getString(row, "type"),
			})
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func depthPattern(depth int) string {
	if depth > 0 {
		return fmt.Sprintf("*1..%d", depth)
	}
	return "*"
}

func summariesFromRows(rows []map[string]interface{}) []PersonSummary {
	out := make([]PersonSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, PersonSummary{
			ID:        getString(row, "id"),
			Name:      getString(row, "name"),
			BirthYear: getInt(row, "birthYear"),
			DeathYear: getInt(row, "deathYear"),
		})
	}
	return out
}
