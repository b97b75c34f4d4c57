package graph

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Psyfo/genealogy-app/backend/internal/person"
	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
)

// ============================================================================
// Relationship Maintenance
//
// The CHILD_OF and MARRIED_TO edges are the source of truth. The fatherId /
// motherId / childrenIds / siblingIds properties are a denormalized cache that
// every mutation here must keep in sync. The steps of one mutation are
// sequential, non-transactional writes: a failure partway through leaves
// earlier steps applied.
// ============================================================================

// AddParentChild records parentID as the child's father or mother. Effects, in
// order: displace any previous holder of the slot (delete its edge and its
// reverse childrenIds reference), merge the typed CHILD_OF edge (idempotent,
// repeating the same call creates nothing new), set the child's parent
// reference, append the child to the parent's childrenIds without duplicating,
// then recompute the sibling cohort including former siblings lost in the
// displacement.
func (r *Repository) AddParentChild(ctx context.Context, childID, parentID string, role person.ParentRole) error {
	if err := person.ValidateID(childID); err != nil {
		return err
	}
	if err := person.ValidateID(parentID); err != nil {
		return err
	}
	if childID == parentID {
		return apperrors.NewSelfParentError(childID)
	}
	if !role.Valid() {
		return apperrors.NewInvalidRelationship(string(role))
	}

	child, err := r.GetPersonByID(ctx, childID)
	if err != nil {
		return fmt.Errorf("failed to resolve child: %w", err)
	}
	if child == nil {
		return apperrors.NewRelativeNotFound(childID, "child")
	}
	parent, err := r.GetPersonByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to resolve parent: %w", err)
	}
	if parent == nil {
		return apperrors.NewRelativeNotFound(parentID, "parent")
	}

	now := time.Now().UTC().Format(time.RFC3339)

	formerSiblings, err := r.siblingIDsFromEdges(ctx, childID)
	if err != nil {
		// Best effort: the cohort just won't include pre-reassignment members
		r.logger.Warn("Failed to capture sibling cohort before reassignment",
			zap.String("child_id", childID), zap.Error(err))
		formerSiblings = nil
	}

	// Each slot holds one parent: a reassignment displaces the previous
	// holder, removing its edge and its reverse childrenIds reference
	_, err = r.runWrite(ctx, `
		MATCH (c:Person {id: $childId})-[rel:CHILD_OF {type: $role}]->(old:Person)
		WHERE old.id <> $parentId
		DELETE rel
		SET old.childrenIds = [cid IN coalesce(old.childrenIds, []) WHERE cid <> $childId],
		    old.lastUpdated = $now
	`, map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
		"role":     string(role),
		"now":      now,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("displace former parent", err)
	}

	_, err = r.runWrite(ctx, `
		MATCH (c:Person {id: $childId})
		MATCH (p:Person {id: $parentId})
		MERGE (c)-[:CHILD_OF {type: $role}]->(p)
	`, map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
		"role":     string(role),
	})
	if err != nil {
		return apperrors.NewGraphQueryError("create parent-child relationship", err)
	}

	parentField := "fatherId"
	if role == person.RoleMother {
		parentField = "motherId"
	}
	// parentField comes from the validated role, never from caller input
	_, err = r.runWrite(ctx, fmt.Sprintf(`
		MATCH (c:Person {id: $childId})
		SET c.%s = $parentId, c.lastUpdated = $now
	`, parentField), map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
		"now":      now,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("set parent reference", err)
	}

	_, err = r.runWrite(ctx, `
		MATCH (p:Person {id: $parentId})
		SET p.childrenIds = CASE
			WHEN $childId IN coalesce(p.childrenIds, []) THEN p.childrenIds
			ELSE coalesce(p.childrenIds, []) + $childId
		END,
		p.lastUpdated = $now
	`, map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
		"now":      now,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("update children list", err)
	}

	r.syncSiblingCohort(ctx, childID, formerSiblings)

	r.logger.Info("Parent-child relationship added",
		zap.String("child_id", childID),
		zap.String("parent_id", parentID),
		zap.String("role", string(role)),
	)
	return nil
}

// RemoveParentChild deletes the CHILD_OF edge between child and parent and
// clears the denormalized references on both sides. Removing an edge that was
// never recorded is a no-op, not an error. The pre-removal cohort is captured
// first so former siblings get their siblingIds recomputed too.
func (r *Repository) RemoveParentChild(ctx context.Context, childID, parentID string) error {
	if err := person.ValidateID(childID); err != nil {
		return err
	}
	if err := person.ValidateID(parentID); err != nil {
		return err
	}

	formerSiblings, err := r.siblingIDsFromEdges(ctx, childID)
	if err != nil {
		// Best effort: the cohort just won't include pre-removal members
		r.logger.Warn("Failed to capture sibling cohort before removal",
			zap.String("child_id", childID), zap.Error(err))
		formerSiblings = nil
	}

	now := time.Now().UTC().Format(time.RFC3339)

	_, err = r.runWrite(ctx, `
		MATCH (c:Person {id: $childId})-[rel:CHILD_OF]->(p:Person {id: $parentId})
		DELETE rel
	`, map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("delete parent-child relationship", err)
	}

	_, err = r.runWrite(ctx, `
		MATCH (c:Person {id: $childId})
		SET c.fatherId = CASE WHEN c.fatherId = $parentId THEN null ELSE c.fatherId END,
		    c.motherId = CASE WHEN c.motherId = $parentId THEN null ELSE c.motherId END,
		    c.lastUpdated = $now
	`, map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
		"now":      now,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("clear parent reference", err)
	}

	_, err = r.runWrite(ctx, `
		MATCH (p:Person {id: $parentId})
		SET p.childrenIds = [cid IN coalesce(p.childrenIds, []) WHERE cid <> $childId],
		    p.lastUpdated = $now
	`, map[string]interface{}{
		"childId":  childID,
		"parentId": parentID,
		"now":      now,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("update children list", err)
	}

	r.syncSiblingCohort(ctx, childID, formerSiblings)

	r.logger.Info("Parent-child relationship removed",
		zap.String("child_id", childID),
		zap.String("parent_id", parentID),
	)
	return nil
}

// CreateRelationship merges a generic typed edge between two persons. This is
// the raw edge path, distinct from the parent-child maintenance above: it does
// not touch the denormalized reference arrays. MARRIED_TO is merged in both
// directions.
func (r *Repository) CreateRelationship(ctx context.Context, rel person.Relationship) error {
	if !rel.Type.Valid() {
		return apperrors.NewInvalidRelationship(string(rel.Type))
	}
	if err := person.ValidateID(rel.FromID); err != nil {
		return err
	}
	if err := person.ValidateID(rel.ToID); err != nil {
		return err
	}
	if rel.FromID == rel.ToID && rel.Type == person.RelParentOf {
		return apperrors.NewSelfParentError(rel.FromID)
	}

	// rel.Type is whitelisted above; edge types cannot be parameterized
	query := fmt.Sprintf(`
		MATCH (a:Person {id: $fromId})
		MATCH (b:Person {id: $toId})
		MERGE (a)-[:%s]->(b)
	`, rel.Type)
	if rel.Type == person.RelMarriedTo {
		query = `
			MATCH (a:Person {id: $fromId})
			MATCH (b:Person {id: $toId})
			MERGE (a)-[:MARRIED_TO]->(b)
			MERGE (b)-[:MARRIED_TO]->(a)
		`
	}

	_, err := r.runWrite(ctx, query, map[string]interface{}{
		"fromId": rel.FromID,
		"toId":   rel.ToID,
	})
	if err != nil {
		return apperrors.NewGraphQueryError("create relationship", err)
	}
	return nil
}

// ============================================================================
// Sibling Recomputation
// ============================================================================

// siblingIDsFromEdges computes a person's sibling set straight from the
// recorded CHILD_OF edges: every other person sharing at least one parent.
// The denormalized arrays are deliberately not consulted here, so staleness
// never compounds.
func (r *Repository) siblingIDsFromEdges(ctx context.Context, personID string) ([]string, error) {
	rows, err := r.runRead(ctx, `
		MATCH (p:Person {id: $id})-[:CHILD_OF]->(parent:Person)<-[:CHILD_OF]-(sib:Person)
		WHERE sib.id <> $id
		RETURN DISTINCT sib.id AS id
	`, map[string]interface{}{"id": personID})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := getString(row, "id"); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// syncSiblingCohort overwrites the triggering person's siblingIds with the
// edge-derived set, then recomputes each cohort member's own array the same
// way. One flat pass, each member exactly once, never recursing into the
// members' own cohorts. extra holds ids that may have just left the cohort
// (removal case) and still carry a stale reference.
//
// This is best effort: a failed member update is logged and skipped rather
// than failing the mutation that triggered it.
func (r *Repository) syncSiblingCohort(ctx context.Context, personID string, extra []string) {
	siblings, err := r.siblingIDsFromEdges(ctx, personID)
	if err != nil {
		r.logger.Warn("Failed to recompute sibling set",
			zap.String("person_id", personID), zap.Error(err))
		return
	}
	if err := r.setSiblingIDs(ctx, personID, siblings); err != nil {
		r.logger.Warn("Failed to store sibling set",
			zap.String("person_id", personID), zap.Error(err))
	}

	cohort := make([]string, 0, len(siblings)+len(extra))
	cohort = append(cohort, siblings...)
	for _, id := range extra {
		if id != personID && !containsString(cohort, id) {
			cohort = append(cohort, id)
		}
	}

	for _, sibID := range cohort {
		sibSet, err := r.siblingIDsFromEdges(ctx, sibID)
		if err != nil {
			r.logger.Warn("Failed to recompute sibling set",
				zap.String("person_id", sibID), zap.Error(err))
			continue
		}
		if err := r.setSiblingIDs(ctx, sibID, sibSet); err != nil {
			r.logger.Warn("Failed to store sibling set",
				zap.String("person_id", sibID), zap.Error(err))
		}
	}
}

func (r *Repository) setSiblingIDs(ctx context.Context, personID string, siblingIDs []string) error {
	_, err := r.runWrite(ctx, `
		MATCH (p:Person {id: $id})
		SET p.siblingIds = $siblingIds, p.lastUpdated = $now
	`, map[string]interface{}{
		"id":         personID,
		"siblingIds": siblingIDs,
		"now":        time.Now().UTC().Format(time.RFC3339),
	})
	return err
}
