package graph

import "github.com/Psyfo/genealogy-app/backend/internal/person"

// FamilyMembers groups a person's immediate relatives, hydrated into full
// entities for display
type FamilyMembers struct {
	Parents  []person.Person `json:"parents"`
	Children []person.Person `json:"children"`
	Siblings []person.Person `json:"siblings"`
}

// PersonSummary is the reduced row shape returned by ancestor/descendant
// traversals
type PersonSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	BirthYear int    `json:"birthYear,omitempty"`
	DeathYear int    `json:"deathYear,omitempty"`
}

// GraphNode is a node in the force-layout view
type GraphNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GraphLink is a directed, typed edge in the force-layout view
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// GraphView is the full node/link set consumed by the force-directed renderer
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}
