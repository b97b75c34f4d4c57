package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Psyfo/genealogy-app/backend/pkg/logger"
)

// Repository handles all Neo4j database operations for the person registry.
// Every method opens its own session and closes it before returning; there are
// no transactions spanning multiple calls.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// runRead executes a read query and returns the result rows
func (r *Repository) runRead(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	return r.run(ctx, neo4j.AccessModeRead, query, params)
}

// runWrite executes a write query and returns the result rows
func (r *Repository) runWrite(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	return r.run(ctx, neo4j.AccessModeWrite, query, params)
}

// run executes a parameterized query within a per-call session and maps each
// record to a plain key/value row. Integer-typed store values come back as
// int64 from the driver and are normalized to native ints.
func (r *Repository) run(ctx context.Context, mode neo4j.AccessMode, query string, params map[string]interface{}) ([]map[string]interface{}, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	for result.Next(ctx) {
		record := result.Record()
		row := make(map[string]interface{}, len(record.Keys))
		for _, key := range record.Keys {
			val, _ := record.Get(key)
			row[key] = normalizeValue(val)
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// normalizeValue converts driver integer values to native ints, recursing into
// lists and maps
func normalizeValue(val interface{}) interface{} {
	switch v := val.(type) {
	case int64:
		return int(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = normalizeValue(item)
		}
		return out
	default:
		return val
	}
}
