package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/Psyfo/genealogy-app/backend/internal/graph"
	"github.com/Psyfo/genealogy-app/backend/internal/person"
	"github.com/Psyfo/genealogy-app/backend/pkg/config"
	apperrors "github.com/Psyfo/genealogy-app/backend/pkg/errors"
	"github.com/Psyfo/genealogy-app/backend/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting genealogy API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity",
			zap.Error(apperrors.NewGraphConnectionError(cfg.Neo4jURI, err)))
	}

	repo := graph.NewRepository(driver)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, repo, log)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func registerRoutes(router *gin.Engine, repo *graph.Repository, log *zap.Logger) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// List all people
		api.GET("/people", func(c *gin.Context) {
			people, err := repo.GetAllPeople(c.Request.Context())
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, people)
		})

		// Create a person
		api.POST("/people", func(c *gin.Context) {
			var in person.Input
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
				return
			}
			created, err := repo.CreatePerson(c.Request.Context(), &in)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "ok", "person": created})
		})

		// Fetch a person
		api.GET("/people/:id", func(c *gin.Context) {
			p, err := repo.GetPersonByID(c.Request.Context(), c.Param("id"))
			if err != nil {
				respondError(c, log, err)
				return
			}
			if p == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
				return
			}
			c.JSON(http.StatusOK, p)
		})

		// Partially update a person
		api.PUT("/people/:id", func(c *gin.Context) {
			var in person.Input
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
				return
			}
			updated, err := repo.UpdatePerson(c.Request.Context(), c.Param("id"), &in)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok", "person": updated})
		})

		// Delete a person
		api.DELETE("/people/:id", func(c *gin.Context) {
			if err := repo.DeletePerson(c.Request.Context(), c.Param("id")); err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Ancestor traversal, optional depth bound
		api.GET("/people/:id/ancestors", func(c *gin.Context) {
			ancestors, err := repo.GetAncestors(c.Request.Context(), c.Param("id"), depthParam(c))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, ancestors)
		})

		// Descendant traversal, optional depth bound
		api.GET("/people/:id/descendants", func(c *gin.Context) {
			descendants, err := repo.GetDescendants(c.Request.Context(), c.Param("id"), depthParam(c))
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, descendants)
		})

		// Family members of a person
		api.GET("/relationships", func(c *gin.Context) {
			personID := c.Query("personId")
			if personID == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "personId parameter is required"})
				return
			}
			family, err := repo.GetFamilyMembers(c.Request.Context(), personID)
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, family)
		})

		// Add or remove a parent-child relationship
		api.POST("/relationships", func(c *gin.Context) {
			var req struct {
				Action           string `json:"action" binding:"required"`
				ChildID          string `json:"childId" binding:"required"`
				ParentID         string `json:"parentId" binding:"required"`
				RelationshipType string `json:"relationshipType"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			switch req.Action {
			case "add":
				role := person.ParentRole(req.RelationshipType)
				if err := repo.AddParentChild(c.Request.Context(), req.ChildID, req.ParentID, role); err != nil {
					respondError(c, log, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Relationship added successfully"})
			case "remove":
				if err := repo.RemoveParentChild(c.Request.Context(), req.ChildID, req.ParentID); err != nil {
					respondError(c, log, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Relationship removed successfully"})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": `Invalid action. Must be "add" or "remove"`})
			}
		})

		// Generic edge creation
		api.POST("/relationships/edge", func(c *gin.Context) {
			var rel person.Relationship
			if err := c.ShouldBindJSON(&rel); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if err := repo.CreateRelationship(c.Request.Context(), rel); err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Node/link data for the force-directed renderer
		api.GET("/graph", func(c *gin.Context) {
			view, err := repo.GetGraphView(c.Request.Context())
			if err != nil {
				respondError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, view)
		})
	}
}

// respondError maps the typed error taxonomy onto HTTP statuses
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": validationErr.Violations})
		return
	}

	var invalidID *apperrors.InvalidIDError
	if errors.As(err, &invalidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid person ID", "details": invalidID.Reason})
		return
	}

	var selfParent *apperrors.SelfParentError
	if errors.As(err, &selfParent) {
		c.JSON(http.StatusBadRequest, gin.H{"error": selfParent.Message})
		return
	}

	var noOp *apperrors.NoOpUpdateError
	if errors.As(err, &noOp) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var invalidRel *apperrors.InvalidRelationshipError
	if errors.As(err, &invalidRel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRel.Message})
		return
	}

	var notFound *apperrors.PersonNotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Message})
		return
	}

	log.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func depthParam(c *gin.Context) int {
	raw := c.Query("depth")
	if raw == "" {
		return 0
	}
	depth, err := strconv.Atoi(raw)
	if err != nil || depth < 0 {
		return 0
	}
	return depth
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
