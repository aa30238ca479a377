package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ReadinessState string

const (
	ReadinessStateReady    ReadinessState = "ready"
	ReadinessStateNotReady ReadinessState = "not_ready"
	ReadinessStateOptional ReadinessState = "optional"
)

type ReadinessIssue struct {
	ID       string            `json:"id"`
	Status   ReadinessState    `json:"status"`
	Evidence map[string]string `json:"evidence,omitempty"`
}

type ReadinessResponse struct {
	SystemState ReadinessState   `json:"system_state"`
	Issues      []ReadinessIssue `json:"issues"`
}

// GetSystemReadiness reports whether the database and the optional cache answer.
func (s *Server) GetSystemReadiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	issues := make([]ReadinessIssue, 0, 2)
	isReady := true

	switch {
	case s.db == nil:
		isReady = false
		issues = append(issues, ReadinessIssue{
			ID:       "database",
			Status:   ReadinessStateNotReady,
			Evidence: map[string]string{"error": "database not configured"},
		})
	default:
		if err := s.pingDB(ctx); err != nil {
			isReady = false
			issues = append(issues, ReadinessIssue{
				ID:       "database",
				Status:   ReadinessStateNotReady,
				Evidence: map[string]string{"error": err.Error()},
			})
		} else {
			issues = append(issues, ReadinessIssue{ID: "database", Status: ReadinessStateReady})
		}
	}

	// The cache is optional: a failing redis degrades to direct reads.
	switch {
	case s.redis == nil:
		issues = append(issues, ReadinessIssue{ID: "custom_field_cache", Status: ReadinessStateOptional})
	default:
		if err := s.redis.Ping(ctx).Err(); err != nil {
			issues = append(issues, ReadinessIssue{
				ID:       "custom_field_cache",
				Status:   ReadinessStateOptional,
				Evidence: map[string]string{"error": err.Error()},
			})
		} else {
			issues = append(issues, ReadinessIssue{ID: "custom_field_cache", Status: ReadinessStateReady})
		}
	}

	state, status := ReadinessStateReady, http.StatusOK
	if !isReady {
		state, status = ReadinessStateNotReady, http.StatusServiceUnavailable
	}
	c.JSON(status, ReadinessResponse{SystemState: state, Issues: issues})
}

func (s *Server) pingDB(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
