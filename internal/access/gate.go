package access

import (
	"log/slog"

	"github.com/frahmantamala/course-platform/internal/auth"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
)

const (
	TypeFree      = "free"
	TypePurchased = "purchased"
	TypeAdmin     = "admin"
	TypeNone      = "none"
)

type Result struct {
	HasAccess  bool   `json:"hasAccess"`
	AccessType string `json:"accessType"`
}

type RepositoryAPI interface {
	HasPurchase(userID, courseID int64) (bool, error)
}

// Gate decides whether a caller may see a course's full content. It is
// evaluated on every request; nothing is cached, so a revoked or newly
// granted purchase takes effect immediately.
type Gate struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewGate(repo RepositoryAPI, logger *slog.Logger) *Gate {
	return &Gate{
		repo:   repo,
		logger: logger,
	}
}

// Check never returns an error to the caller's advantage: a repository
// failure reads as no access.
func (g *Gate) Check(user *auth.User, c *courseDatamodel.Course) Result {
	if c.IsFree {
		return Result{HasAccess: true, AccessType: TypeFree}
	}

	if user == nil {
		return Result{HasAccess: false, AccessType: TypeNone}
	}

	if user.IsAdmin() {
		return Result{HasAccess: true, AccessType: TypeAdmin}
	}

	purchased, err := g.repo.HasPurchase(user.ID, c.ID)
	if err != nil {
		g.logger.Error("purchase lookup failed, denying access",
			"error", err,
			"user_id", user.ID,
			"course_id", c.ID)
		return Result{HasAccess: false, AccessType: TypeNone}
	}
	if purchased {
		return Result{HasAccess: true, AccessType: TypePurchased}
	}

	return Result{HasAccess: false, AccessType: TypeNone}
}
