package comments

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/users"
)

type Store interface {
	Create(ctx context.Context, c *Comment) error
	ListByObra(ctx context.Context, obraID string) ([]*Comment, error)
	Delete(ctx context.Context, id string) error
}

type AuthorLookup interface {
	GetByID(ctx context.Context, id string) (*users.User, error)
}

type Service struct {
	Store       Store
	Authors     AuthorLookup
	Hub         *Hub
	IDGenerator func() string
}

// Create writes the comment with the author's current name and avatar baked
// in, then publishes it to any live subscribers of the obra.
func (s *Service) Create(ctx context.Context, obraID string, req CreateCommentRequest) (*Comment, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "comments store not configured")
	}
	requesterID, ok := identity.UserID(ctx)
	if !ok || strings.TrimSpace(requesterID) == "" {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	obraID = strings.TrimSpace(obraID)
	if obraID == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "obra id is required")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "text is required")
	}

	c := &Comment{
		ObraID: obraID,
		UserID: requesterID,
		Text:   text,
	}

	if s.IDGenerator != nil {
		c.ID = s.IDGenerator()
	} else {
		c.ID = "cmt_" + uuid.NewString()
	}

	if s.Authors != nil {
		author, err := s.Authors.GetByID(ctx, requesterID)
		if err != nil {
			return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
		}
		c.UserName = author.Name
		c.UserAvatar = author.Avatar
	}

	if err := s.Store.Create(ctx, c); err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to create comment")
	}

	if s.Hub != nil {
		s.Hub.Publish(c)
	}

	return c, nil
}

func (s *Service) ListByObra(ctx context.Context, obraID string) ([]*Comment, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "comments store not configured")
	}
	obraID = strings.TrimSpace(obraID)
	if obraID == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "obra id is required")
	}

	list, err := s.Store.ListByObra(ctx, obraID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to list comments")
	}
	return list, nil
}

// Delete is restricted to the comment's author or a manager.
func (s *Service) Delete(ctx context.Context, obraID, commentID string) error {
	if s.Store == nil {
		return apperrors.New(apperrors.KindInternal, "comments store not configured")
	}
	requesterID, ok := identity.UserID(ctx)
	if !ok {
		return apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	commentID = strings.TrimSpace(commentID)
	if commentID == "" {
		return apperrors.New(apperrors.KindInvalidInput, "comment id is required")
	}

	if !identity.CanManage(ctx) {
		list, err := s.Store.ListByObra(ctx, strings.TrimSpace(obraID))
		if err != nil {
			return apperrors.New(apperrors.KindInternal, "failed to load comment")
		}
		var owned bool
		for _, c := range list {
			if c.ID == commentID && c.UserID == requesterID {
				owned = true
				break
			}
		}
		if !owned {
			return apperrors.New(apperrors.KindForbidden, "forbidden")
		}
	}

	if err := s.Store.Delete(ctx, commentID); err != nil {
		if IsNotFound(err) {
			return apperrors.New(apperrors.KindNotFound, "comment not found")
		}
		return apperrors.New(apperrors.KindInternal, "failed to delete comment")
	}
	return nil
}
