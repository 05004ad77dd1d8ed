package obras

import (
	"context"
	"io"
	"strings"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/storage"
	"github.com/radarobras/radar_api/internal/telemetry"
)

// UploadPhoto stores the file and appends its public URL to the obra's photo
// list. The list is a set: re-adding an existing URL is a no-op at the store.
func (s *Service) UploadPhoto(ctx context.Context, id, filename string, file io.Reader) (*Obra, error) {
	if s.Store == nil || s.Photos == nil {
		return nil, apperrors.New(apperrors.KindInternal, "photo storage not configured")
	}
	if _, ok := identity.UserID(ctx); !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id is required")
	}
	if file == nil {
		return nil, apperrors.New(apperrors.KindInvalidInput, "file is required")
	}

	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	key := storage.PhotoKey(id, filename)
	url, err := s.Photos.Upload(ctx, file, key, storage.ContentTypeFor(key))
	if err != nil {
		telemetry.LogError(ctx, "photo upload failed",
			telemetry.LogString("obra.id", id),
			telemetry.LogString("error", err.Error()),
		)
		return nil, apperrors.New(apperrors.KindInternal, "failed to store photo")
	}

	if err := s.Store.AddPhoto(ctx, id, url); err != nil {
		// Keep the object out of the bucket if it never made it onto the obra.
		_ = s.Photos.Delete(ctx, url)
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "obra not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to attach photo")
	}
	s.invalidate(ctx, id)

	return s.GetByID(ctx, id)
}

// RemovePhoto detaches the URL from the obra first, then deletes the object.
// A URL not owned by the configured driver is detached but left in place.
func (s *Service) RemovePhoto(ctx context.Context, id, url string) (*Obra, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "obras store not configured")
	}
	if _, ok := identity.UserID(ctx); !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	id = strings.TrimSpace(id)
	url = strings.TrimSpace(url)
	if id == "" || url == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "id and url are required")
	}

	if err := s.Store.RemovePhoto(ctx, id, url); err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "obra not found")
		}
		return nil, apperrors.New(apperrors.KindInternal, "failed to detach photo")
	}
	s.invalidate(ctx, id)

	if s.Photos != nil && s.Photos.Owns(url) {
		if err := s.Photos.Delete(ctx, url); err != nil {
			telemetry.LogWarn(ctx, "orphaned photo object",
				telemetry.LogString("obra.id", id),
				telemetry.LogString("photo.url", url),
				telemetry.LogString("error", err.Error()),
			)
		}
	}

	return s.GetByID(ctx, id)
}
