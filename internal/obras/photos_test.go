package obras

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/radarobras/radar_api/internal/apperrors"
)

type photoStorageStub struct {
	uploaded []string
	deleted  []string
	upErr    error
}

func (p *photoStorageStub) Upload(ctx context.Context, file io.Reader, key, contentType string) (string, error) {
	if p.upErr != nil {
		return "", p.upErr
	}
	url := "https://photos.test/" + key
	p.uploaded = append(p.uploaded, url)
	return url, nil
}

func (p *photoStorageStub) Delete(ctx context.Context, url string) error {
	p.deleted = append(p.deleted, url)
	return nil
}

func (p *photoStorageStub) Owns(url string) bool {
	return strings.HasPrefix(url, "https://photos.test/")
}

func TestUploadPhotoAttachesURL(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusEntrada}}
	photos := &photoStorageStub{}
	svc := &Service{Store: store, Photos: photos}

	o, err := svc.UploadPhoto(sellerCtx(), "obr_1", "fachada.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("upload error: %v", err)
	}
	if len(o.Photos) != 1 {
		t.Fatalf("expected 1 photo, got %d", len(o.Photos))
	}
	if len(photos.uploaded) != 1 || o.Photos[0] != photos.uploaded[0] {
		t.Fatalf("photo url mismatch: %v vs %v", o.Photos, photos.uploaded)
	}
}

func TestUploadPhotoRollsBackOnAttachFailure(t *testing.T) {
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusEntrada}, photoErr: errors.New("boom")}
	photos := &photoStorageStub{}
	svc := &Service{Store: store, Photos: photos}

	_, err := svc.UploadPhoto(sellerCtx(), "obr_1", "fachada.jpg", strings.NewReader("img"))
	assertKind(t, err, apperrors.KindInternal)
	if len(photos.deleted) != 1 {
		t.Fatal("uploaded object not cleaned up after attach failure")
	}
}

func TestRemovePhotoDeletesOwnedObject(t *testing.T) {
	url := "https://photos.test/obras/obr_1/a.jpg"
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusEntrada, Photos: []string{url}}}
	photos := &photoStorageStub{}
	svc := &Service{Store: store, Photos: photos}

	o, err := svc.RemovePhoto(sellerCtx(), "obr_1", url)
	if err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if len(o.Photos) != 0 {
		t.Fatalf("photo not detached: %v", o.Photos)
	}
	if len(photos.deleted) != 1 || photos.deleted[0] != url {
		t.Fatalf("object not deleted: %v", photos.deleted)
	}
}

func TestRemovePhotoLeavesForeignURL(t *testing.T) {
	url := "https://elsewhere.example/a.jpg"
	store := &storeStub{obra: &Obra{ID: "obr_1", Status: StatusEntrada, Photos: []string{url}}}
	photos := &photoStorageStub{}
	svc := &Service{Store: store, Photos: photos}

	if _, err := svc.RemovePhoto(sellerCtx(), "obr_1", url); err != nil {
		t.Fatalf("remove error: %v", err)
	}
	if len(photos.deleted) != 0 {
		t.Fatal("foreign url must not be deleted from storage")
	}
}
