package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/users"
)

type storeStub struct {
	comments []*Comment
	createFn func(c *Comment) error
}

func (s *storeStub) Create(ctx context.Context, c *Comment) error {
	if s.createFn != nil {
		if err := s.createFn(c); err != nil {
			return err
		}
	}
	c.CreatedAt = time.Now()
	s.comments = append(s.comments, c)
	return nil
}

func (s *storeStub) ListByObra(ctx context.Context, obraID string) ([]*Comment, error) {
	var out []*Comment
	for _, c := range s.comments {
		if c.ObraID == obraID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *storeStub) Delete(ctx context.Context, id string) error {
	for i, c := range s.comments {
		if c.ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type authorStub struct {
	user *users.User
}

func (s *authorStub) GetByID(ctx context.Context, id string) (*users.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, users.ErrNotFound
	}
	return s.user, nil
}

func authedCtx(userID, role string) context.Context {
	return identity.WithUser(context.Background(), userID, role, "loja_1")
}

func TestCreateCommentSnapshotsAuthor(t *testing.T) {
	store := &storeStub{}
	authors := &authorStub{user: &users.User{ID: "usr_1", Name: "Maria", Avatar: "https://img/x.png"}}
	svc := &Service{Store: store, Authors: authors}

	c, err := svc.Create(authedCtx("usr_1", "vendedor"), "obr_1", CreateCommentRequest{Text: "  fundação pronta  "})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if c.UserName != "Maria" || c.UserAvatar != "https://img/x.png" {
		t.Fatalf("author snapshot missing: %+v", c)
	}
	if c.Text != "fundação pronta" {
		t.Fatalf("text not trimmed: %q", c.Text)
	}
	if c.ID == "" {
		t.Fatal("id not generated")
	}
}

func TestCreateCommentRequiresText(t *testing.T) {
	svc := &Service{Store: &storeStub{}, Authors: &authorStub{user: &users.User{ID: "usr_1"}}}

	_, err := svc.Create(authedCtx("usr_1", "vendedor"), "obr_1", CreateCommentRequest{Text: "   "})
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestCreateCommentRequiresIdentity(t *testing.T) {
	svc := &Service{Store: &storeStub{}}

	_, err := svc.Create(context.Background(), "obr_1", CreateCommentRequest{Text: "oi"})
	assertKind(t, err, apperrors.KindUnauthorized)
}

func TestCreateCommentPublishesToHub(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("obr_1")
	defer cancel()

	svc := &Service{
		Store:   &storeStub{},
		Authors: &authorStub{user: &users.User{ID: "usr_1", Name: "Maria"}},
		Hub:     hub,
	}

	if _, err := svc.Create(authedCtx("usr_1", "vendedor"), "obr_1", CreateCommentRequest{Text: "oi"}); err != nil {
		t.Fatalf("create error: %v", err)
	}

	select {
	case got := <-ch:
		if got.Text != "oi" {
			t.Fatalf("unexpected comment: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("comment not published to hub")
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("obr_1")
	if got := hub.Subscribers("obr_1"); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
	cancel()
	if got := hub.Subscribers("obr_1"); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
	// Publishing with no subscribers must not panic.
	hub.Publish(&Comment{ObraID: "obr_1", Text: "x"})
}

func TestDeleteCommentByAuthor(t *testing.T) {
	store := &storeStub{comments: []*Comment{{ID: "cmt_1", ObraID: "obr_1", UserID: "usr_1"}}}
	svc := &Service{Store: store}

	if err := svc.Delete(authedCtx("usr_1", "vendedor"), "obr_1", "cmt_1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if len(store.comments) != 0 {
		t.Fatal("comment not deleted")
	}
}

func TestDeleteCommentForbiddenForOtherSeller(t *testing.T) {
	store := &storeStub{comments: []*Comment{{ID: "cmt_1", ObraID: "obr_1", UserID: "usr_1"}}}
	svc := &Service{Store: store}

	err := svc.Delete(authedCtx("usr_2", "vendedor"), "obr_1", "cmt_1")
	assertKind(t, err, apperrors.KindForbidden)
}

func TestDeleteCommentByGerente(t *testing.T) {
	store := &storeStub{comments: []*Comment{{ID: "cmt_1", ObraID: "obr_1", UserID: "usr_1"}}}
	svc := &Service{Store: store}

	if err := svc.Delete(authedCtx("usr_g", "gerente"), "obr_1", "cmt_1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperror, got %v", err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, appErr.Kind)
	}
}
