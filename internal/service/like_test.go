package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/event-forum/internal/apperror"
)

func TestLikeService_Validation(t *testing.T) {
	svc := NewLikeService(newFakeStore(), testLogger())
	ctx := context.Background()

	tests := []struct {
		name      string
		in        LikeInput
		wantField string
	}{
		{"zero event id", LikeInput{EventID: 0, UserHandle: "alice"}, "eventId"},
		{"negative event id", LikeInput{EventID: -3, UserHandle: "alice"}, "eventId"},
		{"empty handle", LikeInput{EventID: 1, UserHandle: ""}, "userHandle"},
		{"handle too long", LikeInput{EventID: 1, UserHandle: strings.Repeat("a", 51)}, "userHandle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := map[string]func() error{
				"Exists": func() error { _, err := svc.Exists(ctx, tt.in); return err },
				"Create": func() error { return svc.Create(ctx, tt.in) },
				"Remove": func() error { return svc.Remove(ctx, tt.in) },
			}
			for op, call := range ops {
				err := call()
				if !errors.Is(err, apperror.ErrValidation) {
					t.Fatalf("%s() error = %v, want ErrValidation", op, err)
				}
				var appErr *apperror.AppError
				if errors.As(err, &appErr) && appErr.Field != tt.wantField {
					t.Errorf("%s() Field = %q, want %q", op, appErr.Field, tt.wantField)
				}
			}
		})
	}
}

func TestLikeService_HandleAtMaxLength(t *testing.T) {
	svc := NewLikeService(newFakeStore(), testLogger())

	in := LikeInput{EventID: 1, UserHandle: strings.Repeat("a", MaxHandleLength)}
	if err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("Create() error = %v, want nil for a %d-character handle", err, MaxHandleLength)
	}
}

func TestLikeService_CreateExistsRemove(t *testing.T) {
	store := newFakeStore()
	svc := NewLikeService(store, testLogger())
	ctx := context.Background()
	in := LikeInput{EventID: 5, UserHandle: "alice"}

	liked, err := svc.Exists(ctx, in)
	if err != nil || liked {
		t.Fatalf("Exists() before like = (%v, %v), want (false, nil)", liked, err)
	}

	for i := 0; i < 2; i++ {
		if err := svc.Create(ctx, in); err != nil {
			t.Fatalf("Create() #%d error = %v", i+1, err)
		}
	}
	if liked, _ := svc.Exists(ctx, in); !liked {
		t.Error("Exists() after Create() = false, want true")
	}

	for i := 0; i < 2; i++ {
		if err := svc.Remove(ctx, in); err != nil {
			t.Fatalf("Remove() #%d error = %v", i+1, err)
		}
	}
	if liked, _ := svc.Exists(ctx, in); liked {
		t.Error("Exists() after Remove() = true, want false")
	}
}

func TestLikeService_Toggle(t *testing.T) {
	svc := NewLikeService(newFakeStore(), testLogger())
	ctx := context.Background()
	in := LikeInput{EventID: 2, UserHandle: "bob"}

	for i, want := range []bool{true, false, true} {
		got, err := svc.Toggle(ctx, in)
		if err != nil {
			t.Fatalf("Toggle() #%d error = %v", i+1, err)
		}
		if got != want {
			t.Errorf("Toggle() #%d = %v, want %v", i+1, got, want)
		}
	}
}

func TestLikeService_StorageErrors(t *testing.T) {
	dbErr := errors.New("database is locked")
	store := newFakeStore()
	store.likeExistsErr = dbErr
	store.createLikeErr = dbErr
	store.deleteLikeErr = dbErr
	svc := NewLikeService(store, testLogger())
	ctx := context.Background()
	in := LikeInput{EventID: 1, UserHandle: "alice"}

	_, existsErr := svc.Exists(ctx, in)
	errs := map[string]error{
		"Exists": existsErr,
		"Create": svc.Create(ctx, in),
		"Remove": svc.Remove(ctx, in),
	}
	for op, err := range errs {
		if !errors.Is(err, apperror.ErrStorage) {
			t.Errorf("%s() error = %v, want ErrStorage", op, err)
		}
		if !errors.Is(err, dbErr) {
			t.Errorf("%s() error does not wrap the database error", op)
		}
	}
}
