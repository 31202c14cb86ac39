package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"acms/internal/delivery/http/dto"
	"acms/internal/domain/user"
	"acms/internal/usecase"
	ucuser "acms/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type fakeUserUsecase struct {
	usecase.UserUsecase
	in    ucuser.UpdateMeInput
	photo []byte
}

func (f *fakeUserUsecase) GetMe(_ context.Context, id uuid.UUID) (user.User, error) {
	if id != developerActor.ID {
		return user.User{}, usecase.ErrUserNotFound
	}
	return user.User{ID: id, Email: developerActor.Email, Role: user.RoleDeveloper, IsActive: true}, nil
}

func (f *fakeUserUsecase) UpdateMe(_ context.Context, id uuid.UUID, in ucuser.UpdateMeInput) (user.User, error) {
	f.in = in
	u := user.User{ID: id, Role: user.RoleDeveloper}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.Photo != nil {
		b, err := io.ReadAll(in.Photo.Body)
		if err != nil {
			return user.User{}, usecase.ErrPhotoUpload
		}
		f.photo = b
		u.ProfilePhoto = "/uploads/profile-photos/" + in.Photo.Filename
	}
	return u, nil
}

func (f *fakeUserUsecase) ListUsers(context.Context, user.Actor) ([]user.User, error) {
	return []user.User{{ID: uuid.New(), Role: user.RoleDeveloper}}, nil
}

func userApp(uc *fakeUserUsecase) *fiber.App {
	h := NewUserHandler(uc, 1<<10)
	return newTestApp(func(r fiber.Router) { h.RegisterRoutes(r.Group("/users")) })
}

func multipartRequest(t *testing.T, fields map[string]string, photo []byte) *bytesRequest {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if photo != nil {
		fw, err := w.CreateFormFile(photoField, "me.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write(photo)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &bytesRequest{body: buf.Bytes(), contentType: w.FormDataContentType()}
}

type bytesRequest struct {
	body        []byte
	contentType string
}

func (b *bytesRequest) send(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPatch, "/api/v1/users/me", bytes.NewReader(b.body))
	req.Header.Set("Content-Type", b.contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestGetMe(t *testing.T) {
	app := userApp(&fakeUserUsecase{})

	if status, _ := call(t, app, fiber.MethodGet, "/api/v1/users/me", "", nil); status != fiber.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", status)
	}
	status, env := call(t, app, fiber.MethodGet, "/api/v1/users/me", "dev", nil)
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	got := decode[dto.UserResponse](t, env.Data)
	if got.Email != developerActor.Email || got.ProfilePhoto != nil || got.Country != nil {
		t.Fatalf("unexpected user: %+v", got)
	}
	if status, _ := call(t, app, fiber.MethodGet, "/api/v1/users/me", "pm", nil); status != fiber.StatusNotFound {
		t.Fatalf("unknown user: expected 404, got %d", status)
	}
}

func TestUpdateMeJSON(t *testing.T) {
	uc := &fakeUserUsecase{}
	app := userApp(uc)

	status, env := call(t, app, fiber.MethodPatch, "/api/v1/users/me", "dev", map[string]string{"first_name": "Kofi"})
	if status != fiber.StatusOK || decode[dto.UserResponse](t, env.Data).FirstName != "Kofi" {
		t.Fatalf("unexpected %d %s", status, env.Data)
	}
	if uc.in.LastName != nil || uc.in.Country != nil || uc.in.Photo != nil {
		t.Fatalf("absent fields must stay nil: %+v", uc.in)
	}
}

func TestUpdateMeMultipartPhoto(t *testing.T) {
	uc := &fakeUserUsecase{}
	app := userApp(uc)

	req := multipartRequest(t, map[string]string{"country": "gh"}, []byte("png-bytes"))
	if status := req.send(t, app, "dev"); status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.in.Country == nil || *uc.in.Country != "gh" || uc.in.FirstName != nil {
		t.Fatalf("unexpected input: %+v", uc.in)
	}
	if string(uc.photo) != "png-bytes" {
		t.Fatalf("photo not forwarded: %q", uc.photo)
	}

	big := multipartRequest(t, nil, bytes.Repeat([]byte("x"), 2<<10))
	if status := big.send(t, app, "dev"); status != fiber.StatusBadRequest {
		t.Fatalf("oversized photo: expected 400, got %d", status)
	}
}

func TestListUsersIsForManagers(t *testing.T) {
	app := userApp(&fakeUserUsecase{})

	if status, _ := call(t, app, fiber.MethodGet, "/api/v1/users", "dev", nil); status != fiber.StatusForbidden {
		t.Fatalf("developer: expected 403, got %d", status)
	}
	status, env := call(t, app, fiber.MethodGet, "/api/v1/users", "pm", nil)
	if status != fiber.StatusOK || len(decode[[]dto.UserResponse](t, env.Data)) != 1 {
		t.Fatalf("unexpected %d %s", status, env.Data)
	}
}
