package user

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lingua_tutor_server/internal/dao/mysql/repository"
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/model"
	"lingua_tutor_server/pkg/errorx"
	"lingua_tutor_server/pkg/util/jwt"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.UserInfo
}

func (r *memUserRepo) Create(user *model.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// the bcrypt hook runs inside gorm; the in-memory repo mirrors it
	if user.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(user.RawPassword), bcrypt.MinCost)
		if err != nil {
			return err
		}
		user.Password = string(hash)
		user.RawPassword = ""
	}
	r.users[user.Uuid] = user
	return nil
}
func (r *memUserRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		return u, nil
	}
	return nil, errorx.New(errorx.CodeNotFound, "record not found")
}
func (r *memUserRepo) FindByEmail(email string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errorx.New(errorx.CodeNotFound, "record not found")
}
func (r *memUserRepo) UpdateFields(uuid string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uuid]
	if !ok {
		return errorx.New(errorx.CodeNotFound, "record not found")
	}
	if v, ok := updates["name"]; ok {
		u.Name = v.(string)
	}
	if v, ok := updates["language"]; ok {
		u.Language = v.(string)
	}
	if v, ok := updates["tutor_name"]; ok {
		u.TutorName = v.(string)
	}
	if v, ok := updates["custom_tutor"]; ok {
		u.CustomTutor = v.(bool)
	}
	if v, ok := updates["password"]; ok {
		u.Password = v.(string)
	}
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: map[string]string{}} }

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}
func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}
func (c *memCache) GetOrError(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", errorx.New(errorx.CodeNotFound, "cache miss")
}
func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }

func newService() (*userService, *memCache) {
	jwt.Init("test-secret", 15, 168)
	users := &memUserRepo{users: map[string]*model.UserInfo{}}
	cache := newMemCache()
	repos := repository.NewStubRepositories(users, nil, nil)
	return NewUserService(repos, cache), cache
}

func TestRegisterDefaultsAndTokenPair(t *testing.T) {
	svc, cache := newService()

	rsp, err := svc.Register(request.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rsp.User.Language != "English" || rsp.User.TutorName != "Sam" {
		t.Fatalf("defaults not applied: %+v", rsp.User)
	}
	if rsp.User.CustomTutor {
		t.Fatal("preset tutor must not be marked custom")
	}
	if !strings.HasPrefix(rsp.User.Uuid, "U") {
		t.Fatalf("uuid = %q", rsp.User.Uuid)
	}
	if rsp.AccessToken == "" || rsp.RefreshToken == "" {
		t.Fatal("token pair missing")
	}

	claims, err := jwt.ParseToken(rsp.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	stored, _ := cache.Get(context.Background(), "user_token:"+rsp.User.Uuid)
	if stored != claims.TokenID {
		t.Fatal("refresh token id not recorded")
	}
}

func TestRegisterCustomTutorAndDuplicateEmail(t *testing.T) {
	svc, _ := newService()

	rsp, err := svc.Register(request.RegisterRequest{
		Name:      "Bob",
		Email:     "bob@example.com",
		Password:  "secret123",
		TutorName: "Professor Nakamura",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !rsp.User.CustomTutor || rsp.User.TutorName != "Professor Nakamura" {
		t.Fatalf("custom tutor not honored: %+v", rsp.User)
	}

	_, err = svc.Register(request.RegisterRequest{
		Name:     "Bob Again",
		Email:    "bob@example.com",
		Password: "other456",
	})
	if errorx.GetCode(err) != errorx.CodeUserExist {
		t.Fatalf("duplicate email: code = %d, want CodeUserExist", errorx.GetCode(err))
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService()

	if _, err := svc.Register(request.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	rsp, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rsp.AccessToken == "" {
		t.Fatal("access token missing")
	}

	_, err = svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	if errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Fatalf("wrong password: code = %d, want CodeInvalidPassword", errorx.GetCode(err))
	}

	_, err = svc.Login(request.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	if errorx.GetCode(err) != errorx.CodeUserNotExist {
		t.Fatalf("unknown email: code = %d, want CodeUserNotExist", errorx.GetCode(err))
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _ := newService()

	first, err := svc.Register(request.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	rotated, err := svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if rotated.RefreshToken == first.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// the old token is superseded
	_, err = svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	if errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("stale token: code = %d, want CodeUnauthorized", errorx.GetCode(err))
	}

	// the rotated token still works
	if _, err := svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: rotated.RefreshToken}); err != nil {
		t.Fatalf("rotated RefreshToken: %v", err)
	}

	// an access token is never a refresh token
	access, _ := jwt.GenerateAccessToken("U1")
	_, err = svc.RefreshToken(request.RefreshTokenRequest{RefreshToken: access})
	if errorx.GetCode(err) != errorx.CodeUnauthorized {
		t.Fatalf("access token as refresh: code = %d, want CodeUnauthorized", errorx.GetCode(err))
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newService()

	created, err := svc.Register(request.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	newTutor := "Maria"
	newLanguage := "Spanish"
	rsp, err := svc.UpdateProfile(created.User.Uuid, request.UpdateProfileRequest{
		TutorName: &newTutor,
		Language:  &newLanguage,
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if rsp.TutorName != "Maria" || rsp.Language != "Spanish" {
		t.Fatalf("updates not applied: %+v", rsp)
	}
	if !rsp.CustomTutor {
		t.Fatal("renaming the tutor marks it custom")
	}

	newPassword := "newsecret456"
	if _, err := svc.UpdateProfile(created.User.Uuid, request.UpdateProfileRequest{Password: &newPassword}); err != nil {
		t.Fatalf("UpdateProfile password: %v", err)
	}
	if _, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "newsecret456"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(request.LoginRequest{Email: "alice@example.com", Password: "secret123"}); errorx.GetCode(err) != errorx.CodeInvalidPassword {
		t.Fatal("old password must stop working")
	}

	// no fields set is a no-op
	unchanged, err := svc.UpdateProfile(created.User.Uuid, request.UpdateProfileRequest{})
	if err != nil {
		t.Fatalf("empty UpdateProfile: %v", err)
	}
	if unchanged.TutorName != "Maria" {
		t.Fatalf("no-op changed the profile: %+v", unchanged)
	}
}
