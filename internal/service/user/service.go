// Package user implements account registration, login, token refresh and
// profile management.
package user

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"lingua_tutor_server/internal/dao/mysql/repository"
	myredis "lingua_tutor_server/internal/dao/redis"
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/model"
	"lingua_tutor_server/pkg/constants"
	"lingua_tutor_server/pkg/errorx"
	"lingua_tutor_server/pkg/util/jwt"
	"lingua_tutor_server/pkg/util/random"
)

type userService struct {
	repos *repository.Repositories
	cache myredis.CacheService
}

// NewUserService wires the repositories and cache into the user service.
func NewUserService(repos *repository.Repositories, cache myredis.CacheService) *userService {
	return &userService{repos: repos, cache: cache}
}

// Register creates an account and signs the user in.
func (u *userService) Register(req request.RegisterRequest) (*respond.LoginRespond, error) {
	if _, err := u.repos.User.FindByEmail(req.Email); err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "this email is already registered")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("register lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	language := req.Language
	if language == "" {
		language = "English"
	}
	tutorName := req.TutorName
	if tutorName == "" {
		tutorName = "Sam"
	}

	user := &model.UserInfo{
		Uuid:        "U" + random.GetNowAndLenRandomString(11),
		Name:        req.Name,
		Email:       req.Email,
		RawPassword: req.Password,
		Language:    language,
		TutorName:   tutorName,
		CustomTutor: req.TutorName != "",
	}
	if err := u.repos.User.Create(user); err != nil {
		zap.L().Error("register create failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return u.issueTokens(user)
}

// Login verifies credentials and issues a token pair.
func (u *userService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByEmail(req.Email)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "no account with this email, please register")
		}
		zap.L().Error("login lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "incorrect password, please retry")
	}

	return u.issueTokens(user)
}

// issueTokens mints an access/refresh pair and records the refresh token id
// so a newer login kicks out older sessions.
func (u *userService) issueTokens(user *model.UserInfo) (*respond.LoginRespond, error) {
	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		zap.L().Error("access token generation failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		zap.L().Error("refresh token generation failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	redisKey := "user_token:" + user.Uuid
	expiry := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
	if err := u.cache.Set(context.Background(), redisKey, tokenID, expiry); err != nil {
		// login still succeeds, the refresh check degrades open
		zap.L().Error("storing refresh token id failed", zap.Error(err))
	}

	return &respond.LoginRespond{
		User:         toUserRespond(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshToken rotates a valid refresh token into a new pair.
func (u *userService) RefreshToken(req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error) {
	claims, err := jwt.ParseToken(req.RefreshToken)
	if err != nil || claims.Subject != "refresh_token" {
		return nil, errorx.New(errorx.CodeUnauthorized, "invalid refresh token")
	}

	redisKey := "user_token:" + claims.UserID
	storedID, err := u.cache.Get(context.Background(), redisKey)
	if err != nil {
		zap.L().Error("refresh token lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if storedID == "" || storedID != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token has been superseded, please log in again")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("access token generation failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(claims.UserID)
	if err != nil {
		zap.L().Error("refresh token generation failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	expiry := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
	if err := u.cache.Set(context.Background(), redisKey, tokenID, expiry); err != nil {
		zap.L().Error("storing refresh token id failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	return &respond.RefreshTokenRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// GetProfile returns the caller's account.
func (u *userService) GetProfile(userID string) (*respond.UserRespond, error) {
	user, err := u.repos.User.FindByUuid(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "account not found")
		}
		zap.L().Error("profile lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := toUserRespond(user)
	return &rsp, nil
}

// UpdateProfile applies the non-nil fields of the request.
func (u *userService) UpdateProfile(userID string, req request.UpdateProfileRequest) (*respond.UserRespond, error) {
	user, err := u.repos.User.FindByUuid(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "account not found")
		}
		zap.L().Error("profile lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Language != nil {
		fields["language"] = *req.Language
	}
	if req.TutorName != nil {
		fields["tutor_name"] = *req.TutorName
		fields["custom_tutor"] = true
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			zap.L().Error("password hash failed", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		fields["password"] = string(hash)
	}
	if len(fields) == 0 {
		rsp := toUserRespond(user)
		return &rsp, nil
	}

	if err := u.repos.User.UpdateFields(userID, fields); err != nil {
		zap.L().Error("profile update failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	user, err = u.repos.User.FindByUuid(userID)
	if err != nil {
		zap.L().Error("profile reload failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := toUserRespond(user)
	return &rsp, nil
}

func toUserRespond(user *model.UserInfo) respond.UserRespond {
	return respond.UserRespond{
		Uuid:        user.Uuid,
		Name:        user.Name,
		Email:       user.Email,
		Language:    user.Language,
		TutorName:   user.TutorName,
		CustomTutor: user.CustomTutor,
		CreatedAt:   user.CreatedAt.Format("2006-01-02"),
	}
}
