package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/NatanaelSou/TCC-Project/config"
	"github.com/NatanaelSou/TCC-Project/internal/model"
	"github.com/NatanaelSou/TCC-Project/internal/model/dto"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/jwt"
	"github.com/NatanaelSou/TCC-Project/internal/pkg/oauth"
	"github.com/NatanaelSou/TCC-Project/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidOAuthState  = errors.New("OAuth state 无效或已过期")
	ErrUserNotFound       = errors.New("用户不存在")
)

type AuthService struct {
	userRepo    *repository.UserRepository
	cfg         *config.Config
	githubOAuth *oauth.GithubOAuth
	stateStore  *oauth.StateStore
}

func NewAuthService(userRepo *repository.UserRepository, stateStore *oauth.StateStore, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		cfg:        cfg,
		stateStore: stateStore,
		githubOAuth: oauth.NewGithubOAuth(
			cfg.OAuth.Github.ClientID,
			cfg.OAuth.Github.ClientSecret,
			cfg.OAuth.Github.RedirectURI,
		),
	}
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	user := &model.User{
		Username:     req.Username,
		Email:        &req.Email,
		PasswordHash: &passwordStr,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		UserID: user.ID,
		Token:  token,
	}, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// OAuth 用户没有密码
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  buildUserInfo(user),
	}, nil
}

// GithubAuthURL 生成 GitHub 授权地址，state 存 Redis 防重放
func (s *AuthService) GithubAuthURL(ctx context.Context, redirectURI string) (string, error) {
	state, err := s.stateStore.GenerateState(ctx, redirectURI)
	if err != nil {
		return "", err
	}
	return s.githubOAuth.GetAuthURL(state), nil
}

// GithubCallback 处理 GitHub 回调：校验 state、换取用户信息、
// 按 github_id 查找或创建用户，返回本站 JWT。
func (s *AuthService) GithubCallback(ctx context.Context, code, state string) (*dto.LoginResponse, error) {
	if _, err := s.stateStore.ValidateState(ctx, state); err != nil {
		return nil, ErrInvalidOAuthState
	}

	token, err := s.githubOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	ghUser, err := s.githubOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch github user: %w", err)
	}

	githubID := fmt.Sprintf("%d", ghUser.ID)
	user, err := s.userRepo.GetByGithubID(githubID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.createGithubUser(ghUser, githubID)
	}
	if err != nil {
		return nil, err
	}

	jwtToken, err := jwt.GenerateToken(user.ID, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: jwtToken,
		User:  buildUserInfo(user),
	}, nil
}

func (s *AuthService) createGithubUser(ghUser *oauth.GithubUser, githubID string) (*model.User, error) {
	username := ghUser.Login
	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, err
	}
	if exists {
		username = fmt.Sprintf("%s_%s", ghUser.Login, githubID)
	}

	user := &model.User{
		Username:  username,
		GithubID:  &githubID,
		AvatarURL: ghUser.AvatarURL,
	}
	if ghUser.Email != "" {
		emailTaken, err := s.userRepo.ExistsByEmail(ghUser.Email)
		if err != nil {
			return nil, err
		}
		if !emailTaken {
			user.Email = &ghUser.Email
		}
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
	if user.Email != nil {
		info.Email = *user.Email
	}
	if user.CreatorProfile != nil {
		info.IsCreator = true
		info.Creator = buildCreatorInfo(user.CreatorProfile)
	}
	return info
}
