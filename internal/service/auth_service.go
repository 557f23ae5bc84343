package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"yatube/internal/model"
	"yatube/internal/pkg"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// 用户名只允许字母、数字和 @.+-_
var usernameRe = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

const maxUsernameLen = 150

type AuthService struct {
	users    UserRepository
	sessions SessionStore
	tokens   *pkg.TokenIssuer
}

func NewAuthService(users UserRepository, sessions SessionStore, tokens *pkg.TokenIssuer) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens}
}

// CreateUser 只给管理命令用，注册流程不在这里
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	verr := &pkg.ValidationError{}
	switch {
	case username == "":
		verr.Add("username", "This field is required.")
	case utf8.RuneCountInString(username) > maxUsernameLen:
		verr.Add("username", "Ensure this value has at most 150 characters.")
	case !usernameRe.MatchString(username):
		verr.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if len(password) < 8 {
		verr.Add("password", "This password is too short. It must contain at least 8 characters.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{Username: username, Password: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*pkg.Pair, *model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(user.ID, user.Username)
	if err != nil {
		return nil, nil, err
	}
	// 将token写入session，旧的登录态被顶掉
	if err := s.sessions.Save(ctx, user.ID, pair.AccessToken, s.tokens.AccessTTL()); err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	return s.sessions.Delete(ctx, userID)
}

// Refresh 换新 token，并让新的 access 成为唯一有效登录态
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	pair, claims, err := s.tokens.Refresh(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, claims.UserID, pair.AccessToken, s.tokens.AccessTTL()); err != nil {
		return nil, err
	}
	return pair, nil
}

// Authenticate 校验 access token 且必须是 session 里保存的那一个，通过后续期
func (s *AuthService) Authenticate(ctx context.Context, token string) (pkg.Viewer, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return pkg.Viewer{}, pkg.ErrUnauthenticated
	}
	stored, err := s.sessions.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return pkg.Viewer{}, pkg.ErrUnauthenticated
		}
		return pkg.Viewer{}, err
	}
	if stored != token {
		return pkg.Viewer{}, pkg.ErrUnauthenticated
	}
	if err := s.sessions.Extend(ctx, claims.UserID, s.tokens.AccessTTL()); err != nil {
		return pkg.Viewer{}, err
	}
	return pkg.Viewer{ID: claims.UserID, Username: claims.Username}, nil
}
