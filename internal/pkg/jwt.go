package pkg

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
)

const (
	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

type Claims struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenIssuer 签发/解析 access + refresh，密钥与有效期来自配置
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *TokenIssuer) AccessTTL() time.Duration { return i.accessTTL }

func (i *TokenIssuer) sign(userID uint64, username, subject string, ttl time.Duration, secret []byte) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	})
	return token.SignedString(secret)
}

func (i *TokenIssuer) GeneratePair(userID uint64, username string) (*Pair, error) {
	accessToken, err := i.sign(userID, username, subjectAccess, i.accessTTL, i.accessSecret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := i.sign(userID, username, subjectRefresh, i.refreshTTL, i.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (i *TokenIssuer) parse(tokenStr string, secret []byte, subject string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithSubject(subject),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}

// ParseAccess 解析 access
func (i *TokenIssuer) ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := i.parse(tokenStr, i.accessSecret, subjectAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, ErrTokenParseFailure):
			return nil, err
		default:
			return nil, ErrTokenInvalid
		}
	}
	return claims, nil
}

// ParseRefresh 解析 refresh，不签新 token
func (i *TokenIssuer) ParseRefresh(tokenStr string) (*Claims, error) {
	claims, err := i.parse(tokenStr, i.refreshSecret, subjectRefresh)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrRefreshExpired
		}
		return nil, ErrRefreshInvalid
	}
	return claims, nil
}

// Refresh 用 refresh 换一对新 token
func (i *TokenIssuer) Refresh(refreshToken string) (*Pair, *Claims, error) {
	claims, err := i.ParseRefresh(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	pair, err := i.GeneratePair(claims.UserID, claims.Username)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}
