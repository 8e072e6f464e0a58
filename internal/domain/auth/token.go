package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blog-server-go/internal/platform/errors"
)

// TokenKind discriminates between the two token roles. A token is only
// valid for the role it was minted with.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type tokenClaims struct {
	Kind TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenPair bundles the credentials issued at login/refresh time.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Issuer signs and verifies the session tokens.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds a token issuer using the provided HMAC secret.
func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssueAccess mints a short-lived token authorizing API calls.
func (i *Issuer) IssueAccess(accountID uint) (string, error) {
	return i.issue(accountID, KindAccess, i.accessTTL)
}

// IssueRefresh mints a longer-lived token authorizing access-token renewal.
func (i *Issuer) IssueRefresh(accountID uint) (string, error) {
	return i.issue(accountID, KindRefresh, i.refreshTTL)
}

// IssuePair mints a matching access/refresh pair for the account.
func (i *Issuer) IssuePair(accountID uint) (TokenPair, error) {
	access, err := i.IssueAccess(accountID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.IssueRefresh(accountID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) issue(accountID uint, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry and structure, and additionally that the
// token was minted for the expected role. Any failure collapses into a
// single auth-kind error; callers never see a partial result.
func (i *Issuer) Verify(tokenString string, want TokenKind) (uint, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.secret, nil
		},
	)
	if err != nil {
		return 0, errors.Wrap(errors.KindAuth, "verify", "invalid token", err)
	}
	if !token.Valid {
		return 0, errors.New(errors.KindAuth, "verify", "invalid token")
	}
	if claims.Kind != want {
		return 0, errors.New(errors.KindAuth, "verify",
			fmt.Sprintf("token kind mismatch: expected %s", want))
	}
	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || accountID == 0 {
		return 0, errors.New(errors.KindAuth, "verify", "invalid token subject")
	}
	return uint(accountID), nil
}
