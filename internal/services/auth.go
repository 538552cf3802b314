package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	userrepo "github.com/yungbote/stride-backend/internal/data/repos/user"
	types "github.com/yungbote/stride-backend/internal/domain"
	"github.com/yungbote/stride-backend/internal/platform/apierr"
	"github.com/yungbote/stride-backend/internal/platform/ctxutil"
	"github.com/yungbote/stride-backend/internal/platform/dbctx"
	"github.com/yungbote/stride-backend/internal/platform/logger"
)

type JWTClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
}

// TokenPair is one login session's credentials.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	log        *logger.Logger
	db         *gorm.DB
	users      userrepo.UserRepo
	tokens     userrepo.UserTokenRepo
	avatars    AvatarService
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(
	log *logger.Logger,
	db *gorm.DB,
	users userrepo.UserRepo,
	tokens userrepo.UserTokenRepo,
	avatars AvatarService,
	jwtSecret string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) (AuthService, error) {
	if strings.TrimSpace(jwtSecret) == "" {
		return nil, fmt.Errorf("missing JWT secret")
	}
	return &authService{
		log:        log.With("service", "AuthService"),
		db:         db,
		users:      users,
		tokens:     tokens,
		avatars:    avatars,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *authService) Register(ctx context.Context, email, password, firstName, lastName string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, apierr.BadRequest("invalid_email", fmt.Errorf("valid email required"))
	}
	if len(password) < 8 {
		return nil, nil, apierr.BadRequest("weak_password", fmt.Errorf("password must be at least 8 characters"))
	}

	existing, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, apierr.Conflict("email_taken", fmt.Errorf("email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  string(hashed),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if s.avatars != nil {
			if aErr := s.avatars.AssignInitialsAvatar(ctx, user); aErr != nil {
				s.log.Warn("Avatar generation failed; registering without one", "error", aErr)
			}
		}
		if _, cErr := s.users.Create(dbc, []*types.User{user}); cErr != nil {
			return cErr
		}
		var tErr error
		pair, tErr = s.issueSession(dbc, user)
		return tErr
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*types.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tErr error
		pair, tErr = s.issueSession(dbctx.Context{Ctx: ctx, Tx: tx}, user)
		return tErr
	})
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apierr.New(http.StatusUnauthorized, "missing_refresh_token", fmt.Errorf("refresh token required"))
	}

	var pair *TokenPair
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		session, err := s.tokens.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return err
		}
		if session == nil {
			return apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("unknown refresh token"))
		}
		if session.ExpiresAt.Before(time.Now()) {
			_ = s.tokens.DeleteByID(dbc, session.ID)
			return apierr.New(http.StatusUnauthorized, "refresh_token_expired", fmt.Errorf("refresh token expired"))
		}

		users, err := s.users.GetByIDs(dbc, []uuid.UUID{session.UserID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return apierr.New(http.StatusUnauthorized, "invalid_refresh_token", fmt.Errorf("no user for refresh token"))
		}

		if err := s.tokens.DeleteByID(dbc, session.ID); err != nil {
			return err
		}
		var tErr error
		pair, tErr = s.issueSession(dbc, users[0])
		return tErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("no session in context"))
	}
	return s.tokens.DeleteByID(dbctx.Context{Ctx: ctx}, rd.SessionID)
}

// issueSession creates one UserToken row and signs an access token whose
// sid claim points at it.
func (s *authService) issueSession(dbc dbctx.Context, user *types.User) (*TokenPair, error) {
	session := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(s.refreshTTL),
	}
	if _, err := s.tokens.Create(dbc, []*types.UserToken{session}); err != nil {
		return nil, err
	}

	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
		SessionID: session.ID.String(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: session.RefreshToken}, nil
}

func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return ctx, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	sessionID := uuid.Nil
	if claims.SessionID != "" {
		if parsedSID, sErr := uuid.Parse(claims.SessionID); sErr == nil {
			sessionID = parsedSID
		}
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		SessionID:   sessionID,
	}), nil
}

func (s *authService) AccessTTL() time.Duration { return s.accessTTL }
