package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicpulse/backend/internal/config"
	"github.com/civicpulse/backend/internal/database"
	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

// Principal is the identity carried by an access token.
type Principal struct {
	UserID     int64
	ExternalID string
	Roles      []string
	RoleTypes  []models.RoleType
}

func (p Principal) Actor() Actor {
	return Actor{UserID: p.UserID, RoleTypes: p.RoleTypes}
}

type AuthService struct {
	users  store.UserStore
	tokens store.RefreshTokenStore
	cfg    *config.Config
}

func NewAuthService(users store.UserStore, tokens store.RefreshTokenStore, cfg *config.Config) *AuthService {
	return &AuthService{users: users, tokens: tokens, cfg: cfg}
}

// Register creates a citizen account.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.createUser(ctx, userInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     []string{database.RoleCitizen},
	})
	if err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, user)
}

// Refresh rotates a refresh token. The presented token is revoked whether or not it is still valid.
func (s *AuthService) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.tokens.FindActive(ctx, tokenHash)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	if err := s.tokens.Revoke(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return s.generateTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, req *dto.LogoutRequest) error {
	return s.tokens.Revoke(ctx, hashToken(req.RefreshToken))
}

// CreateOperator creates a staff account holding the named roles.
func (s *AuthService) CreateOperator(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	return s.createUser(ctx, userInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     req.Roles,
		CompanyID: req.CompanyID.Int64Ptr(),
	})
}

func (s *AuthService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.users.ListRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

// EnsureAdmin creates the bootstrap administrator unless an account with that email exists.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !isNotFound(err) {
		return fmt.Errorf("get admin: %w", err)
	}

	username, _, _ := strings.Cut(email, "@")
	if _, err := s.createUser(ctx, userInput{
		Email:    email,
		Username: username,
		Password: password,
		Roles:    []string{database.RoleAdmin},
	}); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.InfoContext(ctx, "bootstrap administrator created", "email", normalizeEmail(email))
	return nil
}

// ParseAccessToken validates a signed access token and returns its principal.
func (s *AuthService) ParseAccessToken(raw string) (Principal, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Principal{}, errors.New("invalid claims")
	}
	return PrincipalFromClaims(claims)
}

// PrincipalFromClaims reads the claims written by the access token generator.
func PrincipalFromClaims(claims jwt.MapClaims) (Principal, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Principal{}, errors.New("missing sub claim")
	}
	uid, _ := claims["uid"].(string)
	userID, err := strconv.ParseInt(uid, 10, 64)
	if err != nil {
		return Principal{}, errors.New("missing uid claim")
	}

	p := Principal{UserID: userID, ExternalID: sub, Roles: stringList(claims["roles"])}
	for _, v := range stringList(claims["role_types"]) {
		p.RoleTypes = append(p.RoleTypes, models.RoleType(v))
	}
	return p, nil
}

func stringList(v interface{}) []string {
	if list, ok := v.([]string); ok {
		return list
	}
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

type userInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	Roles     []string
	CompanyID *int64
}

func (s *AuthService) createUser(ctx context.Context, in userInput) (*models.User, error) {
	if len(in.Email) == 0 || len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: email required and password must be at least 8 characters", ErrInvalidInput)
	}
	email := normalizeEmail(in.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("get user: %w", err)
	}

	roles, err := s.users.RolesByName(ctx, in.Roles)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	if len(roles) != len(uniqueStrings(in.Roles)) {
		return nil, ErrUnknownRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ExternalID:         uuid.NewString(),
		Email:              email,
		Username:           strings.TrimSpace(in.Username),
		FirstName:          strings.TrimSpace(in.FirstName),
		LastName:           strings.TrimSpace(in.LastName),
		Password:           string(hash),
		CompanyID:          in.CompanyID,
		EmailNotifications: true,
		Roles:              roles,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         ToUserResponse(user),
	}, nil
}

func ToUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        dto.ID(user.ID),
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.RoleNames(),
	}
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	roleTypes := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roleTypes = append(roleTypes, string(r.Type))
	}

	claims := jwt.MapClaims{
		"sub":        user.ExternalID,
		"uid":        strconv.FormatInt(user.ID, 10),
		"email":      user.Email,
		"roles":      user.RoleNames(),
		"role_types": roleTypes,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(rawToken),
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.tokens.Create(ctx, &record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
