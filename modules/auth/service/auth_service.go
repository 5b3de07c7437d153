package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"schedulai/core/cache"
	"schedulai/core/config"
	"schedulai/core/constants"
	"schedulai/core/errors"
	"schedulai/core/logger"
	"schedulai/core/utils"
	"schedulai/modules/auth/dto"
	"schedulai/modules/auth/entity"
	"schedulai/modules/auth/repository"
	"schedulai/modules/calendar/provider"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// AuthServiceInterface handles the Google OAuth flow and session lifecycle.
type AuthServiceInterface interface {
	GoogleLoginURL(ctx context.Context) (string, *errors.AppError)
	HandleGoogleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, *errors.AppError)
	Check(ctx context.Context, userID uuid.UUID) (*dto.CheckResponse, *errors.AppError)
	Logout(ctx context.Context, token string, expiresAt time.Time) *errors.AppError
}

// AuthService owns accounts, Google credentials and session tokens. It also
// hands calendar credentials to the calendar service, so token material
// never leaves this module through any other path.
type AuthService struct {
	repo        repository.UserRepositoryInterface
	cache       cache.ICache
	oauthConfig *oauth2.Config
}

func NewAuthService(repo repository.UserRepositoryInterface, c cache.ICache) *AuthService {
	cfg := config.Get()
	return &AuthService{
		repo:  repo,
		cache: c,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes: []string{
				"https://www.googleapis.com/auth/calendar",
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// OAuthConfig exposes the configured oauth2.Config so the calendar provider
// can build token-refreshing HTTP clients from the same client credentials.
func (service *AuthService) OAuthConfig() *oauth2.Config {
	return service.oauthConfig
}

// GoogleLoginURL generates the consent URL with a one-time state token for
// CSRF protection.
func (service *AuthService) GoogleLoginURL(ctx context.Context) (string, *errors.AppError) {
	if service.oauthConfig.ClientID == "" || service.oauthConfig.ClientSecret == "" || service.oauthConfig.RedirectURL == "" {
		return "", errors.New(errors.ErrInternalServer, "Google OAuth is not configured")
	}

	state := utils.GenerateRandomString(32)
	if err := service.cache.SetOAuthState(ctx, state); err != nil {
		logger.Error("AuthService:GoogleLoginURL:SetOAuthState:Error", "error", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to store state token", err)
	}

	return service.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// HandleGoogleCallback validates the state token, exchanges the code,
// persists the credential and issues a session token.
func (service *AuthService) HandleGoogleCallback(ctx context.Context, code, state string) (*dto.LoginResponse, *errors.AppError) {
	valid, err := service.cache.TakeOAuthState(ctx, state)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:TakeOAuthState:Error", "error", err, "state", state)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to validate state token", err)
	}
	if !valid {
		logger.Warn("AuthService:HandleGoogleCallback:StateNotFound", "state", state)
		return nil, errors.New(errors.ErrUnauthorized, "invalid or expired state token, please initiate the login flow again")
	}

	token, err := service.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:Exchange:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrUnauthorized, "failed to exchange authorization code", err)
	}

	email, appErr := service.fetchGoogleEmail(ctx, token)
	if appErr != nil {
		return nil, appErr
	}

	user, err := service.repo.UpsertByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save user", err)
	}

	cred := &entity.GoogleCredential{
		UserID:        user.ID,
		AccessToken:   token.AccessToken,
		CalendarEmail: email,
	}
	if token.RefreshToken != "" {
		cred.RefreshToken = &token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		cred.TokenExpiresAt = &expiry
	}
	if err := service.repo.SaveCredential(ctx, cred); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to save Google credential", err)
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		logger.Error("AuthService:HandleGoogleCallback:GenerateAccessToken:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to generate session token", err)
	}

	logger.Info("AuthService:HandleGoogleCallback:LoggedIn", "user_id", user.ID, "email", email)
	return &dto.LoginResponse{AccessToken: accessToken, Email: email}, nil
}

// Check reports whether the session user exists and has a connected calendar.
func (service *AuthService) Check(ctx context.Context, userID uuid.UUID) (*dto.CheckResponse, *errors.AppError) {
	user, err := service.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil {
		return &dto.CheckResponse{Authenticated: false}, nil
	}

	cred, err := service.repo.GetCredential(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load credential", err)
	}

	return &dto.CheckResponse{
		Authenticated:     true,
		Email:             user.Email,
		CalendarConnected: cred != nil,
	}, nil
}

// Logout blacklists the session token until its natural expiry.
func (service *AuthService) Logout(ctx context.Context, token string, expiresAt time.Time) *errors.AppError {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := service.cache.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:BlacklistToken:Error", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to invalidate session", err)
	}
	return nil
}

// CredentialForUser implements the calendar service's credential source.
// Tokens are loaded per call and never cached in process memory.
func (service *AuthService) CredentialForUser(ctx context.Context, userID uuid.UUID) (*provider.Credential, *errors.AppError) {
	cred, err := service.repo.GetCredential(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load Google credential", err)
	}
	if cred == nil {
		return nil, errors.New(errors.ErrUnauthorized, "no Google Calendar connected, please login with Google again")
	}

	token := &oauth2.Token{AccessToken: cred.AccessToken}
	if cred.RefreshToken != nil {
		token.RefreshToken = *cred.RefreshToken
	}
	if cred.TokenExpiresAt != nil {
		token.Expiry = *cred.TokenExpiresAt
	}

	return &provider.Credential{
		UserID:        userID.String(),
		CalendarEmail: cred.CalendarEmail,
		Token:         token,
	}, nil
}

func (service *AuthService) fetchGoogleEmail(ctx context.Context, token *oauth2.Token) (string, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	client := service.oauthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		logger.Error("AuthService:fetchGoogleEmail:Get:Error", "error", err)
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to fetch Google user info", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logger.Error("AuthService:fetchGoogleEmail:APIError", "status", resp.StatusCode, "body", string(raw))
		return "", errors.New(errors.ErrInternalServer, fmt.Sprintf("Google user info error: %d", resp.StatusCode))
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", errors.NewAppError(errors.ErrInternalServer, "failed to parse Google user info", err)
	}
	if info.Email == "" {
		return "", errors.New(errors.ErrInternalServer, "Google user info missing email")
	}

	return info.Email, nil
}
