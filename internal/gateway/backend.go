package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"
	"alartmed/pkg/jwt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// remoteEvent is the payload published on a user's event channel.
type remoteEvent struct {
	Type   EventType `json:"type"`
	UserID uuid.UUID `json:"user_id"`
}

// Backend is the shared authentication service behind every Client.
type Backend struct {
	db           *gorm.DB
	redisClient  *redis.Client
	identityRepo domainRepo.IdentityRepository
	jwtService   *jwt.JWTService
	mailer       Mailer
	log          *logrus.Logger
}

func NewBackend(
	db *gorm.DB,
	redisClient *redis.Client,
	identityRepo domainRepo.IdentityRepository,
	jwtService *jwt.JWTService,
	mailer Mailer,
	log *logrus.Logger,
) *Backend {
	return &Backend{
		db:           db,
		redisClient:  redisClient,
		identityRepo: identityRepo,
		jwtService:   jwtService,
		mailer:       mailer,
		log:          log,
	}
}

func userChannel(userID uuid.UUID) string {
	return fmt.Sprintf("auth:events:%s", userID.String())
}

func accessKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", userID.String(), tokenID)
}

func refreshKey(userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("refresh_token:%s:%s", userID.String(), tokenID)
}

func recoveryKey(token string) string {
	return fmt.Sprintf("recovery_token:%s", token)
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (*Session, error) {
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := b.identityRepo.FindByEmail(ctx, b.db, email)
	if err != nil {
		b.log.Warnf("Failed to check existing identity: %+v", err)
		return nil, fmt.Errorf("failed to check existing identity: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyRegistered
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		b.log.Warnf("Failed to hash password: %+v", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &entity.Identity{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := b.identityRepo.Create(ctx, b.db, identity); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrUserAlreadyRegistered
		}
		b.log.Warnf("Failed to create identity: %+v", err)
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	return b.issueSession(ctx, identity)
}

func (b *Backend) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	identity, err := b.identityRepo.FindByEmail(ctx, b.db, email)
	if err != nil {
		b.log.Warnf("Failed to find identity by email: %+v", err)
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return b.issueSession(ctx, identity)
}

// GetUser resolves a live access token to its user.
func (b *Backend) GetUser(ctx context.Context, accessToken string) (*User, error) {
	claims, err := b.lookupAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &User{ID: claims.UserID, Email: claims.Email}, nil
}

func (b *Backend) lookupAccessToken(ctx context.Context, accessToken string) (*jwt.Claims, error) {
	claims, err := b.jwtService.ValidateToken(accessToken, jwt.AccessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, err
		}
		return nil, ErrSessionMissing
	}

	exists, err := b.redisClient.Exists(ctx, accessKey(claims.UserID, claims.TokenID)).Result()
	if err != nil {
		b.log.Warnf("Failed to check access token in Redis: %+v", err)
		return nil, fmt.Errorf("failed to check access token: %w", err)
	}
	if exists == 0 {
		return nil, ErrSessionMissing
	}

	return claims, nil
}

// RefreshSession rotates both tokens. The presented refresh token is revoked.
func (b *Backend) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := b.jwtService.ValidateToken(refreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	key := refreshKey(claims.UserID, claims.TokenID)
	deleted, err := b.redisClient.Del(ctx, key).Result()
	if err != nil {
		b.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if deleted == 0 {
		return nil, ErrInvalidRefreshToken
	}

	identity, err := b.identityRepo.FindByID(ctx, b.db, claims.UserID)
	if err != nil {
		b.log.Warnf("Failed to find identity by id: %+v", err)
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		return nil, ErrInvalidRefreshToken
	}

	return b.issueSession(ctx, identity)
}

// SignOut revokes every token of the access token's user and notifies all of that
// user's clients.
func (b *Backend) SignOut(ctx context.Context, accessToken string) error {
	user, err := b.GetUser(ctx, accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrSessionMissing
		}
		return err
	}

	if err := b.RevokeAllUserTokens(ctx, user.ID); err != nil {
		return err
	}
	return b.publish(ctx, user.ID, EventSignedOut)
}

func (b *Backend) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	identity, err := b.identityRepo.FindByEmail(ctx, b.db, email)
	if err != nil {
		b.log.Warnf("Failed to find identity by email: %+v", err)
		return fmt.Errorf("failed to find identity: %w", err)
	}
	if identity == nil {
		// unknown addresses are not disclosed
		return nil
	}

	token := uuid.NewString()
	if err := b.redisClient.Set(ctx, recoveryKey(token), identity.ID.String(), b.jwtService.GetRecoveryExpiry()).Err(); err != nil {
		b.log.Warnf("Failed to store recovery token in Redis: %+v", err)
		return fmt.Errorf("failed to store recovery token: %w", err)
	}

	link, err := recoveryLink(redirectTo, token)
	if err != nil {
		return fmt.Errorf("invalid redirect target: %w", err)
	}

	if err := b.mailer.SendPasswordReset(ctx, identity.Email, link); err != nil {
		b.log.Warnf("Failed to send recovery email: %+v", err)
		return ErrRecoveryEmailFailed
	}
	return nil
}

func recoveryLink(redirectTo, token string) (string, error) {
	u, err := url.Parse(redirectTo)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// UpdatePasswordWithRecovery consumes a recovery token, sets a new password and
// returns the user it belongs to. Every existing session of the user is revoked.
func (b *Backend) UpdatePasswordWithRecovery(ctx context.Context, token, newPassword string) (uuid.UUID, error) {
	if len(newPassword) < minPasswordLength {
		return uuid.Nil, ErrWeakPassword
	}

	raw, err := b.redisClient.GetDel(ctx, recoveryKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrInvalidRecoveryToken
		}
		b.log.Warnf("Failed to read recovery token: %+v", err)
		return uuid.Nil, fmt.Errorf("failed to read recovery token: %w", err)
	}

	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidRecoveryToken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		b.log.Warnf("Failed to hash password: %+v", err)
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := b.identityRepo.UpdatePassword(ctx, b.db, userID, string(hashedPassword)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrInvalidRecoveryToken
		}
		b.log.Warnf("Failed to update password: %+v", err)
		return uuid.Nil, fmt.Errorf("failed to update password: %w", err)
	}

	if err := b.RevokeAllUserTokens(ctx, userID); err != nil {
		return uuid.Nil, err
	}
	return userID, b.publish(ctx, userID, EventSignedOut)
}

// Subscribe listens on the user's event channel. The subscription is confirmed
// before it is returned.
func (b *Backend) Subscribe(ctx context.Context, userID uuid.UUID) (*redis.PubSub, error) {
	pubsub := b.redisClient.Subscribe(ctx, userChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to user events: %w", err)
	}
	return pubsub, nil
}

// RevokeAllUserTokens deletes every access and refresh token of the user.
func (b *Backend) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	patterns := []string{
		fmt.Sprintf("access_token:%s:*", userID.String()),
		fmt.Sprintf("refresh_token:%s:*", userID.String()),
	}

	for _, pattern := range patterns {
		keys, err := b.redisClient.Keys(ctx, pattern).Result()
		if err != nil {
			b.log.Warnf("Failed to get token keys: %+v", err)
			return fmt.Errorf("failed to revoke tokens: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := b.redisClient.Del(ctx, keys...).Err(); err != nil {
			b.log.Warnf("Failed to delete token keys: %+v", err)
			return fmt.Errorf("failed to revoke tokens: %w", err)
		}
	}

	return nil
}

func (b *Backend) publish(ctx context.Context, userID uuid.UUID, eventType EventType) error {
	payload, err := json.Marshal(remoteEvent{Type: eventType, UserID: userID})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.redisClient.Publish(ctx, userChannel(userID), payload).Err(); err != nil {
		b.log.Warnf("Failed to publish %s event: %+v", eventType, err)
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (b *Backend) issueSession(ctx context.Context, identity *entity.Identity) (*Session, error) {
	access, err := b.jwtService.GenerateAccessToken(identity.ID, identity.Email)
	if err != nil {
		b.log.Warnf("Failed to generate access token: %+v", err)
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := b.jwtService.GenerateRefreshToken(identity.ID, identity.Email)
	if err != nil {
		b.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := b.redisClient.Set(ctx, accessKey(identity.ID, access.TokenID), "valid", b.jwtService.GetAccessExpiry()).Err(); err != nil {
		b.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, fmt.Errorf("failed to store access token: %w", err)
	}
	if err := b.redisClient.Set(ctx, refreshKey(identity.ID, refresh.TokenID), "valid", b.jwtService.GetRefreshExpiry()).Err(); err != nil {
		b.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &Session{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		ExpiresAt:    access.ExpiresAt,
		User:         User{ID: identity.ID, Email: identity.Email},
	}, nil
}
