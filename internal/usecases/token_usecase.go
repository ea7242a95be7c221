package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"token-vault.backend/internal/domain/entities"
	domainerrors "token-vault.backend/internal/domain/errors"
	"token-vault.backend/internal/domain/repositories"
	"token-vault.backend/pkg/crypto"
	"token-vault.backend/pkg/metrics"
	"token-vault.backend/pkg/utils"
)

// TokenUsecase stores and serves OAuth tokens. Secrets are encrypted before
// they reach the repository and decrypted only on read.
type TokenUsecase struct {
	tokenRepo repositories.TokenRepository
	encryptor *crypto.Encryptor
	webhookUC *WebhookUsecase
}

// NewTokenUsecase creates a new token usecase
func NewTokenUsecase(tokenRepo repositories.TokenRepository, encryptor *crypto.Encryptor, webhookUC *WebhookUsecase) *TokenUsecase {
	return &TokenUsecase{
		tokenRepo: tokenRepo,
		encryptor: encryptor,
		webhookUC: webhookUC,
	}
}

// Store upserts the token for (tenant, key, provider). Storing over an
// existing triple replaces the credential in place and emits token.created
// again; the triple is the identity, not the row.
func (u *TokenUsecase) Store(ctx context.Context, tenantID uuid.UUID, input *entities.StoreTokenInput) (*entities.Token, error) {
	accessEnc, err := u.encryptor.Encrypt(input.AccessToken)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	refreshEnc, err := u.encryptor.Encrypt(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	now := time.Now().UTC()
	var expiresAt null.Time
	if input.ExpiresIn > 0 {
		expiresAt = null.TimeFrom(now.Add(time.Duration(input.ExpiresIn) * time.Second))
	}
	tokenType := input.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	existing, err := u.tokenRepo.GetByTenantKeyProvider(ctx, tenantID, input.Key, input.Provider)
	if err != nil && !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	var token *entities.Token
	if existing != nil {
		existing.AccessTokenEncrypted = accessEnc
		existing.RefreshTokenEncrypted = refreshEnc
		existing.TokenType = tokenType
		existing.ExpiresAt = expiresAt
		existing.Scope = null.NewString(input.Scope, input.Scope != "")
		existing.UpdatedAt = now
		if err := u.tokenRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		token = existing
	} else {
		token = &entities.Token{
			ID:                    uuid.New(),
			TenantID:              tenantID,
			Key:                   input.Key,
			Provider:              input.Provider,
			AccessTokenEncrypted:  accessEnc,
			RefreshTokenEncrypted: refreshEnc,
			TokenType:             tokenType,
			ExpiresAt:             expiresAt,
			Scope:                 null.NewString(input.Scope, input.Scope != ""),
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := u.tokenRepo.Create(ctx, token); err != nil {
			return nil, err
		}
	}

	metrics.RecordTokenOperation("store", token.Provider)
	u.webhookUC.TriggerEventAsync(tenantID, entities.EventTokenCreated, tokenEventData(token))
	return token, nil
}

// Get returns the token with its decrypted access token
func (u *TokenUsecase) Get(ctx context.Context, tenantID uuid.UUID, key, provider string) (*entities.TokenDetail, error) {
	token, err := u.tokenRepo.GetByTenantKeyProvider(ctx, tenantID, key, provider)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, domainerrors.NotFound("token not found")
	}

	accessToken, err := u.encryptor.Decrypt(token.AccessTokenEncrypted)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	metrics.RecordTokenOperation("get", token.Provider)
	return &entities.TokenDetail{Token: token, AccessToken: accessToken}, nil
}

// List returns the tenant's tokens, metadata only, optionally filtered by
// provider. Secrets stay encrypted; listing never decrypts.
func (u *TokenUsecase) List(ctx context.Context, tenantID uuid.UUID, provider string, pagination utils.PaginationParams) ([]*entities.Token, *utils.PaginationMeta, error) {
	tokens, total, err := u.tokenRepo.List(ctx, tenantID, provider, pagination)
	if err != nil {
		return nil, nil, err
	}
	meta := utils.CalculateMeta(total, pagination.Page, pagination.Limit)
	return tokens, &meta, nil
}

// Update partially updates the stored credential. Empty fields keep their
// current value.
func (u *TokenUsecase) Update(ctx context.Context, tenantID uuid.UUID, key, provider string, input *entities.UpdateTokenInput) (*entities.Token, error) {
	token, err := u.tokenRepo.GetByTenantKeyProvider(ctx, tenantID, key, provider)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, domainerrors.NotFound("token not found")
	}

	now := time.Now().UTC()
	if input.AccessToken != "" {
		enc, err := u.encryptor.Encrypt(input.AccessToken)
		if err != nil {
			return nil, domainerrors.InternalError(err)
		}
		token.AccessTokenEncrypted = enc
	}
	if input.RefreshToken != "" {
		enc, err := u.encryptor.Encrypt(input.RefreshToken)
		if err != nil {
			return nil, domainerrors.InternalError(err)
		}
		token.RefreshTokenEncrypted = enc
	}
	if input.ExpiresIn > 0 {
		token.ExpiresAt = null.TimeFrom(now.Add(time.Duration(input.ExpiresIn) * time.Second))
	}
	if input.Scope != "" {
		token.Scope = null.StringFrom(input.Scope)
	}
	token.UpdatedAt = now

	if err := u.tokenRepo.Update(ctx, token); err != nil {
		return nil, err
	}

	metrics.RecordTokenOperation("update", token.Provider)
	return token, nil
}

// Delete removes the credential and emits token.deleted
func (u *TokenUsecase) Delete(ctx context.Context, tenantID uuid.UUID, key, provider string) error {
	token, err := u.tokenRepo.GetByTenantKeyProvider(ctx, tenantID, key, provider)
	if err != nil {
		return err
	}
	if token == nil {
		return domainerrors.NotFound("token not found")
	}

	if err := u.tokenRepo.Delete(ctx, token.ID); err != nil {
		return err
	}

	metrics.RecordTokenOperation("delete", token.Provider)
	u.webhookUC.TriggerEventAsync(tenantID, entities.EventTokenDeleted, tokenEventData(token))
	return nil
}

// tokenEventData builds the webhook payload for a token. Secrets are never
// part of event payloads.
func tokenEventData(token *entities.Token) map[string]interface{} {
	data := map[string]interface{}{
		"tokenId":  token.ID.String(),
		"key":      token.Key,
		"provider": token.Provider,
	}
	if token.ExpiresAt.Valid {
		data["expiresAt"] = token.ExpiresAt.Time.UTC().Format(time.RFC3339)
	}
	return data
}
