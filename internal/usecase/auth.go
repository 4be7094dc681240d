package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
	pkgAuth "github.com/polkiloo/gopherdine/internal/pkg/auth"
)

const referralCodeLength = 10

// AuthUseCase handles customer lifecycle and token management.
type AuthUseCase struct {
	uow             repository.UnitOfWork
	customers       repository.CustomerRepository
	settings        repository.SettingsRepository
	wallet          *WalletEngine
	hasher          pkgAuth.PasswordHasher
	tokens          pkgAuth.Strategy
	newReferralCode func() string
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	uow repository.UnitOfWork,
	customers repository.CustomerRepository,
	settings repository.SettingsRepository,
	wallet *WalletEngine,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
) *AuthUseCase {
	return &AuthUseCase{
		uow:             uow,
		customers:       customers,
		settings:        settings,
		wallet:          wallet,
		hasher:          hasher,
		tokens:          strategy,
		newReferralCode: generateReferralCode,
	}
}

// Register creates a new customer, links the referrer when a referral code is
// given, credits the signup bonus and returns an auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password, referralCode string) (*model.Customer, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	var code string
	if strings.TrimSpace(referralCode) != "" {
		var ok bool
		if code, ok = NormalizeReferralCode(referralCode); !ok {
			return nil, "", domainErrors.ErrInvalidReferralCode
		}
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	settings, err := u.settings.Current(ctx)
	if err != nil {
		return nil, "", domainErrors.Persistence("load settings", err)
	}

	var customer *model.Customer
	err = u.uow.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		var referredBy *int64
		if code != "" {
			referrer, err := tx.Customers().GetByReferralCode(ctx, code)
			if err != nil {
				if errors.Is(err, domainErrors.ErrNotFound) {
					return domainErrors.ErrInvalidReferralCode
				}
				return err
			}
			referredBy = &referrer.ID
		}

		var err error
		customer, err = tx.Customers().Create(ctx, model.NewCustomer{
			Login:        login,
			PasswordHash: hash,
			ReferralCode: u.newReferralCode(),
			ReferredBy:   referredBy,
		})
		if err != nil {
			return err
		}

		if settings.SignupBonus.IsPositive() {
			if _, err := u.wallet.Credit(ctx, tx, WalletEntry{
				CustomerID:  customer.ID,
				Amount:      settings.SignupBonus,
				Source:      model.SourceSignupBonus,
				Description: "signup bonus",
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", domainErrors.Persistence("register customer", err)
	}

	token, err := u.tokens.IssueToken(customer.ID)
	if err != nil {
		return nil, "", err
	}

	return customer, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Customer, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	customer, err := u.customers.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(customer.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(customer.ID)
	if err != nil {
		return nil, "", err
	}

	return customer, token, nil
}

// ParseToken extracts customer ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches customer by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	return u.customers.GetByID(ctx, id)
}

func generateReferralCode() string {
	code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return code[:referralCodeLength]
}
