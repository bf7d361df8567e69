package service

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/vuhoang/skillmint/internal/dto"
	"github.com/vuhoang/skillmint/internal/repository"
)

// AuthService handles wallet sign-in. Signature verification happens upstream
// (the wallet gateway); this layer trusts a well-formed triple and maintains
// the user record.
type AuthService interface {
	Authenticate(req dto.WalletAuthRequest) (*dto.UserResponse, error)
	GetUser(wallet string) (*dto.UserResponse, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Authenticate(req dto.WalletAuthRequest) (*dto.UserResponse, error) {
	wallet := strings.TrimSpace(req.WalletAddress)
	if wallet == "" || req.Signature == "" || req.Message == "" {
		return nil, fmt.Errorf("%w: walletAddress, signature and message are required", ErrInvalidRequest)
	}

	user, err := s.userRepo.FindOrCreate(wallet)
	if err != nil {
		log.Error().Err(err).Str("wallet", wallet).Msg("Authenticate: failed to upsert user")
		return nil, fmt.Errorf("failed to authenticate wallet: %w", err)
	}

	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing response: %w", err)
	}
	return &resp, nil
}

func (s *authService) GetUser(wallet string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByWallet(wallet)
	if err != nil {
		return nil, fmt.Errorf("user not found for wallet %s: %w", wallet, err)
	}
	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing response: %w", err)
	}
	return &resp, nil
}
