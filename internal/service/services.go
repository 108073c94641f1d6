package service

import (
	"github.com/ashmelev/cardvault/internal/config"
	"github.com/ashmelev/cardvault/internal/crypto"
	"github.com/ashmelev/cardvault/internal/logger"
	"github.com/ashmelev/cardvault/internal/session"
	"github.com/ashmelev/cardvault/internal/store"
	"github.com/ashmelev/cardvault/internal/workers"
)

type Services struct {
	AuthService  AuthService
	VaultService VaultService

	// Keys is the session key store shared by both services and the auth
	// middleware.
	Keys *session.KeyStore
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	keyChain := crypto.NewKeyChain()
	keys := session.NewKeyStore()
	pool := workers.NewPool(cfg.Workers.ReencryptWorkers)

	vault := NewVaultService(
		storages.CardRepository,
		storages.WalletRepository,
		storages.BlobStorage,
		keyChain,
		pool,
		logger,
	)

	return &Services{
		AuthService:  NewAuthService(storages.UserRepository, vault, keyChain, keys, cfg.App, logger),
		VaultService: vault,
		Keys:         keys,
	}
}
