package services

import (
	portsrepo "github.com/SscSPs/bank_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Ledger:  NewLedgerService(repos.AccountRepo, repos.TransactionRepo),
		Account: NewAccountService(repos.AccountRepo),
		Auth:    NewAuthService(cfg, repos.UserRepo),
	}
}
