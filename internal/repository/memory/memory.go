package memory

import (
	"personal_finance/internal/repository"
)

var (
	_ repository.UserRepository        = (*UserRepository)(nil)
	_ repository.TransactionRepository = (*TransactionRepository)(nil)
)
