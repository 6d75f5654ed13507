package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"vincula/internal/catalog/repository"
)

type Module struct {
	Controller *Controller
	Repository *repository.MySQLProductRepository
}

func NewModule(db *sql.DB, logger *zap.Logger) *Module {
	repo := repository.NewMySQLProductRepository(db)
	svc := NewService(repo)
	uc := NewSearchUseCase(svc)

	return &Module{
		Controller: NewController(uc, logger),
		Repository: repo,
	}
}
