package app

import (
	"gorm.io/gorm"

	"github.com/answergrid/answergrid-backend/internal/data/repos/docs"
	memrepo "github.com/answergrid/answergrid-backend/internal/data/repos/memory"
	tenantrepo "github.com/answergrid/answergrid-backend/internal/data/repos/tenant"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type Repos struct {
	Tenant  tenantrepo.TenantRepo
	Chunk   docs.ChunkRepo
	Session memrepo.SessionRepo
	Message memrepo.MessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tenant:  tenantrepo.NewTenantRepo(db, log),
		Chunk:   docs.NewChunkRepo(db, log),
		Session: memrepo.NewSessionRepo(db, log),
		Message: memrepo.NewMessageRepo(db, log),
	}
}
