package app

import (
	"github.com/answergrid/answergrid-backend/internal/http/handlers"
	"github.com/answergrid/answergrid-backend/internal/pkg/logger"
)

type Handlers struct {
	Answer   *handlers.AnswerHandler
	Session  *handlers.SessionHandler
	Document *handlers.DocumentHandler
	Tenant   *handlers.TenantHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Answer:   handlers.NewAnswerHandler(svcs.Engine),
		Session:  handlers.NewSessionHandler(svcs.Memory),
		Document: handlers.NewDocumentHandler(svcs.Document),
		Tenant:   handlers.NewTenantHandler(svcs.Tenant),
	}
}
