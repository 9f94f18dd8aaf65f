// controller/controllers.go
package controller

import (
	"github.com/counselware/praxis/audit"
	"github.com/counselware/praxis/service"
)

type Controllers struct {
	Access *AccessController
	Wall   *WallController
}

func InitializeControllers(services *service.Services, auditService audit.Service) *Controllers {
	return &Controllers{
		Access: NewAccessController(services.Access, auditService),
		Wall:   NewWallController(services.Ethics),
	}
}
