// service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/counselware/praxis/audit"
	"github.com/counselware/praxis/dao"
	"github.com/counselware/praxis/pdp/engine"
	"github.com/counselware/praxis/util"
)

type Services struct {
	Access IAccessService
	Ethics IEthicsService
}

func InitializeServices(
	driver neo4j.DriverWithContext,
	auditService audit.Service,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	matterDAO := dao.NewMatterDAO(driver)
	privilegeDAO := dao.NewPrivilegeDAO(driver)
	waiverDAO := dao.NewWaiverDAO(driver)
	wallDAO := dao.NewWallDAO(driver)

	orchestrator := engine.NewOrchestrator(waiverDAO, auditService)

	services := &Services{
		Access: NewAccessService(orchestrator, matterDAO, privilegeDAO, cacheService, notificationSvc, eventBus),
		Ethics: NewEthicsService(wallDAO, waiverDAO, cacheService, notificationSvc, eventBus),
	}

	return services, nil
}
