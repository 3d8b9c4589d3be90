package services

import (
	"github.com/jespitia/portal-ucundinamarca/repositories"
)

// Services holds all service instances
type Services struct {
	Auth     AuthService
	Usuarios UserService
	Logs     LogService
	Stats    StatsService
	Audit    AuditLogger
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, bcryptCost int) *Services {
	audit := NewAuditLogger(repos.Logs)
	return &Services{
		Auth:     NewAuthService(repos.Users, audit, bcryptCost),
		Usuarios: NewUserService(repos.Users, audit, bcryptCost),
		Logs:     NewLogService(repos.Logs),
		Stats:    NewStatsService(repos.Stats, repos.Logs),
		Audit:    audit,
	}
}

// ValidationError carries a user-facing validation message. Controllers map
// it to a 400 response; anything else becomes a generic 500.
type ValidationError struct {
	Mensaje string
}

func (e *ValidationError) Error() string {
	return e.Mensaje
}
