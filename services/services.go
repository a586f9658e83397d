package services

import (
	"github.com/blogem/tmoid/repositories"
)

// Services holds all service instances
type Services struct {
	Users UserService
	Audit AuditService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, provider string) *Services {
	return &Services{
		Users: NewUserService(repos.Users, provider),
		Audit: NewAuditService(repos.Audit),
	}
}
