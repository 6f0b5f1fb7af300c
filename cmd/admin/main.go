/*Administrative commands that bypass the HTTP API.*/
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"tally/internal/database"
	"tally/internal/logger"
	"tally/internal/models"
	"tally/internal/services"
)

// cli commands / args available
var cli struct {
	CreateAdmin createAdminCmd `cmd:"" help:"Create an admin user directly in the database."`
	Promote     promoteCmd     `cmd:"" help:"Promote an existing user to admin."`
}

type createAdminCmd struct {
	Email       string `required:"" help:"Email address for the admin account."`
	Password    string `required:"" help:"Initial password."`
	DisplayName string `name:"display-name" help:"Display name shown in audit entries."`
}

type promoteCmd struct {
	Email string `required:"" help:"Email address of the user to promote."`
}

func (c *createAdminCmd) Run() error {
	userService, err := newUserService()
	if err != nil {
		return err
	}

	user, err := userService.CreateUser(c.Email, c.Password, c.DisplayName, models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("Created admin user %d (%s)\n", user.ID, user.Email)
	return nil
}

func (c *promoteCmd) Run() error {
	userService, err := newUserService()
	if err != nil {
		return err
	}

	user, err := userService.GetUserByEmail(c.Email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	actor := services.Actor{ID: user.ID, Name: "admin-cli"}
	if _, err := userService.SetUserRole(actor, user.ID, models.RoleAdmin); err != nil {
		return fmt.Errorf("failed to promote user: %w", err)
	}

	fmt.Printf("Promoted %s to admin\n", user.Email)
	return nil
}

func newUserService() (services.UserServicer, error) {
	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}

	// CLI-driven changes still land in the audit log.
	auditService := services.NewAuditService(dbManager.DB(), nil)
	return services.NewUserService(dbManager.DB(), auditService), nil
}

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	ctx := kong.Parse(&cli)
	ctx.FatalIfErrorf(ctx.Run())
}
