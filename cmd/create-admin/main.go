package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/studyloop/studyloop-backend/internal/config"
	"github.com/studyloop/studyloop-backend/internal/database"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
	"github.com/studyloop/studyloop-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Services ───────────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	authService := service.NewAuthService(cfg, nil)
	adminService := service.NewAdminUserService(adminRepo, roleRepo, authService)
	roleService := service.NewAdminRoleService(roleRepo)

	// ─── Bootstrap Role ────────────────────────────────────────────────
	// First run on an empty database: create a role holding every
	// permission so the first admin can manage everything.
	roles, err := roleService.ListRoles(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list roles")
	}
	if len(roles) == 0 {
		perms := make([]string, len(model.AllPermissions))
		for i, p := range model.AllPermissions {
			perms[i] = string(p)
		}
		role, err := roleService.CreateRole(ctx, &model.CreateRoleRequest{
			Name:        "Super Admin",
			Permissions: perms,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create bootstrap role")
		}
		fmt.Printf("Created 'Super Admin' role with ID %d\n", role.ID)
	}

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin User ===")

	// Name
	fmt.Print("Enter Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// Role ID
	fmt.Print("Enter Role ID (default 1): ")
	roleIDStr, _ := reader.ReadString('\n')
	roleIDStr = strings.TrimSpace(roleIDStr)
	roleID := 1
	if roleIDStr != "" {
		p, err := strconv.Atoi(roleIDStr)
		if err != nil {
			fmt.Println("Error: Role ID must be a number")
			return
		}
		roleID = p
	}

	// ─── Create Admin ──────────────────────────────────────────────────
	admin, err := adminService.CreateAdmin(ctx, &model.CreateAdminRequest{
		Name:     name,
		Email:    email,
		Password: password,
		RoleID:   roleID,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' (%s) created with ID: %d\n", admin.Name, admin.Email, admin.ID)
}
