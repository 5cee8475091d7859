package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/stemsi/unirecords-backend/internal/config"
	"github.com/stemsi/unirecords-backend/internal/database"
	"github.com/stemsi/unirecords-backend/internal/logger"
	"github.com/stemsi/unirecords-backend/internal/model"
	"github.com/stemsi/unirecords-backend/internal/repository"
	"github.com/stemsi/unirecords-backend/internal/service"
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

	// ─── Initialize Service ────────────────────────────────────────────
	// Account creation only hashes passwords; no session store is needed.
	userRepo := repository.NewUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	authService := service.NewAuthService(cfg, nil, userRepo)
	userService := service.NewUserService(userRepo, studentRepo, authService, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New User Account ===")

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

	// Role
	fmt.Print("Enter Role [admin/teacher/student] (default admin): ")
	roleStr, _ := reader.ReadString('\n')
	role := model.Role(strings.ToLower(strings.TrimSpace(roleStr)))
	if role == "" {
		role = model.RoleAdmin
	}
	if !role.Valid() {
		fmt.Println("Error: Role must be admin, teacher or student")
		return
	}

	req := model.CreateUserRequest{Email: email, Password: password, Role: role}

	// Student link
	if role == model.RoleStudent {
		fmt.Print("Enter Student Code: ")
		code, _ := reader.ReadString('\n')
		student, err := studentRepo.GetByCode(ctx, strings.TrimSpace(code))
		if err != nil {
			fmt.Println("Error: Student not found")
			return
		}
		req.StudentID = &student.ID
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	user, err := userService.Create(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create user")
	}

	fmt.Printf("\nSuccess! %s account '%s' created with ID: %s\n", user.Role, user.Email, strconv.Itoa(user.ID))
}
