package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/noah-isme/placement-portal-api/internal/config"
	"github.com/noah-isme/placement-portal-api/internal/database"
	"github.com/noah-isme/placement-portal-api/internal/logger"
	"github.com/noah-isme/placement-portal-api/internal/repository"
	"github.com/noah-isme/placement-portal-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	username := flag.String("username", cfg.AdminUsername, "admin username")
	email := flag.String("email", cfg.AdminEmail, "admin email")
	reset := flag.Bool("reset", false, "reset the password when the admin already exists")
	flag.Parse()

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)

	password, err := readPassword()
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to read password")
	}

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect to database")
	}

	auth := service.NewAuthService(
		repository.NewStudentRepository(db),
		repository.NewAdminRepository(db),
		validator.New(validator.WithRequiredStructEnabled()),
		service.AuthConfig{Secret: cfg.JWTSecret, AdminUsername: *username},
		appLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changed, err := auth.EnsureAdmin(ctx, service.AdminSeed{
		Username: *username,
		Email:    *email,
		Password: password,
		Reset:    *reset,
	})
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to create admin")
	}

	if !changed {
		fmt.Printf("admin %q already exists, rerun with -reset to change the password\n", *username)
		return
	}
	fmt.Printf("admin %q saved\n", *username)
}

// readPassword prompts twice on a terminal and reads one line from piped input otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return validatePassword(strings.TrimRight(line, "\r\n"))
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}

	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return validatePassword(string(first))
}

func validatePassword(password string) (string, error) {
	if len(password) < 6 {
		return "", errors.New("password must be at least 6 characters")
	}
	return password, nil
}
