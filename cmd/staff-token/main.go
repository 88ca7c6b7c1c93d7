package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/karaoke-backend/pkg/auth"
	"github.com/angelmondragon/karaoke-backend/pkg/config"
	"github.com/angelmondragon/karaoke-backend/pkg/enums"
	"github.com/angelmondragon/karaoke-backend/pkg/logger"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "staff-token", Output: os.Stderr})

	_ = godotenv.Load()

	staffID := flag.Uint("staff", 0, "staff id to embed in the token")
	role := flag.String("role", string(enums.StaffRoleReceptionist), "manager|receptionist|service_staff")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	parsed, err := enums.ParseStaffRole(*role)
	if err != nil {
		logg.Error(ctx, "invalid role", err)
		os.Exit(1)
	}

	token, err := auth.MintStaffToken(cfg.JWT, time.Now(), auth.StaffTokenPayload{
		StaffID: uint(*staffID),
		Role:    parsed,
	})
	if err != nil {
		logg.Error(ctx, "failed to mint token", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
