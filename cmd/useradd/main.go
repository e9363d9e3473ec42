// Package main creates a user account in the configured store. The password is read from stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"io/fs"
	"os"
	"strings"

	"github.com/2beens/gymsession/internal/config"
	"github.com/2beens/gymsession/internal/db"
	"github.com/2beens/gymsession/internal/workout"
	"github.com/2beens/gymsession/internal/workout/store/pgstore"
	"github.com/2beens/gymsession/internal/workout/store/sqlitestore"
	"github.com/2beens/gymsession/pkg"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type userAdder interface {
	AddUser(ctx context.Context, user workout.User) (int, error)
}

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	envFile := flag.String("envfile", ".env", "optional file with secrets as env vars")
	name := flag.String("name", "", "display name")
	email := flag.String("email", "", "login email")
	unit := flag.String("unit", "kg", "preferred weight unit [kg | lbs]")
	flag.Parse()

	if *name == "" || *email == "" {
		log.Fatal("-name and -email are required")
	}
	weightUnit := workout.WeightUnit(*unit)
	if !weightUnit.IsValid() {
		log.Fatalf("invalid weight unit: %s", *unit)
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load env file [%s]: %s", *envFile, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	log.Print("password: ")
	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("read password: %s", err)
	}
	password = strings.TrimSpace(password)
	if len(password) < 8 {
		log.Fatal("password must have at least 8 characters")
	}

	passwordHash, err := pkg.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %s", err)
	}

	ctx := context.Background()
	var store userAdder
	switch cfg.StoreBackend {
	case config.StoreBackendSQLite:
		sqliteStore, err := sqlitestore.Open(ctx, cfg.SQLiteStorePath)
		if err != nil {
			log.Fatalf("open sqlite store: %s", err)
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				log.Errorf("close sqlite store: %s", err)
			}
		}()
		store = sqliteStore
	default:
		dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:     cfg.PostgresHost,
			DBPort:     cfg.PostgresPort,
			DBName:     cfg.PostgresDBName,
			DBUser:     cfg.PostgresUser,
			DBPassword: os.Getenv("GYMSESSION_POSTGRES_PASS"),
		})
		if err != nil {
			log.Fatalf("db pool: %s", err)
		}
		defer dbPool.Close()
		store = pgstore.New(dbPool)
	}

	userID, err := store.AddUser(ctx, workout.User{
		Name:                *name,
		Email:               *email,
		PasswordHash:        passwordHash,
		PreferredWeightUnit: weightUnit,
	})
	if err != nil {
		// deferred closes must still run
		log.Errorf("add user: %s", err)
		return
	}
	log.Printf("user %s added with id %d", *email, userID)
}
