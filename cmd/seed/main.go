// Command seed loads the Titanic dataset into MongoDB and creates the two
// default accounts. Safe to re-run: seeding is skipped when passengers
// already exist, and existing accounts are left untouched.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/titanicdata/passenger-api/internal/core/domain"
	"github.com/titanicdata/passenger-api/internal/core/service"
	"github.com/titanicdata/passenger-api/internal/infrastructure/config"
	mongodb "github.com/titanicdata/passenger-api/internal/infrastructure/db/mongo"
	"github.com/titanicdata/passenger-api/internal/infrastructure/queue"
	"github.com/titanicdata/passenger-api/pkg/logger"
)

type defaultAccount struct {
	email    string
	password string
	role     string
}

var defaultAccounts = []defaultAccount{
	{email: "admin@titanic.io", password: "admin123", role: domain.RoleAdmin},
	{email: "user@titanic.io", password: "user1234", role: domain.RoleUser},
}

func main() {
	csvPath := flag.String("csv", "titanic.csv", "path to the Titanic CSV dataset")
	workers := flag.Int("workers", 8, "number of concurrent import workers")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer client.Disconnect(ctx)

	userRepo := mongodb.NewUserRepository(db)
	passengerRepo := mongodb.NewPassengerRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := passengerRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("passenger index creation failed")
	}

	seedAccounts(ctx, userRepo, log)
	seedPassengers(ctx, passengerRepo, *csvPath, *workers, log)
}

func seedAccounts(ctx context.Context, repo *mongodb.UserRepository, log zerolog.Logger) {
	hasher := service.NewBcryptHasher(0)

	for _, account := range defaultAccounts {
		if _, err := repo.FindByEmail(ctx, account.email); err == nil {
			log.Info().Str("email", account.email).Msg("account already present")
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			log.Fatal().Err(err).Msg("account lookup failed")
		}

		hash, err := hasher.Hash(account.password)
		if err != nil {
			log.Fatal().Err(err).Msg("password hashing failed")
		}

		if _, err := repo.Insert(ctx, &domain.User{
			Email:        account.email,
			PasswordHash: hash,
			Role:         account.role,
			IsActive:     true,
			CreatedAt:    time.Now().UTC(),
		}); err != nil {
			log.Fatal().Err(err).Str("email", account.email).Msg("account creation failed")
		}
		log.Info().Str("email", account.email).Str("role", account.role).Msg("account created")
	}

	if total, err := repo.Count(ctx); err == nil {
		log.Info().Int64("total", total).Msg("accounts ready")
	}
}

func seedPassengers(ctx context.Context, repo *mongodb.PassengerRepository, csvPath string, workers int, log zerolog.Logger) {
	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("passenger count failed")
	}
	if count > 0 {
		log.Info().Int64("count", count).Msg("passengers already seeded, skipping")
		return
	}

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("cannot open dataset")
	}
	defer f.Close()

	importer := queue.NewImporter(workers, repo, log)
	importer.Start(ctx)

	parsed, skipped := readDataset(ctx, f, importer, log)

	imported, failed := importer.Close()
	log.Info().
		Int("parsed", parsed).
		Int("skipped", skipped).
		Int64("imported", imported).
		Int64("failed", failed).
		Msg("dataset import finished")
}

// readDataset streams CSV rows into the importer. Rows missing required
// columns are skipped, not fatal: the public datasets have gaps. Stops early
// when ctx ends.
func readDataset(ctx context.Context, f io.Reader, importer *queue.Importer, log zerolog.Logger) (parsed, skipped int) {
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("cannot read CSV header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Fatal().Err(err).Msg("CSV read failed")
		}

		p, ok := parseRow(cols, record)
		if !ok {
			skipped++
			continue
		}
		if err := importer.Enqueue(ctx, p); err != nil {
			log.Warn().Err(err).Msg("import interrupted, stopping reader")
			return parsed, skipped
		}
		parsed++
	}
	return parsed, skipped
}

func parseRow(cols map[string]int, record []string) (domain.Passenger, bool) {
	name := field(cols, record, "name")
	sex := strings.ToLower(field(cols, record, "sex"))
	pclass, errClass := strconv.Atoi(field(cols, record, "pclass"))
	survived := field(cols, record, "survived") == "1"

	if len(strings.TrimSpace(name)) < 2 || !domain.ValidSex(sex) || errClass != nil || pclass < 1 || pclass > 3 {
		return domain.Passenger{}, false
	}

	p := domain.Passenger{
		Name:     strings.TrimSpace(name),
		Sex:      sex,
		Survived: survived,
		Pclass:   pclass,
	}

	if v := field(cols, record, "age"); v != "" {
		if age, err := strconv.ParseFloat(v, 64); err == nil && age >= 0 && age <= 120 {
			p.Age = &age
		}
	}
	if v := field(cols, record, "fare"); v != "" {
		if fare, err := strconv.ParseFloat(v, 64); err == nil && fare >= 0 {
			p.Fare = &fare
		}
	}
	if v := strings.ToUpper(field(cols, record, "embarked")); domain.ValidEmbarked(v) {
		p.Embarked = &v
	}

	return p, true
}

func field(cols map[string]int, record []string, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
