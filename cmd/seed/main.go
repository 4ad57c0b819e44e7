package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"go.uber.org/zap"

	"petsitter/internal/app"
	"petsitter/internal/config"
	"petsitter/internal/database"
	"petsitter/internal/domain/profile"
	pkglogger "petsitter/internal/pkg/logger"
)

type seedSitter struct {
	userID  int64
	name    string
	area    string
	lat     float64
	lng     float64
	accepts profile.PetAcceptance
	service string
	price   float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	zl, err := pkglogger.New(cfg.AppEnv)
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("DB connection failed", zap.Error(err))
	}

	zl.Info("running migrations")
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	// Cleanup old data, children first.
	zl.Info("cleaning old data")
	for _, table := range []string{
		"notifications", "chat_channel_members", "chat_channels", "reviews",
		"booking_archive", "bookings", "sitter_availability", "services", "sitters", "pet_owners",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			zl.Fatal("cleanup failed", zap.String("table", table), zap.Error(err))
		}
	}

	ctx := context.Background()
	repo := profile.NewRepository(db)
	jwt := app.NewJWT(cfg)

	// ================== OWNERS ==================
	owners := []profile.Owner{
		{UserID: 1001, DisplayName: "Arif", City: "Dhaka", Area: "Dhanmondi", Latitude: 23.7461, Longitude: 90.3742},
		{UserID: 1002, DisplayName: "Nadia", City: "Dhaka", Area: "Gulshan", Latitude: 23.7925, Longitude: 90.4078},
	}
	for i := range owners {
		if err := repo.SaveOwner(ctx, &owners[i]); err != nil {
			zl.Fatal("create owner failed", zap.Error(err))
		}
	}

	// ================== SITTERS ==================
	sitters := []seedSitter{
		{2001, "Rina", "Dhanmondi", 23.7465, 90.3760, profile.PetAcceptance{Cats: true, SmallDogs: true}, "boarding", 500},
		{2002, "Tanvir", "Dhanmondi 27", 23.7520, 90.3790, profile.PetAcceptance{LargeDogs: true, SmallDogs: true}, "walking", 300},
		{2003, "Mitu", "Gulshan 2", 23.7940, 90.4140, profile.PetAcceptance{Cats: true, Birds: true, Fish: true}, "home visit", 400},
		{2004, "Sabbir", "Banani", 23.7937, 90.4066, profile.PetAcceptance{OtherPets: true, Cats: true}, "boarding", 650},
	}
	for _, s := range sitters {
		sitter := &profile.Sitter{
			UserID:          s.userID,
			DisplayName:     s.name,
			Headline:        fmt.Sprintf("%s pet care in %s", s.service, s.area),
			City:            "Dhaka",
			Area:            s.area,
			Latitude:        s.lat,
			Longitude:       s.lng,
			ExperienceYears: 1 + rand.Intn(8),
			Accepts:         s.accepts,
			Verified:        rand.Intn(2) == 0,
		}
		if err := repo.CreateSitter(ctx, sitter); err != nil {
			zl.Fatal("create sitter failed", zap.Error(err))
		}
		svc := &profile.SitterService{SitterID: sitter.ID, ServiceType: s.service, PricePerDay: s.price, IsActive: true}
		if err := repo.CreateService(ctx, svc); err != nil {
			zl.Fatal("create service failed", zap.Error(err))
		}
	}

	// The last sitter starts offline so discovery has something to filter.
	last, err := repo.GetSitterByUserID(ctx, sitters[len(sitters)-1].userID)
	if err != nil {
		zl.Fatal("lookup sitter failed", zap.Error(err))
	}
	if err := repo.SetAvailability(ctx, last.ID, false); err != nil {
		zl.Fatal("set availability failed", zap.Error(err))
	}

	// ================== TOKENS ==================
	fmt.Println("Seed complete. Bearer tokens:")
	for _, o := range owners {
		printToken(zl, jwt.GenerateToken, "owner", o.DisplayName, o.UserID)
	}
	for _, s := range sitters {
		printToken(zl, jwt.GenerateToken, "sitter", s.name, s.userID)
	}
}

func printToken(zl *zap.Logger, gen func(int64) (string, error), kind, name string, userID int64) {
	tok, err := gen(userID)
	if err != nil {
		zl.Fatal("token generation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	fmt.Printf("  %-6s %-8s user_id=%d  %s\n", kind, name, userID, tok)
}
