package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/storage"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "make-police":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin make-police <user_id> <badge_id>")
			os.Exit(1)
		}
		userID, badgeID := os.Args[2], os.Args[3]
		if err := makePolice(storageSvc, userID, badgeID); err != nil {
			log.Fatalf("Error promoting user: %v", err)
		}
		fmt.Printf("User %s is now a police officer with badge %s.\n", userID, badgeID)
	case "verify-admin":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin verify-admin <email>")
			os.Exit(1)
		}
		email := os.Args[2]
		if err := storageSvc.MarkUserVerified(email); err != nil {
			log.Fatalf("Error verifying admin: %v", err)
		}
		fmt.Printf("Admin %s has been verified.\n", email)
	case "points":
		if len(os.Args) != 4 {
			fmt.Println("Usage: admin points <user_id> <delta>")
			os.Exit(1)
		}
		userID := os.Args[2]
		delta, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Println("Invalid delta. Please provide an integer.")
			os.Exit(1)
		}
		balance, err := storageSvc.AdjustUserPoints(userID, delta)
		if err != nil {
			log.Fatalf("Error adjusting points: %v", err)
		}
		fmt.Printf("User %s now has %d points.\n", userID, balance)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func makePolice(s storage.Storage, userID, badgeID string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Role = models.RolePolice
	user.PoliceID = badgeID
	return s.SaveUser(user)
}
