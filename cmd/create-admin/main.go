// Command-line tool that creates an admin account with generated
// credentials and prints them once.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/MSMelok/FlixHiringManagement/internal/database"
	"github.com/MSMelok/FlixHiringManagement/internal/model"
	"github.com/MSMelok/FlixHiringManagement/internal/utilities"
)

// generateRandomString creates a random hex string of length n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

// generateUniqueUsername tries until a unique username is found
func generateUniqueUsername(db *gorm.DB) string {
	for {
		username := "admin_" + generateRandomString(4)
		var count int64
		db.Model(&model.User{}).Where("username = ?", username).Count(&count)
		if count == 0 {
			return username
		}
	}
}

func main() {
	db, err := database.GetMainDB()
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	username := generateUniqueUsername(db.DB)
	password := generateRandomString(8)

	hashedPassword, err := utilities.HashPassword(password)
	if err != nil {
		log.Fatal("failed to hash password: ", err)
	}

	admin := model.User{
		Username: username,
		Password: hashedPassword,
		Role:     model.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("failed to create admin: ", err)
	}

	fmt.Println("Admin credentials generated successfully!")
	fmt.Println("======================================")
	fmt.Printf("Username: %s\n", admin.Username)
	fmt.Printf("Password: %s\n", password)
	fmt.Println("======================================")

	os.Exit(0)
}
