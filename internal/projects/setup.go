package projects

import (
	"log"

	"github.com/dylanrylee/3d-urban-dashboard/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "dashboard"); err != nil {
		log.Fatal("Failed to ensure schema dashboard: ", err)
	}

	if err := db.DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Fatal("Failed to enable uuid-ossp extension:", err)
	}

	if err := db.DB.AutoMigrate(&Project{}); err != nil {
		log.Fatal("Failed to auto-migrate projects tables: ", err)
	}

	log.Println("Projects module initialized")
}
