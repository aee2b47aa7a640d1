// Development seeder: wipes and repopulates the core collections with a
// demo tenant, staff, and catalog so the API can be exercised locally.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"reserva/config"
	"reserva/database"
	"reserva/models"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadConfig()
	database.InitDB()
	db := database.DB()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	for _, name := range []string{"tenants", "professionals", "services", "reservations", "blocks"} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s collection: %v", name, err)
		}
	}

	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte("demo-api-key"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo API key: %v", err)
	}

	now := time.Now().UTC()
	tenant := models.Tenant{
		ID:                 "tenant-demo",
		Name:               "Demo Salon",
		SubscriptionStatus: models.SubscriptionActive,
		APIKeyHash:         string(apiKeyHash),
		Timezone:           "UTC",
		CreatedAt:          now,
	}
	if _, err := db.Collection("tenants").InsertOne(ctx, tenant); err != nil {
		log.Fatalf("Failed to seed tenant: %v", err)
	}

	professionals := []interface{}{
		models.Professional{ID: "pro-1", TenantID: tenant.ID, DisplayName: "Alex", Active: true, CreatedAt: now, UpdatedAt: now},
		models.Professional{ID: "pro-2", TenantID: tenant.ID, DisplayName: "Sam", Active: true, CreatedAt: now, UpdatedAt: now},
		models.Professional{ID: "pro-inactive", TenantID: tenant.ID, DisplayName: "Jordan", Active: false, CreatedAt: now, UpdatedAt: now},
	}
	if _, err := db.Collection("professionals").InsertMany(ctx, professionals); err != nil {
		log.Fatalf("Failed to seed professionals: %v", err)
	}

	services := []interface{}{
		models.Service{ID: "svc-cut", TenantID: tenant.ID, Name: "Haircut", Active: true, DurationMinutes: 45, Price: 35, CreatedAt: now},
		models.Service{ID: "svc-color", TenantID: tenant.ID, Name: "Coloring", Active: true, DurationMinutes: 90, Price: 80, CreatedAt: now},
		models.Service{ID: "svc-retired", TenantID: tenant.ID, Name: "Perm", Active: false, DurationMinutes: 120, Price: 100, CreatedAt: now},
	}
	if _, err := db.Collection("services").InsertMany(ctx, services); err != nil {
		log.Fatalf("Failed to seed services: %v", err)
	}

	block := models.Block{TenantID: tenant.ID, ClientID: "client-blocked", Reason: "repeated no-shows", CreatedAt: now}
	if _, err := db.Collection("blocks").InsertOne(ctx, block); err != nil {
		log.Fatalf("Failed to seed block: %v", err)
	}

	fmt.Println("Seeded demo tenant with 3 professionals, 3 services, 1 blocked client.")
	fmt.Println("Tenant: tenant-demo / API key: demo-api-key")
}
