package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"chainsync/internal/config"
	"chainsync/internal/database"
	"chainsync/internal/features/role"
	"chainsync/internal/features/store"
	"chainsync/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)
	mongoDB := &database.MongodbDB{DB: db}

	fmt.Println("Seeding demo data...")

	// 1. Roles
	roleCol := mongoDB.DB.Collection("roles")
	roles := []role.Role{
		{
			Name: "admin",
			Permissions: []string{
				role.PermImportExecute,
				role.PermCatalogRead,
				role.PermCatalogWrite,
				role.PermStoreManage,
				role.PermMemberRead,
			},
		},
		{
			Name: "importer",
			Permissions: []string{
				role.PermImportExecute,
				role.PermCatalogRead,
				role.PermMemberRead,
			},
		},
		{
			Name: "viewer",
			Permissions: []string{
				role.PermCatalogRead,
				role.PermMemberRead,
			},
		},
	}

	roleIDs := map[string]primitive.ObjectID{}
	for _, r := range roles {
		var existing role.Role
		err := roleCol.FindOne(ctx, bson.M{"name": r.Name}).Decode(&existing)
		if err == nil {
			roleIDs[r.Name] = existing.ID
			continue
		}

		r.ID = primitive.NewObjectID()
		r.CreatedAt = time.Now()
		r.UpdatedAt = time.Now()
		if _, err := roleCol.InsertOne(ctx, r); err != nil {
			log.Printf("Failed to create role %s: %v", r.Name, err)
			continue
		}
		roleIDs[r.Name] = r.ID
		fmt.Printf("Created role %s\n", r.Name)
	}

	// 2. Admin user
	userCol := mongoDB.DB.Collection("users")
	if count, _ := userCol.CountDocuments(ctx, bson.M{"username": "admin"}); count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		admin := user.User{
			ID:           primitive.NewObjectID(),
			Username:     "admin",
			PasswordHash: string(hash),
			Roles:        []primitive.ObjectID{roleIDs["admin"]},
			Active:       true,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if _, err := userCol.InsertOne(ctx, admin); err != nil {
			log.Printf("Failed to create admin user: %v", err)
		} else {
			fmt.Println("Created admin user (username: admin, password: admin123)")
		}
	}

	// 3. Stores
	storeCol := mongoDB.DB.Collection("stores")
	stores := []store.Store{
		{Name: "Downtown Flagship", Code: "DT-001", Location: "12 Market Street", Active: true},
		{Name: "Airport Kiosk", Code: "AP-002", Location: "Terminal 2, Gate B", Active: true},
		{Name: "Riverside Outlet", Code: "RV-003", Location: "88 Riverside Drive", Active: true},
	}
	for _, st := range stores {
		if count, _ := storeCol.CountDocuments(ctx, bson.M{"code": st.Code}); count > 0 {
			continue
		}
		st.ID = primitive.NewObjectID()
		st.CreatedAt = time.Now()
		st.UpdatedAt = time.Now()
		if _, err := storeCol.InsertOne(ctx, st); err != nil {
			log.Printf("Failed to create store %s: %v", st.Code, err)
			continue
		}
		fmt.Printf("Created store %s (%s)\n", st.Name, st.Code)
	}

	fmt.Println("Seeding complete.")
}
