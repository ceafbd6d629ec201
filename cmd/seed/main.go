package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog workbook. The first sheet must carry the header
// row listed in service.ProductSheetColumns. Products are created on behalf
// of the admin named by SEED_ADMIN_EMAIL.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = db.DefaultAdmin.Email
	}
	admin, err := repository.NewUserRepository(db.GetDB()).FindByEmail(adminEmail)
	if err != nil {
		log.Fatalf("Failed to find admin %s: %v", adminEmail, err)
	}
	if admin.Role != model.RoleAdmin {
		log.Fatalf("User %s is not an admin", adminEmail)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	inputs, skipped, err := readProducts(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	for _, s := range skipped {
		fmt.Printf("  skipped %s\n", s.Error())
	}
	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(inputs), len(skipped))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	catalog := service.NewCatalogService(repository.NewProductRepository(db.GetDB()))
	actor := authz.Actor{UserID: admin.ID, Role: admin.Role}

	created, failed := 0, 0
	for _, input := range inputs {
		if _, err := catalog.CreateProduct(actor, input); err != nil {
			failed++
			if errors.Is(err, service.ErrSKUExists) {
				fmt.Printf("  %s: already exists\n", input.SKU)
				continue
			}
			fmt.Printf("  %s: %v\n", input.SKU, err)
			continue
		}
		created++
	}

	fmt.Println("Import completed.")
	fmt.Printf("  Created: %d\n", created)
	fmt.Printf("  Failed:  %d\n", failed)
}

func readProducts(filePath string) ([]service.ProductInput, []service.SheetRowError, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	return service.ParseProductSheet(f)
}
