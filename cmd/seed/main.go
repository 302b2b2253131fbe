package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/db"
	"github.com/swarnika/swarnika-backend/pkg/util"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Seed tool: imports a catalog spreadsheet and ensures the baseline
// rows (admin account, goldmine plans) exist.
//
// Usage: go run ./cmd/seed <catalog.xlsx>
//
// Expected columns: Name, Category, Description, Rate, Labour Charge,
// Total Rs, Gross Weight, Net Weight, Less Weight, Purity, Wastage %,
// COD Charge, Stock, Image URL.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run ./cmd/seed <catalog.xlsx>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(db.Get()); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := seedAdmin(db.Get(), cfg); err != nil {
		log.Fatal("Failed to seed admin account:", err)
	}
	if err := seedGoldminePlans(db.Get()); err != nil {
		log.Fatal("Failed to seed goldmine plans:", err)
	}

	fmt.Printf("Reading catalog file: %s\n", filePath)
	products, err := readCatalogFromXLSX(db.Get(), filePath)
	if err != nil {
		log.Fatal("Failed to read catalog:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))
	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	if err := db.Get().CreateInBatches(products, 500).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func seedAdmin(gdb *gorm.DB, cfg *config.Config) error {
	email := cfg.Store.AdminEmail
	if email == "" {
		fmt.Println("STORE_ADMIN_EMAIL not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := gdb.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		fmt.Println("ADMIN_PASSWORD not set, using default (change it immediately)")
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         "Administrator",
		Email:        email,
		Phone:        "0000000000",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := gdb.Create(admin).Error; err != nil {
		return err
	}
	fmt.Printf("Admin account created: %s\n", email)
	return nil
}

func seedGoldminePlans(gdb *gorm.DB) error {
	var count int64
	if err := gdb.Model(&model.GoldminePlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []model.GoldminePlan{
		{Name: "Goldmine 11+1", DurationMonths: 11, MonthlyAmount: 5000, BenefitPercent: 100, Description: "Pay 11 monthly installments, the store adds one on maturity.", Active: true},
		{Name: "Goldmine 11+1 Silver", DurationMonths: 11, MonthlyAmount: 2000, BenefitPercent: 100, Description: "Entry-level savings plan with a full bonus installment.", Active: true},
	}
	if err := gdb.Create(&plans).Error; err != nil {
		return err
	}
	fmt.Printf("Seeded %d goldmine plans\n", len(plans))
	return nil
}

func readCatalogFromXLSX(gdb *gorm.DB, filePath string) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet has no data rows")
	}

	categories := make(map[string]uint)

	var products []model.Product
	for i, row := range rows[1:] {
		if len(row) == 0 || strings.TrimSpace(cell(row, 0)) == "" {
			continue
		}

		name := strings.TrimSpace(cell(row, 0))
		categoryName := strings.TrimSpace(cell(row, 1))
		if categoryName == "" {
			categoryName = "Uncategorized"
		}

		categoryID, err := ensureCategory(gdb, categories, categoryName)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		totalRs := parseFloatCell(cell(row, 5))
		if totalRs <= 0 {
			fmt.Printf("Skipping row %d (%s): missing sell price\n", i+2, name)
			continue
		}

		products = append(products, model.Product{
			Name:           name,
			Slug:           slugify(name),
			Description:    strings.TrimSpace(cell(row, 2)),
			Status:         model.ProductActive,
			CategoryID:     categoryID,
			Rate:           parseFloatCell(cell(row, 3)),
			LabourCharge:   parseFloatCell(cell(row, 4)),
			TotalRs:        totalRs,
			GrossWeight:    parseFloatCell(cell(row, 6)),
			NetWeight:      parseFloatCell(cell(row, 7)),
			LessWeight:     parseFloatCell(cell(row, 8)),
			Purity:         strings.TrimSpace(cell(row, 9)),
			WastagePercent: parseFloatCell(cell(row, 10)),
			CODCharge:      parseFloatCell(cell(row, 11)),
			StockQuantity:  int(parseFloatCell(cell(row, 12))),
			ImageURL:       strings.TrimSpace(cell(row, 13)),
		})
	}

	return products, nil
}

func ensureCategory(gdb *gorm.DB, cache map[string]uint, name string) (uint, error) {
	slug := slugify(name)
	if id, ok := cache[slug]; ok {
		return id, nil
	}

	var category model.Category
	err := gdb.Where("slug = ?", slug).First(&category).Error
	if err == gorm.ErrRecordNotFound {
		category = model.Category{Name: name, Slug: slug, Active: true}
		if err := gdb.Create(&category).Error; err != nil {
			return 0, err
		}
	} else if err != nil {
		return 0, err
	}

	cache[slug] = category.ID
	return category.ID, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func parseFloatCell(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
