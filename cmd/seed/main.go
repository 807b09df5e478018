// Package main provides a CLI tool for seeding the catalog with the demo
// produce list.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ortoflow/internal/bootstrap"
	"ortoflow/internal/config"
	"ortoflow/internal/domain/catalogs/product"
	"ortoflow/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	// seeding always needs the tables
	cfg.Database.Migrate = true
	cfg.Journal.Enabled = false

	ctx := context.Background()
	storage, err := bootstrap.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer storage.Close()

	log.Infow("connected to database", "driver", cfg.Database.Driver)

	products := demoCatalog()
	if err := product.NewService(storage.Products, storage.Tx).Save(ctx, products...); err != nil {
		log.Fatalw("failed to seed catalog", "error", err)
	}

	log.Infow("catalog seeded", "products", len(products))
}

type demoProduct struct {
	code     string
	name     string
	category product.Category
}

// demoCatalog is a typical Italian produce wholesaler's list. Order matters:
// it becomes the sort order, which decides matching ties.
func demoCatalog() []*product.Product {
	items := []demoProduct{
		{"POM-TON", "Pomodoro tondo", product.CategoryVegetables},
		{"POM-CIL", "Pomodoro ciliegino", product.CategoryVegetables},
		{"POM-SAN", "Pomodoro San Marzano", product.CategoryVegetables},
		{"ZUC", "Zucchine", product.CategoryVegetables},
		{"MEL-VIO", "Melanzane viola", product.CategoryVegetables},
		{"PEP-ROS", "Peperoni rossi", product.CategoryVegetables},
		{"PEP-GIA", "Peperoni gialli", product.CategoryVegetables},
		{"CAR", "Carote", product.CategoryVegetables},
		{"PAT", "Patate", product.CategoryVegetables},
		{"CIP-DOR", "Cipolle dorate", product.CategoryVegetables},
		{"CIP-ROS", "Cipolle rosse di Tropea", product.CategoryVegetables},
		{"AGL", "Aglio", product.CategoryVegetables},
		{"FIN", "Finocchi", product.CategoryVegetables},
		{"CAV", "Cavolfiore", product.CategoryVegetables},
		{"BRO", "Broccoli", product.CategoryVegetables},
		{"LAT-ICE", "Lattuga iceberg", product.CategoryLeafy},
		{"LAT-ROM", "Lattuga romana", product.CategoryLeafy},
		{"RUC", "Rucola", product.CategoryLeafy},
		{"RAD", "Radicchio", product.CategoryLeafy},
		{"BAS", "Basilico", product.CategoryHerbs},
		{"PRE", "Prezzemolo", product.CategoryHerbs},
		{"ROS", "Rosmarino", product.CategoryHerbs},
		{"SAL", "Salvia", product.CategoryHerbs},
		{"MEL-GOL", "Mele Golden", product.CategoryFruit},
		{"MEL-FUJ", "Mele Fuji", product.CategoryFruit},
		{"PER-ABA", "Pere Abate", product.CategoryFruit},
		{"ARA", "Arance", product.CategoryFruit},
		{"LIM", "Limoni", product.CategoryFruit},
		{"BAN", "Banane", product.CategoryFruit},
		{"KIW", "Kiwi", product.CategoryFruit},
		{"UVA-ITA", "Uva Italia", product.CategoryFruit},
		{"FRA", "Fragole", product.CategoryBerries},
		{"MIR", "Mirtilli", product.CategoryBerries},
		{"LAM", "Lamponi", product.CategoryBerries},
	}

	products := make([]*product.Product, 0, len(items))
	for i, it := range items {
		p := product.NewProduct(it.code, it.name, it.category)
		p.SortOrder = (i + 1) * 10
		products = append(products, p)
	}
	return products
}
