package main

import (
	"blog-admin/internal/config"
	"blog-admin/internal/data"
	"blog-admin/internal/logger"
	"blog-admin/internal/seed"
	"context"
	"fmt"
	"os"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, nil)

	db, err := data.NewDB(cfg.DB)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	seeder := seed.New(data.NewBlogRepository(db), data.NewCommentRepository(db), data.NewCategoryRepository(db), 0, log)
	res, err := seeder.Run(context.Background())
	if err != nil {
		log.Fatal(err, "Seeding failed")
	}
	log.Info(fmt.Sprintf("Created %d comments for %d blogs and %d categories", res.Comments, res.Blogs, res.Categories))
}
