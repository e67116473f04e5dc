package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/linemk/shop-backend/internal/config"
	"github.com/linemk/shop-backend/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sampleItems — стартовый каталог для локальной разработки и демо
var sampleItems = []models.Item{
	{
		Name:        "Wireless Headphones",
		Description: "Premium noise-cancelling wireless headphones with 30-hour battery life",
		Price:       299.99,
		Image:       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
		Category:    "Electronics",
		Stock:       50,
	},
	{
		Name:        "Smart Watch",
		Description: "Fitness tracking smart watch with heart rate monitor and GPS",
		Price:       399.99,
		Image:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=500",
		Category:    "Electronics",
		Stock:       30,
	},
	{
		Name:        "Laptop Stand",
		Description: "Ergonomic aluminum laptop stand with adjustable height",
		Price:       49.99,
		Image:       "https://images.unsplash.com/photo-1527864550417-7fd91fc51a46?w=500",
		Category:    "Accessories",
		Stock:       100,
	},
	{
		Name:        "Mechanical Keyboard",
		Description: "RGB backlit mechanical keyboard with customizable keys",
		Price:       149.99,
		Image:       "https://images.unsplash.com/photo-1587829741301-dc798b83add3?w=500",
		Category:    "Electronics",
		Stock:       45,
	},
	{
		Name:        "Wireless Mouse",
		Description: "Ergonomic wireless mouse with precision tracking",
		Price:       79.99,
		Image:       "https://images.unsplash.com/photo-1527814050087-3793815479db?w=500",
		Category:    "Electronics",
		Stock:       75,
	},
	{
		Name:        "USB-C Hub",
		Description: "7-in-1 USB-C hub with HDMI, USB 3.0, and SD card reader",
		Price:       59.99,
		Image:       "https://images.unsplash.com/photo-1625948515291-69613efd103f?w=500",
		Category:    "Accessories",
		Stock:       60,
	},
	{
		Name:        "Phone Case",
		Description: "Protective phone case with military-grade drop protection",
		Price:       29.99,
		Image:       "https://images.unsplash.com/photo-1601784551446-20c9e07cdbdb?w=500",
		Category:    "Accessories",
		Stock:       200,
	},
	{
		Name:        "Portable Charger",
		Description: "20000mAh portable charger with fast charging support",
		Price:       39.99,
		Image:       "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=500",
		Category:    "Electronics",
		Stock:       80,
	},
}

func main() {
	cfg := config.MustLoad()

	uri := cfg.Database.URI
	if uri == "" {
		uri = fmt.Sprintf("mongodb://%s:%d", cfg.Database.Host, cfg.Database.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("failed to disconnect: %v", err)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping mongodb: %v", err)
	}
	log.Println("Connected to MongoDB")

	coll := client.Database(cfg.Database.Name).Collection("items")

	// Сначала чистим каталог, затем вставляем образцы
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("failed to clear items: %v", err)
	}
	log.Println("Cleared existing items")

	docs := make([]interface{}, 0, len(sampleItems))
	now := time.Now()
	for _, item := range sampleItems {
		item.CreatedAt = now
		docs = append(docs, item)
	}

	res, err := coll.InsertMany(ctx, docs)
	if err != nil {
		log.Fatalf("failed to insert sample items: %v", err)
	}

	fmt.Printf("Sample items added successfully: %d\n", len(res.InsertedIDs))
}
