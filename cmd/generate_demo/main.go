// Command generate_demo creates a demo catalog with public domain books,
// a few readers and their comments.
// Usage: go run ./cmd/generate_demo [-db path/to/demo.db]
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/bookcatalog/internal/auth"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	"github.com/mrlokans/bookcatalog/internal/database/comments"
	"github.com/mrlokans/bookcatalog/internal/database/users"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/logging"
)

const (
	defaultDemoDatabasePath = "./demo/demo.db"
	demoPassword            = "demo-password"
)

// demoComment is attributed to a reader by username.
type demoComment struct {
	Author  string
	Content string
}

// BookConfig holds a book and the comments posted on it.
type BookConfig struct {
	Book     entities.Book
	Comments []demoComment
}

func rating(v float64) *float64 { return &v }

func text(v string) *string { return &v }

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	logging.Setup("info", "console")
	log.Info().Str("path", *dbPath).Msg("generating demo database")

	if err := os.Remove(*dbPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("failed to remove existing demo database")
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create database")
	}
	defer db.Close()

	ctx := context.Background()
	readers := createReaders(ctx, db)

	bookRepo := books.NewRepository(db.DB)
	commentRepo := comments.NewRepository(db.DB)
	for _, cfg := range getPublicDomainBooks() {
		book := cfg.Book
		if err := bookRepo.AddBook(ctx, &book); err != nil {
			log.Error().Err(err).Str("title", book.Title).Msg("failed to save book")
			continue
		}
		for _, c := range cfg.Comments {
			reader, ok := readers[c.Author]
			if !ok {
				continue
			}
			if _, err := commentRepo.AddComment(ctx, book.Title, reader.ID, c.Content); err != nil {
				log.Error().Err(err).Str("title", book.Title).Msg("failed to add comment")
			}
		}
		log.Info().Str("title", book.Title).Int("comments", len(cfg.Comments)).Msg("saved book")
	}

	log.Info().Str("password", demoPassword).Msg("demo database generated; every reader shares this password")
}

func createReaders(ctx context.Context, db *database.Database) map[string]*entities.User {
	repo := users.NewRepository(db.DB)
	service := auth.NewService(repo, config.Auth{BcryptCost: bcrypt.DefaultCost})

	readers := make(map[string]*entities.User)
	for _, name := range []string{"ada", "basil", "clara"} {
		user, err := service.Register(ctx, name, name+"@example.com", demoPassword)
		if err != nil {
			log.Error().Err(err).Str("username", name).Msg("failed to create reader")
			continue
		}
		readers[name] = user
	}
	return readers
}

func getPublicDomainBooks() []BookConfig {
	return []BookConfig{
		{
			Book: entities.Book{
				Title:       "Meditations",
				Description: text("Marcus Aurelius' private notes on Stoic philosophy, written on campaign."),
				Rating:      rating(4.8),
			},
			Comments: []demoComment{
				{"ada", "You have power over your mind, not outside events. I reread this every winter."},
				{"basil", "Waste no more time arguing about what a good man should be. Be one."},
			},
		},
		{
			Book: entities.Book{
				Title:       "Letters from a Stoic",
				Description: text("Seneca's letters to Lucilius on time, friendship and the good life."),
				Rating:      rating(4.5),
			},
			Comments: []demoComment{
				{"clara", "The letter on the shortness of life changed how I plan my week."},
			},
		},
		{
			Book: entities.Book{
				Title:       "On the Origin of Species",
				Description: text("Darwin's argument for evolution by natural selection."),
				Rating:      rating(4),
			},
		},
		{
			Book: entities.Book{
				Title:       "Pride and Prejudice",
				Description: text("Elizabeth Bennet and Mr Darcy misjudge each other at length."),
				Rating:      rating(4.7),
			},
			Comments: []demoComment{
				{"ada", "Still the sharpest opening line in English fiction."},
				{"clara", "Mr Collins is the funniest character Austen wrote."},
				{"basil", "Came for the romance, stayed for the economics of entailment."},
			},
		},
		{
			Book: entities.Book{
				Title:       "Crime and Punishment",
				Description: text("Raskolnikov's crime and the fever of conscience that follows."),
				Rating:      rating(4.6),
			},
			Comments: []demoComment{
				{"basil", "Porfiry's interrogations are better than any modern thriller."},
			},
		},
		{
			Book: entities.Book{
				Title:       "The Art of War",
				Description: text("Sun Tzu's treatise on strategy."),
				Rating:      rating(4.1),
			},
		},
		{
			Book: entities.Book{
				Title:       "Frankenstein",
				Description: text("Mary Shelley's tale of a creator and the creature he abandons."),
				Rating:      rating(4.2),
			},
			Comments: []demoComment{
				{"clara", "The creature is far more eloquent than the films suggest."},
			},
		},
		{
			Book: entities.Book{
				Title:       "The Picture of Dorian Gray",
				Description: text("Wilde's novel of beauty, vanity and a portrait that ages instead."),
				Rating:      rating(4.3),
			},
		},
	}
}
