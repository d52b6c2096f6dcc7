// Command seed-db provisions a development database: schema, a starter menu,
// the loyalty discount ladder, and an admin session token.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/xenking/dinehall/internal/domain/discount"
	"github.com/xenking/dinehall/internal/domain/menu"
	"github.com/xenking/dinehall/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	var (
		databaseURL string
		adminToken  string
		pepper      string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminToken, "admin-token", "", "admin session token to seed (or DINE_SEED_ADMIN_TOKEN env)")
	flag.StringVar(&pepper, "session-pepper", "", "HMAC pepper for session token hashing (or DINE_SESSION_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminToken == "" {
		adminToken = os.Getenv("DINE_SEED_ADMIN_TOKEN")
	}
	if pepper == "" {
		pepper = os.Getenv("DINE_SESSION_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminToken, pepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminToken, pepper string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedMenu(ctx, pool); err != nil {
		return errors.Wrap(err, "seed menu")
	}
	if err := seedDiscounts(ctx, pool); err != nil {
		return errors.Wrap(err, "seed discounts")
	}
	if adminToken != "" {
		if err := seedAdminSession(ctx, pool, adminToken, pepper); err != nil {
			return errors.Wrap(err, "seed admin session")
		}
	}

	return nil
}

func seedMenu(ctx context.Context, pool *pgxpool.Pool) error {
	items := []menu.Item{
		{ID: "classic-burger", Name: "Classic Burger", Category: "mains", PriceCents: 1250, Description: "Beef patty, cheddar, pickles"},
		{ID: "margherita", Name: "Margherita Pizza", Category: "mains", PriceCents: 1400, Description: "Tomato, mozzarella, basil"},
		{ID: "caesar-salad", Name: "Caesar Salad", Category: "starters", PriceCents: 950, Description: "Romaine, parmesan, croutons"},
		{ID: "fries", Name: "French Fries", Category: "sides", PriceCents: 450},
		{ID: "lemonade", Name: "House Lemonade", Category: "drinks", PriceCents: 400},
		{ID: "tiramisu", Name: "Tiramisu", Category: "desserts", PriceCents: 700},
	}

	slog.Info("upserting menu items", slog.Int("count", len(items)))

	const upsert = `
INSERT INTO menu_items (id, name, description, category, price_cents, image_url, available)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    image_url = EXCLUDED.image_url,
    updated_at = now()`

	for _, item := range items {
		if _, err := pool.Exec(ctx, upsert,
			item.ID, item.Name, item.Description, item.Category, item.PriceCents, item.ImageURL,
		); err != nil {
			return errors.Wrapf(err, "upsert menu item %s", item.ID)
		}
		slog.Info("upserted menu item", slog.String("id", item.ID), slog.String("name", item.Name))
	}
	return nil
}

func seedDiscounts(ctx context.Context, pool *pgxpool.Pool) error {
	tiers := []discount.Tier{
		{ID: "bronze", Name: "Bronze", MinSpendingCents: 5000, Percentage: decimal.NewFromInt(5), Active: true},
		{ID: "silver", Name: "Silver", MinSpendingCents: 10000, Percentage: decimal.NewFromInt(10), Active: true},
		{ID: "gold", Name: "Gold", MinSpendingCents: 20000, Percentage: decimal.NewFromInt(15), Active: true},
	}

	slog.Info("upserting discount tiers", slog.Int("count", len(tiers)))

	const upsert = `
INSERT INTO discounts (id, name, min_spending_cents, percentage, active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    min_spending_cents = EXCLUDED.min_spending_cents,
    percentage = EXCLUDED.percentage,
    active = EXCLUDED.active`

	for _, t := range tiers {
		if _, err := pool.Exec(ctx, upsert, t.ID, t.Name, t.MinSpendingCents, t.Percentage, t.Active); err != nil {
			return errors.Wrapf(err, "upsert discount %s", t.ID)
		}
		slog.Info("upserted discount tier",
			slog.String("id", t.ID),
			slog.Int64("min_spending_cents", t.MinSpendingCents),
			slog.String("percentage", t.Percentage.String()),
		)
	}
	return nil
}

func seedAdminSession(ctx context.Context, pool *pgxpool.Pool, token, pepper string) error {
	slog.Info("seeding admin session")

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(token))
	tokenHash := hex.EncodeToString(mac.Sum(nil))

	const upsert = `
INSERT INTO sessions (id, token_hash, customer_id, name, scopes)
VALUES ('admin', $1, '', 'Seeded admin', '{admin}')
ON CONFLICT (id) DO UPDATE SET token_hash = EXCLUDED.token_hash`

	if _, err := pool.Exec(ctx, upsert, tokenHash); err != nil {
		return errors.Wrap(err, "upsert admin session")
	}

	slog.Info("upserted admin session", slog.String("id", "admin"))
	return nil
}
