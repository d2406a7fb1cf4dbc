// seed bootstraps a PostgreSQL store: it applies the schema, creates an Admin account
// when missing, optionally adds demo suppliers and items, and prints a bearer token.
// The token belongs to the admin unless -token-for names another active account.
//
// Usage: go run ./cmd/seed -username admin -password 'change-me-now' [-demo] [-token-for clerk]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-stock/internal/application/auth"
	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/internal/infrastructure/postgres"
	"github.com/jhoicas/retail-stock/pkg/config"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

type demoItem struct {
	category, name, description, sku, supplier string
	qty, minLevel                               int
	cost, price                                 string
}

var demoItems = []demoItem{
	{"Bags", "Brown Leather Handbag", "Premium leather handbag with gold finish", "BAG-001", "ABC Suppliers", 20, 5, "15.00", "35.00"},
	{"Shoes", "Running Shoes Size 8", "Lightweight breathable running shoes", "SHOE-RUN-08", "Sports Inc", 2, 5, "25.00", "59.99"},
	{"Wallets", "Black Leather Wallet", "Minimalist bi-fold wallet", "WAL-BLK", "LeatherCo", 3, 5, "8.00", "24.99"},
	{"Belts", "Classic Leather Belt", "Durable genuine leather belt", "BLT-TAN", "LeatherCo", 15, 10, "5.00", "19.99"},
	{"Accessories", "Silk Scarf", "100% Silk floral pattern scarf", "ACC-SCRF", "FashionWholesale", 8, 5, "12.00", "29.99"},
}

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", os.Getenv("SEED_ADMIN_PASSWORD"), "admin password (or SEED_ADMIN_PASSWORD)")
	email := flag.String("email", "", "admin email")
	demo := flag.Bool("demo", false, "add demo suppliers and items when the inventory is empty")
	tokenFor := flag.String("token-for", "", "print a token for this user instead of the admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	if err := run(context.Background(), cfg, log, *username, *password, *email, *tokenFor, *demo); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, username, password, email, tokenFor string, demo bool) error {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	read := postgres.NewRepos(pool)
	uow := inventory.NewUnitOfWork(postgres.NewTxRunner(pool), inventory.UnitConfig{
		MaxAttempts: cfg.Store.TxMaxAttempts,
		Location:    cfg.App.Location(),
		Logger:      log,
	})
	users := inventory.NewUserUseCase(uow, read)
	suppliers := inventory.NewSupplierUseCase(uow, read)
	items := inventory.NewItemUseCase(uow, read, suppliers)

	admin, err := read.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if admin == nil {
		if password == "" {
			return fmt.Errorf("admin %q does not exist and no password was given", username)
		}
		created, err := users.Create(ctx, inventory.Actor{}, dto.CreateUserRequest{
			Username: username,
			Email:    email,
			Password: password,
			Role:     "Admin",
			Notes:    "created by seed",
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info().Str("code", created.Code).Str("username", created.Username).Msg("admin created")
		if admin, err = read.Users.GetByUsername(ctx, username); err != nil {
			return err
		}
	} else {
		log.Info().Str("code", admin.Code).Msg("admin already exists")
	}

	if demo {
		if err := seedDemo(ctx, read, items, inventory.Actor{UserID: admin.ID}, log); err != nil {
			return err
		}
	}

	if tokenFor == "" {
		tokenFor = admin.Username
	}
	token, err := auth.NewAuthUseCase(read.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}).IssueToken(ctx, tokenFor)
	if err != nil {
		return fmt.Errorf("sign token for %s: %w", tokenFor, err)
	}
	fmt.Println(token)
	return nil
}

func seedDemo(ctx context.Context, read repository.Repos, items *inventory.ItemUseCase, actor inventory.Actor, log *logger.Logger) error {
	existing, err := read.Items.List(ctx, repository.ItemFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info().Msg("inventory not empty, skipping demo data")
		return nil
	}
	for _, d := range demoItems {
		minLevel := d.minLevel
		out, err := items.Create(ctx, actor, dto.CreateItemRequest{
			Category:        d.category,
			Name:            d.name,
			Description:     d.description,
			SKU:             d.sku,
			QuantityInStock: d.qty,
			MinStockLevel:   &minLevel,
			CostPrice:       decimal.RequireFromString(d.cost),
			SellingPrice:    decimal.RequireFromString(d.price),
			SupplierName:    d.supplier,
		})
		if err != nil {
			return fmt.Errorf("add %s: %w", d.name, err)
		}
		log.Info().Str("code", out.Code).Str("name", out.Name).Str("supplier", out.SupplierCode).Msg("demo item added")
	}
	return nil
}
