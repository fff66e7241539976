package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/yourusername/catalog-admin/config"
	"github.com/yourusername/catalog-admin/internal/domain/repository"
	"github.com/yourusername/catalog-admin/internal/infrastructure/logging"
	"github.com/yourusername/catalog-admin/internal/infrastructure/parser"
	"github.com/yourusername/catalog-admin/internal/infrastructure/storage"
	"github.com/yourusername/catalog-admin/internal/usecase"
)

// cliOperatorID terminaldan ishlayotgan admin uchun session ID
const cliOperatorID int64 = 0

// app bitta komanda davomida ishlatiladigan komponentlar
type app struct {
	cfg     *config.Config
	store   repository.ProductStore
	catalog usecase.CatalogUseCase
	admin   usecase.AdminUseCase
}

// newApp konfiguratsiya, logger va store ni ishga tushirish, so'ng katalogni yuklash
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if driverOverride != "" {
		cfg.StoreDriver = strings.ToLower(driverOverride)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile, JSON: cfg.LogJSON})

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("product store opened")

	catalog := usecase.NewCatalogUseCase(store)
	if state := catalog.Refresh(ctx); !state.OK() {
		log.Warn().Str("state", state.String()).Msg("initial catalog load failed")
	}

	adminRepo := storage.NewMemoryAdminRepository(storage.DefaultSessionTimeout)
	admin := usecase.NewAdminUseCase(cfg.AdminPassword, adminRepo, catalog, parser.NewExcelSheet())

	return &app{cfg: cfg, store: store, catalog: catalog, admin: admin}, nil
}

// openStore STORE_DRIVER bo'yicha adapter tanlash
func openStore(ctx context.Context, cfg *config.Config) (repository.ProductStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return storage.NewMemoryProductStore(), nil
	case config.DriverSQLite:
		return storage.NewSQLiteProductStore(cfg.StoreDBPath)
	case config.DriverFirestore:
		return storage.NewFirestoreProductStore(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredsFile)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// loginOperator terminal admin sessiyasini ADMIN_PASSWORD bilan ochish
func (a *app) loginOperator(ctx context.Context) error {
	ok, err := a.admin.Login(ctx, cliOperatorID, a.cfg.AdminPassword)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("ADMIN_PASSWORD is required for this command")
	}
	return nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close product store")
	}
}

// printJSON qiymatni JSON ko'rinishida stdout ga chiqarish
func printJSON(data interface{}) {
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
