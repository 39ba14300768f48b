// seed_stock carga stock inicial de una tienda desde un CSV en el almacenamiento configurado.
//
// Uso: go run ./cmd/seed_stock -shop <shop_id> [-latin1] stock.csv
// Formato: product_id,quantity,unit_price[,display_tag]. Las cantidades se suman al stock existente.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/jhoicas/Entregas-api/internal/application/inventory"
	"github.com/jhoicas/Entregas-api/internal/domain/ledger"
	"github.com/jhoicas/Entregas-api/internal/infrastructure/store"
	"github.com/jhoicas/Entregas-api/pkg/config"
)

func main() {
	_ = godotenv.Load()

	shopID := flag.String("shop", "", "tienda destino (requerido)")
	latin1 := flag.Bool("latin1", false, "el CSV viene en ISO-8859-1")
	flag.Parse()
	if *shopID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed_stock -shop <shop_id> [-latin1] stock.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseCSV(f, *latin1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	repo, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	n, err := seed(ctx, inventory.NewLedgerRegistry(repo), *shopID, rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Cargados %d productos en %s (driver %s)\n", n, *shopID, cfg.Store.Driver)
}

// seed aplica las filas al ledger de la tienda y lo guarda una sola vez al final.
func seed(ctx context.Context, registry *inventory.LedgerRegistry, shopID string, rows []seedRow) (int, error) {
	l, err := registry.Ledger(ctx, shopID)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if _, err := l.AddStockItem(ledger.StockInput{
			ProductID:  r.ProductID,
			Quantity:   r.Quantity,
			UnitPrice:  r.UnitPrice,
			DisplayTag: r.DisplayTag,
			Discount:   r.Discount,
			Expiration: r.Expiration,
		}); err != nil {
			return 0, fmt.Errorf("%s: %w", r.ProductID, err)
		}
	}
	if err := registry.Persist(ctx, shopID); err != nil {
		return 0, err
	}
	return len(rows), nil
}
