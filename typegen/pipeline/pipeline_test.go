package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/contractor/config"
	"github.com/teranos/contractor/errors"
	"github.com/teranos/contractor/typegen/typescript"
)

const ordersGraph = `{
  "version": "1.0.0",
  "types": [
    {
      "fullName": "Acme.Orders.OrderDto",
      "members": [
        {"name": "Id", "type": "System.Guid"},
        {"name": "Lines", "type": "Acme.Orders.OrderLine[]"}
      ]
    },
    {
      "fullName": "Acme.Orders.OrderLine",
      "members": [{"name": "Sku", "type": "System.String"}]
    }
  ],
  "clients": [
    {
      "name": "OrdersController",
      "prefix": "orders",
      "endpoints": [
        {"name": "Get", "route": "{id}", "method": "get", "parameters": [{"name": "id", "type": "System.Guid"}], "returns": "Acme.Orders.OrderDto"}
      ]
    }
  ]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(input, []byte(ordersGraph), 0644))

	cfg := config.Default()
	cfg.Input = input
	cfg.Output = filepath.Join(dir, "api")
	cfg.LineEnding = config.LineEndingLF
	cfg.Strip = []string{"Acme."}
	cfg.Root = "~"
	cfg.Clients.Enabled = true
	return cfg
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.Index = true

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.Declarations)
	assert.Equal(t, 1, result.Clients)
	assert.False(t, result.HasFailures())

	assert.Equal(t, []string{
		filepath.Join(cfg.Output, "clients", "orders-client.ts"),
		filepath.Join(cfg.Output, "index.ts"),
		filepath.Join(cfg.Output, "orders", "order-dto.ts"),
		filepath.Join(cfg.Output, "orders", "order-line.ts"),
	}, result.Written())

	dto, err := os.ReadFile(filepath.Join(cfg.Output, "orders", "order-dto.ts"))
	require.NoError(t, err)
	assert.True(t, typescript.IsGenerated(dto))
	assert.Contains(t, string(dto), "import { OrderLine } from './order-line';")
	assert.Contains(t, string(dto), "export interface OrderDto {")

	cl, err := os.ReadFile(filepath.Join(cfg.Output, "clients", "orders-client.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(cl), "import { OrderDto } from '~/orders/order-dto';")
	assert.Contains(t, string(cl), "export class OrdersClient {")
}

func TestRunIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	_, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(cfg.Output, "orders", "order-dto.ts"))
	require.NoError(t, err)

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Empty(t, result.Removed())
	second, err := os.ReadFile(filepath.Join(cfg.Output, "orders", "order-dto.ts"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	drift, err := Check(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, drift.UpToDate())
}

func TestRunConfigurationErrorWritesNothing(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{name: "casing", modify: func(c *config.Config) { c.Casing = "shouting" }},
		{name: "template", modify: func(c *config.Config) { c.Clients.Template = "missing.hbs" }},
		{name: "workers", modify: func(c *config.Config) { c.Workers = 0 }},
		{name: "type map", modify: func(c *config.Config) { c.TypeMaps = []string{"no-colon"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.modify(cfg)

			_, err := Run(context.Background(), cfg)
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
			assert.NoDirExists(t, cfg.Output)
		})
	}
}

func TestRunCancelled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NoDirExists(t, cfg.Output)
}

func TestRunCleansStaleFiles(t *testing.T) {
	cfg := testConfig(t)
	stale := filepath.Join(cfg.Output, "legacy", "old.ts")
	custom := filepath.Join(cfg.Output, "custom.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte(typescript.Header+"\nexport interface Old {}\n"), 0644))
	require.NoError(t, os.WriteFile(custom, []byte("export const x = 1;\n"), 0644))

	result, err := Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, result.Removed())
	assert.NoFileExists(t, stale)
	assert.FileExists(t, custom)
}

func TestCheckReportsDrift(t *testing.T) {
	cfg := testConfig(t)
	_, err := Run(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(cfg.Output, "orders", "order-dto.ts"), []byte("edited"), 0644))
	require.NoError(t, os.Remove(filepath.Join(cfg.Output, "orders", "order-line.ts")))
	stale := filepath.Join(cfg.Output, "orders", "gone.ts")
	require.NoError(t, os.WriteFile(stale, []byte(typescript.Header), 0644))

	drift, err := Check(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, drift.UpToDate())
	assert.Equal(t, []string{"orders/order-dto.ts"}, drift.Changed)
	assert.Equal(t, []string{"orders/order-line.ts"}, drift.Missing)
	assert.Equal(t, []string{"orders/gone.ts"}, drift.Stale)

	// check never touches the output directory
	assert.FileExists(t, stale)
}
