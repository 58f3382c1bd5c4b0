package typescript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/contractor/typegen"
	"github.com/teranos/contractor/typegen/identity"
	"github.com/teranos/contractor/typegen/util"
)

func TestGenerateIndex(t *testing.T) {
	decls := []*typegen.OutputType{
		{Identity: identity.Identity{Path: "orders", Name: "Status"}, Enum: true},
		{Identity: identity.Identity{Path: "orders", Name: "Order"}},
		{Identity: identity.Identity{Name: "Money"}},
	}
	layout := Layout{Casing: util.Kebab}

	t.Run("with schemas", func(t *testing.T) {
		out := GenerateIndex(CollectExports(decls, layout, true), "\n")
		want := Header + `
/* eslint-disable */

// Types from .
export type { Money } from './money';
export { MoneySchema } from './money';

// Types from orders
export type { Order } from './orders/order';
export { OrderSchema } from './orders/order';
export { Status, StatusSchema } from './orders/status';
`
		assert.Equal(t, want, out)
	})

	t.Run("without schemas", func(t *testing.T) {
		out := GenerateIndex(CollectExports(decls, layout, false), "\n")
		assert.Contains(t, out, "export type { Order } from './orders/order';\nexport { Status } from './orders/status';\n")
		assert.NotContains(t, out, "Schema")
	})

	t.Run("empty", func(t *testing.T) {
		out := GenerateIndex(nil, "")
		assert.Equal(t, Header+"\n/* eslint-disable */\n", out)
	})
}
