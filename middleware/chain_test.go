package middleware

import "testing"

type payloadCtx struct {
	value int
	order []string
}

func TestChainOrdering(t *testing.T) {
	var c Chain[payloadCtx]

	c.Use(func(ctx *payloadCtx, next Handler[payloadCtx]) error {
		ctx.value += 1
		ctx.order = append(ctx.order, "mw1-pre")
		err := next(ctx)
		ctx.order = append(ctx.order, "mw1-post")
		return err
	})
	c.Use(func(ctx *payloadCtx, next Handler[payloadCtx]) error {
		ctx.value *= 2
		ctx.order = append(ctx.order, "mw2-pre")
		err := next(ctx)
		ctx.order = append(ctx.order, "mw2-post")
		return err
	})

	ctx := &payloadCtx{value: 1}
	err := c.Run(ctx, func(ctx *payloadCtx) error {
		ctx.order = append(ctx.order, "handler")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.value != 4 {
		t.Errorf("value = %d, want 4 (mw1 +1 then mw2 *2)", ctx.value)
	}
	want := []string{"mw1-pre", "mw2-pre", "handler", "mw2-post", "mw1-post"}
	if len(ctx.order) != len(want) {
		t.Fatalf("order = %v, want %v", ctx.order, want)
	}
	for i := range want {
		if ctx.order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, ctx.order[i], want[i])
		}
	}
}

func TestChainShortCircuit(t *testing.T) {
	var c Chain[payloadCtx]
	called := false
	c.Use(func(ctx *payloadCtx, next Handler[payloadCtx]) error {
		return nil // does not call next
	})
	err := c.Run(&payloadCtx{}, func(ctx *payloadCtx) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("terminal handler should not run when middleware short-circuits")
	}
}
