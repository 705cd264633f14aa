package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"taskbot/agents"
	"taskbot/schemas"
)

const demoTaskText = `The secret code is NcS9euQa reversed. Compute the code,
verify its length is 8, then buy one unit of SKU-1 and check out.`

// demoGenerator scripts the decisions a hosted model would make, so the
// whole loop runs offline.
type demoGenerator struct {
	calls int
}

func newDemoGenerator() *demoGenerator {
	return &demoGenerator{}
}

func (g *demoGenerator) Decide(ctx context.Context, transcript []agents.Message) (*schemas.NextStep, agents.Usage, error) {
	g.calls++

	decide := func(state string, completed bool, function schemas.ToolRequest) (*schemas.NextStep, agents.Usage, error) {
		return &schemas.NextStep{
			CurrentState:  state,
			Plan:          []string{"compute the code", "verify it", "buy SKU-1"},
			TaskCompleted: completed,
			Function:      function,
		}, agents.Usage{InputTokens: 100, OutputTokens: 30}, nil
	}

	switch g.calls {

	case 1:
		return decide("need the secret code", false, &schemas.ComputeExpr{
			Code:        `'NcS9euQa'[::-1]`,
			Description: "reverse the given string",
			Mode:        "analytics",
		})

	case 2:
		return decide("code computed, verifying", false, &schemas.ComputeExpr{
			Code:        `len(last_result)`,
			Description: "check the code length",
			Mode:        "validation",
			Intent:      "length check",
		})

	case 3:
		return decide("code verified, browsing", false, &schemas.ListProducts{})

	case 4:
		return decide("adding the product", false, &schemas.AddProductToBasket{
			SKU:      "SKU-1",
			Quantity: 1,
		})

	case 5:
		return decide("reviewing the basket", false, &schemas.ViewBasket{})

	case 6:
		return decide("checking out", false, &schemas.CheckoutBasket{})

	default:
		return decide("order placed", true, &schemas.ReportCompletion{
			CompletedSteps: []string{
				"computed the secret code",
				"verified its length",
				"bought one unit of SKU-1",
			},
			Code: agents.CodeCompleted,
		})
	}
}

// demoStore is an in-memory stand-in for the shop platform.
type demoStore struct {
	catalog map[string]map[string]any
	basket  map[string]int
	coupons map[string]bool
}

func newDemoStore() *demoStore {
	return &demoStore{
		catalog: map[string]map[string]any{
			"SKU-1": {"sku": "SKU-1", "name": "gadget", "price": "19.99"},
			"SKU-2": {"sku": "SKU-2", "name": "widget", "price": "5.00"},
		},
		basket:  make(map[string]int),
		coupons: make(map[string]bool),
	}
}

func (s *demoStore) Dispatch(ctx context.Context, request schemas.ToolRequest) schemas.ToolResult {
	switch request := request.(type) {

	case *schemas.ListProducts:
		var products []any
		for _, product := range s.catalog {
			products = append(products, product)
		}
		return schemas.Wrap(schemas.ToolListProducts, products, "")

	case *schemas.ViewBasket:
		return schemas.Wrap(schemas.ToolViewBasket, s.basketState(), "")

	case *schemas.AddProductToBasket:
		if _, ok := s.catalog[request.SKU]; !ok {
			return schemas.Wrap(schemas.ToolAddProductToBasket, nil,
				fmt.Sprintf("unknown sku: %s", request.SKU))
		}
		quantity := request.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		s.basket[request.SKU] += quantity
		return schemas.Wrap(schemas.ToolAddProductToBasket, s.basketState(), "")

	case *schemas.RemoveItemFromBasket:
		if _, ok := s.basket[request.SKU]; !ok {
			return schemas.Wrap(schemas.ToolRemoveItemFromBasket, nil,
				fmt.Sprintf("not in basket: %s", request.SKU))
		}
		if request.Quantity <= 0 || request.Quantity >= s.basket[request.SKU] {
			delete(s.basket, request.SKU)
		} else {
			s.basket[request.SKU] -= request.Quantity
		}
		return schemas.Wrap(schemas.ToolRemoveItemFromBasket, s.basketState(), "")

	case *schemas.ApplyCoupon:
		s.coupons[request.Code] = true
		return schemas.Wrap(schemas.ToolApplyCoupon, s.basketState(), "")

	case *schemas.RemoveCoupon:
		delete(s.coupons, request.Code)
		return schemas.Wrap(schemas.ToolRemoveCoupon, s.basketState(), "")

	case *schemas.CheckoutBasket:
		if len(s.basket) == 0 {
			return schemas.Wrap(schemas.ToolCheckoutBasket, nil, "basket is empty")
		}
		order := map[string]any{
			"order_id": uuid.NewString(),
			"items":    s.basketState(),
		}
		s.basket = make(map[string]int)
		return schemas.Wrap(schemas.ToolCheckoutBasket, order, "")

	default:
		data, _ := json.Marshal(request)
		return schemas.Wrap(request.ToolName(), nil,
			fmt.Sprintf("unsupported request: %s", data))
	}
}

func (s *demoStore) basketState() map[string]any {
	items := make([]any, 0, len(s.basket))
	for sku, quantity := range s.basket {
		items = append(items, map[string]any{
			"sku":      sku,
			"quantity": quantity,
		})
	}
	coupons := make([]string, 0, len(s.coupons))
	for code := range s.coupons {
		coupons = append(coupons, code)
	}
	return map[string]any{
		"items":   items,
		"coupons": coupons,
	}
}
