package schemas

import (
	"encoding/json"
	"fmt"
)

// tool names, used as the discriminator in decision JSON
const (
	ToolReportCompletion      = "report_completion"
	ToolListProducts          = "list_products"
	ToolViewBasket            = "view_basket"
	ToolAddProductToBasket    = "add_product_to_basket"
	ToolRemoveItemFromBasket  = "remove_item_from_basket"
	ToolApplyCoupon           = "apply_coupon"
	ToolRemoveCoupon          = "remove_coupon"
	ToolCheckoutBasket        = "checkout_basket"
	ToolComputeExpr           = "compute_expr"
	ToolParseStructured       = "parse_structured"
)

// ToolRequest is one member of the decision union. Concrete types carry the
// arguments of a single tool call.
type ToolRequest interface {
	ToolName() string
}

type ReportCompletion struct {
	Tool           string   `json:"tool"`
	CompletedSteps []string `json:"completed_steps"`
	Code           string   `json:"code"`
}

func (ReportCompletion) ToolName() string { return ToolReportCompletion }

type ListProducts struct {
	Tool  string `json:"tool"`
	Query string `json:"query,omitempty"`
	Page  int    `json:"page,omitempty"`
}

func (ListProducts) ToolName() string { return ToolListProducts }

type ViewBasket struct {
	Tool string `json:"tool"`
}

func (ViewBasket) ToolName() string { return ToolViewBasket }

type AddProductToBasket struct {
	Tool     string `json:"tool"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func (AddProductToBasket) ToolName() string { return ToolAddProductToBasket }

type RemoveItemFromBasket struct {
	Tool     string `json:"tool"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity,omitempty"`
}

func (RemoveItemFromBasket) ToolName() string { return ToolRemoveItemFromBasket }

type ApplyCoupon struct {
	Tool string `json:"tool"`
	Code string `json:"code"`
}

func (ApplyCoupon) ToolName() string { return ToolApplyCoupon }

type RemoveCoupon struct {
	Tool string `json:"tool"`
	Code string `json:"code,omitempty"`
}

func (RemoveCoupon) ToolName() string { return ToolRemoveCoupon }

type CheckoutBasket struct {
	Tool string `json:"tool"`
}

func (CheckoutBasket) ToolName() string { return ToolCheckoutBasket }

// ComputeExpr submits one expression to the sandbox. Mode tightens the
// output ceiling for validation proofs; Intent is a free-text tag for
// logging only.
type ComputeExpr struct {
	Tool        string `json:"tool"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Mode        string `json:"mode,omitempty"`
	Intent      string `json:"intent,omitempty"`
}

func (ComputeExpr) ToolName() string { return ToolComputeExpr }

type ParseStructured struct {
	Tool        string   `json:"tool"`
	Data        string   `json:"data"`
	Format      string   `json:"format,omitempty"`
	Delimiter   string   `json:"delimiter,omitempty"`
	ColumnNames []string `json:"column_names,omitempty"`
	Required    []string `json:"required,omitempty"`
}

func (ParseStructured) ToolName() string { return ToolParseStructured }

func decodeToolRequest(raw json.RawMessage) (ToolRequest, error) {
	var head struct {
		Tool string `json:"tool"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode tool request: %w", err)
	}

	var request ToolRequest
	switch head.Tool {
	case ToolReportCompletion:
		request = new(ReportCompletion)
	case ToolListProducts:
		request = new(ListProducts)
	case ToolViewBasket:
		request = new(ViewBasket)
	case ToolAddProductToBasket:
		request = new(AddProductToBasket)
	case ToolRemoveItemFromBasket:
		request = new(RemoveItemFromBasket)
	case ToolApplyCoupon:
		request = new(ApplyCoupon)
	case ToolRemoveCoupon:
		request = new(RemoveCoupon)
	case ToolCheckoutBasket:
		request = new(CheckoutBasket)
	case ToolComputeExpr:
		request = new(ComputeExpr)
	case ToolParseStructured:
		request = new(ParseStructured)
	default:
		return nil, fmt.Errorf("unknown tool: %q", head.Tool)
	}

	if err := json.Unmarshal(raw, request); err != nil {
		return nil, fmt.Errorf("decode %s request: %w", head.Tool, err)
	}
	return request, nil
}
