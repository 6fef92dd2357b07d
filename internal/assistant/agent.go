package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-pos-store/internal/reports"
	"go-pos-store/internal/store"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Agent is the admin-side assistant: a Gemini chat session whose tools
// are backed by the real catalog and reporting services, so answers about
// stock and revenue come from the database, not the model's imagination.
type Agent struct {
	catalog *store.CatalogStore
	reports *reports.Service
	apiKey  string
}

func New(catalog *store.CatalogStore, reports *reports.Service, apiKey string) *Agent {
	return &Agent{catalog: catalog, reports: reports, apiKey: apiKey}
}

// Run sends one user message through the model, executing at most one
// round of tool calls.
func (a *Agent) Run(ctx context.Context, userMessage string) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("assistant is not configured (missing GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the store assistant for a single-shop POS.

RULES:
1. STOCK/PRICE/DETAILS questions: call 'check_inventory' and read the JSON. Never say you cannot see the inventory.
2. RESTOCK: if asked to restock a product by name, call 'check_inventory' first to find its ID, then 'restock_product'.
3. REVENUE/SALES questions: use 'get_sales_report'.

USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full product list: ID, name, category, company, code, trade price, quantity and status.",
				},
				{
					Name:        "restock_product",
					Description: "Increase a product's stock by a positive amount using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
							"amount":     {Type: genai.TypeInteger, Description: "Units to add, must be positive"},
						},
						Required: []string{"product_id", "amount"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get total sales revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return a.executeCheckInventory(ctx, session)
			case "restock_product":
				return a.executeRestock(ctx, session, funcCall)
			case "get_sales_report":
				return a.executeSalesReport(ctx, session, funcCall)
			}
		}
	}

	return printResponse(resp), nil
}

func (a *Agent) executeCheckInventory(ctx context.Context, session *genai.ChatSession) (string, error) {
	products, err := a.catalog.GetProducts(nil)
	if err != nil {
		return "", err
	}

	type simpleProduct struct {
		ID       uint    `json:"id"`
		Name     string  `json:"name"`
		Category string  `json:"category"`
		Company  string  `json:"company"`
		Code     string  `json:"code"`
		Price    float64 `json:"price"`
		Stock    int     `json:"stock"`
		Status   string  `json:"status"`
	}
	var simpleList []simpleProduct
	for _, p := range products {
		simpleList = append(simpleList, simpleProduct{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Company:  p.Company,
			Code:     p.Code,
			Price:    p.TradePrice,
			Stock:    p.Quantity,
			Status:   p.Status,
		})
	}
	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}

	// One more round in case the model follows up with a restock.
	for _, part := range finalResp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok && funcCall.Name == "restock_product" {
			return a.executeRestock(ctx, session, funcCall)
		}
	}
	return printResponse(finalResp), nil
}

// restockArgs pulls the tool arguments out of the model's function call.
// The model is free to send anything, so the types are never trusted.
func restockArgs(args map[string]interface{}) (uint, int, bool) {
	id, idOK := args["product_id"].(float64)
	amount, amountOK := args["amount"].(float64)
	if !idOK || !amountOK || id < 0 {
		return 0, 0, false
	}
	return uint(id), int(amount), true
}

func (a *Agent) executeRestock(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) (string, error) {
	status := "Success"
	productID, amount, argsOK := restockArgs(funcCall.Args)
	if !argsOK {
		status = "Error: product_id and amount must be numbers"
	} else if ok, err := a.catalog.RestockProduct(productID, amount); err != nil {
		status = err.Error()
	} else if !ok {
		status = "Product ID not found"
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "restock_product",
		Response: map[string]interface{}{"status": status, "amount": amount},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func (a *Agent) executeSalesReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) (string, error) {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: dates must be in YYYY-MM-DD format.", nil
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	summary, err := a.reports.SalesSummary(start, end)
	if err != nil {
		return "", err
	}

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     summary.TotalRevenue,
			"sales_count": summary.TotalOrders,
		},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
