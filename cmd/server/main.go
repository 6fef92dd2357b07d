package main

import (
	"log"
	"time"

	"go-pos-store/internal/assistant"
	"go-pos-store/internal/checkout"
	"go-pos-store/internal/config"
	"go-pos-store/internal/database"
	"go-pos-store/internal/handlers"
	"go-pos-store/internal/idgen"
	"go-pos-store/internal/middleware"
	"go-pos-store/internal/reports"
	"go-pos-store/internal/store"
	"go-pos-store/internal/utils"

	"go-pos-store/internal/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	auth.Init(config.JWTSecret, config.JWTExpiration)
	idgen.Init()

	db, err := database.Connect(config.DBDriver, config.DBPath, config.DBDSN)
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}

	catalogStore := store.NewCatalogStore(db)
	salesStore := store.NewSalesStore(db)
	checkoutSvc := checkout.NewService(db, catalogStore, salesStore)
	reportSvc := reports.NewService(db)
	agent := assistant.New(catalogStore, reportSvc, config.GeminiAPIKey)

	authHandler := handlers.NewAuthHandler(salesStore)
	productHandler := handlers.NewProductHandler(catalogStore)
	counterHandler := handlers.NewCounterHandler(salesStore)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutSvc, salesStore)
	salesHandler := handlers.NewSalesHandler(salesStore)
	reportsHandler := handlers.NewReportsHandler(reportSvc, salesStore)
	assistantHandler := handlers.NewAssistantHandler(agent)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "online", "device_id": utils.DeviceID()})
	})
	r.POST("/login", authHandler.Login)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// CASHIER & ADMIN
		api.GET("/products", productHandler.GetProducts)
		api.GET("/products/scan/:code", productHandler.ScanProduct)
		api.GET("/products/:id/stock", productHandler.GetProductStock)
		api.GET("/products/categories", productHandler.GetCategories)
		api.GET("/products/companies", productHandler.GetCompanies)

		api.POST("/checkout", checkoutHandler.ProcessSale)
		api.POST("/checkout/validate", checkoutHandler.ValidateCart)
		api.GET("/sales/today", salesHandler.GetTodaysSales)
		api.GET("/sales/:id", salesHandler.GetSaleDetails)
		api.GET("/sales/:id/receipt", checkoutHandler.GetReceipt)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("/products", productHandler.AddProduct)
			admin.PUT("/products/:id", productHandler.UpdateProduct)
			admin.POST("/products/:id/restock", productHandler.RestockProduct)
			admin.DELETE("/products/:id", productHandler.DeleteProduct)

			admin.GET("/counters", counterHandler.GetCounters)
			admin.POST("/counters", counterHandler.AddCounter)
			admin.PUT("/counters/:id", counterHandler.UpdateCounter)
			admin.POST("/counters/:id/reset-password", counterHandler.ResetPassword)
			admin.DELETE("/counters/:id", counterHandler.DeleteCounter)
			admin.GET("/counters/:id/transactions", counterHandler.GetCounterTransactions)

			admin.GET("/sales", salesHandler.GetSalesHistory)
			admin.GET("/sales/by-cashier/:name", salesHandler.GetSalesByCashier)

			admin.GET("/reports", reportsHandler.GetSalesReport)
			admin.GET("/reports/valuation", reportsHandler.GetStockValuation)
			admin.GET("/reports/export/sales", reportsHandler.ExportSales)
			admin.GET("/reports/export/valuation", reportsHandler.ExportValuation)

			admin.POST("/ask", assistantHandler.Ask)
		}
	}

	log.Println("Server starting on " + config.BaseURL)
	if err := r.Run(":" + config.AppPort); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
