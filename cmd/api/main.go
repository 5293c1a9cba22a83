package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"bizsight/pkg/api/analytics"
	"bizsight/pkg/api/auth"
	"bizsight/pkg/api/charts"
	"bizsight/pkg/api/insights"
	"bizsight/pkg/api/reports"
	"bizsight/pkg/api/simulation"
	"bizsight/pkg/api/upload"
	"bizsight/pkg/core/agent"
	"bizsight/pkg/core/risk"
	"bizsight/pkg/core/store"
)

var agentMgr *agent.Manager

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize agent manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr = agent.NewManager(agentCfg)

	// Risk rule thresholds (file optional, defaults apply)
	thresholds, err := risk.LoadThresholds("config/rules.hjson")
	if err != nil {
		fmt.Printf("[WARNING] Failed to load rule thresholds: %v\n", err)
		fmt.Println("  Falling back to defaults")
		thresholds = risk.DefaultThresholds()
	}
	analytics.InitHandler(thresholds)

	// Database is optional: accounts and the report archive need it,
	// everything else runs in memory.
	if store.Enabled() {
		if err := store.InitDB(context.Background()); err != nil {
			fmt.Printf("[WARNING] Database init failed: %v\n", err)
		} else {
			fmt.Println("[DB] Connected")
			defer store.Close()
		}
	} else {
		fmt.Println("[DB] No DATABASE_URL set, accounts and archive disabled")
	}

	// Upload and session endpoints
	http.HandleFunc("/api/upload", upload.HandleUpload)
	http.HandleFunc("/api/session/reset", upload.HandleReset)

	// Analytics endpoints
	http.HandleFunc("/api/metrics", analytics.HandleMetrics)
	http.HandleFunc("/api/trends", analytics.HandleTrends)
	http.HandleFunc("/api/risks", analytics.HandleRisks)

	// What-if simulation
	http.HandleFunc("/api/simulate", simulation.HandleSimulate)

	// AI insight endpoints
	insights.InitHandler(agentMgr)
	http.HandleFunc("/api/insight", insights.HandleInsights)
	http.HandleFunc("/api/insight/quick", insights.HandleQuickSummary)

	// Report endpoints
	http.HandleFunc("/api/report", reports.HandleReport)
	http.HandleFunc("/api/report/html", reports.HandleReportHTML)
	http.HandleFunc("/api/report/archive", reports.HandleArchive)
	http.HandleFunc("/api/reports", reports.HandleListArchive)

	// Chart series for the dashboard
	http.HandleFunc("/api/charts", charts.HandleChartData)

	// Accounts
	http.HandleFunc("/api/auth/signup", auth.HandleSignup)
	http.HandleFunc("/api/auth/login", auth.HandleLogin)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("API server starting on :%s...\n", port)
	fmt.Println("  - POST /api/upload")
	fmt.Println("  - POST /api/session/reset")
	fmt.Println("  - GET  /api/metrics")
	fmt.Println("  - GET  /api/trends")
	fmt.Println("  - GET  /api/risks")
	fmt.Println("  - POST /api/simulate")
	fmt.Println("  - POST /api/insight")
	fmt.Println("  - POST /api/insight/quick")
	fmt.Println("  - GET  /api/report")
	fmt.Println("  - GET  /api/report/html")
	fmt.Println("  - POST /api/report/archive")
	fmt.Println("  - GET  /api/reports")
	fmt.Println("  - GET  /api/charts")
	fmt.Println("  - POST /api/auth/signup")
	fmt.Println("  - POST /api/auth/login")

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
