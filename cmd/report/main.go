package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"bizsight/pkg/core/agent"
	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/insight"
	"bizsight/pkg/core/report"
)

func main() {
	filePath := flag.String("file", "", "sales data file (CSV or XLSX)")
	withAI := flag.Bool("ai", false, "include AI insights (needs provider API key)")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("Error: -file is required.")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Critical: cannot open %s: %v", *filePath, err)
	}
	defer f.Close()

	table, err := dataset.ReadTable(f, *filePath)
	if err != nil {
		log.Fatalf("Critical: cannot read %s: %v", *filePath, err)
	}

	ds, err := dataset.Validate(dataset.MapToSchema(table))
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	if ds.Empty() {
		log.Fatal("Critical: no valid rows after validation.")
	}
	fmt.Printf("[LOAD] %s: %d valid rows\n", *filePath, ds.Len())

	var res *insight.Result
	if *withAI {
		configData, _ := os.ReadFile("config/models.yaml")
		var agentCfg agent.Config
		yaml.Unmarshal(configData, &agentCfg)
		mgr := agent.NewManager(agentCfg)

		r := insight.NewGenerator(mgr).BusinessInsights(context.Background(), ds)
		res = &r
		fmt.Printf("[INSIGHT] status=%s\n", r.Status)
	}

	fmt.Println()
	fmt.Println(report.Build(ds, res))
}
