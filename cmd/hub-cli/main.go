package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"farmwork-hub-go/internal/auth"
	"farmwork-hub-go/internal/authclient"
	"farmwork-hub-go/internal/config"
	"farmwork-hub-go/internal/models"
	"farmwork-hub-go/internal/query"
	"farmwork-hub-go/internal/seed"
	"farmwork-hub-go/internal/validation"
)

func main() {
	var (
		configFile = flag.String("config", "config.json", "Configuration file path")
		command    = flag.String("cmd", "query", "Command to run: query, validate, session, config")
		search     = flag.String("search", "", "Search term matched against title, description and skills")
		category   = flag.String("category", "", "Filter by category (crop_farming, livestock, ...)")
		location   = flag.String("location", "", "Filter by location substring")
		jobType    = flag.String("job-type", "", "Filter by job type (temporary, seasonal, permanent, contract)")
		sortBy     = flag.String("sort", "newest", "Sort: newest, oldest, salary_high, salary_low, location, title")
		page       = flag.Int("page", 1, "Page number (1-indexed)")
		pageSize   = flag.Int("page-size", 10, "Page size")
		file       = flag.String("file", "", "JSON file with a job posting to validate")
		action     = flag.String("action", "status", "Session action: login, status, logout")
		email      = flag.String("email", "", "Email for session login")
		password   = flag.String("password", "", "Password for session login")
		output     = flag.String("output", "console", "Output format: console, json")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch *command {
	case "query":
		spec := models.FilterSpec{
			Search:   *search,
			Category: *category,
			Location: *location,
			JobType:  *jobType,
			SortBy:   *sortBy,
			Page:     *page,
			PageSize: *pageSize,
		}
		runQueryCommand(spec, *output)
	case "validate":
		runValidateCommand(*file, *output)
	case "session":
		runSessionCommand(cfg, *action, *email, *password)
	case "config":
		runConfigCommand(cfg, *output)
	default:
		fmt.Printf("Unknown command: %s\n", *command)
		printUsage()
		os.Exit(1)
	}
}

func runQueryCommand(spec models.FilterSpec, output string) {
	result := query.Run(seed.Jobs(), spec)

	if output == "json" {
		printJSON(result)
		return
	}

	fmt.Printf("Found %d matching jobs (showing %d):\n\n", result.TotalCount, len(result.Items))
	for _, job := range result.Items {
		boost := ""
		if job.IsBoosted {
			boost = " [boosted]"
		}
		fmt.Printf("  %s%s\n", job.Title, boost)
		fmt.Printf("    %s | %s | %.0f %s | %d workers\n\n",
			job.Location, job.Category, job.Salary, job.SalaryType, job.WorkersNeeded)
	}
}

func runValidateCommand(file, output string) {
	if file == "" {
		log.Fatal("validate requires -file with a job posting JSON")
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", file, err)
	}

	var form validation.JobPostingForm
	if err := json.Unmarshal(raw, &form); err != nil {
		log.Fatalf("Failed to parse %s: %v", file, err)
	}

	result := validation.ValidateJobPostingForm(form, time.Now())
	if output == "json" {
		printJSON(result)
		return
	}

	if result.IsValid {
		fmt.Println("Posting is valid.")
		return
	}
	fmt.Println("Posting is invalid:")
	for _, msg := range result.Errors {
		fmt.Printf("  - %s\n", msg)
	}
	os.Exit(1)
}

func runSessionCommand(cfg *config.Config, action, email, password string) {
	logger := zap.NewNop().Sugar()

	var service auth.TokenService
	if cfg.Auth.ServiceURL != "" {
		service = authclient.NewHTTPService(cfg.Auth.ServiceURL, cfg.Auth.RequestTimeout)
	} else {
		local := authclient.NewLocalService()
		for _, account := range seed.Accounts() {
			local.SeedUser(account.User, account.Password)
		}
		service = local
	}

	store, err := auth.NewFileKV(cfg.Auth.SessionFile)
	if err != nil {
		log.Fatalf("Failed to open session store: %v", err)
	}
	manager := auth.NewManager(service, store, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch action {
	case "login":
		form := validation.LoginForm{Email: email, Password: password}
		if result := validation.ValidateLoginForm(form); !result.IsValid {
			for _, msg := range result.Errors {
				fmt.Printf("  - %s\n", msg)
			}
			os.Exit(1)
		}
		if err := manager.Login(ctx, auth.Credentials{Email: email, Password: password}); err != nil {
			fmt.Printf("Login failed: %s\n", manager.State().Error)
			os.Exit(1)
		}
		state := manager.State()
		fmt.Printf("Logged in as %s %s (%s)\n", state.User.FirstName, state.User.LastName, state.User.Role)
	case "status":
		manager.Rehydrate(ctx)
		state := manager.State()
		if state.IsAuthenticated {
			fmt.Printf("Logged in as %s %s (%s)\n", state.User.FirstName, state.User.LastName, state.User.Role)
		} else {
			fmt.Println("Not logged in.")
		}
	case "logout":
		manager.Rehydrate(ctx)
		manager.Logout(ctx)
		fmt.Println("Logged out.")
	default:
		log.Fatalf("Unknown session action: %s", action)
	}
}

func runConfigCommand(cfg *config.Config, output string) {
	if output == "json" {
		printJSON(cfg)
		return
	}
	fmt.Printf("Server port:            %d\n", cfg.Server.Port)
	fmt.Printf("Rate limit:             %d req/min\n", cfg.Server.RateLimitPerMinute)
	fmt.Printf("Default page size:      %d\n", cfg.Jobs.DefaultPageSize)
	fmt.Printf("Client salary ceiling:  %.0f\n", cfg.Jobs.ClientSalaryCeiling)
	fmt.Printf("Posting salary ceiling: %.0f\n", cfg.Jobs.PostingSalaryCeiling)
	fmt.Printf("Supabase configured:    %v\n", cfg.Database.SupabaseURL != "")
	fmt.Printf("Auth service:           %s\n", orDefault(cfg.Auth.ServiceURL, "(local demo)"))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func printJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

func printUsage() {
	fmt.Println(`FarmWork Hub CLI

Usage:
  hub-cli -cmd query [-search term] [-category c] [-location l] [-job-type t] [-sort key] [-page n] [-page-size n]
  hub-cli -cmd validate -file posting.json
  hub-cli -cmd session -action login -email you@example.com -password secret
  hub-cli -cmd session -action status
  hub-cli -cmd session -action logout
  hub-cli -cmd config

Flags:
  -config   Configuration file path (default config.json)
  -output   console or json (default console)`)
}
