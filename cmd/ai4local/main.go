package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/database"
	"github.com/ai4local/ai4local/internal/repository"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	outputPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	exportCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write the CSV to this file instead of the default name")

	customersCmd.AddCommand(importCmd)
	customersCmd.AddCommand(exportCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(customersCmd)
	rootCmd.AddCommand(activityCmd)
}

var rootCmd = &cobra.Command{
	Use:   "ai4local",
	Short: "ai4local manages the AI4Local database",
	Long:  `ai4local migrates the database and moves customer lists in and out of an organization. Settings come from the same environment as the API.`,
}

// openDB loads the configuration and connects to the configured database.
func openDB() *gorm.DB {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func parseOrgID(arg string) uint {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		log.Fatalf("Invalid organization id %q", arg)
	}
	return uint(id)
}

func customerService(db *gorm.DB) *service.CustomerService {
	activity := service.NewActivityService(repository.NewActivityLogRepository(db))
	return service.NewCustomerService(repository.NewCustomerRepository(db), repository.NewTransactor(db), activity)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		db := openDB()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate: %v", err)
		}
		fmt.Println("Schema migrated successfully")
	},
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Import or export customers",
}

var importCmd = &cobra.Command{
	Use:   "import [org-id] [file.csv]",
	Short: "Import customers from a CSV file",
	Long:  `Import customers from a CSV file with the header name,email,phone,tags. Rejected rows are listed and do not stop the import.`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		orgID := parseOrgID(args[0])
		filePath := args[1]

		file, err := os.Open(filePath)
		if err != nil {
			log.Fatalf("Failed to open file: %v", err)
		}
		defer file.Close()

		db := openDB()
		result, err := customerService(db).Import(context.Background(), orgID, filepath.Base(filePath), file)
		if err != nil {
			log.Fatalf("Failed to import customers: %v", err)
		}

		fmt.Println(result.Message)
		if len(result.Errors) > 0 {
			fmt.Printf("%d row(s) rejected:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Println("  - " + e)
			}
		}
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [org-id]",
	Short: "Export customers to a CSV file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID := parseOrgID(args[0])

		db := openDB()
		result, err := customerService(db).Export(context.Background(), orgID)
		if err != nil {
			log.Fatalf("Failed to export customers: %v", err)
		}

		path := outputPath
		if path == "" {
			path = result.Filename
		}
		if err := os.WriteFile(path, []byte(result.CSVData), 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}

		fmt.Printf("Customers exported to %s\n", path)
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity [org-id]",
	Short: "Show the latest activity of an organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		orgID := parseOrgID(args[0])

		db := openDB()
		activity := service.NewActivityService(repository.NewActivityLogRepository(db))
		page, err := activity.List(context.Background(), orgID, service.ActivityQuery{})
		if err != nil {
			log.Fatalf("Failed to list activity: %v", err)
		}

		for _, entry := range page.Activity {
			fmt.Printf("%s  %-7s %s #%d (user %d)\n",
				entry.CreatedAt.Format("2006-01-02 15:04:05"), entry.Action, entry.EntityType, entry.EntityID, entry.UserID)
			if verbose && len(entry.Details) > 0 {
				fmt.Printf("    %v\n", map[string]interface{}(entry.Details))
			}
		}
		fmt.Printf("%d of %d entries\n", len(page.Activity), page.Pagination.Total)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
