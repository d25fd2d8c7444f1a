package main

import (
	"fmt"
	"os"
	"path/filepath"

	"edupulse/internal/api"
	"edupulse/internal/config"
	"edupulse/internal/export"
	"edupulse/internal/session"
	"edupulse/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "edupulse",
		Short: "Student analytics dashboard",
		Long:  "edupulse is a terminal dashboard for student learning analytics, recommendations, and admin monitoring.",
		RunE:  runDashboard,
	}

	var logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE:  runLogout,
	}

	var whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session, if any",
		RunE:  runWhoami,
	}

	var exportClass string
	var exportOutput string
	var exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export a class roster to XLSX without opening the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(exportClass, exportOutput)
		},
	}
	exportCmd.Flags().StringVar(&exportClass, "class", "", "class id to export (default: all classes)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file path")

	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "edupulse")
		if err != nil {
			return err
		}
		defer f.Close()
	}

	client := api.NewClient(cfg.APIBaseURL)
	store := session.NewStore(config.DataDir())
	return tui.Run(cfg, client, store)
}

func runLogout(cmd *cobra.Command, args []string) error {
	store := session.NewStore(config.DataDir())
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Session cleared")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	store := session.NewStore(config.DataDir())
	p, err := store.Load()
	if err != nil {
		return err
	}
	if p == nil {
		fmt.Println("Not logged in")
		return nil
	}
	if p.Role == session.RoleAdmin {
		fmt.Println("Logged in as admin")
		return nil
	}
	fmt.Printf("Logged in as student %s\n", p.StudentID)
	return nil
}

// runExport talks to the backend directly; it is usable without a
// stored session since the reporting endpoints need no credentials.
func runExport(classID, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	client := api.NewClient(cfg.APIBaseURL)

	if classID == "" {
		summary, err := client.AdminSummary()
		if err != nil {
			return err
		}
		classes, err := client.AdminClasses()
		if err != nil {
			return err
		}
		if output == "" {
			output = filepath.Join(config.DataDir(), "rekap-kelas.xlsx")
		}
		if err := export.Classes(*summary, classes, output); err != nil {
			return err
		}
		fmt.Printf("Exported %d classes to %s\n", len(classes), output)
		return nil
	}

	classes, err := client.AdminClasses()
	if err != nil {
		return err
	}
	var class *api.ClassSummary
	for i := range classes {
		if classes[i].ClassID == classID {
			class = &classes[i]
			break
		}
	}
	if class == nil {
		return fmt.Errorf("unknown class: %s", classID)
	}

	rows, err := client.StudentsByClass(classID)
	if err != nil {
		return err
	}
	if output == "" {
		output = filepath.Join(config.DataDir(), "rekap-"+classID+".xlsx")
	}
	if err := export.Roster(*class, rows, output); err != nil {
		return err
	}
	fmt.Printf("Exported %d students to %s\n", len(rows), output)
	return nil
}
