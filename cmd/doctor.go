package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/k1LoW/icongen"
	"github.com/k1LoW/icongen/config"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check icongen environment and configuration",
	Long:  `Check icongen environment and configuration to ensure an icon can be generated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Color setup
		green := color.New(color.FgGreen)
		red := color.New(color.FgRed)
		yellow := color.New(color.FgYellow)
		bold := color.New(color.Bold)
		w := cmd.OutOrStdout()

		allOK := true

		// 1. Check configuration file
		fmt.Fprint(w, "🔧 Checking configuration ... ")
		icon, cfg, err := resolveIcon(cmd)
		if err != nil {
			red.Fprintln(w, "✗ CONFIG ERROR")
			fmt.Fprintf(w, "   Error loading config: %v\n", err)
			return nil
		}
		green.Fprintln(w, "✓ OK")
		if cfg.Path() != "" {
			fmt.Fprintf(w, "   Config file: %s\n", cfg.Path())
		} else {
			fmt.Fprintln(w, "   No config file, using defaults")
		}

		// 2. Check font
		fmt.Fprint(w, "🔤 Checking font ... ")
		loader := icongen.NewFontLoader(config.FontCachePath(), nil)
		if _, err := loader.Face(ctx, icon.Font, icon.FontSize); err != nil {
			red.Fprintln(w, "✗ UNAVAILABLE")
			fmt.Fprintf(w, "   %v\n", err)
			allOK = false
		} else {
			green.Fprintln(w, "✓ OK")
			fmt.Fprintf(w, "   Font: %s\n", icon.Font)
		}

		// 3. Check output directory
		fmt.Fprint(w, "📁 Checking output directory ... ")
		dir := filepath.Dir(icon.Output)
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			red.Fprintln(w, "✗ NOT FOUND")
			fmt.Fprintf(w, "   Create it first: mkdir -p %s\n", dir)
			allOK = false
		} else if f, err := os.CreateTemp(dir, ".icongen-doctor-*"); err != nil {
			red.Fprintln(w, "✗ NOT WRITABLE")
			fmt.Fprintf(w, "   %v\n", err)
			allOK = false
		} else {
			_ = f.Close()
			_ = os.Remove(f.Name())
			green.Fprintln(w, "✓ OK")
			fmt.Fprintf(w, "   Output: %s\n", icon.Output)
		}

		// 4. Check hook shell (optional)
		if cfg.Hook != "" {
			fmt.Fprint(w, "🪝 Checking hook ... ")
			if _, err := icongen.DetectShell(); err != nil {
				yellow.Fprintln(w, "⚠️ NO SHELL")
				fmt.Fprintf(w, "   %v\n", err)
				allOK = false
			} else {
				green.Fprintln(w, "✓ OK")
				fmt.Fprintf(w, "   Hook: %s\n", cfg.Hook)
			}
		}

		// Final message
		fmt.Fprintln(w)
		if allOK {
			bold.Fprint(w, "🎉 ")
			green.Fprint(w, "All checks passed! You are ready to use icongen")
			bold.Fprintln(w, ".")
		} else {
			red.Fprintln(w, "⚠️  Setup is incomplete.")
			fmt.Fprintln(w, "\nPlease fix the issues above to generate the icon.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
