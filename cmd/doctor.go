package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/coderlink/internal/registry"
	"github.com/nextlevelbuilder/coderlink/internal/toolman"
	"github.com/nextlevelbuilder/coderlink/internal/userconf"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check environment, stored credentials and tool config health",
		RunE: func(cmd *cobra.Command, args []string) error {
			runDoctor(cmd)
			return nil
		},
	}
}

func runDoctor(cmd *cobra.Command) {
	fmt.Println("coderlink doctor")
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("  Go:       %s\n", runtime.Version())
	fmt.Println()

	path := flagConfigPath
	if path == "" {
		path = userconf.DefaultPath()
	}
	fmt.Printf("  Config:   %s", path)
	if _, err := os.Stat(path); err != nil {
		fmt.Println(" (NOT FOUND)")
	} else {
		fmt.Println(" (OK)")
	}

	store, err := openStore()
	if err != nil {
		fmt.Printf("  Config load error: %s\n", err)
		return
	}

	fmt.Println()
	fmt.Println("  Plans:")
	for _, d := range registry.Descriptors() {
		key := store.APIKeyFor(d.Plan)
		if key != "" {
			fmt.Printf("    %-12s %s\n", string(d.Plan)+":", maskKey(key))
		} else {
			fmt.Printf("    %-12s (no key)\n", string(d.Plan)+":")
		}
	}

	fmt.Println()
	fmt.Println("  Tools:")
	home, _ := os.UserHomeDir()
	mgr := newManager()
	for _, tool := range toolman.ProviderTools() {
		rel := toolConfigPaths[tool]
		abs := filepath.Join(home, strings.TrimPrefix(rel, "~/"))
		if _, err := os.Stat(abs); err != nil {
			fmt.Printf("    %-12s no config file\n", tool+":")
			continue
		}
		d, err := mgr.DetectConfig(tool)
		switch {
		case err != nil:
			fmt.Printf("    %-12s UNREADABLE: %s\n", tool+":", err)
		case d.Configured():
			fmt.Printf("    %-12s %s\n", tool+":", d.Plan)
		default:
			fmt.Printf("    %-12s present, not managed\n", tool+":")
		}
	}

	fmt.Println()
	fmt.Println("  External Tools:")
	checkBinary("npx")
	checkBinary("node")
	checkBinary("git")

	// Local plans get a reachability probe.
	fmt.Println()
	for _, d := range registry.Descriptors() {
		if !d.RequiresHealthCheck {
			continue
		}
		res := registry.CheckHealth(cmd.Context(), d.Plan, registry.HealthOptions{})
		if res.Reachable {
			line := res.URL
			if res.Model != "" {
				line += " (model " + res.Model + ")"
			}
			fmt.Printf("  %-12s %s\n", string(d.Plan)+":", line)
		} else {
			fmt.Printf("  %-12s no local server found\n", string(d.Plan)+":")
		}
	}

	fmt.Println()
	fmt.Println("Doctor check complete.")
}

func checkBinary(name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Printf("    %-12s NOT FOUND\n", name+":")
	} else {
		fmt.Printf("    %-12s %s\n", name+":", path)
	}
}
