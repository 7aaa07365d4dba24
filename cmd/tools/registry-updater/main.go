// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"crosslaunch-workers/internal/common/config"
	"crosslaunch-workers/internal/workers"
	"crosslaunch-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)
	syncPath := syncCmd.String("path", defaultRegistryPath, "Path to registry file")
	configPath := syncCmd.String("config", "", "Config file for timeouts and retries (default: configs/config.yaml lookup)")

	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		_ = syncCmd.Parse(os.Args[2:])
		changed, err := syncRegistry(*syncPath, *configPath)
		if err != nil {
			fmt.Printf("Error syncing registry: %v\n", err)
			os.Exit(1)
		}
		if changed {
			fmt.Printf("Registry %s updated.\n", *syncPath)
		} else {
			fmt.Printf("Registry %s already up to date.\n", *syncPath)
		}

	case "validate":
		_ = validateCmd.Parse(os.Args[2:])
		if err := validateRegistry(*validatePath); err != nil {
			fmt.Printf("Registry validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "list":
		for _, tt := range workers.TaskTypes() {
			fmt.Println(tt)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func syncRegistry(path, configPath string) (bool, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return false, fmt.Errorf("failed to load config: %w", err)
	}
	activities, err := workers.Activities(cfg)
	if err != nil {
		return false, err
	}

	reg, err := registry.LoadRegistry(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	if !registry.Merge(reg, activities, time.Now()) {
		return false, nil
	}
	if err := registry.Validate(reg); err != nil {
		return false, err
	}
	return true, registry.Save(reg, path)
}

// validateRegistry also fails when a running worker is missing from the file.
func validateRegistry(path string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := registry.Validate(reg); err != nil {
		return err
	}

	listed := make(map[string]bool, len(reg.Activities))
	for _, a := range reg.Activities {
		listed[a.TaskType] = true
	}
	for _, tt := range workers.TaskTypes() {
		if !listed[tt] {
			return fmt.Errorf("worker %s is not in the registry; run sync", tt)
		}
	}

	fmt.Printf("Found %d activities.\n", len(reg.Activities))
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  sync      Write the compiled-in worker catalog into the registry file
  validate  Validate the registry file against the running workers
  list      Print the task types this service works
  help      Show this help message

Examples:
  registry-updater sync -path configs/activity-registry.json -config configs/config.yaml
  registry-updater validate -path configs/activity-registry.json
` + "\n")
}
