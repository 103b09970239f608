package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/meysamhadeli/resman/constants/lipgloss"
	"github.com/meysamhadeli/resman/resource_manager/contracts"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// ArchiveConfig describes one archive to index
type ArchiveConfig struct {
	Path       string `mapstructure:"path"`
	RootFolder string `mapstructure:"root_folder"`
}

// OverlayConfig tags a folder with a language or category id. A list is used rather than a
// map because viper lowercases map keys and ids are case-sensitive.
type OverlayConfig struct {
	ID     string `mapstructure:"id"`
	Folder string `mapstructure:"folder"`
}

// Config represents the structure of the configuration file
type Config struct {
	Version               string          `mapstructure:"version"`
	Theme                 string          `mapstructure:"theme"`
	RootFolders           []string        `mapstructure:"root_folders"`
	Archives              []ArchiveConfig `mapstructure:"archives"`
	LanguageFolders       []OverlayConfig `mapstructure:"language_folders"`
	CategoryFolders       []OverlayConfig `mapstructure:"category_folders"`
	EnabledCategories     []string        `mapstructure:"enabled_categories"`
	Language              string          `mapstructure:"language"`
	SearchRoots           []string        `mapstructure:"search_roots"`
	SearchByRelativePaths bool            `mapstructure:"search_by_relative_paths"`
	IgnorePatterns        []string        `mapstructure:"ignore_patterns"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:               "1.0.0",
	Theme:                 "dracula",
	RootFolders:           []string{},
	Archives:              []ArchiveConfig{},
	LanguageFolders:       []OverlayConfig{},
	CategoryFolders:       []OverlayConfig{},
	EnabledCategories:     []string{},
	Language:              "",
	SearchRoots:           []string{},
	SearchByRelativePaths: false,
	IgnorePatterns:        []string{},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	// Set default values using Viper
	setDefaults()

	// Automatically read environment variables
	viper.SetEnvPrefix("RESMAN")
	viper.AutomaticEnv()

	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if configType := GetConfigFileType(cfgFile); configType != "" {
			viper.SetConfigType(configType)
		}
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("resman-config")
		viper.AddConfigPath(cwd)

		// Support both JSON and YAML formats
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("root_folders", DefaultConfig.RootFolders)
	viper.SetDefault("archives", DefaultConfig.Archives)
	viper.SetDefault("language_folders", DefaultConfig.LanguageFolders)
	viper.SetDefault("category_folders", DefaultConfig.CategoryFolders)
	viper.SetDefault("enabled_categories", DefaultConfig.EnabledCategories)
	viper.SetDefault("language", DefaultConfig.Language)
	viper.SetDefault("search_roots", DefaultConfig.SearchRoots)
	viper.SetDefault("search_by_relative_paths", DefaultConfig.SearchByRelativePaths)
	viper.SetDefault("ignore_patterns", DefaultConfig.IgnorePatterns)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "RESMAN_THEME")
	_ = viper.BindEnv("language", "RESMAN_LANGUAGE")
	_ = viper.BindEnv("root_folders", "RESMAN_ROOT_FOLDERS")
	_ = viper.BindEnv("enabled_categories", "RESMAN_ENABLED_CATEGORIES")
	_ = viper.BindEnv("search_roots", "RESMAN_SEARCH_ROOTS")
	_ = viper.BindEnv("search_by_relative_paths", "RESMAN_SEARCH_BY_RELATIVE_PATHS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	_ = viper.BindPFlag("root_folders", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("enabled_categories", rootCmd.PersistentFlags().Lookup("category"))
	_ = viper.BindPFlag("search_roots", rootCmd.PersistentFlags().Lookup("search_root"))
	_ = viper.BindPFlag("search_by_relative_paths", rootCmd.PersistentFlags().Lookup("search_by_relative_paths"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that lists folders, archives and overlays.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set the syntax highlighting theme used by 'cat --highlight' (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().StringP("language", "l", DefaultConfig.Language, "Current language; records of that language folder win over generic ones.")
	rootCmd.PersistentFlags().StringSliceP("root", "r", DefaultConfig.RootFolders, "Root folders to index (repeatable).")
	rootCmd.PersistentFlags().StringSlice("category", DefaultConfig.EnabledCategories, "Categories to enable (repeatable).")
	rootCmd.PersistentFlags().StringSlice("search_root", DefaultConfig.SearchRoots, "Extra key prefixes tried when resolving names (repeatable).")
	rootCmd.PersistentFlags().Bool("search_by_relative_paths", DefaultConfig.SearchByRelativePaths, "Resolve names by path relative to their root instead of by file name.")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeatable).")

	// Version flag
	rootCmd.Flags().Bool("version", false, "Specifies the version of the application.")
}

// Apply registers the configured overlays, search roots, folders and archives with manager
// and sets its language and categories. Overlays go first since indexing consults them.
func (c *Config) Apply(manager contracts.IResourcesManager) error {
	manager.SetIgnorePatterns(c.IgnorePatterns...)

	for _, overlay := range c.LanguageFolders {
		manager.AddLanguageFolder(overlay.ID, overlay.Folder)
	}
	for _, overlay := range c.CategoryFolders {
		manager.AddCategoryFolder(overlay.ID, overlay.Folder)
	}

	manager.SetSearchByRelativePaths(c.SearchByRelativePaths)
	for _, searchRoot := range c.SearchRoots {
		manager.AddSearchRoot(searchRoot)
	}

	for _, rootFolder := range c.RootFolders {
		manager.AddRootFolder(rootFolder)
	}
	for _, archive := range c.Archives {
		if err := manager.AddArchive(archive.Path, archive.RootFolder); err != nil {
			return fmt.Errorf("failed to index archive %s: %w", archive.Path, err)
		}
	}

	manager.SetCurrentLanguage(c.Language)
	for _, category := range c.EnabledCategories {
		manager.EnableCategory(category)
	}

	return nil
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// ConfigFilePath returns the configuration file LoadConfigs reads: the --config flag, or the
// first resman-config.yaml, .yml or .json found in cwd. It returns "" when there is none.
func ConfigFilePath(cwd string) string {
	if cfgFile != "" {
		return cfgFile
	}

	for _, ext := range []string{"yaml", "yml", "json"} {
		path := fmt.Sprintf("%s/resman-config.%s", cwd, ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LoadConfigWithCache loads configuration with caching support
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) *Config {
	configFilePath := ConfigFilePath(cwd)

	if configFilePath == "" {
		return LoadConfigs(rootCmd, cwd)
	}

	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		return LoadConfigs(rootCmd, cwd)
	}

	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists {
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.config
		}
	}
	cacheMutex.RUnlock()

	config := LoadConfigs(rootCmd, cwd)

	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config
}

// GetConfigCacheStats returns statistics about the configuration cache
func GetConfigCacheStats() map[string]interface{} {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	stats := make(map[string]interface{})
	stats["cached_files"] = len(configCache)
	stats["cache_entries"] = make([]string, 0, len(configCache))

	for path := range configCache {
		stats["cache_entries"] = append(stats["cache_entries"].([]string), path)
	}

	return stats
}

// InvalidateConfigCache removes a specific config file from cache
func InvalidateConfigCache(configPath string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	delete(configCache, configPath)
}
