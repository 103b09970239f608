package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/meysamhadeli/resman/resource_manager"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
language: fr
theme: monokai
root_folders:
  - /game
archives:
  - path: /packs/pack.zip
    root_folder: data
language_folders:
  - id: fr
    folder: res/fr
category_folders:
  - id: HD
    folder: hd
enabled_categories:
  - HD
search_roots:
  - extra
ignore_patterns:
  - "*.tmp"
`

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	viper.Reset()
	cfgFile = ""
	t.Cleanup(func() {
		viper.Reset()
		cfgFile = ""
		for _, path := range GetConfigCacheStats()["cache_entries"].([]string) {
			InvalidateConfigCache(path)
		}
	})

	cmd := &cobra.Command{Use: "resman"}
	InitFlags(cmd)
	return cmd
}

func TestLoadConfigs_ReadsYamlFromWorkingDirectory(t *testing.T) {
	cmd := newTestCommand(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resman-config.yaml"), []byte(testConfigYAML), 0644))

	cfg := LoadConfigs(cmd, dir)
	require.NotNil(t, cfg)

	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "monokai", cfg.Theme)
	assert.Equal(t, []string{"/game"}, cfg.RootFolders)
	assert.Equal(t, []ArchiveConfig{{Path: "/packs/pack.zip", RootFolder: "data"}}, cfg.Archives)
	assert.Equal(t, []OverlayConfig{{ID: "fr", Folder: "res/fr"}}, cfg.LanguageFolders)
	assert.Equal(t, []OverlayConfig{{ID: "HD", Folder: "hd"}}, cfg.CategoryFolders)
	assert.Equal(t, []string{"HD"}, cfg.EnabledCategories)
	assert.Equal(t, []string{"extra"}, cfg.SearchRoots)
	assert.Equal(t, []string{"*.tmp"}, cfg.IgnorePatterns)
}

func TestLoadConfigs_FlagsOverrideFile(t *testing.T) {
	cmd := newTestCommand(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigYAML), 0644))

	require.NoError(t, cmd.PersistentFlags().Set("config", path))
	require.NoError(t, cmd.PersistentFlags().Set("language", "de"))

	cfg := LoadConfigs(cmd, t.TempDir())
	assert.Equal(t, "de", cfg.Language)
	assert.Equal(t, "yaml", GetConfigFileType(path))
}

func TestLoadConfigs_Defaults(t *testing.T) {
	cmd := newTestCommand(t)

	cfg := LoadConfigs(cmd, t.TempDir())
	assert.Equal(t, DefaultConfig.Version, cfg.Version)
	assert.Equal(t, DefaultConfig.Theme, cfg.Theme)
	assert.Empty(t, cfg.RootFolders)
	assert.False(t, cfg.SearchByRelativePaths)
}

func TestLoadConfigWithCache(t *testing.T) {
	cmd := newTestCommand(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resman-config.yaml"), []byte(testConfigYAML), 0644))

	first := LoadConfigWithCache(cmd, dir)
	second := LoadConfigWithCache(cmd, dir)
	assert.Same(t, first, second)
	assert.Equal(t, 1, GetConfigCacheStats()["cached_files"])

	InvalidateConfigCache(filepath.Join(dir, "resman-config.yaml"))
	assert.Equal(t, 0, GetConfigCacheStats()["cached_files"])
}

func TestLoadConfigWithCache_ReloadsInvalidatedFile(t *testing.T) {
	cmd := newTestCommand(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "resman-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("language: fr\n"), 0644))
	info, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, "fr", LoadConfigWithCache(cmd, dir).Language)

	// same mtime, so only invalidation reveals the edit
	require.NoError(t, os.WriteFile(path, []byte("language: de\n"), 0644))
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime()))
	assert.Equal(t, "fr", LoadConfigWithCache(cmd, dir).Language)

	InvalidateConfigCache(ConfigFilePath(dir))
	assert.Equal(t, "de", LoadConfigWithCache(cmd, dir).Language)
}

func TestConfigFilePath(t *testing.T) {
	newTestCommand(t)
	dir := t.TempDir()
	assert.Equal(t, "", ConfigFilePath(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "resman-config.json"), []byte("{}"), 0644))
	assert.Equal(t, filepath.Join(dir, "resman-config.json"), ConfigFilePath(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "resman-config.yml"), []byte(""), 0644))
	assert.Equal(t, filepath.Join(dir, "resman-config.yml"), ConfigFilePath(dir))

	cfgFile = "/etc/resman.yaml"
	assert.Equal(t, "/etc/resman.yaml", ConfigFilePath(dir))
}

func TestApply(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/game/res/fr/title.txt", []byte("titre"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/game/res/title.txt", []byte("title"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/game/ui/hd/logo.png", []byte("hd"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/game/ui/logo.png", []byte("sd-logo"), 0644))

	cfg := &Config{
		RootFolders:       []string{"/game"},
		LanguageFolders:   []OverlayConfig{{ID: "fr", Folder: "res/fr"}},
		CategoryFolders:   []OverlayConfig{{ID: "HD", Folder: "hd"}},
		EnabledCategories: []string{"HD"},
		Language:          "fr",
	}

	manager := resource_manager.NewResourcesManager(resource_manager.WithFs(fs))
	require.NoError(t, cfg.Apply(manager))

	assert.Equal(t, "fr", manager.CurrentLanguage())
	assert.Equal(t, []string{"HD"}, manager.EnabledCategories())
	assert.Equal(t, int64(5), manager.GetSize("title.txt"))
	assert.Equal(t, "fr", manager.FindFileRecord("title.txt").LanguageID)
	assert.Equal(t, int64(2), manager.GetSize("logo.png"))
}

func TestApply_ReplacesIgnorePatterns(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/game/keep.txt", []byte("k"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/game/scratch.tmp", []byte("t"), 0644))

	manager := resource_manager.NewResourcesManager(
		resource_manager.WithFs(fs),
		resource_manager.WithIgnorePatterns("*.txt"),
	)
	cfg := &Config{RootFolders: []string{"/game"}, IgnorePatterns: []string{"*.tmp"}}
	require.NoError(t, cfg.Apply(manager))

	assert.True(t, manager.Exists("keep.txt"))
	assert.False(t, manager.Exists("scratch.tmp"))
}

func TestApply_ArchiveFailureStopsIndexing(t *testing.T) {
	cfg := &Config{Archives: []ArchiveConfig{{Path: "/missing.zip"}}}

	manager := resource_manager.NewResourcesManager(resource_manager.WithFs(afero.NewMemMapFs()))
	err := cfg.Apply(manager)

	require.Error(t, err)
	assert.True(t, resource_manager.IsSetupFatal(err))
	assert.ErrorIs(t, err, resource_manager.ErrArchiveOpen)
}
