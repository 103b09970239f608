package contracts

import (
	"github.com/meysamhadeli/resman/resource_manager"
	"github.com/meysamhadeli/resman/resource_manager/models"
)

type IResourcesManager interface {
	AddRootFolder(rootFolder string)
	AddArchive(archivePath string, rootFolder string) error
	AddLanguageFolder(languageID string, relativeFolder string)
	SetCurrentLanguage(languageID string)
	CurrentLanguage() string
	AddCategoryFolder(category string, folderName string)
	EnableCategory(category string)
	DisableCategory(category string)
	EnabledCategories() []string
	SetSearchByRelativePaths(enabled bool)
	AddSearchRoot(path string)
	SetIgnorePatterns(patterns ...string)
	Reset()

	FindFileRecord(filename string) *models.FileRecord
	Exists(filename string) bool
	GetSize(filename string) int64
	ReadData(filename string, buf []byte) int
	ReadAll(filename string) ([]byte, error)
	GetStream(filename string) (*resource_manager.Stream, error)
	WithStream(filename string, fn func(*resource_manager.Stream) error) (bool, error)

	Records(fn func(key string, record *models.FileRecord))
	RecordCount() int
	GetPerformanceStats() map[string]interface{}
}

var _ IResourcesManager = (*resource_manager.Manager)(nil)
