package resource_manager

import (
	"strings"
	"time"

	"github.com/meysamhadeli/resman/resource_manager/archive"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/meysamhadeli/resman/utils"
	"github.com/spf13/afero"
	"github.com/tliron/commonlog"
)

// ArchiveMount records an archive registered with AddArchive.
type ArchiveMount struct {
	Path       string
	RootFolder string
}

// Manager resolves filenames against indexed folders and archives and serves their data.
// It is not safe for concurrent use; callers that share one across goroutines must lock.
type Manager struct {
	fs       afero.Fs
	archives archive.Opener
	ids      IDSource
	log      commonlog.Logger

	store   *recordStore
	streams *streamTable
	stats   *LookupStats

	ignorePatterns        []string
	rootFoldersList       []string
	archiveList           []ArchiveMount
	languageID            string
	enabledCategories     map[string]struct{}
	searchRootsList       []string
	searchByRelativePaths bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithFs sets the filesystem folders and archives are read from. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithArchiveOpener replaces the zip reader used for archives.
func WithArchiveOpener(opener archive.Opener) Option {
	return func(m *Manager) {
		m.archives = opener
	}
}

// WithIDSource replaces the random source of stream handles.
func WithIDSource(ids IDSource) Option {
	return func(m *Manager) {
		m.ids = ids
	}
}

// WithIgnorePatterns skips folder entries and archive entries matching any glob pattern.
func WithIgnorePatterns(patterns ...string) Option {
	return func(m *Manager) {
		m.ignorePatterns = append(m.ignorePatterns, patterns...)
	}
}

// WithLogger sets the logger. Defaults to the "resman.resources" commonlog logger.
func WithLogger(logger commonlog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

// NewResourcesManager creates an empty manager.
func NewResourcesManager(options ...Option) *Manager {
	m := &Manager{
		store:             newRecordStore(),
		streams:           newStreamTable(),
		stats:             &LookupStats{LastResetTime: time.Now()},
		enabledCategories: make(map[string]struct{}),
		searchRootsList:   []string{""},
	}
	for _, option := range options {
		option(m)
	}

	if m.fs == nil {
		m.fs = afero.NewOsFs()
	}
	if m.archives == nil {
		m.archives = archive.NewZipOpener(m.fs)
	}
	if m.ids == nil {
		m.ids = UUIDSource{}
	}
	if m.log == nil {
		m.log = commonlog.GetLogger("resman.resources")
	}

	return m
}

// SetIgnorePatterns replaces the patterns that filter every folder walk and archive added later.
func (m *Manager) SetIgnorePatterns(patterns ...string) {
	m.ignorePatterns = append([]string(nil), patterns...)
}

// Reset forgets every record, overlay, search root and the language/category state.
// Streams that are already open stay open until closed.
func (m *Manager) Reset() {
	m.rootFoldersList = nil
	m.archiveList = nil
	m.store.reset()
	m.languageID = ""
	m.enabledCategories = make(map[string]struct{})
	m.searchRootsList = []string{""}
	m.searchByRelativePaths = false
}

// AddLanguageFolder tags everything below relativeFolder with languageID.
// It must be called before the folders or archives it applies to are added.
func (m *Manager) AddLanguageFolder(languageID string, relativeFolder string) {
	m.store.relativeFolderToLanguageID[strings.Trim(utils.NormalizeSeparators(relativeFolder), "/")] = languageID
}

// SetCurrentLanguage selects which language-tagged records are visible; "" selects none.
func (m *Manager) SetCurrentLanguage(languageID string) {
	m.languageID = languageID
}

// CurrentLanguage returns the language set by SetCurrentLanguage.
func (m *Manager) CurrentLanguage() string {
	return m.languageID
}

// AddCategoryFolder tags everything below any folder named folderName with category.
// Such folders do not take part in lookup keys.
func (m *Manager) AddCategoryFolder(category string, folderName string) {
	m.store.folderNameToCategory[folderName] = category
}

func (m *Manager) EnableCategory(category string) {
	m.enabledCategories[category] = struct{}{}
}

func (m *Manager) DisableCategory(category string) {
	delete(m.enabledCategories, category)
}

// EnabledCategories returns the enabled categories in no particular order.
func (m *Manager) EnabledCategories() []string {
	categories := make([]string, 0, len(m.enabledCategories))
	for category := range m.enabledCategories {
		categories = append(categories, category)
	}
	return categories
}

// SetSearchByRelativePaths switches keys from bare file names to paths relative to the
// root folder (or archive root). Records indexed before the switch keep their keys.
func (m *Manager) SetSearchByRelativePaths(enabled bool) {
	m.searchByRelativePaths = enabled
}

// AddSearchRoot appends a key prefix tried, in registration order, after the ones before it.
func (m *Manager) AddSearchRoot(path string) {
	m.searchRootsList = append(m.searchRootsList, utils.NormalizeSeparators(path))
}

// RootFolders returns the folders registered with AddRootFolder.
func (m *Manager) RootFolders() []string {
	return append([]string(nil), m.rootFoldersList...)
}

// Archives returns the archives AddArchive indexed without error.
func (m *Manager) Archives() []ArchiveMount {
	return append([]ArchiveMount(nil), m.archiveList...)
}

// Records calls fn for every indexed record, by key in lexical order then discovery order.
func (m *Manager) Records(fn func(key string, record *models.FileRecord)) {
	for _, key := range m.store.sortedKeys() {
		for _, record := range m.store.lookup(key) {
			fn(key, record)
		}
	}
}

// RecordCount returns the number of indexed records.
func (m *Manager) RecordCount() int {
	return m.store.len()
}

// normalizeKey derives the lookup key of a filename or relative path.
func (m *Manager) normalizeKey(path string) string {
	path = utils.NormalizeSeparators(path)
	if !m.searchByRelativePaths {
		path = utils.Basename(path)
	}
	return strings.ToLower(path)
}
