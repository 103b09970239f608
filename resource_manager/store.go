package resource_manager

import (
	"sort"
	"strings"

	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/meysamhadeli/resman/utils"
)

// recordStore maps normalized keys to their candidate records, in discovery order,
// and holds the overlay tables consulted while indexing.
type recordStore struct {
	records map[string][]*models.FileRecord

	relativeFolderToLanguageID map[string]string
	folderNameToCategory       map[string]string
}

func newRecordStore() *recordStore {
	return &recordStore{
		records:                    make(map[string][]*models.FileRecord),
		relativeFolderToLanguageID: make(map[string]string),
		folderNameToCategory:       make(map[string]string),
	}
}

func (s *recordStore) add(key string, record *models.FileRecord) {
	s.records[key] = append(s.records[key], record)
}

func (s *recordStore) lookup(key string) []*models.FileRecord {
	return s.records[key]
}

func (s *recordStore) len() int {
	n := 0
	for _, list := range s.records {
		n += len(list)
	}
	return n
}

// sortedKeys returns every key in lexical order.
func (s *recordStore) sortedKeys() []string {
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s *recordStore) languageForFolder(relativeFolder string) (string, bool) {
	languageID, ok := s.relativeFolderToLanguageID[relativeFolder]
	return languageID, ok
}

func (s *recordStore) categoryForFolder(folderName string) (string, bool) {
	category, ok := s.folderNameToCategory[folderName]
	return category, ok
}

// languageForEntry picks the language of the longest language folder that prefixes entryName.
func (s *recordStore) languageForEntry(rootFolder, entryName string) string {
	languageID, longest := "", -1
	for folder, id := range s.relativeFolderToLanguageID {
		prefix := utils.Combine(rootFolder, folder)
		if strings.HasPrefix(entryName, prefix) && len(prefix) > longest {
			languageID, longest = id, len(prefix)
		}
	}
	return languageID
}

// categoryForEntry finds category folders appearing anywhere inside relativePath. It returns
// the category of the deepest match and relativePath with every matched folder removed.
func (s *recordStore) categoryForEntry(relativePath string) (string, string) {
	category, deepest := "", -1
	keyPath := "/" + relativePath

	folders := make([]string, 0, len(s.folderNameToCategory))
	for folder := range s.folderNameToCategory {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	for _, folder := range folders {
		segment := "/" + folder + "/"
		pos := strings.LastIndex("/"+relativePath, segment)
		if pos < 0 {
			continue
		}
		if pos > deepest {
			category, deepest = s.folderNameToCategory[folder], pos
		}
		for strings.Contains(keyPath, segment) {
			keyPath = strings.ReplaceAll(keyPath, segment, "/")
		}
	}

	return category, strings.TrimPrefix(keyPath, "/")
}

func (s *recordStore) reset() {
	s.records = make(map[string][]*models.FileRecord)
	s.relativeFolderToLanguageID = make(map[string]string)
	s.folderNameToCategory = make(map[string]string)
}
