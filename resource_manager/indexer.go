package resource_manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/meysamhadeli/resman/resource_manager/archive"
	"github.com/meysamhadeli/resman/resource_manager/models"
	"github.com/meysamhadeli/resman/utils"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// AddRootFolder indexes every non-hidden file below rootFolder. A missing folder adds nothing.
// Patterns from the folder's own ignore file only filter this walk.
func (m *Manager) AddRootFolder(rootFolder string) {
	m.rootFoldersList = append(m.rootFoldersList, rootFolder)

	patterns := m.ignorePatterns
	rootPatterns, err := utils.GetIgnorePatterns(m.fs, rootFolder)
	if err != nil {
		m.log.Warningf("cannot read ignore file of %s: %v", rootFolder, err)
	} else if len(rootPatterns) > 0 {
		patterns = append(append([]string(nil), m.ignorePatterns...), rootPatterns...)
	}

	before := m.store.len()
	m.addFolderRecursive(rootFolder, "", "", "", "", patterns)
	m.log.Debugf("indexed %d files from %s", m.store.len()-before, rootFolder)
}

// addFolderRecursive walks one directory level. relativeFolder is the real path below the root,
// keyFolder the same path without category folders.
func (m *Manager) addFolderRecursive(rootFolder, relativeFolder, keyFolder, languageID, category string, patterns []string) {
	entries, err := afero.ReadDir(m.fs, utils.Combine(rootFolder, relativeFolder))
	if err != nil {
		return
	}

	if id, ok := m.store.languageForFolder(relativeFolder); ok {
		languageID = id
	}

	for _, entry := range entries {
		name := entry.Name()
		entryRelativePath := utils.Combine(relativeFolder, name)
		if utils.IsHidden(name) || utils.IsIgnored(name, entryRelativePath, patterns) {
			continue
		}

		if entry.IsDir() {
			childKeyFolder, childCategory := utils.Combine(keyFolder, name), category
			if c, ok := m.store.categoryForFolder(name); ok {
				childKeyFolder, childCategory = keyFolder, c
			}
			m.addFolderRecursive(rootFolder, entryRelativePath, childKeyFolder, languageID, childCategory, patterns)
			continue
		}

		record := &models.FileRecord{
			Filename:     name,
			FileType:     models.RegularFile,
			FilePath:     utils.Combine(rootFolder, entryRelativePath),
			RelativePath: entryRelativePath,
			LanguageID:   languageID,
			Category:     category,
		}
		record.Size = m.fileSize(record.FilePath)

		m.store.add(m.normalizeKey(utils.Combine(keyFolder, name)), record)
	}
}

// fileSize returns the size of the file at path or -1 when it cannot be queried.
func (m *Manager) fileSize(path string) int64 {
	info, err := m.fs.Stat(path)
	if err != nil {
		m.log.Warningf("cannot query size of %s: %v", path, err)
		return -1
	}
	return info.Size()
}

// AddArchive indexes the entries of the zip archive at archivePath. When rootFolder is set,
// only entries below it are indexed and the folder is stripped from their keys.
// An archive without entries is an error. Records added before a failure are kept, but only
// archives that were fully indexed are listed by Archives.
func (m *Manager) AddArchive(archivePath string, rootFolder string) (err error) {
	rootFolder = strings.Trim(utils.NormalizeSeparators(rootFolder), "/")

	zipFile, err := m.archives.Open(archivePath)
	if err != nil {
		return setupError("add archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveOpen, err))
	}
	defer func() {
		if closeErr := zipFile.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close archive %s: %w", archivePath, closeErr))
		}
	}()

	info, err := zipFile.GoToFirstEntry()
	if err != nil {
		return setupError("add archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveEnumerate, err))
	}

	seen := make(map[string]struct{})
	added := 0
	for {
		position, err := zipFile.CurrentPosition()
		if err != nil {
			return setupError("add archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveEnumerate, err))
		}

		if _, duplicate := seen[info.Name]; duplicate {
			return setupError("add archive", archivePath, fmt.Errorf("%w: %s", ErrDuplicateEntry, info.Name))
		}
		seen[info.Name] = struct{}{}

		if record, key, ok := m.archiveRecord(archivePath, rootFolder, info, position); ok {
			m.store.add(key, record)
			added++
		}

		info, err = zipFile.GoToNextEntry()
		if errors.Is(err, archive.ErrEndOfList) {
			break
		}
		if err != nil {
			return setupError("add archive", archivePath, fmt.Errorf("%w: %w", ErrArchiveEnumerate, err))
		}
	}

	m.archiveList = append(m.archiveList, ArchiveMount{Path: archivePath, RootFolder: rootFolder})
	m.log.Debugf("indexed %d entries from %s", added, archivePath)
	return nil
}

// archiveRecord builds the record and key of one entry, or reports false for entries
// that are skipped.
func (m *Manager) archiveRecord(archivePath, rootFolder string, info archive.EntryInfo, position models.EntryPosition) (*models.FileRecord, string, bool) {
	if info.IsDir || strings.HasSuffix(info.Name, "/") {
		return nil, "", false
	}

	relativePath := info.Name
	if rootFolder != "" {
		if !strings.HasPrefix(info.Name, rootFolder+"/") {
			return nil, "", false
		}
		relativePath = strings.TrimPrefix(info.Name, rootFolder+"/")
	}

	name := utils.Basename(relativePath)
	if utils.IsIgnored(name, relativePath, m.ignorePatterns) {
		return nil, "", false
	}

	category, keyPath := m.store.categoryForEntry(relativePath)

	fileType := models.CompressedFile
	if info.Stored {
		fileType = models.StoredFile
	}

	record := &models.FileRecord{
		Filename:    info.Name,
		FileType:    fileType,
		Size:        info.UncompressedSize,
		LanguageID:  m.store.languageForEntry(rootFolder, info.Name),
		Category:    category,
		ZipFilePath: archivePath,
		ZipFilePos:  position,
	}

	return record, m.normalizeKey(keyPath), true
}
